// Copyright (c) 2024, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

// Package cli implements the interactive console of the propagation model. It parses and executes CLI commands
// against a running entity.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/openthread/ban-propag/entity"
	"github.com/openthread/ban-propag/logger"
	"github.com/openthread/ban-propag/prng"
	"github.com/openthread/ban-propag/progctx"
	"github.com/openthread/ban-propag/radiomodel"
	"github.com/openthread/ban-propag/samples"
	. "github.com/openthread/ban-propag/types"
)

const (
	Prompt = "> "

	defaultFadeStatsPathloss = 60.0
	defaultFadeStatsCount    = 10000
)

type CommandContext struct {
	context.Context
	*Command
	rt     *CmdRunner
	err    error
	output io.Writer
}

func (cc *CommandContext) outputStr(msg string) {
	_, _ = fmt.Fprint(cc.output, msg)
}

func (cc *CommandContext) outputf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cc.output, format, args...)
}

func (cc *CommandContext) errorf(format string, args ...interface{}) {
	cc.error(errors.Errorf(format, args...))
}

func (cc *CommandContext) error(err error) {
	if err != nil {
		if cc.err != nil { // if previous error, print it now and keep the last.
			cc.outputf("Error: %s\n", cc.err)
		}
		cc.err = err
	}
}

// Err returns the last error that occurred during command execution.
func (cc *CommandContext) Err() error {
	return cc.err
}

func (cc *CommandContext) outputItemsAsYaml(items interface{}) {
	var itemsYaml yaml.Node

	err := itemsYaml.Encode(items)
	logger.PanicIfError(err)

	for _, content := range itemsYaml.Content {
		content.Style = yaml.FlowStyle
	}

	data, err := yaml.Marshal(&itemsYaml)
	logger.PanicIfError(err)

	_, err = cc.output.Write(data)
	logger.PanicIfError(err)
}

func (cc *CommandContext) outputAsFlowYaml(item interface{}) {
	var itemYaml yaml.Node

	err := itemYaml.Encode(item)
	logger.PanicIfError(err)
	itemYaml.Style = yaml.FlowStyle

	data, err := yaml.Marshal(&itemYaml)
	logger.PanicIfError(err)

	_, err = cc.output.Write(data)
	logger.PanicIfError(err)
}

// linkInfo is the console view of one link's series.
type linkInfo struct {
	Src       string  `yaml:"src"`
	Dst       string  `yaml:"dst"`
	Period    float64 `yaml:"period"`
	Declared  int     `yaml:"samples"`
	Filled    int     `yaml:"filled"`
	Discarded int     `yaml:"discarded,omitempty"`
}

type summaryInfo struct {
	Model     string `yaml:"model"`
	Version   string `yaml:"version"`
	Nodes     int    `yaml:"nodes"`
	Fading    string `yaml:"fading"`
	Records   int    `yaml:"records"`
	Links     int    `yaml:"links"`
	Abandoned int    `yaml:"abandoned"`
	Discarded int    `yaml:"discarded"`
}

type CmdRunner struct {
	ctx     *progctx.ProgCtx
	entity  *entity.Entity
	simTime SimTime
	fadeRnd prng.UnitSource
	help    Help
}

// NewCmdRunner creates a command runner operating on an initialized entity.
func NewCmdRunner(ctx *progctx.ProgCtx, en *entity.Entity) *CmdRunner {
	return &CmdRunner{
		ctx:     ctx,
		entity:  en,
		fadeRnd: prng.NewStream("cli-fadestats"),
		help:    newHelp(),
	}
}

func (rt *CmdRunner) HandleCommand(cmdline string, output io.Writer) error {
	if rt.ctx.Err() == nil {
		return rt.RunCommand(cmdline, output)
	}
	return rt.ctx.Err()
}

func (rt *CmdRunner) GetPrompt() string {
	return Prompt
}

// Completer completes console input on tab.
func (rt *CmdRunner) Completer() readline.AutoCompleter {
	return consoleCompleter(&rt.help)
}

// SimTime returns the console's current simulation time.
func (rt *CmdRunner) SimTime() SimTime {
	return rt.simTime
}

func (rt *CmdRunner) RunCommand(cmdline string, output io.Writer) error {
	if rt.ctx.Err() == nil {
		cmd := Command{}

		if err := parseBytes([]byte(cmdline), &cmd); err != nil {
			if _, err := fmt.Fprintf(output, "Error: %v\n", err); err != nil {
				return err
			}
		} else {
			rt.execute(&cmd, output)
		}
	}
	return rt.ctx.Err()
}

func (rt *CmdRunner) execute(cmd *Command, output io.Writer) {
	cc := &CommandContext{
		Context: rt.ctx,
		Command: cmd,
		rt:      rt,
		output:  output,
	}

	defer func() {
		if cc.Err() != nil {
			cc.outputf("Error: %v\n", cc.Err())
		} else {
			cc.outputf("Done\n")
		}
	}()

	defer func() {
		rerr := recover()

		if rerr != nil {
			if err, ok := rerr.(error); ok {
				cc.err = errors.Wrapf(err, "panic: %v", err)
			} else {
				cc.err = errors.Errorf("panic: %v", rerr)
			}
		}
	}()

	if cmd.Propagate != nil {
		rt.executePropagate(cc, cmd.Propagate)
	} else if cmd.Link != nil {
		rt.executeLink(cc, cmd.Link)
	} else if cmd.Links != nil {
		rt.executeLinks(cc, cmd.Links)
	} else if cmd.Fading != nil {
		rt.executeFading(cc)
	} else if cmd.FadeStats != nil {
		rt.executeFadeStats(cc, cmd.FadeStats)
	} else if cmd.Go != nil {
		rt.executeGo(cc, cmd.Go)
	} else if cmd.Time != nil {
		rt.executeTime(cc)
	} else if cmd.Summary != nil {
		rt.executeSummary(cc)
	} else if cmd.LogLevel != nil {
		rt.executeLogLevel(cc, cmd.LogLevel)
	} else if cmd.Help != nil {
		rt.executeHelp(cc, cmd.Help)
	} else if cmd.Exit != nil {
		rt.executeExit(cc)
	} else {
		logger.Panicf("unimplemented command: %#v", cmd)
	}
}

func (rt *CmdRunner) engine(cc *CommandContext) *radiomodel.Engine {
	engine := rt.entity.Engine()
	if engine == nil {
		cc.error(entity.ErrNotInitialized)
	}
	return engine
}

func (rt *CmdRunner) resolveLink(cc *CommandContext, srcSel, dstSel NodeSelector) (src NodeId, dst NodeId, ok bool) {
	var err error
	if src, err = srcSel.NodeId(); err != nil {
		cc.error(err)
		return
	}
	if dst, err = dstSel.NodeId(); err != nil {
		cc.error(err)
		return
	}
	return src, dst, true
}

func parseSimTime(s string) (SimTime, error) {
	dur, err := time.ParseDuration(s)
	if err != nil {
		dur, err = time.ParseDuration(s + "s") // try parsing as seconds
		if err != nil {
			return 0, errors.Errorf("could not parse time duration: %s", s)
		}
	}
	if dur < 0 {
		return 0, errors.Errorf("negative time duration: %s", s)
	}
	return SimTime(dur.Nanoseconds()), nil
}

func (rt *CmdRunner) executePropagate(cc *CommandContext, cmd *PropagateCmd) {
	engine := rt.engine(cc)
	if engine == nil {
		return
	}
	src, dst, ok := rt.resolveLink(cc, cmd.Src, cmd.Dst)
	if !ok {
		return
	}

	ts := rt.simTime
	if cmd.At != nil {
		var err error
		if ts, err = parseSimTime(*cmd.At); err != nil {
			cc.error(err)
			return
		}
	}
	rx := 0.0
	if cmd.RxPw != nil {
		var err error
		if rx, err = parseNumber(*cmd.RxPw); err != nil {
			cc.error(err)
			return
		}
	}

	res := engine.PropagateDetailed(src, dst, SimTimeToSeconds(ts), rx)
	if res.PassThrough != radiomodel.NoPassThrough {
		cc.outputf("%s -> %s at %f s: %.3f dBm (pass-through: %s)\n", BodyPositionName(src), BodyPositionName(dst),
			SimTimeToSeconds(ts), res.RxPowerDbm, res.PassThrough)
		return
	}
	cc.outputf("%s -> %s at %f s: %.3f dBm (index %d, pathloss %.3f dB, fading %.3f dB)\n",
		BodyPositionName(src), BodyPositionName(dst), SimTimeToSeconds(ts), res.RxPowerDbm, res.Index,
		res.PathlossDb, res.FadingDb)
}

func newLinkInfo(link samples.Link, series *samples.Series) linkInfo {
	return linkInfo{
		Src:       BodyPositionName(link.Src),
		Dst:       BodyPositionName(link.Dst),
		Period:    series.Period,
		Declared:  series.DeclaredCount(),
		Filled:    series.FilledCount(),
		Discarded: series.Discarded(),
	}
}

func (rt *CmdRunner) executeLink(cc *CommandContext, cmd *LinkCmd) {
	engine := rt.engine(cc)
	if engine == nil {
		return
	}
	src, dst, ok := rt.resolveLink(cc, cmd.Src, cmd.Dst)
	if !ok {
		return
	}
	series, err := engine.Store().SeriesFor(src, dst)
	if err != nil {
		cc.error(err)
		return
	}
	if !series.IsAllocated() {
		cc.errorf("no samples for link %s -> %s", BodyPositionName(src), BodyPositionName(dst))
		return
	}
	cc.outputAsFlowYaml(newLinkInfo(samples.Link{Src: src, Dst: dst}, series))
	cc.outputAsFlowYaml(series.Values())
}

func (rt *CmdRunner) executeLinks(cc *CommandContext, cmd *LinksCmd) {
	engine := rt.engine(cc)
	if engine == nil {
		return
	}
	links := engine.Store().Links()
	if cmd.Node != nil {
		id, err := cmd.Node.NodeId()
		if err != nil {
			cc.error(err)
			return
		}
		links = slices.DeleteFunc(links, func(l samples.Link) bool {
			return l.Src != id && l.Dst != id
		})
	}

	infos := make([]linkInfo, 0, len(links))
	for _, link := range links {
		series, err := engine.Store().SeriesFor(link.Src, link.Dst)
		logger.PanicIfError(err)
		infos = append(infos, newLinkInfo(link, series))
	}
	cc.outputItemsAsYaml(infos)
}

func (rt *CmdRunner) executeFading(cc *CommandContext) {
	engine := rt.engine(cc)
	if engine == nil {
		return
	}
	cc.outputf("%v\n", engine.FadingModel())
}

func (rt *CmdRunner) executeFadeStats(cc *CommandContext, cmd *FadeStatsCmd) {
	engine := rt.engine(cc)
	if engine == nil {
		return
	}
	pathloss := defaultFadeStatsPathloss
	if cmd.Pathloss != nil {
		var err error
		if pathloss, err = parseNumber(*cmd.Pathloss); err != nil {
			cc.error(err)
			return
		}
	}
	n := defaultFadeStatsCount
	if cmd.Count != nil {
		n = *cmd.Count
	}
	if n <= 0 {
		cc.errorf("sample count must be positive: %d", n)
		return
	}

	mean, std := radiomodel.FadingStats(pathloss, engine.FadingModel(), rt.fadeRnd, n)
	cc.outputf("%v at %.3f dB over %d draws: mean %.4f dB, std %.4f dB\n", engine.FadingModel(), pathloss, n,
		mean, std)
}

func (rt *CmdRunner) executeGo(cc *CommandContext, cmd *GoCmd) {
	dur, err := parseSimTime(cmd.Time)
	if err != nil {
		cc.error(err)
		return
	}
	rt.simTime += dur
	logger.Debugf("console time advanced to %f s", SimTimeToSeconds(rt.simTime))
}

func (rt *CmdRunner) executeTime(cc *CommandContext) {
	cc.outputf("%f s\n", SimTimeToSeconds(rt.simTime))
}

func (rt *CmdRunner) executeSummary(cc *CommandContext) {
	engine := rt.engine(cc)
	if engine == nil {
		return
	}
	sum := rt.entity.Summary()
	cc.outputAsFlowYaml(summaryInfo{
		Model:     entity.ModelName,
		Version:   entity.ModelVersion,
		Nodes:     engine.Store().NodeCount(),
		Fading:    engine.FadingModel().String(),
		Records:   sum.Records,
		Links:     sum.Links,
		Abandoned: sum.Abandoned,
		Discarded: sum.Discarded,
	})
}

func (rt *CmdRunner) executeLogLevel(cc *CommandContext, cmd *LogLevelCmd) {
	if cmd.Level == "" {
		cc.outputf("%v\n", logger.GetLevelString(logger.GetLevel()))
	} else {
		lv, err := logger.ParseLevelString(cmd.Level)
		if err != nil {
			cc.error(err)
			return
		}
		logger.SetLevel(lv)
	}
}

func (rt *CmdRunner) executeHelp(cc *CommandContext, cmd *HelpCmd) {
	if len(cmd.HelpTopic) > 0 {
		cc.outputStr(rt.help.outputCommandHelp(cmd.HelpTopic))
	} else {
		cc.outputStr(rt.help.outputGeneralHelp())
	}
}

func (rt *CmdRunner) executeExit(cc *CommandContext) {
	rt.ctx.Cancel("exit")
}
