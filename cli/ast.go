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

package cli

import (
	"strconv"

	"github.com/alecthomas/participle"
	"github.com/pkg/errors"

	. "github.com/openthread/ban-propag/types"
)

// noinspection GoStructTag
type Command struct {
	Exit      *ExitCmd      `  @@` //nolint
	FadeStats *FadeStatsCmd `| @@` //nolint
	Fading    *FadingCmd    `| @@` //nolint
	Go        *GoCmd        `| @@` //nolint
	Help      *HelpCmd      `| @@` //nolint
	Links     *LinksCmd     `| @@` //nolint
	Link      *LinkCmd      `| @@` //nolint
	LogLevel  *LogLevelCmd  `| @@` //nolint
	Propagate *PropagateCmd `| @@` //nolint
	Summary   *SummaryCmd   `| @@` //nolint
	Time      *TimeCmd      `| @@` //nolint
}

// NodeSelector selects a node by number or by body-position acronym.
// noinspection GoStructTag
type NodeSelector struct {
	Id   *int    `  @Int`   //nolint
	Name *string `| @Ident` //nolint
}

// NodeId resolves the selector to a node number.
func (ns NodeSelector) NodeId() (NodeId, error) {
	if ns.Id != nil {
		return *ns.Id, nil
	}
	if ns.Name != nil {
		if pos := ParseBodyPosition(*ns.Name); pos != PosUndefined {
			return pos, nil
		}
		return InvalidNodeId, errors.Errorf("unknown body position: %s", *ns.Name)
	}
	return InvalidNodeId, errors.Errorf("no node selected")
}

// noinspection GoStructTag
type ExitCmd struct {
	Cmd struct{} `"exit"` //nolint
}

// noinspection GoStructTag
type FadeStatsCmd struct {
	Cmd      struct{} `"fadestats"`                         //nolint
	Pathloss *string  `( "pathloss" @( ["-"] (Int|Float) )` //nolint
	Count    *int     `| "n" @Int )*`                       //nolint
}

// noinspection GoStructTag
type FadingCmd struct {
	Cmd struct{} `"fading"` //nolint
}

// noinspection GoStructTag
type GoCmd struct {
	Cmd  struct{} `"go"`                                       //nolint
	Time string   `@((Int|Float)["h"|"us"|"m"|"ms"|"s"|"ns"])` //nolint
}

// noinspection GoStructTag
type HelpCmd struct {
	Cmd       struct{} `"help"`       //nolint
	HelpTopic string   `[ (@Ident) ]` //nolint
}

// noinspection GoStructTag
type LinkCmd struct {
	Cmd struct{}     `"link"` //nolint
	Src NodeSelector `@@`     //nolint
	Dst NodeSelector `@@`     //nolint
}

// noinspection GoStructTag
type LinksCmd struct {
	Cmd  struct{}      `"links"` //nolint
	Node *NodeSelector `[ @@ ]`  //nolint
}

// noinspection GoStructTag
type LogLevelCmd struct {
	Cmd   struct{} `"log"`                                                                             //nolint
	Level string   `[@( "trace"|"debug"|"info"|"note"|"warn"|"error"|"off"|"T"|"D"|"I"|"N"|"W"|"E" )]` //nolint
}

// noinspection GoStructTag
type PropagateCmd struct {
	Cmd  struct{}     `"propagate"`                                       //nolint
	Src  NodeSelector `@@`                                                //nolint
	Dst  NodeSelector `@@`                                                //nolint
	At   *string      `( "at" @((Int|Float)["h"|"us"|"m"|"ms"|"s"|"ns"])` //nolint
	RxPw *string      `| "rx" @( ["-"] (Int|Float) ) )*`                  //nolint
}

// noinspection GoStructTag
type SummaryCmd struct {
	Cmd struct{} `"summary"` //nolint
}

// noinspection GoStructTag
type TimeCmd struct {
	Cmd struct{} `"time"` //nolint
}

var (
	commandParser = participle.MustBuild(&Command{})
)

func parseBytes(b []byte, cmd *Command) error {
	err := commandParser.ParseBytes(b, cmd)
	return err
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Errorf("invalid number: %s", s)
	}
	return v, nil
}
