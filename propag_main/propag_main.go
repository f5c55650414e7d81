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

package propag_main

import (
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/simonlingoogle/go-simplelogger"
	"google.golang.org/grpc"

	"github.com/openthread/ban-propag/cli"
	"github.com/openthread/ban-propag/config"
	"github.com/openthread/ban-propag/entity"
	"github.com/openthread/ban-propag/logger"
	"github.com/openthread/ban-propag/metrics"
	"github.com/openthread/ban-propag/progctx"
	"github.com/openthread/ban-propag/service"
)

type MainArgs struct {
	ParamsFile      string
	DescriptionFile string
	FadingModel     string
	NodeCount       int
	RandomSeed      int64
	LogLevel        string
	GrpcAddr        string
	MetricsAddr     string
	NoCli           bool
	HistoryFile     string
}

var (
	args MainArgs
)

func parseArgs() {
	flag.StringVar(&args.ParamsFile, "params", "", "specify the YAML setup parameter file of the propagation model.")
	flag.StringVar(&args.DescriptionFile, "data", "", "specify the data description file (overrides the parameter file).")
	flag.StringVar(&args.FadingModel, "fading", "", "set the fading model: none, rician, nakagami, rayleigh (overrides the parameter file).")
	flag.IntVar(&args.NodeCount, "nodes", 13, "set the number of nodes of the simulated body area network.")
	flag.Int64Var(&args.RandomSeed, "seed", 0, "set the random seed of the fading generator; 0 uses an independent random stream.")
	flag.StringVar(&args.LogLevel, "log", "info", "set logging level: trace, debug, info, note, warn, error, off.")
	flag.StringVar(&args.GrpcAddr, "grpc", "localhost:9090", "specify the gRPC propagation service listen address; empty disables it.")
	flag.StringVar(&args.MetricsAddr, "metrics", "", "specify the Prometheus metrics listen address, e.g. localhost:9091; empty disables it.")
	flag.BoolVar(&args.NoCli, "no-cli", false, "run without the interactive console, until a signal is received.")
	flag.StringVar(&args.HistoryFile, "history", "", "specify the console history file.")

	flag.Parse()
}

// simpleLevel maps a log level onto the coarser levels of the program-context logger.
func simpleLevel(level logger.Level) simplelogger.Level {
	switch {
	case level >= logger.DebugLevel:
		return simplelogger.DebugLevel
	case level >= logger.InfoLevel:
		return simplelogger.InfoLevel
	case level >= logger.WarnLevel:
		return simplelogger.WarnLevel
	default:
		return simplelogger.ErrorLevel
	}
}

// setupParams merges the parameter file with the command line overrides.
func setupParams() (config.Params, error) {
	var params config.Params
	if args.ParamsFile != "" {
		var err error
		if params, err = config.LoadFile(args.ParamsFile); err != nil {
			return nil, err
		}
	}
	if args.DescriptionFile != "" {
		params.Set(config.KeyDataDescriptionFile, args.DescriptionFile)
	}
	if args.FadingModel != "" {
		params.Set(config.KeyFadingModel, args.FadingModel)
	}
	if args.RandomSeed != 0 {
		params.Set(config.KeyRandomSeed, strconv.FormatInt(args.RandomSeed, 10))
	}
	return params, nil
}

// Main runs the propagation model until the console exits or a signal arrives. It returns the error that
// stopped the program, if any.
func Main(ctx *progctx.ProgCtx, cliOptions *cli.CliOptions) error {
	parseArgs()

	level, err := logger.ParseLevelString(args.LogLevel)
	if err != nil {
		simplelogger.Fatalf("%v", err)
	}
	logger.SetLevel(level)
	simplelogger.SetLevel(simpleLevel(level))

	handleSignals(ctx)

	params, err := setupParams()
	if err != nil {
		logger.Fatalf("reading setup parameters failed: %v", err)
	}

	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	logger.PanicIfError(err)

	en := entity.New("ban-propag", args.NodeCount, collector)
	if err = en.Init(params); err != nil {
		logger.Fatalf("propagation model setup failed: %v", err)
	}
	logger.Infof("%s %s by %s ready.", entity.ModelName, entity.ModelVersion, entity.ModelAuthor)

	if args.GrpcAddr != "" {
		if err = serveGrpc(ctx, en); err != nil {
			ctx.Cancel(err)
		}
	}
	if args.MetricsAddr != "" {
		serveMetrics(ctx, collector)
	}

	if !args.NoCli && ctx.Err() == nil {
		if cliOptions == nil {
			cliOptions = cli.DefaultCliOptions()
		}
		cliOptions.HistoryFile = args.HistoryFile
		logger.SetStdoutCallback(cli.Cli)
		ctx.Defer(func() {
			_ = os.Stdin.Close()
		})

		// run console in the main goroutine
		cli.RunConsole(ctx, cli.NewCmdRunner(ctx, en), cliOptions)
	} else {
		<-ctx.Done()
	}

	logger.Debugf("waiting for the propagation model to stop gracefully ...")
	ctx.Wait()
	if err = en.Destroy(); err != nil {
		logger.Errorf("destroy: %v", err)
	}
	return ctx.ExitErr()
}

func serveGrpc(ctx *progctx.ProgCtx, en *entity.Entity) error {
	lis, err := net.Listen("tcp", args.GrpcAddr)
	if err != nil {
		return errors.Wrapf(err, "gRPC listen on %s", args.GrpcAddr)
	}

	server := grpc.NewServer()
	service.RegisterPropagationServer(server, service.NewServer(en.Engine()))
	ctx.Defer(server.GracefulStop)

	logger.Infof("gRPC propagation service listening on %s", lis.Addr())
	ctx.Go("grpc", func() error {
		return server.Serve(lis)
	})
	return nil
}

func serveMetrics(ctx *progctx.ProgCtx, collector *metrics.Collector) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(collector.Gatherer(), promhttp.HandlerOpts{}))
	server := &http.Server{Addr: args.MetricsAddr, Handler: mux}
	ctx.Defer(func() {
		_ = server.Close()
	})

	logger.Infof("metrics available on http://%s/metrics", args.MetricsAddr)
	ctx.Go("metrics", func() error {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
}

func handleSignals(ctx *progctx.ProgCtx) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)

	ctx.WaitAdd("handleSignals", 1)
	go func() {
		defer simplelogger.Debugf("handleSignals exit.")
		defer ctx.WaitDone("handleSignals")

		for {
			select {
			case sig := <-c:
				simplelogger.Infof("signal received: %v", sig)
				ctx.Cancel(nil)
			case <-ctx.Done():
				return
			}
		}
	}()
}
