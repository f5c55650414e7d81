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

// ban-propag-client queries a running propagation model over its gRPC service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/openthread/ban-propag/logger"
	"github.com/openthread/ban-propag/service"
	. "github.com/openthread/ban-propag/types"
)

var args struct {
	Addr    string
	Src     string
	Dst     string
	Time    float64
	RxDbm   float64
	Info    bool
	Timeout time.Duration
}

func parseArgs() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -src <node> -dst <node> [-t <seconds>] [-rx <dBm>] [-info]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  Nodes are numbers or body positions (hip, back, ..., lear).\n")
		flag.PrintDefaults()
	}
	flag.StringVar(&args.Addr, "addr", "localhost:9090", "address of the propagation service")
	flag.StringVar(&args.Src, "src", "", "source node")
	flag.StringVar(&args.Dst, "dst", "", "destination node")
	flag.Float64Var(&args.Time, "t", 0, "simulation time (s)")
	flag.Float64Var(&args.RxDbm, "rx", 0, "incoming power estimate (dBm)")
	flag.BoolVar(&args.Info, "info", false, "show the link's series instead of propagating")
	flag.DurationVar(&args.Timeout, "timeout", 5*time.Second, "request timeout")
	flag.Parse()

	if args.Src == "" || args.Dst == "" {
		flag.Usage()
		os.Exit(1)
	}
}

func parseNode(s string) NodeId {
	id := ParseBodyPosition(s)
	if id == PosUndefined {
		logger.Fatalf("invalid node: %s", s)
	}
	return id
}

func main() {
	parseArgs()
	src, dst := parseNode(args.Src), parseNode(args.Dst)

	conn, err := grpc.NewClient(args.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	logger.PanicIfError(err)
	defer conn.Close()
	client := service.NewPropagationClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), args.Timeout)
	defer cancel()

	if args.Info {
		in, err := structpb.NewStruct(map[string]interface{}{"src": src, "dst": dst})
		logger.PanicIfError(err)
		out, err := client.LinkInfo(ctx, in)
		if err != nil {
			logger.Fatalf("link info: %v", err)
		}
		fmt.Println(prototext.MarshalOptions{Multiline: true}.Format(out))
		return
	}

	rx, err := client.PropagateLink(ctx, src, dst, args.Time, args.RxDbm)
	if err != nil {
		logger.Fatalf("propagate: %v", err)
	}
	fmt.Printf("%s -> %s at %f s: %.3f dBm\n", BodyPositionName(src), BodyPositionName(dst), args.Time, rx)
}
