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

// Package service exposes the propagation engine over gRPC, using protobuf well-known message types.
package service

import (
	"context"
	"math"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/openthread/ban-propag/logger"
	"github.com/openthread/ban-propag/radiomodel"
	. "github.com/openthread/ban-propag/types"
)

// Server implements PropagationServer on top of an engine.
type Server struct {
	engine *radiomodel.Engine
}

func NewServer(engine *radiomodel.Engine) *Server {
	logger.AssertNotNil(engine)
	return &Server{engine: engine}
}

func nodeField(in *structpb.Struct, name string) (NodeId, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return InvalidNodeId, status.Errorf(codes.InvalidArgument, "missing field '%s'", name)
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		if k.NumberValue != math.Trunc(k.NumberValue) {
			return InvalidNodeId, status.Errorf(codes.InvalidArgument, "field '%s' is not an integer", name)
		}
		return NodeId(k.NumberValue), nil
	case *structpb.Value_StringValue:
		if pos := ParseBodyPosition(k.StringValue); pos != PosUndefined {
			return pos, nil
		}
	}
	return InvalidNodeId, status.Errorf(codes.InvalidArgument, "invalid node in field '%s'", name)
}

func numberField(in *structpb.Struct, name string, def float64) (float64, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return def, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "field '%s' must be a number", name)
	}
	return n.NumberValue, nil
}

func (s *Server) Propagate(_ context.Context, in *structpb.Struct) (*wrapperspb.DoubleValue, error) {
	src, err := nodeField(in, "src")
	if err != nil {
		return nil, err
	}
	dst, err := nodeField(in, "dst")
	if err != nil {
		return nil, err
	}
	ts, err := numberField(in, "time", 0)
	if err != nil {
		return nil, err
	}
	rx, err := numberField(in, "rx_dbm", 0)
	if err != nil {
		return nil, err
	}
	return wrapperspb.Double(s.engine.Propagate(src, dst, ts, rx)), nil
}

func (s *Server) LinkInfo(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	src, err := nodeField(in, "src")
	if err != nil {
		return nil, err
	}
	dst, err := nodeField(in, "dst")
	if err != nil {
		return nil, err
	}
	series, err := s.engine.Store().SeriesFor(src, dst)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}

	values := make([]interface{}, 0, series.FilledCount())
	for _, v := range series.Values() {
		values = append(values, v)
	}
	out, err := structpb.NewStruct(map[string]interface{}{
		"src":       src,
		"dst":       dst,
		"allocated": series.IsAllocated(),
		"period":    series.Period,
		"declared":  series.DeclaredCount(),
		"filled":    series.FilledCount(),
		"discarded": series.Discarded(),
		"fading":    s.engine.FadingModel().String(),
		"values":    values,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
