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

package service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName         = "banpropag.PropagationService"
	propagateFullMethod = "/" + ServiceName + "/Propagate"
	linkInfoFullMethod  = "/" + ServiceName + "/LinkInfo"
)

// PropagationServer is the server API for the propagation service.
type PropagationServer interface {
	// Propagate takes {src, dst, time, rx_dbm} and returns the propagated power in dBm.
	Propagate(context.Context, *structpb.Struct) (*wrapperspb.DoubleValue, error)
	// LinkInfo takes {src, dst} and describes the link's sample series.
	LinkInfo(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterPropagationServer(s grpc.ServiceRegistrar, srv PropagationServer) {
	s.RegisterService(&propagationServiceDesc, srv)
}

func propagateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PropagationServer).Propagate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: propagateFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PropagationServer).Propagate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func linkInfoHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PropagationServer).LinkInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: linkInfoFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PropagationServer).LinkInfo(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var propagationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PropagationServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Propagate",
			Handler:    propagateHandler,
		},
		{
			MethodName: "LinkInfo",
			Handler:    linkInfoHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

// PropagationClient is the client API for the propagation service.
type PropagationClient struct {
	cc grpc.ClientConnInterface
}

func NewPropagationClient(cc grpc.ClientConnInterface) *PropagationClient {
	return &PropagationClient{cc: cc}
}

func (c *PropagationClient) Propagate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.DoubleValue, error) {
	out := new(wrapperspb.DoubleValue)
	if err := c.cc.Invoke(ctx, propagateFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PropagationClient) LinkInfo(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, linkInfoFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// PropagateLink is a typed shortcut for Propagate.
func (c *PropagationClient) PropagateLink(ctx context.Context, src, dst int, timeSec, rxDbm float64) (float64, error) {
	in, err := structpb.NewStruct(map[string]interface{}{
		"src":    src,
		"dst":    dst,
		"time":   timeSec,
		"rx_dbm": rxDbm,
	})
	if err != nil {
		return 0, err
	}
	out, err := c.Propagate(ctx, in)
	if err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}
