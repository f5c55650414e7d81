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
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/openthread/ban-propag/prng"
	"github.com/openthread/ban-propag/radiomodel"
	"github.com/openthread/ban-propag/samples"
)

func startTestServer(t *testing.T) *PropagationClient {
	st := samples.NewStore()
	require.Nil(t, st.Allocate(13))
	s, err := st.SeriesFor(0, 6)
	require.Nil(t, err)
	s.Declare(10.0, 4)
	for _, v := range []float64{-40, -42, -45, -43} {
		s.Append(v)
	}
	engine := radiomodel.NewEngine(st, radiomodel.FadingNone, prng.NewSeeded(1))

	lis := bufconn.Listen(1 << 16)
	server := grpc.NewServer()
	RegisterPropagationServer(server, NewServer(engine))
	go func() {
		_ = server.Serve(lis)
	}()
	t.Cleanup(server.Stop)

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.Nil(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewPropagationClient(conn)
}

func TestPropagateOverGrpc(t *testing.T) {
	client := startTestServer(t)
	ctx := context.Background()

	p, err := client.PropagateLink(ctx, 0, 6, 12.5, 0)
	require.Nil(t, err)
	assert.Equal(t, 42.0, p)

	p, err = client.PropagateLink(ctx, 6, 0, 12.5, -3)
	require.Nil(t, err)
	assert.Equal(t, -3.0, p)

	in, err := structpb.NewStruct(map[string]interface{}{"src": "hip", "dst": "torso", "time": 2.5, "rx_dbm": 1.0})
	require.Nil(t, err)
	out, err := client.Propagate(ctx, in)
	require.Nil(t, err)
	assert.Equal(t, 43.0, out.GetValue())
}

func TestPropagateInvalidArguments(t *testing.T) {
	client := startTestServer(t)
	ctx := context.Background()

	for _, fields := range []map[string]interface{}{
		{"dst": 1},
		{"src": 1.5, "dst": 1},
		{"src": "elbow", "dst": 1},
		{"src": 0, "dst": 6, "time": "now"},
	} {
		in, err := structpb.NewStruct(fields)
		require.Nil(t, err)
		_, err = client.Propagate(ctx, in)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "%v", fields)
	}
}

func TestLinkInfoOverGrpc(t *testing.T) {
	client := startTestServer(t)
	ctx := context.Background()

	in, _ := structpb.NewStruct(map[string]interface{}{"src": 0, "dst": 6})
	out, err := client.LinkInfo(ctx, in)
	require.Nil(t, err)
	m := out.AsMap()
	assert.Equal(t, true, m["allocated"])
	assert.Equal(t, 10.0, m["period"])
	assert.Equal(t, 4.0, m["filled"])
	assert.Equal(t, "none", m["fading"])
	assert.Equal(t, []interface{}{-40.0, -42.0, -45.0, -43.0}, m["values"])

	in, _ = structpb.NewStruct(map[string]interface{}{"src": 0, "dst": 13})
	_, err = client.LinkInfo(ctx, in)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
