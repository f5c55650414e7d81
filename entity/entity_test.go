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

package entity

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openthread/ban-propag/config"
	"github.com/openthread/ban-propag/logger"
	"github.com/openthread/ban-propag/metrics"
	"github.com/openthread/ban-propag/radiomodel"
	"github.com/openthread/ban-propag/samples"
	"github.com/openthread/ban-propag/types"
)

func writeTestData(t *testing.T) string {
	dir := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(dir, "hip_torso.csv"), []byte("-40,-42,-45,-43\n"), 0644))
	require.Nil(t, os.WriteFile(filepath.Join(dir, "torso_hip.csv"), []byte("1,2,3,4,5\n"), 0644))
	desc := filepath.Join(dir, "description.csv")
	require.Nil(t, os.WriteFile(desc, []byte("0,6,hip_torso.csv,4,10.0\n6,0,torso_hip.csv,3,3.0\n"), 0644))
	return desc
}

func TestInitPropagateDestroy(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	require.Nil(t, err)

	en := New("ban-propag", 13, collector)
	params := config.Params{
		{Key: config.KeyDataDescriptionFile, Value: writeTestData(t)},
		{Key: config.KeyFadingModel, Value: "none"},
	}
	require.Nil(t, en.Init(params))
	assert.True(t, en.IsInitialized())
	assert.Equal(t, radiomodel.FadingNone, en.Engine().FadingModel())
	assert.Equal(t, 2, en.Summary().Links)
	assert.Equal(t, 2, en.Summary().Discarded)
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.DiscardedSamples))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.IngestedLinks))

	call := &Call{Time: types.SecondsToSimTime(12.5)}
	pkt := &Packet{Id: 1, Size: 20}
	assert.Equal(t, 42.0, en.Propagation(call, pkt, types.PosHip, types.PosTorso, 0))
	assert.Equal(t, -4.0, en.Propagation(call, pkt, types.PosTorso, types.PosHip, -3))
	assert.Equal(t, -7.5, en.Propagation(call, pkt, types.PosBack, types.PosHip, -7.5))
	assert.Equal(t, 3.0, testutil.ToFloat64(collector.Propagations))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.PassThroughs.WithLabelValues("unallocated")))

	require.Nil(t, en.Destroy())
	assert.False(t, en.IsInitialized())
	assert.True(t, errors.Is(en.Destroy(), ErrNotInitialized))
	assert.Equal(t, -7.5, en.Propagation(call, pkt, types.PosHip, types.PosTorso, -7.5))
}

func TestInitTwiceFails(t *testing.T) {
	en := New("ban-propag", 2, nil)
	require.Nil(t, en.Init(nil))
	assert.True(t, errors.Is(en.Init(nil), samples.ErrAlreadyInitialized))
	require.Nil(t, en.Destroy())
	assert.Nil(t, en.Init(nil))
}

func TestInitUnknownFadingModelFails(t *testing.T) {
	en := New("ban-propag", 2, nil)
	err := en.Init(config.Params{{Key: config.KeyFadingModel, Value: "Rayleigh"}})
	assert.True(t, errors.Is(err, radiomodel.ErrUnknownFadingModel))
	assert.False(t, en.IsInitialized())

	err = en.Init(config.Params{{Key: config.KeyFadingModel, Value: " rician "}})
	assert.True(t, errors.Is(err, radiomodel.ErrUnknownFadingModel))
	assert.False(t, en.IsInitialized())
}

func TestInitMissingDescriptionFileFails(t *testing.T) {
	en := New("ban-propag", 2, nil)
	err := en.Init(config.Params{
		{Key: config.KeyDataDescriptionFile, Value: filepath.Join(t.TempDir(), "nope.csv")},
	})
	assert.NotNil(t, err)
	assert.False(t, en.IsInitialized())
}

func TestInitInvalidNodeCountFails(t *testing.T) {
	en := New("ban-propag", 0, nil)
	err := en.Init(nil)
	assert.True(t, errors.Is(err, samples.ErrInvalidSize))

	// the parameter list may supply the node count.
	assert.Nil(t, en.Init(config.Params{{Key: config.KeyNodeCount, Value: "4"}}))
	assert.Equal(t, 4, en.Engine().Store().NodeCount())
}

func TestInitSeededIsReproducible(t *testing.T) {
	params := config.Params{
		{Key: config.KeyDataDescriptionFile, Value: writeTestData(t)},
		{Key: config.KeyFadingModel, Value: "rician"},
		{Key: config.KeyRandomSeed, Value: "1234"},
		{Key: config.KeyLogLevel, Value: "warn"},
	}
	a, b := New("a", 13, nil), New("b", 13, nil)
	require.Nil(t, a.Init(params))
	require.Nil(t, b.Init(params))
	for i := 0; i < 50; i++ {
		call := &Call{Time: types.SecondsToSimTime(float64(i) * 0.3)}
		assert.Equal(t, a.Propagation(call, nil, 0, 6, 0), b.Propagation(call, nil, 0, 6, 0))
	}
	assert.Equal(t, "rician", a.Config().FadingModel)
}

func TestInitBadLogLevelFails(t *testing.T) {
	en := New("ban-propag", 2, nil)
	assert.NotNil(t, en.Init(config.Params{{Key: config.KeyLogLevel, Value: "loud"}}))
}

func TestInitLogLevelAppliesToEngine(t *testing.T) {
	en := New("ban-propag-level", 2, nil)
	require.Nil(t, en.Init(config.Params{{Key: config.KeyLogLevel, Value: "warn"}}))
	assert.Equal(t, logger.WarnLevel, en.Engine().Logger().Level())
	assert.Equal(t, logger.WarnLevel, logger.For("ban-propag-level").Level())
	require.Nil(t, en.Destroy())

	// without log_level the component level is lifted again.
	require.Nil(t, en.Init(nil))
	assert.Equal(t, logger.TraceLevel, en.Engine().Logger().Level())
}

func TestPropagationWithoutCall(t *testing.T) {
	en := New("ban-propag", 13, nil)
	require.Nil(t, en.Init(config.Params{{Key: config.KeyDataDescriptionFile, Value: writeTestData(t)}}))
	// time 0 selects the first sample of hip -> torso.
	assert.Equal(t, 40.0, en.Propagation(nil, nil, types.PosHip, types.PosTorso, 0))
}
