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

package radiomodel

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openthread/ban-propag/prng"
)

func TestParseFadingModel(t *testing.T) {
	for _, name := range []string{"none", "rayleigh", "rician", "nakagami"} {
		m, err := ParseFadingModel(name)
		require.Nil(t, err)
		assert.Equal(t, name, m.String())
	}

	_, err := ParseFadingModel("Rician")
	assert.True(t, errors.Is(err, ErrUnknownFadingModel))
	_, err = ParseFadingModel("rice")
	assert.True(t, errors.Is(err, ErrUnknownFadingModel))
	_, err = ParseFadingModel("")
	assert.True(t, errors.Is(err, ErrUnknownFadingModel))
	assert.Equal(t, "unknown", FadingModel(42).String())
}

func TestNormalBoxMuller(t *testing.T) {
	// u1 = 0 gives cos(0) = 1; u2 = exp(-0.5) gives sqrt(-2 ln u2) = 1.
	rnd := &prng.Sequence{Values: []float64{0.0, math.Exp(-0.5)}}
	assert.InDelta(t, 3.0+2.0, Normal(rnd, 3.0, 2.0), 1e-12)

	// u1 = 0.5 gives cos(pi) = -1.
	rnd = &prng.Sequence{Values: []float64{0.5, math.Exp(-0.5)}}
	assert.InDelta(t, -1.0, Normal(rnd, 0.0, 1.0), 1e-12)
}

func TestFadingNoneAndNakagamiAreZero(t *testing.T) {
	rnd := prng.NewSeeded(1)
	for _, pl := range []float64{-80, 0, 35.5, 120} {
		assert.Equal(t, 0.0, ComputeFading(pl, FadingNone, rnd))
		assert.Equal(t, 0.0, ComputeFading(pl, FadingNakagami, rnd))
	}
}

func TestRayleighMatchesRicianOnIdenticalDraws(t *testing.T) {
	// Rayleigh consumes four extra draws before the Rician computation; with a 4-periodic draw sequence
	// both models therefore see exactly the same values.
	values := []float64{0.3, 0.7, 0.15, 0.55}
	for _, pl := range []float64{40, 55.5, 70, 90} {
		rayleigh := ComputeFading(pl, FadingRayleigh, &prng.Sequence{Values: values})
		rician := ComputeFading(pl, FadingRician, &prng.Sequence{Values: values})
		assert.Equal(t, rician, rayleigh, "pathloss %f", pl)
		assert.NotEqual(t, 0.0, rician)
	}
}

func TestRayleighMatchesRicianStatistically(t *testing.T) {
	const n = 20000
	meanRay, stdRay := FadingStats(60, FadingRayleigh, prng.NewSeeded(11), n)
	meanRic, stdRic := FadingStats(60, FadingRician, prng.NewSeeded(12), n)
	assert.InDelta(t, meanRic, meanRay, 0.1)
	assert.InDelta(t, stdRic, stdRay, 0.1)
}

func TestRicianHighKFactorIsNearLos(t *testing.T) {
	// a pathloss of 100 dB gives K around 43 dB: the envelope is dominated by the LoS component sigma.
	mean, std := FadingStats(100, FadingRician, prng.NewSeeded(3), 5000)
	assert.InDelta(t, 20*math.Log10(fadingSigma), mean, 0.05)
	assert.True(t, std < 0.1)
}

func TestRicianComputation(t *testing.T) {
	// u = 0.5 gives K_db = 0.43 * pathloss; normals draw cos(0)*1 = 1.
	e := math.Exp(-0.5)
	rnd := &prng.Sequence{Values: []float64{0.5, 0.0, e, 0.0, e}}
	pl := 10.0 / 0.43 // K_db = 10 -> K = 10
	k := 10.0
	x := math.Sqrt(k/(k+1))*fadingSigma + math.Sqrt(1/(k+1))*fadingSigma
	y := math.Sqrt(1/(k+1)) * fadingSigma
	expected := 20 * math.Log10(math.Hypot(x, y))
	assert.InDelta(t, expected, ComputeFading(pl, FadingRician, rnd), 1e-9)
}

func TestFadingStatsEdgeCases(t *testing.T) {
	mean, std := FadingStats(50, FadingRician, prng.NewSeeded(1), 0)
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 0.0, std)

	mean, std = FadingStats(50, FadingNone, prng.NewSeeded(1), 1)
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 0.0, std)
}
