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
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/openthread/ban-propag/prng"
	. "github.com/openthread/ban-propag/types"
)

// FadingModel selects the small-scale fading distribution applied on top of the recorded pathloss.
type FadingModel int

const (
	FadingNone     FadingModel = 0
	FadingRician   FadingModel = 1
	FadingNakagami FadingModel = 2
	FadingRayleigh FadingModel = 3
)

var ErrUnknownFadingModel = errors.New("unknown fading model")

var fadingModelNames = map[FadingModel]string{
	FadingNone:     "none",
	FadingRician:   "rician",
	FadingNakagami: "nakagami",
	FadingRayleigh: "rayleigh",
}

func (m FadingModel) String() string {
	if name, ok := fadingModelNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseFadingModel parses a fading model configuration value. Matching is case-sensitive.
func ParseFadingModel(s string) (FadingModel, error) {
	for m, name := range fadingModelNames {
		if s == name {
			return m, nil
		}
	}
	return FadingNone, errors.Wrapf(ErrUnknownFadingModel, "'%s'", s)
}

// fadingSigma is the per-component deviation giving a unit mean-power envelope.
var fadingSigma = 1 / math.Sqrt(2)

// Normal draws a normally distributed value using the Box-Muller transform on two uniform draws.
func Normal(rnd prng.UnitSource, mean float64, deviation float64) float64 {
	u1 := rnd.RandU01()
	u2 := rnd.RandU01()
	return mean + deviation*math.Cos(2*math.Pi*u1)*math.Sqrt(-2.0*math.Log(u2))
}

// fadingEnvelope draws the linear fading envelope for the given model.
//
// Rayleigh draws its own envelope and then continues into the Rician computation, which overwrites it.
// The observable result of Rayleigh is therefore the Rician one, after four extra uniform draws.
// Nakagami is accepted as a model but contributes nothing.
func fadingEnvelope(pathlossDb DbValue, model FadingModel, rnd prng.UnitSource) float64 {
	env := 0.0
	switch model {
	case FadingRayleigh:
		env = math.Hypot(Normal(rnd, 0, fadingSigma), Normal(rnd, 0, fadingSigma))
		fallthrough
	case FadingRician:
		kDb := 0.43*pathlossDb + 6*(rnd.RandU01()-0.5)
		k := math.Pow(10.0, kDb/10.0)
		los := math.Sqrt(k/(k+1)) * fadingSigma
		scatter := math.Sqrt(1 / (k + 1))
		x := los + scatter*Normal(rnd, 0, fadingSigma)
		y := scatter * Normal(rnd, 0, fadingSigma)
		env = math.Hypot(x, y)
	case FadingNakagami, FadingNone:
		env = 0.0
	}
	return env
}

// ComputeFading returns the fading contribution (dB) for a link with the given large-scale pathloss (dB).
// A non-positive envelope contributes 0 dB.
func ComputeFading(pathlossDb DbValue, model FadingModel, rnd prng.UnitSource) DbValue {
	env := fadingEnvelope(pathlossDb, model, rnd)
	if env > 0.0 {
		return 20 * math.Log10(env)
	}
	return 0.0
}

// FadingStats draws n fading values for the given pathloss and returns their mean and standard deviation (dB).
func FadingStats(pathlossDb DbValue, model FadingModel, rnd prng.UnitSource, n int) (mean, std float64) {
	if n <= 0 {
		return 0, 0
	}
	draws := make([]float64, n)
	for i := range draws {
		draws[i] = ComputeFading(pathlossDb, model, rnd)
	}
	if n == 1 {
		return draws[0], 0
	}
	return stat.MeanStdDev(draws, nil)
}
