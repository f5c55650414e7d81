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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBodyPosition(t *testing.T) {
	assert.Equal(t, PosHip, ParseBodyPosition("hip"))
	assert.Equal(t, PosTorso, ParseBodyPosition(" Torso "))
	assert.Equal(t, PosLEar, ParseBodyPosition("lear"))
	assert.Equal(t, 7, ParseBodyPosition("7"))
	assert.Equal(t, 42, ParseBodyPosition("42"))
	assert.Equal(t, PosUndefined, ParseBodyPosition("-1"))
	assert.Equal(t, PosUndefined, ParseBodyPosition("elbow"))
	assert.Equal(t, PosUndefined, ParseBodyPosition(""))
}

func TestBodyPositionName(t *testing.T) {
	for pos := PosHip; pos <= PosLEar; pos++ {
		assert.Equal(t, pos, ParseBodyPosition(BodyPositionName(pos)))
	}
	assert.Equal(t, "rhand", BodyPositionName(PosRHand))
	assert.Equal(t, "13", BodyPositionName(13))
	assert.Equal(t, "-1", BodyPositionName(PosUndefined))
}

func TestSimTimeConversions(t *testing.T) {
	assert.Equal(t, 0.0, SimTimeToSeconds(0))
	assert.Equal(t, 12.5, SimTimeToSeconds(12_500_000_000))
	assert.Equal(t, SimTime(1_750_000_000), SecondsToSimTime(1.75))
	assert.Equal(t, SimTime(0), SecondsToSimTime(-3))
}
