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
	"strconv"
	"strings"
)

// NodeId identifies a BAN node; valid ids are 0 .. nodeCount-1.
type NodeId = int

// DbValue is a power (dBm) or a power ratio (dB).
type DbValue = float64

// SimTime is the host simulation clock, in nanoseconds.
type SimTime = uint64

const (
	InvalidNodeId NodeId = -1

	// NanosPerSecond converts the host clock to seconds.
	NanosPerSecond = 1e9
)

// SimTimeToSeconds converts the host clock value to seconds.
func SimTimeToSeconds(ts SimTime) float64 {
	return float64(ts) / NanosPerSecond
}

// SecondsToSimTime converts seconds to a host clock value, rounding down.
func SecondsToSimTime(sec float64) SimTime {
	if sec <= 0 {
		return 0
	}
	return SimTime(sec * NanosPerSecond)
}

// BodyPosition is the conventional node numbering of a body-worn network.
type BodyPosition = NodeId

const (
	PosUndefined BodyPosition = -1
	PosHip       BodyPosition = 0
	PosBack      BodyPosition = 1
	PosRThigh    BodyPosition = 2
	PosRFoot     BodyPosition = 3
	PosLThigh    BodyPosition = 4
	PosLFoot     BodyPosition = 5
	PosTorso     BodyPosition = 6
	PosRArm      BodyPosition = 7
	PosRHand     BodyPosition = 8
	PosLArm      BodyPosition = 9
	PosLHand     BodyPosition = 10
	PosREar      BodyPosition = 11
	PosLEar      BodyPosition = 12
)

var bodyPositionNames = []string{"hip", "back", "rthigh", "rfoot", "lthigh", "lfoot", "torso",
	"rarm", "rhand", "larm", "lhand", "rear", "lear"}

// ParseBodyPosition parses a body-position acronym (e.g. "torso") or a plain node number.
// Returns PosUndefined if s is neither.
func ParseBodyPosition(s string) BodyPosition {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range bodyPositionNames {
		if s == name {
			return BodyPosition(i)
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return PosUndefined
}

// BodyPositionName returns the acronym of a body position, or its number if it has no name.
func BodyPositionName(pos BodyPosition) string {
	if pos >= 0 && pos < len(bodyPositionNames) {
		return bodyPositionNames[pos]
	}
	return strconv.Itoa(pos)
}
