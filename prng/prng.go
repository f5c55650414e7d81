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

// Package prng provides the uniform random sources that drive the fading generator.
package prng

import (
	"math/rand"
	"sync"
	"time"

	"github.com/iti/rngstream"
)

type RandomSeed int64

// UnitSource draws independent uniform values in [0, 1).
type UnitSource interface {
	RandU01() float64
}

// lockedSource makes a non-reentrant UnitSource safe for concurrent callers.
type lockedSource struct {
	mu  sync.Mutex
	src UnitSource
}

func (ls *lockedSource) RandU01() float64 {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.src.RandU01()
}

// Synchronized wraps src so that it can be shared between goroutines.
func Synchronized(src UnitSource) UnitSource {
	if _, ok := src.(*lockedSource); ok {
		return src
	}
	return &lockedSource{src: src}
}

// NewStream returns a new, independent MRG32k3a random stream identified by name.
// Each call advances to the next stream of the package-level generator.
func NewStream(name string) UnitSource {
	return Synchronized(rngstream.New(name))
}

// seededSource adapts math/rand to UnitSource, giving reproducible draws for a fixed seed.
type seededSource struct {
	rnd *rand.Rand
}

func (s *seededSource) RandU01() float64 {
	return s.rnd.Float64()
}

// NewSeeded returns a reproducible source for seed != 0, or a time-seeded source for seed == 0.
// The returned source is safe for concurrent use.
func NewSeeded(seed RandomSeed) UnitSource {
	if seed == 0 {
		seed = RandomSeed(time.Now().UnixNano())
	}
	return Synchronized(&seededSource{rnd: rand.New(rand.NewSource(int64(seed)))})
}

// Sequence replays a fixed list of values, cycling when exhausted. It is meant for tests and for
// comparing fading models against an identical draw sequence.
type Sequence struct {
	Values []float64
	pos    int
}

func (s *Sequence) RandU01() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.pos%len(s.Values)]
	s.pos++
	return v
}

// Reset restarts the sequence from its first value.
func (s *Sequence) Reset() {
	s.pos = 0
}
