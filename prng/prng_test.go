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

package prng

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSeededIsReproducible(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 100; i++ {
		va := a.RandU01()
		assert.Equal(t, va, b.RandU01())
		assert.True(t, va >= 0 && va < 1)
	}
}

func TestNewStreamRange(t *testing.T) {
	s1 := NewStream("link-a")
	s2 := NewStream("link-b")
	same := true
	for i := 0; i < 20; i++ {
		v1, v2 := s1.RandU01(), s2.RandU01()
		assert.True(t, v1 >= 0 && v1 < 1)
		assert.True(t, v2 >= 0 && v2 < 1)
		if v1 != v2 {
			same = false
		}
	}
	assert.False(t, same)
}

func TestSequenceCycles(t *testing.T) {
	s := &Sequence{Values: []float64{0.1, 0.2, 0.3}}
	assert.Equal(t, 0.1, s.RandU01())
	assert.Equal(t, 0.2, s.RandU01())
	assert.Equal(t, 0.3, s.RandU01())
	assert.Equal(t, 0.1, s.RandU01())
	s.Reset()
	assert.Equal(t, 0.1, s.RandU01())

	empty := &Sequence{}
	assert.Equal(t, 0.0, empty.RandU01())
}

func TestSynchronizedConcurrentUse(t *testing.T) {
	src := NewSeeded(7)
	assert.Equal(t, src, Synchronized(src))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				v := src.RandU01()
				assert.True(t, v >= 0 && v < 1)
			}
		}()
	}
	wg.Wait()
}
