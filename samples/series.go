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

package samples

// Series is the recorded pathloss time-series of one ordered (source, destination) link. The values are
// evenly spaced over one Period and repeat cyclically.
type Series struct {
	// Period is the time span (s) covered by the samples.
	Period float64

	values    []float64
	filled    int
	discarded int
}

// NewSeries creates a series expecting count samples spread over period seconds.
func NewSeries(period float64, count int) *Series {
	s := &Series{}
	s.Declare(period, count)
	return s
}

// Declare (re)declares the series, dropping any previously ingested samples.
func (s *Series) Declare(period float64, count int) {
	if count < 0 {
		count = 0
	}
	s.Period = period
	s.values = make([]float64, count)
	s.filled = 0
	s.discarded = 0
}

// Reset returns the series to the unallocated state.
func (s *Series) Reset() {
	s.Period = 0
	s.values = nil
	s.filled = 0
	s.discarded = 0
}

// DeclaredCount is the number of samples the series is expected to hold.
func (s *Series) DeclaredCount() int {
	return len(s.values)
}

// FilledCount is the number of samples ingested so far.
func (s *Series) FilledCount() int {
	return s.filled
}

// Discarded is the number of samples rejected because the series was already full.
func (s *Series) Discarded() int {
	return s.discarded
}

// IsAllocated is false for a series that never got a declared sample count.
func (s *Series) IsAllocated() bool {
	return s != nil && len(s.values) > 0
}

// IsComplete is true once all declared samples have been ingested.
func (s *Series) IsComplete() bool {
	return s.IsAllocated() && s.filled == len(s.values)
}

// Append stores v in the next free slot. If the series is already full the value is discarded and
// false is returned.
func (s *Series) Append(v float64) bool {
	if s.filled >= len(s.values) {
		s.discarded++
		return false
	}
	s.values[s.filled] = v
	s.filled++
	return true
}

// Value returns the sample at index i; ok is false for indices not (yet) ingested.
func (s *Series) Value(i int) (v float64, ok bool) {
	if i < 0 || i >= s.filled {
		return 0, false
	}
	return s.values[i], true
}

// Values returns a copy of the ingested samples, in ingestion order.
func (s *Series) Values() []float64 {
	return append([]float64(nil), s.values[:s.filled]...)
}
