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

// Package radiomodel implements the deterministic BAN propagation model: recorded per-link pathloss
// replayed against the simulation clock, plus optional statistical small-scale fading.
package radiomodel

import (
	"github.com/openthread/ban-propag/logger"
	"github.com/openthread/ban-propag/prng"
	"github.com/openthread/ban-propag/samples"
	. "github.com/openthread/ban-propag/types"
)

// PassThrough tells why a propagation call returned the input power unchanged.
type PassThrough string

const (
	NoPassThrough          PassThrough = ""
	PassThroughUnallocated PassThrough = "unallocated"
	PassThroughOutOfRange  PassThrough = "out_of_range"
	PassThroughUnfilled    PassThrough = "unfilled"
)

// Diagnostics receives propagation events; see the metrics package.
type Diagnostics interface {
	ObservePropagation()
	ObservePassThrough(reason string)
}

// Result details a single propagation computation.
type Result struct {
	RxPowerDbm  DbValue
	InPowerDbm  DbValue
	PathlossDb  DbValue
	FadingDb    DbValue
	Index       int
	PassThrough PassThrough
}

// Engine applies the recorded pathloss of a link and the configured fading to a received-power estimate.
// The sample store must be fully ingested before the first Propagate call; after that the engine only reads
// it, so Propagate may be called from concurrent goroutines as long as the random source is synchronized.
type Engine struct {
	store  *samples.Store
	fading FadingModel
	rnd    prng.UnitSource
	diag   Diagnostics
	log    *logger.ComponentLogger
}

// NewEngine creates an engine over an ingested store. If rnd is nil, a new independent random stream is used.
func NewEngine(store *samples.Store, fading FadingModel, rnd prng.UnitSource) *Engine {
	logger.AssertNotNil(store)
	if rnd == nil {
		rnd = prng.NewStream("ban-propag")
	}
	return &Engine{
		store:  store,
		fading: fading,
		rnd:    rnd,
		log:    logger.For("ban-propag"),
	}
}

// SetDiagnostics attaches a diagnostics receiver; must be called before propagation starts.
func (e *Engine) SetDiagnostics(d Diagnostics) {
	e.diag = d
}

// SetLogger replaces the engine's component logger; must be called before propagation starts.
func (e *Engine) SetLogger(log *logger.ComponentLogger) {
	logger.AssertNotNil(log)
	e.log = log
}

func (e *Engine) Logger() *logger.ComponentLogger {
	return e.log
}

func (e *Engine) FadingModel() FadingModel {
	return e.fading
}

func (e *Engine) Store() *samples.Store {
	return e.store
}

// Propagate returns the received power (dBm) of a frame sent from src to dst at simulation time simTimeSec,
// given the incoming power estimate rxDbm. Links without usable samples pass rxDbm through unchanged.
func (e *Engine) Propagate(src NodeId, dst NodeId, simTimeSec float64, rxDbm DbValue) DbValue {
	return e.PropagateDetailed(src, dst, simTimeSec, rxDbm).RxPowerDbm
}

// PropagateDetailed is Propagate, additionally reporting the intermediate values.
func (e *Engine) PropagateDetailed(src NodeId, dst NodeId, simTimeSec float64, rxDbm DbValue) Result {
	res := Result{
		RxPowerDbm: rxDbm,
		InPowerDbm: rxDbm,
		Index:      -1,
	}
	if e.diag != nil {
		e.diag.ObservePropagation()
	}

	series, err := e.store.SeriesFor(src, dst)
	if err != nil || !series.IsAllocated() {
		e.log.Debugf("Unallocated samples for link %d->%d, passing through.", src, dst)
		return e.passThrough(res, PassThroughUnallocated)
	}

	res.Index = SampleIndex(simTimeSec, series.Period, series.DeclaredCount())
	pathloss, reason := sampleAt(series, res.Index)
	if reason != NoPassThrough {
		e.log.Debugf("No sample for link %d->%d (%s): time=%f s, period=%f s, index=%d, filled/samples=%d/%d.",
			src, dst, reason, simTimeSec, series.Period, res.Index, series.FilledCount(), series.DeclaredCount())
		return e.passThrough(res, reason)
	}

	res.PathlossDb = pathloss
	res.FadingDb = ComputeFading(pathloss, e.fading, e.rnd)
	res.RxPowerDbm = rxDbm - pathloss + res.FadingDb

	if e.log.IsLevelOn(logger.TraceLevel) {
		e.log.Tracef("link %d->%d t=%f s: P_tx=%f dBm, pathloss=%f dB, fading=%f dB, P_rx=%f dBm",
			src, dst, simTimeSec, rxDbm, res.PathlossDb, res.FadingDb, res.RxPowerDbm)
	}
	return res
}

// sampleAt returns the pathloss at idx, or the reason the series cannot serve it. Indices at or past the
// declared count, including the count itself, are out of range.
func sampleAt(series *samples.Series, idx int) (DbValue, PassThrough) {
	if idx < 0 || idx >= series.DeclaredCount() {
		return 0, PassThroughOutOfRange
	}
	pathloss, ok := series.Value(idx)
	if !ok {
		return 0, PassThroughUnfilled
	}
	return pathloss, NoPassThrough
}

func (e *Engine) passThrough(res Result, reason PassThrough) Result {
	res.PassThrough = reason
	if e.diag != nil {
		e.diag.ObservePassThrough(string(reason))
	}
	return res
}
