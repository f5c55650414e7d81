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

// Package entity hosts the BAN propagation model as a simulation entity: it is set up from the host's
// parameter list, answers one propagation call per transmission, and is torn down at the end of the run.
package entity

import (
	"github.com/pkg/errors"

	"github.com/openthread/ban-propag/config"
	"github.com/openthread/ban-propag/ingest"
	"github.com/openthread/ban-propag/logger"
	"github.com/openthread/ban-propag/metrics"
	"github.com/openthread/ban-propag/prng"
	"github.com/openthread/ban-propag/radiomodel"
	"github.com/openthread/ban-propag/samples"
	. "github.com/openthread/ban-propag/types"
)

const (
	ModelName    = "BAN propagation model"
	ModelAuthor  = "Paul Ferrand, Javier Cuadrado"
	ModelVersion = "0.1"
)

var ErrNotInitialized = errors.New("propagation entity not initialized")

// Call is the host's context for one invocation.
type Call struct {
	// Time is the simulation time of the event.
	Time SimTime
}

// Packet is the frame being propagated; the model does not inspect it.
type Packet struct {
	Id   uint64
	Size int
}

// Entity is one instance of the propagation model with its private state.
type Entity struct {
	name      string
	nodeCount int
	collector *metrics.Collector
	log       *logger.ComponentLogger

	cfg     *config.Config
	store   *samples.Store
	engine  *radiomodel.Engine
	summary ingest.Summary
}

// New creates an entity for a host with nodeCount nodes. collector may be nil.
func New(name string, nodeCount int, collector *metrics.Collector) *Entity {
	return &Entity{
		name:      name,
		nodeCount: nodeCount,
		collector: collector,
		log:       logger.For(name),
	}
}

func (en *Entity) Name() string {
	return en.name
}

// Init configures the entity from params and ingests the sample data. On error the entity is left
// uninitialized and must not be used for propagation.
func (en *Entity) Init(params config.Params) (err error) {
	if en.engine != nil {
		return errors.Wrapf(samples.ErrAlreadyInitialized, "entity %s", en.name)
	}

	cfg, unused, err := config.Decode(params)
	if err != nil {
		return err
	}
	for _, key := range unused {
		en.log.Debugf("Ignoring unknown parameter '%s'.", key)
	}

	lv := logger.TraceLevel
	if cfg.LogLevel != "" {
		if lv, err = logger.ParseLevelString(cfg.LogLevel); err != nil {
			return err
		}
	}
	en.log.SetLevel(lv)

	fading, err := radiomodel.ParseFadingModel(cfg.FadingModel)
	if err != nil {
		en.log.Errorf("Unknown fading type: (%s)!", cfg.FadingModel)
		return err
	}
	en.log.Infof("Fading set to %s.", fading)

	nodeCount := en.nodeCount
	if cfg.NodeCount > 0 {
		nodeCount = cfg.NodeCount
	}

	store := samples.NewStore()
	if err = store.Allocate(nodeCount); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			en.log.Errorf("Something went wrong! Aborting the initialization: %v", err)
			_ = store.Release()
		}
	}()

	var summary ingest.Summary
	if cfg.DataDescriptionFile != "" {
		loader := ingest.NewLoader(store, en.diagnostics(), en.log)
		if summary, err = loader.LoadDescriptionFile(cfg.DataDescriptionFile); err != nil {
			return err
		}
		en.log.Infof("Ingested %d links from %d records (%d abandoned, %d samples discarded).",
			summary.Links, summary.Records, summary.Abandoned, summary.Discarded)
	} else {
		en.log.Warnf("No %s given: all links pass through.", config.KeyDataDescriptionFile)
	}

	var rnd prng.UnitSource
	if cfg.RandomSeed != 0 {
		rnd = prng.NewSeeded(prng.RandomSeed(cfg.RandomSeed))
	} else {
		rnd = prng.NewStream(en.name)
	}

	engine := radiomodel.NewEngine(store, fading, rnd)
	engine.SetLogger(en.log)
	if en.collector != nil {
		engine.SetDiagnostics(en.collector)
		en.collector.SetIngestedLinks(len(store.Links()))
	}

	en.cfg = cfg
	en.store = store
	en.engine = engine
	en.summary = summary
	en.log.Debugf("Entity data set!")
	return nil
}

func (en *Entity) diagnostics() ingest.Diagnostics {
	if en.collector == nil {
		return nil
	}
	return en.collector
}

// Destroy releases the sample tables.
func (en *Entity) Destroy() error {
	if en.engine == nil {
		return ErrNotInitialized
	}
	en.log.Infof("Destroying the propagation framework!")
	err := en.store.Release()
	en.engine = nil
	en.store = nil
	en.cfg = nil
	if en.collector != nil {
		en.collector.SetIngestedLinks(0)
	}
	return err
}

func (en *Entity) IsInitialized() bool {
	return en.engine != nil
}

// Propagation returns the received power (dBm) at dst of packet sent by src, given the host's estimate rxDbm.
func (en *Entity) Propagation(call *Call, packet *Packet, src NodeId, dst NodeId, rxDbm DbValue) DbValue {
	if en.engine == nil {
		en.log.Errorf("Propagation called on an uninitialized entity, passing through.")
		return rxDbm
	}
	var simTime float64
	if call != nil {
		simTime = SimTimeToSeconds(call.Time)
	} else {
		en.log.Warnf("Propagation called without a call context, using time 0.")
	}
	en.log.Tracef("Time called: %f s (propagation).", simTime)
	return en.engine.Propagate(src, dst, simTime, rxDbm)
}

// Engine returns the propagation engine, or nil if not initialized.
func (en *Entity) Engine() *radiomodel.Engine {
	return en.engine
}

// Config returns the decoded setup parameters, or nil if not initialized.
func (en *Entity) Config() *config.Config {
	return en.cfg
}

// Summary returns the ingestion summary of the last Init.
func (en *Entity) Summary() ingest.Summary {
	return en.summary
}
