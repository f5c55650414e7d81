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

// Package metrics exposes the propagation module diagnostics as Prometheus metrics.
package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector counts propagation calls, pass-through outcomes and ingestion anomalies.
type Collector struct {
	gatherer prometheus.Gatherer

	Propagations     prometheus.Counter
	PassThroughs     *prometheus.CounterVec
	DiscardedSamples prometheus.Counter
	AbandonedRecords prometheus.Counter
	IngestedLinks    prometheus.Gauge
}

// NewCollector registers the metrics against reg (the default registerer if nil).
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	c.Propagations, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ban_propagation_calls_total",
		Help: "Number of propagation calls handled by the BAN propagation engine.",
	}), "ban_propagation_calls_total")
	if err != nil {
		return nil, err
	}

	c.PassThroughs, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ban_propagation_passthrough_total",
		Help: "Propagation calls that returned the input power unchanged, by reason.",
	}, []string{"reason"}), "ban_propagation_passthrough_total")
	if err != nil {
		return nil, err
	}

	c.DiscardedSamples, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ban_ingest_discarded_samples_total",
		Help: "Samples discarded because a sample file held more values than announced.",
	}), "ban_ingest_discarded_samples_total")
	if err != nil {
		return nil, err
	}

	c.AbandonedRecords, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ban_ingest_abandoned_records_total",
		Help: "Description-file records ignored because of an ingestion error.",
	}), "ban_ingest_abandoned_records_total")
	if err != nil {
		return nil, err
	}

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ban_ingest_links",
		Help: "Number of links with an allocated sample series.",
	})
	if err = reg.Register(gauge); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(prometheus.Gauge)
		if !ok {
			return nil, errors.Errorf("collector ban_ingest_links already registered with incompatible type")
		}
		gauge = existing
	}
	c.IngestedLinks = gauge

	return c, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

func (c *Collector) ObservePropagation() {
	if c == nil {
		return
	}
	c.Propagations.Inc()
}

func (c *Collector) ObservePassThrough(reason string) {
	if c == nil {
		return
	}
	c.PassThroughs.WithLabelValues(reason).Inc()
}

func (c *Collector) AddDiscardedSamples(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.DiscardedSamples.Add(float64(n))
}

func (c *Collector) IncAbandonedRecords() {
	if c == nil {
		return
	}
	c.AbandonedRecords.Inc()
}

func (c *Collector) SetIngestedLinks(n int) {
	if c == nil {
		return
	}
	c.IngestedLinks.Set(float64(n))
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
