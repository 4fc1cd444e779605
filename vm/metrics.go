// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"errors"
	"time"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/msg"
	"github.com/ava-labs/countervm/storage"
)

const (
	instantiateEntry = "instantiate"
	executeEntry     = "execute"
	queryEntry       = "query"

	outcomeSuccess         = "success"
	outcomeDecodeError     = "decode_error"
	outcomeUnauthorized    = "unauthorized"
	outcomeNotInstantiated = "not_instantiated"
	outcomeAlreadyExists   = "already_instantiated"
	outcomeInvalidNonce    = "invalid_nonce"
	outcomeError           = "error"
)

type Metrics struct {
	invocations *prometheus.CounterVec
	commands    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	count       prometheus.Gauge
	resets      prometheus.Counter
}

func newMetrics() (*prometheus.Registry, *Metrics, error) {
	r := prometheus.NewRegistry()

	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "invocations",
			Help:      "number of invocations by entry point and outcome",
		}, []string{"entry", "outcome"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "counter",
			Name:      "commands",
			Help:      "number of successfully executed commands by name",
		}, []string{"command"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vm",
			Name:      "invocation_duration",
			Help:      "time spent serving an invocation in nanoseconds",
			Buckets:   prometheus.ExponentialBuckets(1_000, 4, 10),
		}, []string{"entry"}),
		count: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "counter",
			Name:      "value",
			Help:      "current counter value",
		}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "counter",
			Name:      "resets",
			Help:      "number of authorized resets",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.invocations),
		r.Register(m.commands),
		r.Register(m.latency),
		r.Register(m.count),
		r.Register(m.resets),
	)
	return r, m, errs.Err
}

func (m *Metrics) observe(entry string, start time.Time, err error) {
	m.latency.WithLabelValues(entry).Observe(float64(time.Since(start)))
	m.invocations.WithLabelValues(entry, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, msg.ErrDecode):
		return outcomeDecodeError
	case errors.Is(err, counter.ErrUnauthorized):
		return outcomeUnauthorized
	case errors.Is(err, counter.ErrNotInstantiated):
		return outcomeNotInstantiated
	case errors.Is(err, counter.ErrAlreadyInstantiated):
		return outcomeAlreadyExists
	case errors.Is(err, storage.ErrInvalidNonce):
		return outcomeInvalidNonce
	default:
		return outcomeError
	}
}
