/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package conformance

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records case outcomes and durations.
type Metrics struct {
	cases    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the conformance metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		cases: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "asyncquery_conformance_cases_total",
			Help: "Conformance cases run, by provider, operator and outcome",
		}, []string{"provider", "operator", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "asyncquery_conformance_case_duration_seconds",
			Help:    "Duration of a conformance case",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"provider", "operator"}),
	}
}

func (m *Metrics) observe(provider string, r CaseResult) {
	if m == nil {
		return
	}
	m.cases.WithLabelValues(provider, string(r.Operator), string(r.Outcome)).Inc()
	m.duration.WithLabelValues(provider, string(r.Operator)).Observe(time.Duration(r.Duration).Seconds())
}
