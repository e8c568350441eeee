// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package setup

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsSetup holds Prometheus metrics for the provisioning pipeline.
// They are only interesting when the CLI exposes a metrics endpoint, but
// registration is cheap enough to do unconditionally on first use.
type metricsSetup struct {
	once sync.Once

	docsSeeded    *prometheus.CounterVec
	docsExported  *prometheus.CounterVec
	stageWarnings *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

var provMetrics metricsSetup

func (m *metricsSetup) init() {
	m.once.Do(func() {
		m.docsSeeded = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bibsetup_documents_seeded_total",
			Help: "Documents inserted during seeding, per collection",
		}, []string{"collection"})

		m.docsExported = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bibsetup_documents_exported_total",
			Help: "Documents written to JSON snapshots, per collection",
		}, []string{"collection"})

		m.stageWarnings = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bibsetup_stage_warnings_total",
			Help: "Pipeline stages that finished with a warning",
		}, []string{"stage"})

		m.stageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bibsetup_stage_duration_seconds",
			Help:    "Wall-clock duration per pipeline stage",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"})

		prometheus.MustRegister(m.docsSeeded, m.docsExported, m.stageWarnings, m.stageDuration)
	})
}

func seedMetricsAdd(collection string, n int) {
	provMetrics.init()
	provMetrics.docsSeeded.WithLabelValues(collection).Add(float64(n))
}

func exportMetricsAdd(collection string, n int) {
	provMetrics.init()
	provMetrics.docsExported.WithLabelValues(collection).Add(float64(n))
}

func stageMetricsObserve(stage string, d time.Duration, warned bool) {
	provMetrics.init()
	provMetrics.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if warned {
		provMetrics.stageWarnings.WithLabelValues(stage).Inc()
	}
}
