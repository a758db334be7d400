// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metrics holds the server's prometheus collectors. Each server gets
// its own registry so tests can run servers side by side.
type metrics struct {
	registry           *prometheus.Registry
	requestsTotal      *prometheus.CounterVec
	analyzeDuration    prometheus.Histogram
	findingsBySeverity *prometheus.CounterVec
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	m := &metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contract_guard_http_requests_total",
			Help: "HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status"}),
		analyzeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "contract_guard_analyze_duration_seconds",
			Help:    "Time spent extracting and analyzing one document.",
			Buckets: prometheus.DefBuckets,
		}),
		findingsBySeverity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contract_guard_findings_total",
			Help: "Detected red flags by severity.",
		}, []string{"severity"}),
	}

	registry.MustRegister(m.requestsTotal, m.analyzeDuration, m.findingsBySeverity)
	return m
}

// instrument records per-request metrics after the handler runs
func (m *metrics) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		m.requestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

func (m *metrics) observeAnalysis(duration time.Duration) {
	m.analyzeDuration.Observe(duration.Seconds())
}

func (m *metrics) countFinding(severity string) {
	m.findingsBySeverity.WithLabelValues(severity).Inc()
}
