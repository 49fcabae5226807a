// SPDX-License-Identifier: MIT

// Package metrics records descriptor load outcomes in a private Prometheus
// registry that can be written to a node-exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load results.
const (
	ResultSuccess     = "success"
	ResultInvalid     = "invalid"
	ResultBrokenLinks = "broken_links"
	ResultError       = "error"
)

var (
	registry = prometheus.NewRegistry()
	factory  = promauto.With(registry)

	loadsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "labsite_loads_total",
		Help: "Descriptor loads by result",
	}, []string{"result"}) // result=success|invalid|broken_links|error

	brokenLinksTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "labsite_broken_links_total",
		Help: "Broken navigation targets found, by broken-link policy",
	}, []string{"policy"})

	knownRoutes = factory.NewGauge(prometheus.GaugeOpts{
		Name: "labsite_known_routes",
		Help: "Routes discovered under the content roots in the last load",
	})

	lastSuccess = factory.NewGauge(prometheus.GaugeOpts{
		Name: "labsite_last_success_timestamp_seconds",
		Help: "Unix time of the last successful descriptor load",
	})

	loadDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "labsite_load_duration_seconds",
		Help:    "Time spent loading, validating and link-checking the descriptor",
		Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	})
)

func IncLoad(result string) { loadsTotal.WithLabelValues(result).Inc() }

func AddBrokenLinks(policy string, n int) {
	if n > 0 {
		brokenLinksTotal.WithLabelValues(policy).Add(float64(n))
	}
}

func RecordKnownRoutes(n int)             { knownRoutes.Set(float64(n)) }
func RecordSuccess(at time.Time)          { lastSuccess.Set(float64(at.Unix())) }
func ObserveLoadDuration(d time.Duration) { loadDuration.Observe(d.Seconds()) }

// Registry exposes the private registry, mainly for tests.
func Registry() *prometheus.Registry { return registry }

// WriteTextfile writes the current metrics atomically in the text exposition format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, registry)
}
