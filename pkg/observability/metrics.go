// Package observability provides a Prometheus collector fed by lifecycle
// hooks: run counts by terminal status and per-step execution latency.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/railyard/shunt/pkg/domain"
)

// Metrics exposes run and step metrics through a Prometheus registerer.
type Metrics struct {
	runsTotal    *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors. Pass
// prometheus.DefaultRegisterer for the process-global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shunt",
			Name:      "runs_total",
			Help:      "Workflow runs by terminal status.",
		}, []string{"workflow", "status"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shunt",
			Name:      "step_duration_seconds",
			Help:      "Step execution latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"workflow", "step"}),
	}
	reg.MustRegister(m.runsTotal, m.stepDuration)
	return m
}

// RunsTotal exposes the run counter, mainly for tests and custom dashboards.
func (m *Metrics) RunsTotal() *prometheus.CounterVec { return m.runsTotal }

// StepDurations exposes the step latency histogram.
func (m *Metrics) StepDurations() *prometheus.HistogramVec { return m.stepDuration }

// Hooks returns the lifecycle hooks to register on a workflow via
// shunt.WithHooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnd: func(_ context.Context, ev *domain.StepEvent) {
			m.stepDuration.WithLabelValues(ev.Workflow, ev.Step).Observe(ev.Duration.Seconds())
		},
		OnRunEnd: func(_ context.Context, ev *domain.RunEvent) {
			status := string(domain.StatusSucceeded)
			if ev.Err != nil {
				status = string(domain.StatusFailed)
			}
			m.runsTotal.WithLabelValues(ev.Workflow, status).Inc()
		},
	}
}
