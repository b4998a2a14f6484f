// Package metrics exports pipeline runs and step executions as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/askiada/conduit/pkg/pipeline/model"
)

// Collector is a pipeline option recording Prometheus metrics.
type Collector struct {
	stepExecutions *prometheus.CounterVec
	stepDuration   *prometheus.HistogramVec
	runs           *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
}

// NewCollector creates a collector registering its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		stepExecutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conduit_step_executions_total",
				Help: "Total number of step executions",
			},
			[]string{"step", "mode"},
		),
		stepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "conduit_step_duration_seconds",
				Help:    "Step execution duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"step"},
		),
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conduit_runs_total",
				Help: "Total number of successful pipeline runs",
			},
			[]string{"mode"},
		),
		runDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "conduit_run_duration_seconds",
				Help:    "Pipeline run duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"mode"},
		),
	}
}

func (c *Collector) New() error {
	return nil
}

func (c *Collector) PrepareStep([]*model.StepInfo, *model.StepInfo) error {
	return nil
}

func (c *Collector) OnStepOutput(step *model.StepInfo, mode model.Mode, computationDuration time.Duration) error {
	c.stepExecutions.WithLabelValues(step.Name, mode.String()).Inc()
	c.stepDuration.WithLabelValues(step.Name).Observe(computationDuration.Seconds())

	return nil
}

func (c *Collector) Finish(mode model.Mode, totalDuration time.Duration) error {
	c.runs.WithLabelValues(mode.String()).Inc()
	c.runDuration.WithLabelValues(mode.String()).Observe(totalDuration.Seconds())

	return nil
}

var _ model.PipelineOption = (*Collector)(nil)
