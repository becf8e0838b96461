package observability

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Novokreschennih/AI-Partner-Integrator/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Compile outcomes used as the "result" label.
const (
	ResultOK        = "ok"
	ResultMalformed = "malformed"
	ResultError     = "error"
)

// Metrics records compile outcomes. A nil *Metrics is a valid no-op recorder.
type Metrics struct {
	compiles *prometheus.CounterVec
	skipped  prometheus.Counter
	nodes    prometheus.Histogram
	duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		compiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "integrator_compiles_total",
				Help: "Total number of script compilations by result",
			},
			[]string{"result"},
		),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "integrator_skipped_blocks_total",
			Help: "Blocks left out of a compiled workflow because no router rule matched",
		}),
		nodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "integrator_workflow_nodes",
			Help:    "Number of nodes in compiled workflows",
			Buckets: prometheus.ExponentialBuckets(2, 2, 10),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "integrator_compile_duration_seconds",
			Help:    "Duration of script compilations",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}

	for _, c := range []prometheus.Collector{m.compiles, m.skipped, m.nodes, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// ObserveCompile records one compile call. nodes and skipped are ignored on error.
func (m *Metrics) ObserveCompile(elapsed time.Duration, nodes, skipped int, err error) {
	if m == nil {
		return
	}
	m.duration.Observe(elapsed.Seconds())
	m.compiles.WithLabelValues(ResultLabel(err)).Inc()
	if err != nil {
		return
	}
	m.nodes.Observe(float64(nodes))
	m.skipped.Add(float64(skipped))
}

// ResultLabel classifies a compile error.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, domain.ErrMalformedScript), errors.Is(err, domain.ErrEmptyScript):
		return ResultMalformed
	default:
		return ResultError
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
