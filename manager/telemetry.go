package manager

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Telemetry is the built-in Tracer: a set of Prometheus collectors recording
// step throughput and best-score progression, registered against the
// caller's registry so a solverforge process can expose them alongside its
// own metrics (SPEC_FULL.md §2 domain stack).
type Telemetry struct {
	steps     prometheus.Counter
	bestLevel prometheus.Gauge
	feasible  prometheus.Gauge
}

// NewTelemetry builds and registers a Telemetry recorder against reg. Pass
// prometheus.DefaultRegisterer for the global registry.
func NewTelemetry(reg prometheus.Registerer, solverName string) *Telemetry {
	t := &Telemetry{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "solverforge",
			Subsystem:   "solver",
			Name:        "steps_total",
			Help:        "Number of local search steps evaluated.",
			ConstLabels: prometheus.Labels{"solver": solverName},
		}),
		bestLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "solverforge",
			Subsystem:   "solver",
			Name:        "best_score_soft_level",
			Help:        "Least significant score level of the current best solution.",
			ConstLabels: prometheus.Labels{"solver": solverName},
		}),
		feasible: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "solverforge",
			Subsystem:   "solver",
			Name:        "feasible",
			Help:        "1 if the current best solution is feasible, 0 otherwise.",
			ConstLabels: prometheus.Labels{"solver": solverName},
		}),
	}
	reg.MustRegister(t.steps, t.bestLevel, t.feasible)
	return t
}

// Trace implements Tracer.
func (t *Telemetry) Trace(p SearchPosition) {
	t.steps.Inc()
	sc := p.Score()
	if sc == nil {
		return
	}
	if levels := sc.Levels(); len(levels) > 0 {
		t.bestLevel.Set(float64(levels[len(levels)-1]))
	}
	if sc.IsFeasible() {
		t.feasible.Set(1)
	} else {
		t.feasible.Set(0)
	}
}
