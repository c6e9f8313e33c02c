// Package metrics exposes the decision engine's Prometheus instruments.
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	PathPlayer = "player"
	PathGame   = "game"

	KindReaction = "reaction"
	KindDebrief  = "debrief"
)

type Recorder struct {
	decisions         prometheus.Counter
	sessionsCompleted *prometheus.CounterVec
	aiFailures        *prometheus.CounterVec
	aiDuration        *prometheus.HistogramVec
}

// NewRecorder creates the instruments and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		decisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simvado_decisions_total",
			Help: "Total number of recorded decisions",
		}),
		sessionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simvado_sessions_completed_total",
			Help: "Sessions finalized, by completion path and grade",
		}, []string{"path", "grade"}),
		aiFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simvado_ai_failures_total",
			Help: "Text generation calls that failed and fell back",
		}, []string{"kind"}),
		aiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "simvado_ai_duration_seconds",
			Help:    "Duration of text generation calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}, []string{"kind"}),
	}
	reg.MustRegister(r.decisions, r.sessionsCompleted, r.aiFailures, r.aiDuration)
	return r
}

func (r *Recorder) DecisionRecorded() {
	if r == nil {
		return
	}
	r.decisions.Inc()
}

func (r *Recorder) SessionCompleted(path, grade string) {
	if r == nil {
		return
	}
	if grade == "" {
		grade = "none"
	}
	r.sessionsCompleted.WithLabelValues(path, grade).Inc()
}

func (r *Recorder) AICall(kind string, took time.Duration, err error) {
	if r == nil {
		return
	}
	r.aiDuration.WithLabelValues(kind).Observe(took.Seconds())
	if err != nil {
		r.aiFailures.WithLabelValues(kind).Inc()
	}
}
