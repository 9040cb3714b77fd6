package course

import (
	"errors"

	"github.com/josh-kwaku/learning-backend/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts lifecycle operations by outcome. A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	enrolled   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "learning",
			Subsystem: "course",
			Name:      "operations_total",
			Help:      "Course lifecycle operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		enrolled: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "learning",
			Subsystem: "course",
			Name:      "enrollments_delta",
			Help:      "Net enrollments added since process start.",
		}),
	}
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome(err)).Inc()
}

func (m *Metrics) addEnrollments(n int) {
	if m == nil {
		return
	}
	m.enrolled.Add(float64(n))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, domain.ErrAlreadyEnrolled):
		return "already_enrolled"
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidInstructor):
		return "invalid_request"
	default:
		return "error"
	}
}
