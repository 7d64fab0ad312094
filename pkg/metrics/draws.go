package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DrawMetrics records outcomes of gacha draws.
type DrawMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	points   *prometheus.CounterVec
}

// NewDrawMetrics registers the draw metrics on the provided registerer.
func NewDrawMetrics(reg prometheus.Registerer) *DrawMetrics {
	if reg == nil {
		return &DrawMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "draw_duration_seconds",
		Help:    "Duration of gacha draw transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"pack"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "draw_success",
		Help: "Successful gacha draws by pack and awarded rarity.",
	}, []string{"pack", "rarity"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "draw_failure",
		Help: "Rejected or failed gacha draws by pack and error code.",
	}, []string{"pack", "code"})
	points := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "draw_points_spent_total",
		Help: "Points debited by successful draws, by pack.",
	}, []string{"pack"})
	reg.MustRegister(duration, success, failure, points)
	return &DrawMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		points:   points,
	}
}

// ObserveDuration records how long the draw transaction took.
func (d *DrawMetrics) ObserveDuration(pack string, duration time.Duration) {
	if d == nil || d.duration == nil {
		return
	}
	d.duration.WithLabelValues(normalizeLabel(pack)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the pack/rarity pair.
func (d *DrawMetrics) IncSuccess(pack, rarity string) {
	if d == nil || d.success == nil {
		return
	}
	d.success.WithLabelValues(normalizeLabel(pack), normalizeLabel(rarity)).Inc()
}

// IncFailure increments the failure counter for the pack/error-code pair.
func (d *DrawMetrics) IncFailure(pack, code string) {
	if d == nil || d.failure == nil {
		return
	}
	d.failure.WithLabelValues(normalizeLabel(pack), normalizeLabel(code)).Inc()
}

// AddPointsSpent accumulates the points debited for the pack.
func (d *DrawMetrics) AddPointsSpent(pack string, points int) {
	if d == nil || d.points == nil {
		return
	}
	if points <= 0 {
		return
	}
	d.points.WithLabelValues(normalizeLabel(pack)).Add(float64(points))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
