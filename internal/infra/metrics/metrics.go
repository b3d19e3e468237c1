// Package metrics provides Prometheus metrics for statbar.
// Samples are exported so a long-running statbar can double as a tiny
// node exporter when started with --listen.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tutu-network/statbar/internal/domain"
)

// ─── Samples ────────────────────────────────────────────────────────────────

// MetricValue tracks the last successful sample per mode and source.
var MetricValue = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "statbar",
	Name:      "metric_value",
	Help:      "Last sampled value (percent for bat/cpu/mem, degrees for tmp).",
}, []string{"mode", "source"})

// BatteryCharging tracks the charging direction (1=charging, 0=discharging).
var BatteryCharging = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "statbar",
	Name:      "battery_charging",
	Help:      "1 when on external power, 0 on battery.",
})

// ─── Reads ──────────────────────────────────────────────────────────────────

// ReadsTotal counts read attempts per mode.
var ReadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "statbar",
	Name:      "reads_total",
	Help:      "Total read attempts.",
}, []string{"mode"})

// ReadErrors counts failed reads by mode and reason.
var ReadErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "statbar",
	Name:      "read_errors_total",
	Help:      "Total failed reads.",
}, []string{"mode", "reason"})

// ReadLatency tracks how long a read took, including subprocess and HTTP time.
var ReadLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "statbar",
	Name:      "read_duration_seconds",
	Help:      "Read duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
}, []string{"mode"})

// Error reasons used as the "reason" label.
const (
	ReasonUnavailable = "unavailable"
	ReasonParse       = "parse"
	ReasonUpstream    = "upstream"
	ReasonOther       = "other"
)

// Reason classifies a read error for the reason label.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMetricUnavailable):
		return ReasonUnavailable
	case errors.Is(err, domain.ErrParse):
		return ReasonParse
	case errors.Is(err, domain.ErrUpstreamStatus):
		return ReasonUpstream
	default:
		return ReasonOther
	}
}

// Recorder adapts the package collectors to the loop's observer hook.
type Recorder struct{}

// ObserveSample records a successful read.
func (Recorder) ObserveSample(s domain.Sample, took time.Duration) {
	ReadsTotal.WithLabelValues(s.Mode.String()).Inc()
	ReadLatency.WithLabelValues(s.Mode.String()).Observe(took.Seconds())
	MetricValue.WithLabelValues(s.Mode.String(), s.Source).Set(s.Value)
	if s.Mode == domain.ModeBattery {
		if s.Direction == domain.DirectionCharging {
			BatteryCharging.Set(1)
		} else {
			BatteryCharging.Set(0)
		}
	}
}

// ObserveError records a failed read.
func (Recorder) ObserveError(mode domain.Mode, reason string, took time.Duration) {
	ReadsTotal.WithLabelValues(mode.String()).Inc()
	ReadLatency.WithLabelValues(mode.String()).Observe(took.Seconds())
	ReadErrors.WithLabelValues(mode.String(), reason).Inc()
}
