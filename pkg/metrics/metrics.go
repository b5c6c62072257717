// Package metrics exports the widget's battery readings to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/charlie0129/battbar/pkg/powerinfo"
	"github.com/charlie0129/battbar/pkg/render"
)

const namespace = "battbar"

// Sample results.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

// ChargePercent is the percentage shown by the last drawn frame.
var ChargePercent = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "charge_percent",
	Help:      "Battery charge shown by the widget, in percent.",
})

// ChargeRate is the last reported charge rate, negative when draining.
var ChargeRate = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "charge_rate_milliwatts",
	Help:      "Battery charge rate in milliwatts, negative when discharging.",
})

var Samples = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "samples_total",
	Help:      "Refresh ticks by result.",
}, []string{"result"})

var StatusChanges = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "status_changes_total",
	Help:      "Number of battery status transitions.",
})

// Observer records every widget tick.
type Observer struct{}

func (Observer) Sampled(report powerinfo.Report, state render.RenderState, err error) {
	if state.StatusChanged {
		StatusChanges.Inc()
	}
	if err != nil {
		Samples.WithLabelValues(ResultError).Inc()
		return
	}
	Samples.WithLabelValues(ResultOK).Inc()

	if state.Drawn && !state.Simulated {
		ChargePercent.Set(float64(state.Percentage))
	}
	if report.ChargeRate != nil {
		ChargeRate.Set(float64(*report.ChargeRate))
	}
}

func (Observer) Skipped() {
	Samples.WithLabelValues(ResultSkipped).Inc()
}
