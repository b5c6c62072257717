package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/charlie0129/battbar/pkg/powerinfo"
	"github.com/charlie0129/battbar/pkg/render"
	"github.com/charlie0129/battbar/pkg/utils/ptr"
)

func TestRegistered(t *testing.T) {
	Samples.WithLabelValues(ResultOK).Add(0)

	families, err := prometheus.DefaultGatherer.Gather()
	assert.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, name := range []string{
		"battbar_charge_percent",
		"battbar_charge_rate_milliwatts",
		"battbar_samples_total",
		"battbar_status_changes_total",
	} {
		assert.True(t, names[name], "metric %q not found", name)
	}
}

func TestObserver(t *testing.T) {
	var o Observer

	okBefore := testutil.ToFloat64(Samples.WithLabelValues(ResultOK))
	errBefore := testutil.ToFloat64(Samples.WithLabelValues(ResultError))
	skipBefore := testutil.ToFloat64(Samples.WithLabelValues(ResultSkipped))
	changesBefore := testutil.ToFloat64(StatusChanges)

	o.Sampled(
		powerinfo.Report{Status: powerinfo.Discharging, ChargeRate: ptr.To(-4200)},
		render.RenderState{Percentage: 64, Drawn: true, StatusChanged: true},
		nil,
	)
	assert.Equal(t, 64.0, testutil.ToFloat64(ChargePercent))
	assert.Equal(t, -4200.0, testutil.ToFloat64(ChargeRate))
	assert.Equal(t, okBefore+1, testutil.ToFloat64(Samples.WithLabelValues(ResultOK)))
	assert.Equal(t, changesBefore+1, testutil.ToFloat64(StatusChanges))

	// Simulated frames do not move the gauge.
	o.Sampled(powerinfo.Report{}, render.RenderState{Percentage: 12, Drawn: true, Simulated: true}, nil)
	assert.Equal(t, 64.0, testutil.ToFloat64(ChargePercent))

	o.Sampled(powerinfo.Report{}, render.RenderState{}, assert.AnError)
	assert.Equal(t, errBefore+1, testutil.ToFloat64(Samples.WithLabelValues(ResultError)))

	o.Skipped()
	assert.Equal(t, skipBefore+1, testutil.ToFloat64(Samples.WithLabelValues(ResultSkipped)))
}
