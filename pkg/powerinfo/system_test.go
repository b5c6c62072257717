package powerinfo

import (
	"context"
	"errors"
	"testing"

	"github.com/distatus/battery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bat(state battery.AgnosticState, current, full, rate float64) *battery.Battery {
	return &battery.Battery{
		State:      battery.State{Raw: state},
		Current:    current,
		Full:       full,
		Design:     full,
		ChargeRate: rate,
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name       string
		batteries  []*battery.Battery
		err        error
		wantStatus Status
		wantRate   *int
		wantRemain int
		wantFull   int
	}{
		{
			name:       "single discharging battery has negative rate",
			batteries:  []*battery.Battery{bat(battery.Discharging, 25000, 50000, 500)},
			wantStatus: Discharging,
			wantRate:   intp(-500),
			wantRemain: 25000,
			wantFull:   50000,
		},
		{
			name:       "charging wins over discharging",
			batteries:  []*battery.Battery{bat(battery.Charging, 10000, 40000, 2000), bat(battery.Discharging, 5000, 20000, 500)},
			wantStatus: Charging,
			wantRate:   intp(1500),
			wantRemain: 15000,
			wantFull:   60000,
		},
		{
			name:       "full battery is idle",
			batteries:  []*battery.Battery{bat(battery.Full, 50000, 50000, 0)},
			wantStatus: Idle,
			wantRate:   intp(0),
			wantRemain: 50000,
			wantFull:   50000,
		},
		{
			name:       "zero capacity ghost battery is skipped",
			batteries:  []*battery.Battery{bat(battery.Unknown, 0, 0, 0), bat(battery.Discharging, 100, 1000, 10)},
			wantStatus: Discharging,
			wantRate:   intp(-10),
			wantRemain: 100,
			wantFull:   1000,
		},
		{
			name:      "battery with fatal per-battery error is skipped",
			batteries: []*battery.Battery{bat(battery.Discharging, 100, 1000, 10)},
			err:       battery.Errors{errors.New("boom")},
			// nothing usable left
			wantStatus: NotPresent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := aggregate(tt.batteries, tt.err)
			assert.Equal(t, tt.wantStatus, got.Status)
			if tt.wantStatus == NotPresent {
				assert.Nil(t, got.Remaining)
				return
			}
			require.NotNil(t, got.Remaining)
			require.NotNil(t, got.FullCharge)
			assert.Equal(t, tt.wantRemain, *got.Remaining)
			assert.Equal(t, tt.wantFull, *got.FullCharge)
			assert.Equal(t, tt.wantRate, got.ChargeRate)
		})
	}
}

func TestSystemProviderNoBattery(t *testing.T) {
	orig := getAll
	defer func() { getAll = orig }()

	getAll = func() ([]*battery.Battery, error) { return nil, nil }

	r, err := NewSystemProvider().Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NotPresent, r.Status)
}

func TestStatusJSON(t *testing.T) {
	b, err := Charging.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"charging"`, string(b))

	var s Status
	require.NoError(t, s.UnmarshalJSON([]byte(`"discharging"`)))
	assert.Equal(t, Discharging, s)
	assert.Error(t, s.UnmarshalJSON([]byte(`"exploding"`)))
}

func intp(i int) *int { return &i }
