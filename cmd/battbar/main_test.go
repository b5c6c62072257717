package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battbar/pkg/config"
	"github.com/charlie0129/battbar/pkg/history"
	"github.com/charlie0129/battbar/pkg/powerinfo"
	"github.com/charlie0129/battbar/pkg/utils/ptr"
)

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestParseIntArg(t *testing.T) {
	v, err := parseIntArg([]string{"1500"}, "interval")
	require.NoError(t, err)
	assert.Equal(t, 1500, v)

	_, err = parseIntArg(nil, "interval")
	assert.Error(t, err)
	_, err = parseIntArg([]string{"soon"}, "interval")
	assert.Error(t, err)
}

func TestEnableDisableCommand(t *testing.T) {
	var got []bool
	cmd := newEnableDisableCommand("topmost", "keeping on top", "", func(enabled bool) (string, error) {
		got = append(got, enabled)
		return "", nil
	})

	for _, args := range [][]string{{"enable"}, {"disable"}} {
		cmd.SetArgs(args)
		require.NoError(t, cmd.Execute())
	}
	assert.Equal(t, []bool{true, false}, got)
}

func TestFormatSample(t *testing.T) {
	s := history.Sample{
		Time:       time.Date(2024, 5, 1, 12, 30, 0, 0, time.Local),
		Status:     powerinfo.Discharging,
		Percentage: 42,
		ChargeRate: ptr.To(-7500),
	}
	out := formatSample(s)
	assert.Contains(t, out, "2024-05-01 12:30:00")
	assert.Contains(t, out, "discharging")
	assert.Contains(t, out, " 42%")
	assert.Contains(t, out, "-7.5 W")

	s.ChargeRate = nil
	assert.Contains(t, formatSample(s), "n/a")
}

func TestRateText(t *testing.T) {
	assert.Contains(t, rateText(ptr.To(2500)), "+2.5 W")
	assert.Contains(t, rateText(ptr.To(-1000)), "-1.0 W")
	assert.Contains(t, rateText(nil), "n/a")
}

func TestRunWatch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	out := &syncBuffer{}
	provider := powerinfo.Static{R: powerinfo.Report{
		Status:     powerinfo.Discharging,
		ChargeRate: ptr.To(-1000),
		Remaining:  ptr.To(25000),
		FullCharge: ptr.To(50000),
	}}

	err := runWatch(ctx, config.NewFileFromConfig(nil, ""), provider, out)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "⚡ 50%")
	assert.Contains(t, s, "on battery")
	// The first sample is a status change.
	assert.Equal(t, 1, strings.Count(s, bell))
}
