package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battbar/pkg/powerinfo"
	"github.com/charlie0129/battbar/pkg/render"
	"github.com/charlie0129/battbar/pkg/utils/ptr"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	a, err := Open(path)
	require.NoError(t, err)
	sessionA := a.Session()
	require.NoError(t, a.Close())

	// Reopening migrates again without error and starts a new session.
	b, err := Open(path)
	require.NoError(t, err)
	defer b.Close()
	assert.NotEmpty(t, sessionA)
	assert.NotEqual(t, sessionA, b.Session())
}

func TestRecentNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, Sample{
			Time:       base.Add(time.Duration(i) * time.Minute),
			Status:     powerinfo.Discharging,
			Percentage: 90 - i,
			ChargeRate: ptr.To(-5000),
		}))
	}

	got, err := s.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{86, 87, 88}, []int{got[0].Percentage, got[1].Percentage, got[2].Percentage})
	assert.Equal(t, s.Session(), got[0].Session)
	assert.Equal(t, powerinfo.Discharging, got[0].Status)
	assert.True(t, got[0].Time.Equal(base.Add(4*time.Minute)))
	require.NotNil(t, got[0].ChargeRate)
	assert.Equal(t, -5000, *got[0].ChargeRate)
	assert.Nil(t, got[0].Remaining)

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestSampledFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	report := powerinfo.Report{
		Status:     powerinfo.Charging,
		ChargeRate: ptr.To(2000),
		Remaining:  ptr.To(30000),
		FullCharge: ptr.To(50000),
	}

	s.Sampled(report, render.RenderState{Percentage: 60, Drawn: true}, nil)
	s.Sampled(report, render.RenderState{Percentage: 60}, assert.AnError)
	s.Sampled(powerinfo.Report{}, render.RenderState{Percentage: 12, Simulated: true}, nil)

	got, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 60, got[0].Percentage)
	assert.Equal(t, powerinfo.Charging, got[0].Status)
	require.NotNil(t, got[0].FullCharge)
	assert.Equal(t, 50000, *got[0].FullCharge)
}
