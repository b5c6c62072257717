package render

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	values []float64
}

func (r *recorder) apply(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder) get() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.values...)
}

func TestAnimateRunsToTarget(t *testing.T) {
	var a Animator
	r := &recorder{}

	// 0.125s at 50 fps = 6 frames
	a.Animate(context.Background(), 0, 120, 125*time.Millisecond, r.apply)
	a.Wait()

	got := r.get()
	require.Len(t, got, 6)
	assert.InDelta(t, 20, got[0], 1e-9)
	assert.Equal(t, 120.0, got[len(got)-1])
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1])
	}
}

func TestAnimateSnapsOnCancel(t *testing.T) {
	var a Animator
	r := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	a.Animate(ctx, 0, 300, time.Hour, r.apply)
	cancel()
	a.Wait()

	got := r.get()
	require.NotEmpty(t, got)
	assert.Equal(t, 300.0, got[len(got)-1])
}

func TestAnimateZeroDuration(t *testing.T) {
	var a Animator
	r := &recorder{}

	a.Animate(context.Background(), 10, 42, 0, r.apply)
	assert.Equal(t, []float64{42}, r.get())
}

func TestAnimateReplacesRunning(t *testing.T) {
	var a Animator
	first := &recorder{}
	second := &recorder{}

	a.Animate(context.Background(), 0, 100, time.Hour, first.apply)
	a.Animate(context.Background(), 100, 50, 40*time.Millisecond, second.apply)
	a.Wait()

	f := first.get()
	require.NotEmpty(t, f)
	assert.Equal(t, 100.0, f[len(f)-1])

	s := second.get()
	require.Len(t, s, 2)
	assert.Equal(t, 50.0, s[len(s)-1])
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 0.0, Lerp(0, 10, 0))
	assert.Equal(t, 10.0, Lerp(0, 10, 1))
	assert.Equal(t, 5.0, Lerp(10, 0, 0.5))
}

func TestTierGradient(t *testing.T) {
	for _, tier := range []Tier{TierA, TierB, TierC, TierD} {
		stops := tier.Gradient()
		assert.Equal(t, stops[0], tier.ColorAt(0))
		assert.Equal(t, stops[1], tier.ColorAt(0.5))
		assert.Equal(t, stops[2], tier.ColorAt(1))
	}
	assert.Equal(t, "#14FF00", TierA.Gradient()[2].Hex())
}

func TestTierJSON(t *testing.T) {
	b, err := TierC.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"C"`, string(b))

	var tier Tier
	require.NoError(t, tier.UnmarshalJSON([]byte(`"A"`)))
	assert.Equal(t, TierA, tier)
}
