package render

import (
	"context"
	"sync"
	"time"
)

// FrameRate is the number of animation frames per second.
const FrameRate = 50

// Animator drives one linear animation at a time from a repeating timer.
type Animator struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Animate calls apply with values interpolated from from to to over
// duration, one call per frame. The last call always receives exactly to,
// whether the animation ran to its final frame or ctx was cancelled
// first. A running animation is stopped before the new one starts.
//
// apply runs on the animator's goroutine and must not block.
func (a *Animator) Animate(ctx context.Context, from, to float64, duration time.Duration, apply func(float64)) {
	a.Stop()

	frames := int(duration.Seconds() * FrameRate)
	if frames <= 0 {
		apply(to)
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	a.mu.Lock()
	a.cancel = cancel
	a.done = done
	a.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()

		ticker := time.NewTicker(time.Second / FrameRate)
		defer ticker.Stop()

		for frame := 1; ; frame++ {
			select {
			case <-ctx.Done():
				apply(to)
				return
			case <-ticker.C:
			}

			if frame >= frames {
				apply(to)
				return
			}
			apply(Lerp(from, to, float64(frame)/float64(frames)))
		}
	}()
}

// Stop ends the running animation, if any, and waits until its final
// frame has been applied.
func (a *Animator) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Wait blocks until the running animation, if any, finishes.
func (a *Animator) Wait() {
	a.mu.Lock()
	done := a.done
	a.mu.Unlock()

	if done != nil {
		<-done
	}
}
