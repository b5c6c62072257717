package widget

import (
	"context"
	"errors"
	"sync"
)

// ErrDispatcherStopped is returned when work is queued after the
// dispatcher stopped.
var ErrDispatcherStopped = errors.New("dispatcher stopped")

// Dispatcher runs queued functions one at a time, in order, on a single
// goroutine. All widget state is mutated from here.
type Dispatcher struct {
	queue   chan func()
	stopped chan struct{}
	once    sync.Once

	// overflow holds posted work that did not fit in queue.
	mu       sync.Mutex
	overflow []func()
	wake     chan struct{}
}

func NewDispatcher(size int) *Dispatcher {
	if size <= 0 {
		size = 64
	}
	return &Dispatcher{
		queue:   make(chan func(), size),
		stopped: make(chan struct{}),
		wake:    make(chan struct{}, 1),
	}
}

// Run drains the queue until ctx is done. It must be called once.
func (d *Dispatcher) Run(ctx context.Context) {
	defer d.once.Do(func() { close(d.stopped) })

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-d.queue:
			fn()
		case <-d.wake:
			d.drainOverflow()
		}
	}
}

func (d *Dispatcher) drainOverflow() {
	d.mu.Lock()
	fns := d.overflow
	d.overflow = nil
	d.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// TryEnqueue queues fn without blocking. It returns false if the queue is
// full or the dispatcher stopped.
func (d *Dispatcher) TryEnqueue(fn func()) bool {
	select {
	case <-d.stopped:
		return false
	default:
	}

	select {
	case d.queue <- fn:
		return true
	default:
		return false
	}
}

// Post queues fn without blocking, even when the queue is full. Work
// that does not fit may run after work queued later. It returns false
// only if the dispatcher stopped.
func (d *Dispatcher) Post(fn func()) bool {
	if d.TryEnqueue(fn) {
		return true
	}

	select {
	case <-d.stopped:
		return false
	default:
	}

	d.mu.Lock()
	d.overflow = append(d.overflow, fn)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return true
}

// Invoke queues fn and waits for it to run.
//
// Calling Invoke from the dispatcher goroutine deadlocks.
func (d *Dispatcher) Invoke(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	wrapped := func() {
		defer close(done)
		fn()
	}

	select {
	case <-d.stopped:
		return ErrDispatcherStopped
	case <-ctx.Done():
		return ctx.Err()
	case d.queue <- wrapped:
	}

	select {
	case <-done:
		return nil
	case <-d.stopped:
		return ErrDispatcherStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
