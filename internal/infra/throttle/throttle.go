package throttle

// Rate-bounded invocation for high-frequency signals (resize notifications)
// Leading call runs immediately, calls inside the window coalesce into one trailing call
// The trailing call always receives the most recent argument
// Pending calls are dropped on Cancel and when the owning context ends

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// FrameInterval is one display refresh at 60 Hz.
const FrameInterval = time.Second / 60

type Throttler[T any] struct {
	mu          sync.Mutex
	fn          func(T)
	limiter     *rate.Limiter
	timer       *time.Timer
	reservation *rate.Reservation
	pending     T
	generation  uint64
	closed      bool
	stop        func() bool
}

// New returns a throttler calling fn at most once per window.
// The throttler is closed when ctx is done.
func New[T any](ctx context.Context, window time.Duration, fn func(T)) *Throttler[T] {
	if window <= 0 {
		window = FrameInterval
	}
	t := &Throttler[T]{
		fn:      fn,
		limiter: rate.NewLimiter(rate.Every(window), 1),
	}
	t.mu.Lock()
	t.stop = context.AfterFunc(ctx, t.Close)
	t.mu.Unlock()
	return t
}

// Trigger schedules fn(arg).
func (t *Throttler[T]) Trigger(arg T) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	if t.timer != nil {
		t.pending = arg
		t.mu.Unlock()
		return
	}

	r := t.limiter.Reserve()
	delay := r.Delay()
	if delay == 0 {
		t.mu.Unlock()
		t.fn(arg)
		return
	}

	t.pending = arg
	t.reservation = r
	gen := t.generation
	t.timer = time.AfterFunc(delay, func() { t.flush(gen) })
	t.mu.Unlock()
}

func (t *Throttler[T]) flush(gen uint64) {
	t.mu.Lock()
	if t.closed || t.timer == nil || gen != t.generation {
		t.mu.Unlock()
		return
	}
	arg := t.pending
	t.clearLocked()
	t.mu.Unlock()

	t.fn(arg)
}

// Pending reports whether a trailing call is scheduled.
func (t *Throttler[T]) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Cancel drops the scheduled trailing call, if any.
func (t *Throttler[T]) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// Close cancels pending work and ignores every later Trigger.
func (t *Throttler[T]) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.cancelLocked()
	t.closed = true
	stop := t.stop
	t.mu.Unlock()

	if stop != nil {
		stop()
	}
}

func (t *Throttler[T]) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *Throttler[T]) cancelLocked() {
	if t.timer == nil {
		return
	}
	t.timer.Stop()
	if t.reservation != nil {
		t.reservation.Cancel()
	}
	t.clearLocked()
}

func (t *Throttler[T]) clearLocked() {
	var zero T
	t.timer = nil
	t.reservation = nil
	t.pending = zero
	t.generation++
}
