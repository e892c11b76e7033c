package throttle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []int
}

func (r *recorder) record(v int) {
	r.mu.Lock()
	r.calls = append(r.calls, v)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.calls...)
}

func TestThrottler_LeadingCallRunsImmediately(t *testing.T) {
	rec := &recorder{}
	th := New(context.Background(), 50*time.Millisecond, rec.record)
	defer th.Close()

	th.Trigger(1)
	assert.Equal(t, []int{1}, rec.snapshot())
	assert.False(t, th.Pending())
}

func TestThrottler_TrailingCallUsesLatestArgument(t *testing.T) {
	rec := &recorder{}
	th := New(context.Background(), 50*time.Millisecond, rec.record)
	defer th.Close()

	th.Trigger(1)
	th.Trigger(2)
	th.Trigger(3)
	assert.Equal(t, []int{1}, rec.snapshot())
	assert.True(t, th.Pending())

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{1, 3}, rec.snapshot())
	assert.False(t, th.Pending())
}

func TestThrottler_CancelDropsPendingCall(t *testing.T) {
	rec := &recorder{}
	th := New(context.Background(), 40*time.Millisecond, rec.record)
	defer th.Close()

	th.Trigger(1)
	th.Trigger(2)
	th.Cancel()
	assert.False(t, th.Pending())

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, []int{1}, rec.snapshot())

	th.Trigger(4)
	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{1, 4}, rec.snapshot())
}

func TestThrottler_ContextEndClosesThrottler(t *testing.T) {
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	th := New(ctx, 40*time.Millisecond, rec.record)

	th.Trigger(1)
	th.Trigger(2)
	cancel()

	require.Eventually(t, th.Closed, time.Second, 5*time.Millisecond)
	th.Trigger(3)

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, []int{1}, rec.snapshot())
}

func TestThrottler_DefaultWindow(t *testing.T) {
	rec := &recorder{}
	th := New(context.Background(), 0, rec.record)
	defer th.Close()

	th.Trigger(1)
	th.Trigger(2)
	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 2
	}, time.Second, time.Millisecond)
	assert.Equal(t, []int{1, 2}, rec.snapshot())
}
