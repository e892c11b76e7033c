package retry

// Retry with exponential backoff and full jitter
// Retryable: status 429 and 5xx gateway errors carried by *HTTPError
// A 429 with RetryAfter waits exactly that long (clamped to MaxDelay)

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"
)

type Options struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultOptions suit Telegram sends: a few quick attempts, then give up.
func DefaultOptions() Options {
	return Options{
		MaxRetries: 3,
		BaseDelay:  300 * time.Millisecond,
		MaxDelay:   30 * time.Second,
	}
}

// HTTPError is a failed call with a status code. Callers convert client
// specific errors into it so Do can classify them.
type HTTPError struct {
	StatusCode int
	Body       []byte
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error: <nil>"
	}
	if len(e.Body) == 0 {
		return fmt.Sprintf("http error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("http error (%d): %s", e.StatusCode, string(e.Body))
}

func IsRetryable(err error) bool {
	var he *HTTPError
	if !errors.As(err, &he) {
		return false
	}
	switch he.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func clamp(d, max time.Duration) time.Duration {
	if max > 0 && d > max {
		return max
	}
	return d
}

// FullJitterSleep picks a delay in [0, min(base*2^attempt, max)].
func FullJitterSleep(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if baseDelay <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	ceiling := clamp(baseDelay<<attempt, maxDelay)
	if ceiling <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(ceiling) + 1))
}

// Do calls fn until it succeeds, returns a non-retryable error, runs out of
// attempts or ctx is done.
func Do(ctx context.Context, opts Options, fn func() error) error {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 300 * time.Millisecond
	}

	totalAttempts := 1 + opts.MaxRetries
	var lastErr error

	for attempt := 0; attempt < totalAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == totalAttempts-1 {
			return lastErr
		}

		sleep := FullJitterSleep(attempt, opts.BaseDelay, opts.MaxDelay)
		var he *HTTPError
		if errors.As(err, &he) && he.StatusCode == http.StatusTooManyRequests && he.RetryAfter > 0 {
			sleep = clamp(he.RetryAfter, opts.MaxDelay)
		}

		t := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	return lastErr
}
