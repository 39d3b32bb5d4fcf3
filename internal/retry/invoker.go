// Package retry wraps Gmail API calls with bounded retry on rate limiting.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/googleapi"
)

// ErrExhausted indicates every retry attempt was rejected with a rate limit.
var ErrExhausted = errors.New("rate limit retries exhausted")

const defaultMaxAttempts = 5

// Invoker retries rate-limited calls with exponential backoff. Any other
// failure is returned to the caller unchanged on the first attempt.
type Invoker struct {
	// MaxAttempts is the total number of attempts, defaults to 5.
	MaxAttempts int
	// BaseDelay is the backoff unit: attempt n waits BaseDelay * 2^n.
	BaseDelay time.Duration
	// Sleep overrides the backoff wait, used by tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

// New creates an Invoker with the default attempt cap and a one second
// backoff unit.
func New() *Invoker {
	return &Invoker{
		MaxAttempts: defaultMaxAttempts,
		BaseDelay:   time.Second,
	}
}

// Do runs fn, retrying while it reports a rate limit. Every rate-limited
// attempt n is followed by a 2^n backoff wait, the last one included, so a
// full cycle sleeps 1, 2, 4, 8 and 16 units before giving up.
func (i *Invoker) Do(ctx context.Context, op string, fn func() error) error {
	maxAttempts := i.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	var lastErr error
	for n := 0; n < maxAttempts; n++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsRateLimited(lastErr) {
			return lastErr
		}

		wait := i.BaseDelay << uint(n)
		log.Printf("%s rate limited on attempt %d/%d, waiting %s", op, n+1, maxAttempts, wait)

		if err := i.sleep(ctx, wait); err != nil {
			return fmt.Errorf("%s: backoff interrupted: %w", op, err)
		}
	}

	return fmt.Errorf("%s: %w after %d attempts: %s", op, ErrExhausted, maxAttempts, lastErr)
}

func (i *Invoker) sleep(ctx context.Context, d time.Duration) error {
	if i.Sleep != nil {
		return i.Sleep(ctx, d)
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRateLimited reports whether err is a Gmail rate-limit rejection: HTTP
// 429, or 403 carrying one of the rate-limit reasons Gmail uses for quota
// rejections.
func IsRateLimited(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}

	if apiErr.Code == 429 {
		return true
	}
	if apiErr.Code != 403 {
		return false
	}

	for _, item := range apiErr.Errors {
		switch item.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded":
			return true
		}
	}

	return false
}
