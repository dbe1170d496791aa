package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds retries of an operation. Delays grow exponentially from
// BaseDelay and are capped by MaxDelay.
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

func (p Policy) backOff(ctx context.Context) backoff.BackOffContext {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.BaseDelay
	if p.MaxDelay > 0 {
		exp.MaxInterval = p.MaxDelay
	}
	exp.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(attempts-1)), ctx)
}

// Do runs fn until it succeeds, returns a non-retryable error or attempts run
// out; the last error is returned then. If ctx ends first, its error is
// returned.
func Do(ctx context.Context, p Policy, retryable func(error) bool, fn func(ctx context.Context) error) error {
	return backoff.Retry(func() error {
		err := fn(ctx)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, p.backOff(ctx))
}
