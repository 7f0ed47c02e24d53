package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy describes how often and how patiently an operation is retried.
type Policy struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// OnRetry runs after a failed attempt, before waiting next.
	OnRetry func(attempt int, err error, next time.Duration)
}

// Option adjusts a Policy.
type Option func(*Policy)

// DefaultPolicy suits start-up checks against local services.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   4,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2,
	}
}

// delay returns the wait before the given retry (1-based).
func (p Policy) delay(retry int) time.Duration {
	d := float64(p.InitialDelay)
	for i := 1; i < retry; i++ {
		d *= p.Multiplier
		if time.Duration(d) >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	return time.Duration(d)
}

// WithExponentialBackoff runs operation until it succeeds, fails with a
// Fatal error, exhausts the policy, or ctx is done.
func WithExponentialBackoff(ctx context.Context, operation func(context.Context) error, opts ...Option) error {
	p := DefaultPolicy()
	for _, opt := range opts {
		opt(&p)
	}

	attempts := 0
	for {
		err := operation(ctx)
		attempts++
		switch {
		case err == nil:
			return nil
		case IsFatal(err):
			return fmt.Errorf("fatal error (not retrying): %w", err)
		case attempts > p.MaxRetries:
			return fmt.Errorf("operation failed after %d attempts: %w", attempts, err)
		}

		wait := p.delay(attempts)
		if p.OnRetry != nil {
			p.OnRetry(attempts, err, wait)
		}
		if err := sleep(ctx, wait); err != nil {
			return fmt.Errorf("context cancelled after %d attempts: %w", attempts, err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// WithMaxRetries sets the number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(p *Policy) { p.MaxRetries = n }
}

// WithInitialDelay sets the wait before the first retry.
func WithInitialDelay(d time.Duration) Option {
	return func(p *Policy) { p.InitialDelay = d }
}

// WithMaxDelay caps the wait between retries.
func WithMaxDelay(d time.Duration) Option {
	return func(p *Policy) { p.MaxDelay = d }
}

// WithMultiplier sets the growth factor of the wait.
func WithMultiplier(m float64) Option {
	return func(p *Policy) { p.Multiplier = m }
}

// WithOnRetry registers a hook, typically used to log the failed attempt.
func WithOnRetry(fn func(attempt int, err error, next time.Duration)) Option {
	return func(p *Policy) { p.OnRetry = fn }
}

type fatalError struct{ err error }

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// Fatal marks err as not worth retrying, e.g. rejected credentials.
// Fatal(nil) is nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether err is, or wraps, an error marked by Fatal.
func IsFatal(err error) bool {
	var f *fatalError
	return errors.As(err, &f)
}
