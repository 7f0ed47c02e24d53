package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fast() []Option {
	return []Option{WithInitialDelay(time.Millisecond), WithMaxDelay(2 * time.Millisecond)}
}

func TestWithExponentialBackoff_Success(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := WithExponentialBackoff(context.Background(), func(context.Context) error {
		attempts++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithExponentialBackoff_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	var hooked []int
	opts := append(fast(), WithOnRetry(func(attempt int, _ error, _ time.Duration) {
		hooked = append(hooked, attempt)
	}))

	err := WithExponentialBackoff(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("broker not ready")
		}
		return nil
	}, opts...)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []int{1, 2}, hooked)
}

func TestWithExponentialBackoff_Exhausted(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := WithExponentialBackoff(context.Background(), func(context.Context) error {
		attempts++
		return errors.New("still down")
	}, append(fast(), WithMaxRetries(2))...)

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestWithExponentialBackoff_Fatal(t *testing.T) {
	t.Parallel()
	denied := errors.New("access denied")
	attempts := 0
	err := WithExponentialBackoff(context.Background(), func(context.Context) error {
		attempts++
		return Fatal(denied)
	}, fast()...)

	assert.ErrorIs(t, err, denied)
	assert.Equal(t, 1, attempts)
}

func TestWithExponentialBackoff_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	err := WithExponentialBackoff(ctx, func(context.Context) error {
		cancel()
		return errors.New("transient")
	}, WithInitialDelay(time.Minute))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsFatal(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Fatal(nil))
	assert.True(t, IsFatal(fmt.Errorf("wrapped: %w", Fatal(errors.New("x")))))
	assert.False(t, IsFatal(errors.New("x")))
}

func TestPolicyDelay(t *testing.T) {
	t.Parallel()
	p := Policy{InitialDelay: time.Second, MaxDelay: 10 * time.Second, Multiplier: 2}

	var got []time.Duration
	for retry := 1; retry <= 5; retry++ {
		got = append(got, p.delay(retry))
	}
	assert.Equal(t, []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second,
	}, got)
}
