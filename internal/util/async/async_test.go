package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunParallel_Success(t *testing.T) {
	t.Parallel()
	var count atomic.Int32
	inc := func(context.Context) error {
		count.Add(1)
		return nil
	}

	err := RunParallel(context.Background(), []Task{
		{Name: "one", Func: inc},
		{Name: "two", Func: inc},
		{Name: "three", Func: inc},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), count.Load())
}

func TestRunParallel_EmptyTasks(t *testing.T) {
	t.Parallel()
	assert.NoError(t, RunParallel(context.Background(), nil))
	assert.NoError(t, RunParallel(context.Background(), []Task{}))
}

func TestRunParallel_ReturnsError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	var ran atomic.Int32

	err := RunParallel(context.Background(), []Task{
		{Name: "ok", Func: func(context.Context) error { ran.Add(1); return nil }},
		{Name: "upload photo", Func: func(context.Context) error { ran.Add(1); return boom }},
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to upload photo")
	assert.Equal(t, int32(2), ran.Load())
}

func TestRunParallel_Limit(t *testing.T) {
	t.Parallel()
	var running, peak atomic.Int32
	task := func(context.Context) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		return nil
	}

	tasks := make([]Task, 8)
	for i := range tasks {
		tasks[i] = Task{Name: "t", Func: task}
	}
	require.NoError(t, RunParallel(context.Background(), tasks, WithLimit(2)))
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRunParallel_CancelOnError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")

	err := RunParallel(context.Background(), []Task{
		{Name: "fail", Func: func(context.Context) error { return boom }},
		{Name: "wait", Func: func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
				return errors.New("not cancelled")
			}
		}},
	}, WithCancelOnError())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "not cancelled")
}
