package async

import (
	"context"
	"fmt"
	"sync"
)

// Task is a named unit of work.
type Task struct {
	Name string
	Func func(context.Context) error
}

type config struct {
	limit       int
	cancelOnErr bool
}

// Option configures RunParallel.
type Option func(*config)

// WithLimit caps the number of tasks running at once. n <= 0 means no cap.
func WithLimit(n int) Option {
	return func(c *config) { c.limit = n }
}

// WithCancelOnError cancels the context passed to the remaining tasks as
// soon as one task fails.
func WithCancelOnError() Option {
	return func(c *config) { c.cancelOnErr = true }
}

// RunParallel runs every task and waits for all of them. The first error,
// in completion order, is returned wrapped with the task name.
//
//	tasks := []async.Task{
//	    {Name: "photo front.jpg", Func: putFront},
//	    {Name: "photo kitchen.jpg", Func: putKitchen},
//	}
//	if err := async.RunParallel(ctx, tasks, async.WithLimit(4)); err != nil {
//	    return err
//	}
func RunParallel(ctx context.Context, tasks []Task, opts ...Option) error {
	if len(tasks) == 0 {
		return nil
	}

	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var sem chan struct{}
	if cfg.limit > 0 && cfg.limit < len(tasks) {
		sem = make(chan struct{}, cfg.limit)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, task := range tasks {
		task := task
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sem != nil {
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					record(&mu, &firstErr, task.Name, ctx.Err())
					return
				}
			}
			if err := task.Func(ctx); err != nil {
				record(&mu, &firstErr, task.Name, err)
				if cfg.cancelOnErr {
					cancel()
				}
			}
		}()
	}
	wg.Wait()

	return firstErr
}

func record(mu *sync.Mutex, first *error, name string, err error) {
	mu.Lock()
	defer mu.Unlock()
	if *first == nil {
		*first = fmt.Errorf("failed to %s: %w", name, err)
	}
}
