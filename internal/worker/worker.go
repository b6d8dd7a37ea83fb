// Package worker runs a single kind of job on a background goroutine with a
// hard time limit. Each Run bumps a generation counter so a result that
// arrives after a newer job started is discarded instead of returned.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrSuperseded is returned when a newer job was started while waiting.
var ErrSuperseded = errors.New("superseded by newer request")

// ErrTimeout is returned when the job exceeded the runner's limit.
var ErrTimeout = errors.New("timed out")

type result[T any] struct {
	val T
	err error
}

// Runner serializes nothing; it only tracks which job is current.
type Runner[T any] struct {
	Timeout time.Duration

	mu         sync.Mutex
	generation uint64
}

// New returns a Runner with the given time limit. A zero timeout waits
// until the job finishes or the context is done.
func New[T any](timeout time.Duration) *Runner[T] {
	return &Runner[T]{Timeout: timeout}
}

// Generation returns the id of the most recently started job.
func (r *Runner[T]) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// Run executes fn on its own goroutine and waits for it. Panics inside fn
// are turned into errors. On timeout or cancellation the goroutine may
// still be running; its result is dropped when it completes.
func (r *Runner[T]) Run(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	r.mu.Lock()
	r.generation++
	gen := r.generation
	r.mu.Unlock()

	ch := make(chan result[T], 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				ch <- result[T]{err: fmt.Errorf("panic: %v", p)}
			}
		}()
		v, err := fn(ctx)
		ch <- result[T]{val: v, err: err}
	}()

	return r.wait(ctx, ch, gen)
}

func (r *Runner[T]) wait(ctx context.Context, ch <-chan result[T], gen uint64) (T, error) {
	var zero T
	var timeout <-chan time.Time
	if r.Timeout > 0 {
		timer := time.NewTimer(r.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case res := <-ch:
		if gen != r.Generation() {
			return zero, ErrSuperseded
		}
		return res.val, res.err
	case <-timeout:
		return zero, fmt.Errorf("%w after %s", ErrTimeout, r.Timeout)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
