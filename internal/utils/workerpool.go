package utils

import (
	"context"
	"sync"
)

// Result is the message a worker sends for one task. Results are values and
// are never modified after they are sent.
type Result[T, R any] struct {
	Index int
	Input T
	Value R
	Err   error
}

// Worker is a function that processes a task
type Worker[T, R any] func(ctx context.Context, input T) (R, error)

// Pool is a worker pool for concurrent task processing. Workers share no
// mutable state; each reports on a single results channel.
type Pool[T, R any] struct {
	workers int
	worker  Worker[T, R]
}

// NewPool creates a new worker pool
func NewPool[T, R any](workers int, worker Worker[T, R]) *Pool[T, R] {
	if workers <= 0 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		worker:  worker,
	}
}

// Stream processes items and returns a channel that yields exactly one
// Result per item in completion order. The channel is closed once every
// item has been reported. Items not started before ctx is cancelled are
// reported with ctx.Err().
func (p *Pool[T, R]) Stream(ctx context.Context, items []T) <-chan Result[T, R] {
	out := make(chan Result[T, R], len(items))
	tasks := make(chan int, len(items))
	for i := range items {
		tasks <- i
	}
	close(tasks)

	workers := p.workers
	if workers > len(items) {
		workers = len(items)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range tasks {
				msg := Result[T, R]{Index: idx, Input: items[idx]}
				if err := ctx.Err(); err != nil {
					msg.Err = err
				} else {
					msg.Value, msg.Err = p.worker(ctx, items[idx])
				}
				out <- msg
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// Process runs every item and returns the results in input order
func (p *Pool[T, R]) Process(ctx context.Context, items []T) ([]Result[T, R], error) {
	results := make([]Result[T, R], len(items))
	for msg := range p.Stream(ctx, items) {
		results[msg.Index] = msg
	}

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// CollectErrors collects all non-nil errors in input order
func CollectErrors[T, R any](results []Result[T, R]) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
