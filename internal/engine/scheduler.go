package engine

import (
	"context"
	"errors"
	"sync"
)

// Task is a continuation run on a later scheduler tick.
type Task func(ctx context.Context) error

// Scheduler defers work by one tick.
type Scheduler interface {
	Defer(task Task)
}

// TickQueue runs deferred tasks when Tick is called. Tasks deferred while a
// tick is running wait for the next one.
type TickQueue struct {
	mu      sync.Mutex
	pending []Task
}

func NewTickQueue() *TickQueue {
	return &TickQueue{}
}

func (q *TickQueue) Defer(task Task) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, task)
}

// Tick runs every task queued before the call, in order, and joins their
// errors.
func (q *TickQueue) Tick(ctx context.Context) error {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	var errs []error
	for _, task := range batch {
		if err := task(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (q *TickQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
