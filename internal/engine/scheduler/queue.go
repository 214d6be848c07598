package scheduler

import (
	"context"
	"sync"
	"sync/atomic"

	"go.trai.ch/livepush/internal/core/domain"
)

const queueBacklog = 64

// Task is a unit of work run by the install queue.
type Task func(ctx context.Context) error

type job struct {
	ctx    context.Context
	task   Task
	result chan error
}

// Queue runs submitted tasks one at a time in submission order.
// A failed task does not affect the tasks behind it.
type Queue struct {
	mu     sync.RWMutex
	closed bool
	jobs   chan job
	done   chan struct{}
	// busy counts tasks that are queued or running.
	busy    atomic.Int64
	onError func(error)
}

// NewQueue starts the worker. onError, when set, receives every task failure.
func NewQueue(onError func(error)) *Queue {
	q := &Queue{
		jobs:    make(chan job, queueBacklog),
		done:    make(chan struct{}),
		onError: onError,
	}
	go q.work()
	return q
}

func (q *Queue) work() {
	defer close(q.done)
	for j := range q.jobs {
		err := j.task(j.ctx)
		if err != nil && q.onError != nil {
			q.onError(err)
		}
		q.busy.Add(-1)
		j.result <- err
	}
}

// Submit enqueues task and waits for it to finish.
// If ctx ends first Submit returns the context error. The task receives the same ctx.
func (q *Queue) Submit(ctx context.Context, task Task) error {
	result := make(chan error, 1)

	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return domain.ErrQueueClosed
	}
	q.busy.Add(1)
	q.jobs <- job{ctx: ctx, task: task, result: result}
	q.mu.RUnlock()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Busy reports whether any task is queued or running.
func (q *Queue) Busy() bool {
	return q.busy.Load() > 0
}

// Close stops accepting tasks and waits for queued ones to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()
	<-q.done
}
