// Package worker provides the fixed-size pool bounding concurrency of all
// background operations. The pool bounds concurrency only; job-kind
// exclusivity is enforced by the job state machine.
package worker

import (
	"errors"
	"sync"
	"time"

	"grabarr/internal/utils/logging"
)

var (
	// ErrShutDown is returned by Submit after Shutdown has begun.
	ErrShutDown = errors.New("worker pool is shut down")

	// ErrQueueFull is returned by Submit when the task queue has no room.
	ErrQueueFull = errors.New("worker pool queue is full")
)

// Pool is a fixed-size worker pool consuming submitted tasks in order.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool starts size workers. Panics inside tasks are caught and logged so a
// failing job can never take a worker down.
func NewPool(size int) *Pool {
	p := &Pool{
		tasks: make(chan func(), size*8),
	}

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for task := range p.tasks {
		p.runTask(id, task)
	}
}

func (p *Pool) runTask(id int, task func()) {
	defer func() {
		if r := recover(); r != nil {
			logging.E("Worker %d recovered from panic in task: %v", id, r)
		}
	}()
	task()
}

// Submit queues a task for execution. The send never blocks; a full queue is
// an error so the mutex is never held across a blocked channel send.
func (p *Pool) Submit(task func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrShutDown
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops accepting work and waits up to grace for in-flight tasks to
// finish, so running subprocesses are not orphaned. Reports whether the pool
// drained cleanly.
func (p *Pool) Shutdown(grace time.Duration) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return true
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(grace):
		logging.W("Worker pool did not drain within %v", grace)
		return false
	}
}
