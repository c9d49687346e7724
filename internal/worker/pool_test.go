package worker_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"grabarr/internal/worker"
)

// TestPoolRunsTasks checks that every submitted task executes.
func TestPoolRunsTasks(t *testing.T) {
	t.Parallel()

	p := worker.NewPool(3)

	var ran atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		if err := p.Submit(func() {
			defer wg.Done()
			ran.Add(1)
		}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	wg.Wait()

	if got := ran.Load(); got != 20 {
		t.Fatalf("ran %d tasks, want 20", got)
	}
	if !p.Shutdown(time.Second) {
		t.Fatal("pool did not drain cleanly")
	}
}

// TestPoolSubmitAfterShutdown checks the closed-pool error.
func TestPoolSubmitAfterShutdown(t *testing.T) {
	t.Parallel()

	p := worker.NewPool(1)
	p.Shutdown(time.Second)

	if err := p.Submit(func() {}); !errors.Is(err, worker.ErrShutDown) {
		t.Fatalf("err = %v, want ErrShutDown", err)
	}

	// A second shutdown is a no-op.
	if !p.Shutdown(time.Second) {
		t.Fatal("repeated shutdown reported unclean drain")
	}
}

// TestPoolSurvivesPanic checks that a panicking task never takes a worker
// down: later tasks still run.
func TestPoolSurvivesPanic(t *testing.T) {
	t.Parallel()

	p := worker.NewPool(1)

	if err := p.Submit(func() { panic("task exploded") }); err != nil {
		t.Fatalf("submit panicking task: %v", err)
	}

	done := make(chan struct{})
	if err := p.Submit(func() { close(done) }); err != nil {
		t.Fatalf("submit follow-up task: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
	p.Shutdown(time.Second)
}

// TestPoolShutdownWaits checks that shutdown blocks on in-flight tasks.
func TestPoolShutdownWaits(t *testing.T) {
	t.Parallel()

	p := worker.NewPool(1)

	release := make(chan struct{})
	finished := make(chan struct{})
	if err := p.Submit(func() {
		<-release
		close(finished)
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(release)
	}()

	if !p.Shutdown(2 * time.Second) {
		t.Fatal("shutdown reported unclean drain")
	}
	select {
	case <-finished:
	default:
		t.Fatal("shutdown returned before the task finished")
	}
}
