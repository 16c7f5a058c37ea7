package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/docfuse/docfuse/internal/model"
)

// mockResult implements Result
type mockResult struct {
	err error
}

func (r *mockResult) GetError() error {
	return r.err
}

// mockJob implements Job
type mockJob struct {
	duration time.Duration
	executed *int32
}

func (j *mockJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &mockResult{err: ctx.Err()}
		}
	}
	return &mockResult{}
}

func TestNewPool_Defaults(t *testing.T) {
	p := NewPool(0, 0)
	if p.workers != 1 {
		t.Errorf("expected 1 worker for zero input, got %d", p.workers)
	}
	if cap(p.jobQueue) != 2 {
		t.Errorf("expected derived queue size 2, got %d", cap(p.jobQueue))
	}
}

func TestPool_ExecutesAllJobs(t *testing.T) {
	pool := NewPool(4, 16)
	pool.Start()

	var executed int32
	for i := 0; i < 10; i++ {
		if err := pool.Submit(&mockJob{executed: &executed}, time.Second); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	results := pool.Wait()
	if len(results) != 10 {
		t.Errorf("expected 10 results, got %d", len(results))
	}
	if atomic.LoadInt32(&executed) != 10 {
		t.Errorf("expected 10 executions, got %d", executed)
	}
}

func TestPool_SubmitBackpressure(t *testing.T) {
	// One slow worker, queue of one: the third submit cannot fit before the
	// timeout and must be rejected rather than block forever.
	pool := NewPool(1, 1)
	pool.Start()

	if err := pool.Submit(&mockJob{duration: 500 * time.Millisecond}, time.Second); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := pool.Submit(&mockJob{duration: 500 * time.Millisecond}, time.Second); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	err := pool.Submit(&mockJob{}, 50*time.Millisecond)
	if !errors.Is(err, model.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	pool.Wait()
}

func TestPool_Shutdown(t *testing.T) {
	pool := NewPool(2, 8)
	pool.Start()

	for i := 0; i < 4; i++ {
		_ = pool.Submit(&mockJob{duration: time.Minute}, time.Second)
	}

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not complete")
	}
}

func TestAdmission_DefersUntilRelease(t *testing.T) {
	a := NewAdmission(100)

	if err := a.Acquire(context.Background(), 80); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	acquired := make(chan error, 1)
	go func() {
		acquired <- a.Acquire(context.Background(), 50)
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire should defer while budget is exhausted")
	case <-time.After(100 * time.Millisecond):
	}

	a.Release(80)

	select {
	case err := <-acquired:
		if err != nil {
			t.Fatalf("deferred acquire should succeed after release: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("deferred acquire never woke up")
	}
}

func TestAdmission_ContextCancel(t *testing.T) {
	a := NewAdmission(10)
	if err := a.Acquire(context.Background(), 10); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := a.Acquire(ctx, 5)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
}

func TestAdmission_OversizedReservationClamped(t *testing.T) {
	a := NewAdmission(100)
	if err := a.Acquire(context.Background(), 1000); err != nil {
		t.Fatalf("oversized reservation should clamp to the budget: %v", err)
	}
	if a.Used() != 100 {
		t.Errorf("expected full budget reserved, got %d", a.Used())
	}
	a.Release(1000)
	if a.Used() != 0 {
		t.Errorf("expected empty budget after release, got %d", a.Used())
	}
}

func TestAdmission_Disabled(t *testing.T) {
	a := NewAdmission(0)
	if err := a.Acquire(context.Background(), 1<<40); err != nil {
		t.Errorf("disabled admission should always admit: %v", err)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(0, 0)
	if !l.Allow() {
		t.Error("disabled limiter should always allow")
	}
	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("disabled limiter wait: %v", err)
	}
}
