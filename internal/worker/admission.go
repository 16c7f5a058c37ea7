package worker

import (
	"context"
	"sync"
)

// Admission enforces the service-wide memory budget. A document that does not
// fit waits for in-flight documents to finish; it is deferred, never dropped.
type Admission struct {
	mu    sync.Mutex
	cond  *sync.Cond
	limit int64
	used  int64
}

// NewAdmission creates an admission controller with the given budget in
// bytes. A non-positive budget disables the control entirely.
func NewAdmission(limit int64) *Admission {
	a := &Admission{limit: limit}
	a.cond = sync.NewCond(&a.mu)
	return a
}

// Acquire reserves n bytes of the budget, blocking until the reservation
// fits or the context is cancelled. A single reservation larger than the
// whole budget is admitted alone, so oversized files still get their chance
// to fail on the per-document ceiling with a proper diagnostic.
func (a *Admission) Acquire(ctx context.Context, n int64) error {
	if a.limit <= 0 || n <= 0 {
		return nil
	}
	if n > a.limit {
		n = a.limit
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			a.cond.Broadcast()
		case <-done:
		}
	}()

	a.mu.Lock()
	defer a.mu.Unlock()
	for a.used+n > a.limit {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.cond.Wait()
	}
	a.used += n
	return nil
}

// Release returns n bytes to the budget and wakes deferred waiters.
func (a *Admission) Release(n int64) {
	if a.limit <= 0 || n <= 0 {
		return
	}
	if n > a.limit {
		n = a.limit
	}

	a.mu.Lock()
	a.used -= n
	if a.used < 0 {
		a.used = 0
	}
	a.mu.Unlock()
	a.cond.Broadcast()
}

// Used returns the currently reserved bytes.
func (a *Admission) Used() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.used
}
