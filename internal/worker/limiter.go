package worker

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles file ingestion so a large batch cannot stampede the
// converters all at once.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates an ingestion limiter. A non-positive rate disables
// limiting.
func NewLimiter(filesPerSecond float64, burst int) *Limiter {
	if filesPerSecond <= 0 {
		return &Limiter{}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(filesPerSecond), burst)}
}

// Wait blocks until the next file may be ingested.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

// Allow reports whether a file may be ingested without waiting.
func (l *Limiter) Allow() bool {
	if l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}
