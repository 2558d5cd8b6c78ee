// Package pacer spaces repeated work at a fixed frame interval.
package pacer

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer releases at most one event per interval.
type Pacer struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// New creates a Pacer whose first Wait returns immediately.
func New(interval time.Duration) *Pacer {
	return &Pacer{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// NewDelayed creates a Pacer whose first Wait already blocks for one interval,
// for loops that do their work before waiting.
func NewDelayed(interval time.Duration) *Pacer {
	p := New(interval)
	p.limiter.Allow()
	return p
}

// Wait blocks until the next interval boundary or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Interval returns the configured interval.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// FrameInterval converts a frame rate into the time between frames.
func FrameInterval(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
