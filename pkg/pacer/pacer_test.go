package pacer

import (
	"context"
	"testing"
	"time"
)

func TestFrameInterval(t *testing.T) {
	tests := []struct {
		fps  float64
		want time.Duration
	}{
		{10, 100 * time.Millisecond},
		{4, 250 * time.Millisecond},
		{30, 33333333 * time.Nanosecond},
		{0, 0},
	}

	for _, tt := range tests {
		if got := FrameInterval(tt.fps); got != tt.want {
			t.Errorf("FrameInterval(%v) = %v, want %v", tt.fps, got, tt.want)
		}
	}
}

func TestPacer_FirstWaitIsImmediate(t *testing.T) {
	p := New(time.Second)

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first Wait took %v", elapsed)
	}
}

func TestPacer_DelayedSpacesEvents(t *testing.T) {
	interval := 20 * time.Millisecond
	p := NewDelayed(interval)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	// Allow for limiter rounding.
	if elapsed := time.Since(start); elapsed < 3*interval-5*time.Millisecond {
		t.Errorf("3 waits took %v, expected at least ~%v", elapsed, 3*interval)
	}
}

func TestPacer_WaitHonoursCancel(t *testing.T) {
	p := NewDelayed(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Wait(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}
