package viewer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerStopBeforeRun(t *testing.T) {
	var ticks atomic.Int32
	s := NewScheduler(time.Millisecond, func(time.Time) { ticks.Add(1) })
	s.Stop()
	s.Stop()

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if ticks.Load() != 0 || !s.Stopped() {
		t.Errorf("ticks = %d after stop", ticks.Load())
	}
}

func TestSchedulerStopFromTick(t *testing.T) {
	var ticks int
	var s *Scheduler
	s = NewScheduler(time.Millisecond, func(time.Time) {
		ticks++
		if ticks == 3 {
			s.Stop()
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if ticks != 3 {
		t.Errorf("ticks = %d, want 3", ticks)
	}
}
