package viewer

import (
	"context"
	"sync"
	"time"
)

// Scheduler calls a tick function at a fixed interval on the goroutine that
// runs it. Ticks never overlap.
type Scheduler struct {
	interval time.Duration
	tick     func(now time.Time)

	stopOnce sync.Once
	stop     chan struct{}
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(interval time.Duration, tick func(now time.Time)) *Scheduler {
	return &Scheduler{
		interval: interval,
		tick:     tick,
		stop:     make(chan struct{}),
	}
}

// Run ticks until Stop is called or ctx is done. It returns nil after Stop
// and ctx.Err() on cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	select {
	case <-s.stop:
		return nil
	default:
	}

	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-s.stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			// Stop may race the ticker; prefer stopping.
			select {
			case <-s.stop:
				return nil
			default:
			}
			s.tick(now)
		}
	}
}

// Stop prevents further ticks. A tick already running finishes. Stop is
// idempotent.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Stopped reports whether Stop was called.
func (s *Scheduler) Stopped() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}
