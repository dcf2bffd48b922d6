package lifecycle

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs the cutoff sweep on a fixed interval. The sweep itself is
// idempotent, so the interval only bounds how stale a published-past-cutoff
// event can get.
type Scheduler struct {
	mu       sync.RWMutex
	manager  *Manager
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewScheduler creates a sweep scheduler. A non-positive interval falls back
// to one hour.
func NewScheduler(manager *Manager, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{manager: manager, interval: interval}
}

// Start begins the scheduler loop. One sweep runs immediately so a restarted
// server catches up without waiting out the first interval.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)

		s.tick()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick() {
	if _, err := s.manager.AdvanceCutoffEvents(time.Now()); err != nil {
		s.manager.logger.Error("cutoff sweep failed", "error", err)
	}
}
