// Package debounce runs the last of a burst of scheduled tasks after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// Scheduler holds at most one pending task. Scheduling a new task cancels the
// pending one, and task bodies never run concurrently with each other.
// The zero value is ready to use.
type Scheduler struct {
	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool

	// run serialises task bodies.
	run sync.Mutex
}

// New returns an idle scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Schedule runs fn after delay unless another Schedule, Cancel or Stop happens first.
// It reports false when the scheduler has been stopped.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	if s.timer != nil {
		s.timer.Stop()
	}

	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(delay, func() {
		s.run.Lock()
		defer s.run.Unlock()

		// A newer Schedule or a Cancel may have landed while this body waited.
		s.mu.Lock()
		current := gen == s.gen && !s.stopped
		if current {
			s.timer = nil
		}
		s.mu.Unlock()

		if current {
			fn()
		}
	})
	return true
}

// Cancel drops the pending task, if any, and reports whether one was pending.
func (s *Scheduler) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked()
}

func (s *Scheduler) cancelLocked() bool {
	s.gen++
	if s.timer == nil {
		return false
	}
	s.timer.Stop()
	s.timer = nil
	return true
}

// Pending reports whether a task is waiting to run.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Stop cancels the pending task, rejects future ones and waits for a running
// task body to return. It must not be called from inside a task.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.cancelLocked()
	s.mu.Unlock()

	s.run.Lock()
	s.run.Unlock()
}
