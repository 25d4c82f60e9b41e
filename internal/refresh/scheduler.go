package refresh

import (
	"sync"
	"time"

	"github.com/bep/debounce"
)

// DefaultDelay is the quiet period before a refetch fires
const DefaultDelay = 500 * time.Millisecond

// Scheduler coalesces bursts of edits into a single refetch.
// Every Trigger cancels the pending call and schedules a new one.
type Scheduler struct {
	mu       sync.Mutex
	debounce func(func())
	fire     func()
	pending  bool
}

// NewScheduler creates a scheduler that calls fire once the edits stop for delay
func NewScheduler(delay time.Duration, fire func()) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scheduler{
		debounce: debounce.New(delay),
		fire:     fire,
	}
}

// Trigger (re)schedules the refetch
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	s.pending = true
	s.mu.Unlock()

	s.debounce(s.run)
}

// Pending reports whether a refetch is scheduled but has not fired yet
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Scheduler) run() {
	s.mu.Lock()
	s.pending = false
	fire := s.fire
	s.mu.Unlock()

	if fire != nil {
		fire()
	}
}
