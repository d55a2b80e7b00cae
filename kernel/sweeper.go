package kernel

import (
	"sync"
	"sync/atomic"
	"time"
)

// ---------------------------------------------------------------------------
// Sweeper: periodic reclamation of released bag masters
// ---------------------------------------------------------------------------

// SweeperStats holds statistics from a single sweep.
type SweeperStats struct {
	Swept         int
	Live          int
	SweepDuration time.Duration
	Timestamp     time.Time
}

// Sweeper periodically removes released bag masters from the keep-alive
// registry. Masters stay pinned as long as they are registered, so
// long-running programs need the sweep to reclaim released objects and
// spent forwarding records.
type Sweeper struct {
	k        *Kernel
	interval time.Duration
	enabled  atomic.Bool
	stop     chan struct{}
	stopped  chan struct{}
	mu       sync.Mutex // protects start/stop lifecycle

	sweepCount atomic.Uint64
	lastStats  atomic.Value // *SweeperStats
}

// DefaultSweepInterval is the default interval between registry sweeps.
const DefaultSweepInterval = 30 * time.Second

// NewSweeper creates a sweeper for the kernel with the given interval.
// Use DefaultSweepInterval for the default (30s).
func (k *Kernel) NewSweeper(interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	s := &Sweeper{
		k:        k,
		interval: interval,
	}
	s.enabled.Store(true)
	return s
}

// Start begins the periodic sweep goroutine. It is safe to call Start
// multiple times; only one sweep loop will run.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		return // already running
	}

	s.stop = make(chan struct{})
	s.stopped = make(chan struct{})

	// Capture channels locally so the goroutine does not read s.stop and
	// s.stopped after Stop() has nilled them out.
	stopCh := s.stop
	stoppedCh := s.stopped
	go s.loop(stopCh, stoppedCh)
}

// Stop halts the periodic sweep goroutine and waits for it to finish.
// It is safe to call Stop multiple times or on a sweeper never started.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	stopCh := s.stop
	stoppedCh := s.stopped
	s.stop = nil
	s.stopped = nil
	s.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-stoppedCh
	}
}

// SetEnabled enables or disables sweeping. When disabled, the goroutine
// still runs but skips sweep operations.
func (s *Sweeper) SetEnabled(enabled bool) {
	s.enabled.Store(enabled)
}

// IsEnabled returns whether sweeping is currently enabled.
func (s *Sweeper) IsEnabled() bool {
	return s.enabled.Load()
}

// Interval returns the sweep interval.
func (s *Sweeper) Interval() time.Duration {
	return s.interval
}

// SweepCount returns the total number of sweeps performed.
func (s *Sweeper) SweepCount() uint64 {
	return s.sweepCount.Load()
}

// LastStats returns statistics from the most recent sweep, or nil if no
// sweep has been performed yet.
func (s *Sweeper) LastStats() *SweeperStats {
	v := s.lastStats.Load()
	if v == nil {
		return nil
	}
	return v.(*SweeperStats)
}

// SweepNow performs an immediate sweep regardless of the timer.
func (s *Sweeper) SweepNow() *SweeperStats {
	return s.sweep()
}

func (s *Sweeper) loop(stopCh <-chan struct{}, stoppedCh chan struct{}) {
	defer close(stoppedCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if s.enabled.Load() {
				s.sweep()
			}
		}
	}
}

// sweep removes masters whose cell has been severed by ReleaseBag.
func (s *Sweeper) sweep() *SweeperStats {
	start := time.Now()
	stats := &SweeperStats{
		Timestamp: start,
	}

	s.k.bagsMu.Lock()
	for b := range s.k.bags {
		if b.c == nil {
			delete(s.k.bags, b)
			stats.Swept++
		}
	}
	stats.Live = len(s.k.bags)
	s.k.bagsMu.Unlock()

	stats.SweepDuration = time.Since(start)
	s.sweepCount.Add(1)
	s.lastStats.Store(stats)

	return stats
}

// LiveBags returns the number of masters currently pinned.
func (k *Kernel) LiveBags() int {
	k.bagsMu.Lock()
	defer k.bagsMu.Unlock()
	return len(k.bags)
}
