package testutils

import (
	"sync"
	"time"
)

// ConcurrencySync holds goroutines at a checkpoint until a fixed number of them have arrived, then releases them
// together. It's used to drive independent iterators in lockstep.
type ConcurrencySync struct {
	mu   sync.Mutex
	cond *sync.Cond

	limit    int
	waiting  int
	hits     int
	releases int
}

func NewConcurrencySync(concurrencyLimit int) *ConcurrencySync {
	if concurrencyLimit < 1 {
		panic("concurrency limit must be greater than 0")
	}

	s := &ConcurrencySync{
		limit: concurrencyLimit,
	}
	s.cond = sync.NewCond(&s.mu)

	return s
}

// Checkpoint blocks the calling goroutine until the requisite number of goroutines have reached the checkpoint.
func (s *ConcurrencySync) Checkpoint() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hits++
	s.waiting++

	if s.waiting == s.limit {
		s.waiting = 0
		s.releases++
		s.cond.Broadcast()
		return
	}

	generation := s.releases
	for s.releases == generation {
		s.cond.Wait()
	}
}

// ReleaseCount returns the number of times the checkpoint has been released.
func (s *ConcurrencySync) ReleaseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releases
}

// HitCount returns the number of times the checkpoint has been hit.
func (s *ConcurrencySync) HitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}

// WaitFor waits for the WaitGroup to be done or a timeout elapses. It reports whether the group finished.
func WaitFor(wg *sync.WaitGroup, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}
