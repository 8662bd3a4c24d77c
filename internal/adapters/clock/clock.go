// Package clock provides time sources for the ports.Clock port.
package clock

import (
	"sync"
	"time"

	"github.com/xvierd/kaizen/internal/ports"
)

// System reads the wall clock.
type System struct{}

// Now returns the current local time.
func (System) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// Stepped starts at a given instant and advances by Step on every call.
// It gives tests strictly increasing timestamps without sleeping.
type Stepped struct {
	mu   sync.Mutex
	next time.Time
	Step time.Duration
}

// NewStepped creates a Stepped clock starting at start.
func NewStepped(start time.Time, step time.Duration) *Stepped {
	return &Stepped{next: start, Step: step}
}

// Now returns the current instant and advances the clock.
func (s *Stepped) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.next
	s.next = s.next.Add(s.Step)
	return now
}

// Set moves the clock to t.
func (s *Stepped) Set(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = t
}

var (
	_ ports.Clock = System{}
	_ ports.Clock = Fixed{}
	_ ports.Clock = (*Stepped)(nil)
)
