package mirror

import "time"

// Clock defines an interface for time and pauses.
// This allows us to inject a fake time during unit tests, so the
// inter-submission delay and mirroredAt stamps are controllable.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock implements Clock using the actual server system time.
type RealClock struct{}

func (RealClock) Now() time.Time        { return time.Now() }
func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

// MockClock implements Clock for testing specific scenarios.
// It records requested pauses instead of sleeping.
type MockClock struct {
	MockTime time.Time
	Slept    []time.Duration
}

func (m *MockClock) Now() time.Time { return m.MockTime }

func (m *MockClock) Sleep(d time.Duration) { m.Slept = append(m.Slept, d) }
