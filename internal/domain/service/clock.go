package service

import "time"

// Clock supplies wall time so durations are testable.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real clock.
type SystemClock struct{}

// NewSystemClock returns the real clock.
func NewSystemClock() Clock {
	return SystemClock{}
}

// Now returns time.Now.
func (SystemClock) Now() time.Time {
	return time.Now()
}
