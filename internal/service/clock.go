package service

import "time"

// SystemClock implements model.Clock with the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
