package farm

import "time"

// Clock supplies the current time to the reward engine. It is read exactly
// once per call so elapsed-time math inside a call is consistent.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
