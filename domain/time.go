package domain

import "time"

// Clock abstracts time.Now() for testing.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// SystemClock is the production clock, always offset-aware (UTC).
var SystemClock Clock = realClock{}

// FixedClock returns a Clock pinned to the given instant.
func FixedClock(at time.Time) Clock { return fixedClock{at} }

type fixedClock struct{ at time.Time }

func (f fixedClock) Now() time.Time { return f.at }
