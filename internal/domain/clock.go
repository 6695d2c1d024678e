package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps lead submissions. Tests freeze it with SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for lead timestamps. Pass nil to reset
// to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the domain clock in UTC.
func Now() time.Time {
	return clock.Now().UTC()
}
