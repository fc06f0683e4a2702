package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze time via SetClock.
// It drives the current-year availability rule.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for validation. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock.
func Now() time.Time {
	return clock.Now()
}
