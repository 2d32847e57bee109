package timer

import (
	"time"

	"github.com/nm-morais/go-chronos/pkg/errors"
	"github.com/nm-morais/go-chronos/pkg/signal"
)

// Timer is a countdown or interval entity driven by the scheduler's shared
// tick. Duration, loop mode and name are fixed at construction. The
// completion bus returned by Executed is owned by the timer and fires each
// time the timer completes (or loops), until the timer is destroyed.
//
// After Destroy, Start/Stop/Destroy return a UseAfterDestroy error and the
// value accessors panic.
type Timer interface {
	Name() string
	Duration() time.Duration
	Looped() bool
	Active() bool

	// Elapsed returns the time since the last (re)start and whether the
	// timer has reached its duration. It never mutates the timer: while
	// active the value is computed live from the tick clock, while inactive
	// the last-known value is returned.
	Elapsed() (time.Duration, bool)

	// Remaining returns duration minus elapsed, the active-set sort key.
	Remaining() time.Duration

	Start() errors.Error
	Stop(preventExecute bool) errors.Error
	Destroy(preventExecute bool) errors.Error

	Executed() signal.Signal
}
