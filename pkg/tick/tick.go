package tick

import "time"

// Handler receives the current clock value once per tick.
type Handler func(now time.Time)

// Source is a periodic tick provider doubling as the clock consulted by
// timers. The scheduler subscribes exactly once when its active set becomes
// non-empty and unsubscribes when it empties again.
type Source interface {
	Now() time.Time
	Subscribe(handler Handler) Subscription
}

// Subscription is the handle for one registered tick handler.
type Subscription interface {
	Unsubscribe()
}
