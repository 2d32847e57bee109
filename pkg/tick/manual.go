package tick

import (
	"sync"
	"time"
)

// ManualSource is a deterministic tick source for tests and simulations.
// The clock only moves when Advance is called, and ticks are delivered
// synchronously on the advancing goroutine.
type ManualSource struct {
	mu       sync.Mutex
	now      time.Time
	handlers map[int]Handler
	nextID   int
}

func NewManualSource(start time.Time) *ManualSource {
	return &ManualSource{
		now:      start,
		handlers: make(map[int]Handler),
	}
}

func (s *ManualSource) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *ManualSource) Subscribe(handler Handler) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.handlers[id] = handler
	return &manualSubscription{source: s, id: id}
}

// Advance moves the clock forward by d and delivers one tick.
func (s *ManualSource) Advance(d time.Duration) {
	s.mu.Lock()
	s.now = s.now.Add(d)
	now := s.now
	snapshot := make([]Handler, 0, len(s.handlers))
	for _, h := range s.handlers {
		snapshot = append(snapshot, h)
	}
	s.mu.Unlock()
	for _, h := range snapshot {
		h(now)
	}
}

// HandlerCount reports how many subscriptions are registered. Tests use it
// to assert that the scheduler released its tick subscription.
func (s *ManualSource) HandlerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}

type manualSubscription struct {
	source *ManualSource
	id     int
}

func (sub *manualSubscription) Unsubscribe() {
	sub.source.mu.Lock()
	defer sub.source.mu.Unlock()
	delete(sub.source.handlers, sub.id)
}
