package tick

import (
	"sync"
	"time"

	"github.com/nm-morais/go-chronos/pkg/logs"
	"github.com/sirupsen/logrus"
)

const runtimeSourceCaller = "TickSource"

// RuntimeSource drives ticks from a time.Ticker on a dedicated goroutine.
type RuntimeSource struct {
	mu       sync.Mutex
	handlers map[int]Handler
	nextID   int
	ticker   *time.Ticker
	done     chan struct{}
	logger   *logrus.Logger
}

func NewRuntimeSource(interval time.Duration) *RuntimeSource {
	if interval <= 0 {
		panic("tick: non-positive tick interval")
	}
	s := &RuntimeSource{
		handlers: make(map[int]Handler),
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
		logger:   logs.NewLogger(runtimeSourceCaller),
	}
	go s.run()
	return s
}

func (s *RuntimeSource) Now() time.Time {
	return time.Now()
}

func (s *RuntimeSource) Subscribe(handler Handler) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.handlers[id] = handler
	return &runtimeSubscription{source: s, id: id}
}

// Close stops the ticker goroutine. Subscriptions receive no further ticks.
func (s *RuntimeSource) Close() {
	close(s.done)
	s.ticker.Stop()
}

func (s *RuntimeSource) run() {
	for {
		select {
		case now := <-s.ticker.C:
			s.broadcast(now)
		case <-s.done:
			s.logger.Info("tick source closed")
			return
		}
	}
}

func (s *RuntimeSource) broadcast(now time.Time) {
	s.mu.Lock()
	snapshot := make([]Handler, 0, len(s.handlers))
	for _, h := range s.handlers {
		snapshot = append(snapshot, h)
	}
	s.mu.Unlock()
	for _, h := range snapshot {
		h(now)
	}
}

type runtimeSubscription struct {
	source *RuntimeSource
	id     int
}

func (sub *runtimeSubscription) Unsubscribe() {
	sub.source.mu.Lock()
	defer sub.source.mu.Unlock()
	delete(sub.source.handlers, sub.id)
}
