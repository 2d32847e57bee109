package signal

import (
	"sync"

	"github.com/nm-morais/go-chronos/pkg/logs"
	"github.com/panjf2000/ants"
)

const signalCaller = "Signal"

var logger = logs.NewLogger(signalCaller)

// Handler is invoked with the arguments passed to Fire. Handlers run on
// pooled goroutines, never on the goroutine calling Fire, and are free to
// block without delaying other subscribers.
type Handler func(args ...interface{})

// Signal is a multi-subscriber notification channel. Delivery is deferred
// and at-least-once per Fire for every subscription connected when the
// fire traverses the chain.
type Signal interface {
	Subscribe(handler Handler) Subscription
	Once(handler Handler) Subscription
	Fire(args ...interface{})
	Wait() []interface{}
	UnsubscribeAll()

	// Subscribers returns the number of currently connected subscriptions.
	// It says nothing about deliveries still in flight.
	Subscribers() int
}

// Subscription is the handle returned by Subscribe and Once, disconnectable
// independently of other subscriptions on the same signal.
type Subscription interface {
	Connected() bool
	Unsubscribe()
}

type subscription struct {
	sig       *signalImpl
	handler   Handler
	once      bool
	connected bool
	next      *subscription
}

type signalImpl struct {
	mu   sync.Mutex
	head *subscription
}

func New() Signal {
	return &signalImpl{}
}

func (s *signalImpl) Subscribe(handler Handler) Subscription {
	return s.subscribe(handler, false)
}

// Once subscriptions are disconnected before their handler is dispatched,
// so a Fire re-entered from within the handler cannot deliver a second time.
func (s *signalImpl) Once(handler Handler) Subscription {
	return s.subscribe(handler, true)
}

func (s *signalImpl) subscribe(handler Handler, once bool) Subscription {
	if handler == nil {
		logger.Panic("subscribe called with nil handler")
	}
	sub := &subscription{
		sig:       s,
		handler:   handler,
		once:      once,
		connected: true,
	}
	s.mu.Lock()
	sub.next = s.head
	s.head = sub
	s.mu.Unlock()
	return sub
}

// Fire schedules every connected handler for execution and returns without
// waiting for any of them. A subscription disconnected while a fire is in
// flight may still receive that fire's delivery if the handoff already
// happened; deliveries cannot be retracted.
func (s *signalImpl) Fire(args ...interface{}) {
	s.mu.Lock()
	for sub := s.head; sub != nil; sub = sub.next {
		if !sub.connected {
			continue
		}
		if sub.once {
			sub.connected = false
			s.unlink(sub)
		}
		dispatch(sub.handler, args)
	}
	s.mu.Unlock()
}

// Wait blocks the calling goroutine until the next fire and returns its
// arguments. There is no timeout; a Wait with no matching Fire blocks
// forever.
func (s *signalImpl) Wait() []interface{} {
	argsChan := make(chan []interface{}, 1)
	s.Once(func(args ...interface{}) {
		argsChan <- args
	})
	return <-argsChan
}

func (s *signalImpl) UnsubscribeAll() {
	s.mu.Lock()
	for sub := s.head; sub != nil; sub = sub.next {
		sub.connected = false
	}
	s.head = nil
	s.mu.Unlock()
}

func (s *signalImpl) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for sub := s.head; sub != nil; sub = sub.next {
		count++
	}
	return count
}

// unlink removes sub from the chain but keeps its next pointer, so a
// traversal holding the removed node continues past it.
func (s *signalImpl) unlink(sub *subscription) {
	if s.head == sub {
		s.head = sub.next
		return
	}
	for curr := s.head; curr != nil; curr = curr.next {
		if curr.next == sub {
			curr.next = sub.next
			return
		}
	}
}

func (sub *subscription) Connected() bool {
	sub.sig.mu.Lock()
	defer sub.sig.mu.Unlock()
	return sub.connected
}

func (sub *subscription) Unsubscribe() {
	sub.sig.mu.Lock()
	defer sub.sig.mu.Unlock()
	if !sub.connected {
		return
	}
	sub.connected = false
	sub.sig.unlink(sub)
}

// dispatch hands the handler to the shared goroutine pool, reusing worker
// goroutines across bursts of deliveries. If the pool refuses the task a
// plain goroutine is spawned instead so no subscriber can block another.
func dispatch(handler Handler, args []interface{}) {
	task := func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("handler panicked: %v", r)
			}
		}()
		handler(args...)
	}
	if err := ants.Submit(task); err != nil {
		go task()
	}
}
