package pkg

import (
	"fmt"
	"sync"
	"time"

	"github.com/nm-morais/go-chronos/configs"
	"github.com/nm-morais/go-chronos/pkg/errors"
	"github.com/nm-morais/go-chronos/pkg/logs"
	"github.com/nm-morais/go-chronos/pkg/tick"
	"github.com/nm-morais/go-chronos/pkg/timer"
	"github.com/sirupsen/logrus"
)

const schedulerCaller = "TimerScheduler"

// TimerScheduler owns the active set of running timers and the single
// subscription to the tick source that drives them. All timers created by a
// scheduler are advanced by one forward traversal of the active set per tick.
type TimerScheduler interface {
	// NewTimer creates an inert timer named "Timer"+duration. Fails with
	// InvalidArgument if duration is not positive.
	NewTimer(duration time.Duration, looped bool) (timer.Timer, errors.Error)

	// NewNamedTimer is NewTimer with an explicit name, which must be
	// non-empty.
	NewNamedTimer(duration time.Duration, looped bool, name string) (timer.Timer, errors.Error)

	// ActiveTimers returns a snapshot of the active set in its internal
	// order (ascending remaining time as of each timer's insertion). It
	// walks the whole set; meant for diagnostics, not hot paths.
	ActiveTimers() []timer.Timer

	// RecentCompletions returns the bounded journal of bus fires, oldest
	// first.
	RecentCompletions() []CompletionRecord

	Logger() *logrus.Logger
}

type timerScheduler struct {
	mu      sync.Mutex
	head    *schedTimer
	source  tick.Source
	tickSub tick.Subscription
	journal *completionLog
	config  configs.SchedulerConfig
	logger  *logrus.Logger
}

func NewTimerScheduler(config configs.SchedulerConfig, source tick.Source) TimerScheduler {
	logger := logs.NewLoggerWithFile(schedulerCaller, config.LogFolder)
	if source == nil {
		logger.Panic("nil tick source")
	}
	logSize := config.CompletionLogSize
	if logSize <= 0 {
		logSize = configs.DefaultConfig().CompletionLogSize
	}
	return &timerScheduler{
		source:  source,
		journal: newCompletionLog(logSize),
		config:  config,
		logger:  logger,
	}
}

func (s *timerScheduler) NewTimer(duration time.Duration, looped bool) (timer.Timer, errors.Error) {
	if duration <= 0 {
		return nil, errors.InvalidArgumentError(fmt.Sprintf("non-positive duration %s", duration), schedulerCaller)
	}
	return s.newTimer(duration, looped, fmt.Sprintf("Timer%s", duration)), nil
}

func (s *timerScheduler) NewNamedTimer(duration time.Duration, looped bool, name string) (timer.Timer, errors.Error) {
	if duration <= 0 {
		return nil, errors.InvalidArgumentError(fmt.Sprintf("non-positive duration %s", duration), schedulerCaller)
	}
	if name == "" {
		return nil, errors.InvalidArgumentError("empty timer name", schedulerCaller)
	}
	return s.newTimer(duration, looped, name), nil
}

func (s *timerScheduler) ActiveTimers() []timer.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := make([]timer.Timer, 0)
	for curr := s.head; curr != nil; curr = curr.next {
		active = append(active, curr)
	}
	return active
}

func (s *timerScheduler) RecentCompletions() []CompletionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.journal.snapshot()
}

func (s *timerScheduler) Logger() *logrus.Logger {
	return s.logger
}

// onTick advances every active timer once. Looped timers that complete are
// re-armed in place and keep their list position; non-looped timers are
// deactivated and unlinked during the same traversal.
func (s *timerScheduler) onTick(now time.Time) {
	s.mu.Lock()
	var prev *schedTimer
	curr := s.head
	for curr != nil {
		next := curr.next
		curr.elapsed = now.Sub(curr.startTime)
		switch {
		case curr.elapsed < curr.duration:
			prev = curr
		case curr.looped:
			curr.startTime = now
			curr.elapsed = 0
			curr.executed.Fire()
			s.journal.add(CompletionRecord{Timer: curr.name, Kind: CompletionLoop, At: now})
			prev = curr
		default:
			curr.active = false
			if prev == nil {
				s.head = next
			} else {
				prev.next = next
			}
			curr.next = nil
			curr.executed.Fire()
			s.journal.add(CompletionRecord{Timer: curr.name, Kind: CompletionFinished, At: now})
			s.logger.Infof("timer %s finished", curr.name)
		}
		curr = next
	}
	if s.head == nil {
		s.releaseTickSubLocked()
	}
	s.mu.Unlock()
}

// insertLocked places t before the first timer with strictly greater
// remaining time. Equal remaining time inserts after the existing timer, so
// ties keep insertion order.
func (s *timerScheduler) insertLocked(t *schedTimer) {
	rem := t.remainingLocked()
	if s.head == nil || rem < s.head.remainingLocked() {
		t.next = s.head
		s.head = t
		return
	}
	curr := s.head
	for curr.next != nil && curr.next.remainingLocked() <= rem {
		curr = curr.next
	}
	t.next = curr.next
	curr.next = t
}

func (s *timerScheduler) removeLocked(t *schedTimer) {
	if s.head == t {
		s.head = t.next
		t.next = nil
		return
	}
	for curr := s.head; curr != nil; curr = curr.next {
		if curr.next == t {
			curr.next = t.next
			t.next = nil
			return
		}
	}
}

func (s *timerScheduler) ensureTickSubLocked() {
	if s.tickSub != nil {
		return
	}
	s.tickSub = s.source.Subscribe(s.onTick)
	s.logger.Info("tick subscription acquired")
}

func (s *timerScheduler) releaseTickSubLocked() {
	if s.tickSub == nil {
		return
	}
	s.tickSub.Unsubscribe()
	s.tickSub = nil
	s.logger.Info("tick subscription released")
}
