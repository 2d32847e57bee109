package pkg

import (
	"time"

	"github.com/nm-morais/go-chronos/pkg/errors"
	"github.com/nm-morais/go-chronos/pkg/signal"
	"github.com/nm-morais/go-chronos/pkg/timer"
)

// schedTimer implements timer.Timer. All state, including the next link of
// the active-set chain, is guarded by the owning scheduler's mutex.
type schedTimer struct {
	sched    *timerScheduler
	name     string
	duration time.Duration
	looped   bool

	active    bool
	destroyed bool
	startTime time.Time
	elapsed   time.Duration
	executed  signal.Signal
	next      *schedTimer
}

var _ timer.Timer = (*schedTimer)(nil)

func (s *timerScheduler) newTimer(duration time.Duration, looped bool, name string) *schedTimer {
	return &schedTimer{
		sched:    s,
		name:     name,
		duration: duration,
		looped:   looped,
		executed: signal.New(),
	}
}

func (t *schedTimer) Name() string {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	t.checkUsableLocked("Name")
	return t.name
}

func (t *schedTimer) Duration() time.Duration {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	t.checkUsableLocked("Duration")
	return t.duration
}

func (t *schedTimer) Looped() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	t.checkUsableLocked("Looped")
	return t.looped
}

func (t *schedTimer) Active() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	t.checkUsableLocked("Active")
	return t.active
}

func (t *schedTimer) Elapsed() (time.Duration, bool) {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	t.checkUsableLocked("Elapsed")
	elapsed := t.elapsedLocked()
	return elapsed, elapsed >= t.duration
}

func (t *schedTimer) Remaining() time.Duration {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	t.checkUsableLocked("Remaining")
	return t.duration - t.elapsedLocked()
}

func (t *schedTimer) Executed() signal.Signal {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	t.checkUsableLocked("Executed")
	return t.executed
}

func (t *schedTimer) Start() errors.Error {
	s := t.sched
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.destroyed {
		return errors.UseAfterDestroyError("Start called on destroyed timer "+t.name, schedulerCaller)
	}
	if t.active {
		return nil
	}
	t.active = true
	t.startTime = s.source.Now()
	t.elapsed = 0
	s.insertLocked(t)
	s.ensureTickSubLocked()
	s.logger.Infof("timer %s started (%s)", t.name, t.duration)
	return nil
}

func (t *schedTimer) Stop(preventExecute bool) errors.Error {
	s := t.sched
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.destroyed {
		return errors.UseAfterDestroyError("Stop called on destroyed timer "+t.name, schedulerCaller)
	}
	t.stopLocked(preventExecute)
	return nil
}

func (t *schedTimer) Destroy(preventExecute bool) errors.Error {
	s := t.sched
	s.mu.Lock()
	if t.destroyed {
		s.mu.Unlock()
		return errors.UseAfterDestroyError("Destroy called on destroyed timer "+t.name, schedulerCaller)
	}
	t.stopLocked(preventExecute)
	t.destroyed = true
	s.logger.Infof("timer %s destroyed", t.name)
	s.mu.Unlock()
	// In-flight deliveries already handed off still run; future fires are
	// impossible once every subscriber is detached.
	t.executed.UnsubscribeAll()
	return nil
}

func (t *schedTimer) stopLocked(preventExecute bool) {
	if !t.active {
		return
	}
	s := t.sched
	now := s.source.Now()
	t.active = false
	t.elapsed = now.Sub(t.startTime)
	s.removeLocked(t)
	if !preventExecute {
		t.executed.Fire()
		s.journal.add(CompletionRecord{Timer: t.name, Kind: CompletionStopped, At: now})
	}
	if s.head == nil {
		s.releaseTickSubLocked()
	}
	s.logger.Infof("timer %s stopped", t.name)
}

func (t *schedTimer) elapsedLocked() time.Duration {
	if t.active {
		return t.sched.source.Now().Sub(t.startTime)
	}
	return t.elapsed
}

func (t *schedTimer) remainingLocked() time.Duration {
	return t.duration - t.elapsed
}

func (t *schedTimer) checkUsableLocked(op string) {
	if t.destroyed {
		t.sched.logger.Panicf("timer %s: %s called after destroy", t.name, op)
	}
}
