package tick

import (
	"testing"
	"time"
)

func Test_manualSourceAdvances(t *testing.T) {
	start := time.Unix(1000, 0)
	source := NewManualSource(start)

	var got []time.Time
	source.Subscribe(func(now time.Time) {
		got = append(got, now)
	})

	source.Advance(time.Second)
	source.Advance(2 * time.Second)

	if !source.Now().Equal(start.Add(3 * time.Second)) {
		t.Errorf("clock at %s, expected %s", source.Now(), start.Add(3*time.Second))
		t.FailNow()
	}
	if len(got) != 2 {
		t.Errorf("expected 2 ticks, got %d", len(got))
		t.FailNow()
	}
	if !got[0].Equal(start.Add(time.Second)) || !got[1].Equal(start.Add(3*time.Second)) {
		t.Errorf("tick times do not match: %+v", got)
		t.FailNow()
	}
}

func Test_manualSourceUnsubscribe(t *testing.T) {
	source := NewManualSource(time.Unix(0, 0))

	ticks := 0
	sub := source.Subscribe(func(now time.Time) {
		ticks++
	})
	if source.HandlerCount() != 1 {
		t.Errorf("expected 1 handler, got %d", source.HandlerCount())
		t.FailNow()
	}

	source.Advance(time.Second)
	sub.Unsubscribe()
	source.Advance(time.Second)

	if ticks != 1 {
		t.Errorf("expected 1 tick after unsubscribe, got %d", ticks)
		t.FailNow()
	}
	if source.HandlerCount() != 0 {
		t.Errorf("expected 0 handlers, got %d", source.HandlerCount())
		t.FailNow()
	}
}

func Test_runtimeSourceTicks(t *testing.T) {
	source := NewRuntimeSource(10 * time.Millisecond)
	defer source.Close()

	ticks := make(chan time.Time, 1)
	source.Subscribe(func(now time.Time) {
		select {
		case ticks <- now:
		default:
		}
	})

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Error("no tick within 2s")
		t.FailNow()
	}
}

func Test_runtimeSourceUnsubscribe(t *testing.T) {
	source := NewRuntimeSource(5 * time.Millisecond)
	defer source.Close()

	ticks := make(chan time.Time, 64)
	sub := source.Subscribe(func(now time.Time) {
		select {
		case ticks <- now:
		default:
		}
	})

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Error("no tick within 2s")
		t.FailNow()
	}
	sub.Unsubscribe()

	// Drain anything delivered before the unsubscribe landed, then expect
	// silence.
	time.Sleep(20 * time.Millisecond)
	for len(ticks) > 0 {
		<-ticks
	}
	select {
	case <-ticks:
		t.Error("tick delivered after unsubscribe")
		t.FailNow()
	case <-time.After(50 * time.Millisecond):
	}
}
