package pkg

import (
	"time"

	"github.com/eapache/queue"
)

type CompletionKind string

const (
	CompletionLoop     CompletionKind = "loop"
	CompletionFinished CompletionKind = "finished"
	CompletionStopped  CompletionKind = "stopped"
)

// CompletionRecord is one journal entry for a completion-bus fire.
type CompletionRecord struct {
	Timer string
	Kind  CompletionKind
	At    time.Time
}

// completionLog is a bounded FIFO of the most recent completion-bus fires.
// Access is serialized by the scheduler mutex.
type completionLog struct {
	entries *queue.Queue
	max     int
}

func newCompletionLog(max int) *completionLog {
	return &completionLog{
		entries: queue.New(),
		max:     max,
	}
}

func (l *completionLog) add(record CompletionRecord) {
	l.entries.Add(record)
	for l.entries.Length() > l.max {
		l.entries.Remove()
	}
}

func (l *completionLog) snapshot() []CompletionRecord {
	records := make([]CompletionRecord, 0, l.entries.Length())
	for i := 0; i < l.entries.Length(); i++ {
		records = append(records, l.entries.Get(i).(CompletionRecord))
	}
	return records
}
