package models

import "sync"

// EventLog is the bounded ring of formatted bridge-event lines replayed to
// every new subscriber.
type EventLog struct {
	mu    sync.Mutex
	items []string
	max   int
}

func NewEventLog(max int) *EventLog {
	if max <= 0 {
		max = 100
	}
	return &EventLog{
		items: make([]string, 0, max),
		max:   max,
	}
}

func (l *EventLog) Append(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.items) >= l.max {
		copy(l.items, l.items[1:])
		l.items[len(l.items)-1] = line
		return
	}
	l.items = append(l.items, line)
}

// Lines returns the ring oldest first.
func (l *EventLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}

// Restore replaces the ring, keeping only the newest entries that fit.
func (l *EventLog) Restore(lines []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(lines) > l.max {
		lines = lines[len(lines)-l.max:]
	}
	l.items = append(l.items[:0], lines...)
}

func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
