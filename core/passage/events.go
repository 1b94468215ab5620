package passage

import "sync"

// EventKind says what happened to a passage.
type EventKind int

const (
	VersesAdded EventKind = iota
	VersesRemoved
	VersesChanged
)

func (k EventKind) String() string {
	switch k {
	case VersesAdded:
		return "added"
	case VersesRemoved:
		return "removed"
	case VersesChanged:
		return "changed"
	}
	return "unknown"
}

// Event describes one change to a passage. Ranges lists the verses that
// were actually added or removed; it is empty for VersesChanged.
type Event struct {
	Kind   EventKind
	Source Passage
	Ranges []VerseRange
}

// Listener is told about changes to a passage. Listeners are matched with
// == when removed, so register pointers.
type Listener interface {
	VersesAdded(Event)
	VersesRemoved(Event)
	VersesChanged(Event)
}

// listeners is embedded by passage implementations. Dispatch works on a
// snapshot so a listener may add or remove listeners while being called.
type listeners struct {
	mu   sync.Mutex
	list []Listener
}

func (l *listeners) AddListener(x Listener) {
	if x == nil {
		return
	}
	l.mu.Lock()
	l.list = append(l.list, x)
	l.mu.Unlock()
}

func (l *listeners) RemoveListener(x Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, y := range l.list {
		if y == x {
			l.list = append(l.list[:i:i], l.list[i+1:]...)
			return
		}
	}
}

func (l *listeners) snapshot() []Listener {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.list) == 0 {
		return nil
	}
	out := make([]Listener, len(l.list))
	copy(out, l.list)
	return out
}

func (l *listeners) fire(src Passage, kind EventKind, ranges []VerseRange) {
	ls := l.snapshot()
	if len(ls) == 0 {
		return
	}
	ev := Event{Kind: kind, Source: src, Ranges: ranges}
	for _, x := range ls {
		switch kind {
		case VersesAdded:
			x.VersesAdded(ev)
		case VersesRemoved:
			x.VersesRemoved(ev)
		default:
			x.VersesChanged(ev)
		}
	}
}
