package traffic

import "sync"

// DefaultMaxEntries bounds the in-memory traffic log.
const DefaultMaxEntries = 10000

// Log is an append-only record of exchanges with monotonic positions.
// Many proxy goroutines append concurrently; readers take consistent
// snapshots by position and never observe a partially written exchange.
//
// When the capacity is exceeded the oldest exchanges are evicted, but
// positions keep counting from the start of the process so that session
// boundaries remain valid across eviction.
type Log struct {
	mu      sync.RWMutex
	entries []*Exchange
	base    uint64 // position of entries[0]
	max     int
}

// NewLog creates a log bounded to DefaultMaxEntries.
func NewLog() *Log {
	return NewLogWithCapacity(DefaultMaxEntries)
}

// NewLogWithCapacity creates a log bounded to max exchanges. A max of zero
// or less means unbounded.
func NewLogWithCapacity(max int) *Log {
	return &Log{max: max}
}

// Append adds an exchange and returns its position.
func (l *Log) Append(e *Exchange) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos := l.base + uint64(len(l.entries))
	l.entries = append(l.entries, e)

	if l.max > 0 && len(l.entries) > l.max {
		evict := len(l.entries) - l.max
		l.entries = append([]*Exchange(nil), l.entries[evict:]...)
		l.base += uint64(evict)
	}
	return pos
}

// Len returns the position one past the newest exchange. Recording a
// session boundary means reading Len before traffic of interest arrives.
func (l *Log) Len() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.base + uint64(len(l.entries))
}

// Since returns a snapshot of all exchanges at position >= from, in
// arrival order. Exchanges already evicted are silently absent.
func (l *Log) Since(from uint64) []*Exchange {
	l.mu.RLock()
	defer l.mu.RUnlock()

	start := uint64(0)
	if from > l.base {
		start = from - l.base
	}
	if start >= uint64(len(l.entries)) {
		return nil
	}

	out := make([]*Exchange, uint64(len(l.entries))-start)
	copy(out, l.entries[start:])
	return out
}

// All returns a snapshot of every retained exchange in arrival order.
func (l *Log) All() []*Exchange {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Exchange, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear drops all retained exchanges without resetting positions.
func (l *Log) Clear() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.entries)
	l.base += uint64(n)
	l.entries = nil
	return n
}
