// Package timer provides deferred callbacks for single-threaded state
// machines: a fast-forwardable clock for tests and a queue an event loop
// drains into its own timer messages.
package timer

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs fn once, no earlier than d from now. There is no
// cancellation.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Manual is a deterministic Scheduler whose clock only moves on Advance.
type Manual struct {
	now     time.Duration
	seq     int
	pending []manualEntry
}

type manualEntry struct {
	due time.Duration
	seq int
	fn  func()
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	m.seq++
	m.pending = append(m.pending, manualEntry{due: m.now + d, seq: m.seq, fn: fn})
}

// Advance moves the clock forward by d, running every callback that
// becomes due in due-time order. Callbacks scheduled while advancing run
// too if they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		i := m.nextDue(target)
		if i < 0 {
			break
		}
		e := m.pending[i]
		m.pending = append(m.pending[:i], m.pending[i+1:]...)
		m.now = e.due
		e.fn()
	}
	m.now = target
}

func (m *Manual) nextDue(limit time.Duration) int {
	best := -1
	for i, e := range m.pending {
		if e.due > limit {
			continue
		}
		if best < 0 || e.due < m.pending[best].due || (e.due == m.pending[best].due && e.seq < m.pending[best].seq) {
			best = i
		}
	}
	return best
}

// Pending reports how many callbacks have not fired yet.
func (m *Manual) Pending() int { return len(m.pending) }

// Now returns the time elapsed since the Manual was created.
func (m *Manual) Now() time.Duration { return m.now }

// Deferred is a callback waiting in a Queue.
type Deferred struct {
	Delay time.Duration
	Fn    func()
}

// Queue collects callbacks so an event loop can schedule them itself and
// run them on its own goroutine.
type Queue struct {
	mu    sync.Mutex
	items []Deferred
}

func (q *Queue) After(d time.Duration, fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, Deferred{Delay: d, Fn: fn})
}

// Drain returns queued callbacks ordered by delay and empties the queue.
func (q *Queue) Drain() []Deferred {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	sort.SliceStable(out, func(i, j int) bool { return out[i].Delay < out[j].Delay })
	return out
}

// Guard lets one deferred action of a kind run at a time. While an action
// is pending, further Start calls are ignored rather than queued.
type Guard struct {
	busy bool
}

// Start schedules fn after d unless a previous action is still pending.
// It reports whether fn was scheduled.
func (g *Guard) Start(s Scheduler, d time.Duration, fn func()) bool {
	if g.busy {
		return false
	}
	g.busy = true
	s.After(d, func() {
		g.busy = false
		fn()
	})
	return true
}

// Busy reports whether an action is pending.
func (g *Guard) Busy() bool { return g.busy }
