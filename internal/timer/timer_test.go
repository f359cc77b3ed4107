package timer

import (
	"testing"
	"time"
)

func TestManualRunsInDueOrder(t *testing.T) {
	m := NewManual()
	var got []string
	m.After(2*time.Second, func() { got = append(got, "b") })
	m.After(time.Second, func() { got = append(got, "a") })
	m.After(time.Second, func() { got = append(got, "a2") })

	m.Advance(999 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("fired early: %v", got)
	}

	m.Advance(time.Millisecond)
	if len(got) != 2 || got[0] != "a" || got[1] != "a2" {
		t.Fatalf("after 1s: %v", got)
	}

	m.Advance(time.Second)
	if len(got) != 3 || got[2] != "b" {
		t.Fatalf("after 2s: %v", got)
	}
	if m.Pending() != 0 {
		t.Errorf("pending = %d", m.Pending())
	}
}

func TestManualNestedSchedule(t *testing.T) {
	m := NewManual()
	fired := 0
	m.After(time.Second, func() {
		m.After(time.Second, func() { fired++ })
	})

	m.Advance(3 * time.Second)
	if fired != 1 {
		t.Errorf("nested callback fired %d times", fired)
	}
	if m.Now() != 3*time.Second {
		t.Errorf("now = %v", m.Now())
	}
}

func TestGuardIgnoresReentrantStart(t *testing.T) {
	m := NewManual()
	var g Guard
	runs := 0

	if !g.Start(m, 400*time.Millisecond, func() { runs++ }) {
		t.Fatal("first start rejected")
	}
	if g.Start(m, 400*time.Millisecond, func() { runs += 10 }) {
		t.Fatal("re-entrant start accepted")
	}
	if !g.Busy() {
		t.Fatal("guard should be busy")
	}

	m.Advance(400 * time.Millisecond)
	if runs != 1 {
		t.Fatalf("runs = %d, want 1", runs)
	}
	if g.Busy() {
		t.Fatal("guard should be clear after firing")
	}
	if !g.Start(m, 400*time.Millisecond, func() { runs++ }) {
		t.Fatal("start after completion rejected")
	}
}

func TestQueueDrain(t *testing.T) {
	var q Queue
	q.After(time.Second, func() {})
	q.After(10*time.Millisecond, func() {})

	items := q.Drain()
	if len(items) != 2 || items[0].Delay != 10*time.Millisecond {
		t.Fatalf("drain = %+v", items)
	}
	if len(q.Drain()) != 0 {
		t.Error("queue not emptied")
	}
}
