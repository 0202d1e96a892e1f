package retrycache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	retrycache "github.com/probablyarth/retrycache-go"
)

// manualClock only moves when Advance is called. Due callbacks run on the
// goroutine calling Advance.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []manualTimer
}

type manualTimer struct {
	at time.Time
	f  func()
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers = append(c.timers, manualTimer{at: c.now.Add(d), f: f})
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []func()
	kept := c.timers[:0]
	for _, t := range c.timers {
		if !t.at.After(c.now) {
			due = append(due, t.f)
			continue
		}
		kept = append(kept, t)
	}
	c.timers = kept
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// waitPending blocks until n callbacks are scheduled.
func (c *manualClock) waitPending(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for c.Pending() != n {
		if time.Now().After(deadline) {
			t.Fatalf("got %d scheduled callbacks, want %d", c.Pending(), n)
		}
		time.Sleep(time.Millisecond)
	}
}

// recorder keeps every event and lets tests block until one shows up.
type recorder struct {
	mu     sync.Mutex
	events []retrycache.EventData
	ch     chan retrycache.EventData
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan retrycache.EventData, 4096)}
}

func (r *recorder) On(eventData retrycache.EventData) {
	r.mu.Lock()
	r.events = append(r.events, eventData)
	r.mu.Unlock()
	r.ch <- eventData
}

func (r *recorder) Events() []retrycache.EventData {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]retrycache.EventData(nil), r.events...)
}

func (r *recorder) Count(event retrycache.Event) int {
	n := 0
	for _, e := range r.Events() {
		if e.Event == event {
			n++
		}
	}
	return n
}

// waitFor blocks until an event of the given kind is received.
func (r *recorder) waitFor(t *testing.T, event retrycache.Event) retrycache.EventData {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case e := <-r.ch:
			if e.Event == event {
				return e
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %v event", event)
		}
	}
}

func wait[T any](t *testing.T, f *retrycache.Future[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	val, err := f.Wait(ctx)
	if err == context.DeadlineExceeded {
		t.Fatal("timed out waiting for future")
	}
	return val, err
}
