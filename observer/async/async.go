// Package async decouples a slow Observer from the goroutines running a
// cache. Events are queued and delivered by worker goroutines; when the
// queue is full they are dropped.
//
//	raw := slogobserver.New(slog.Default(), slogobserver.Options{HitEvery: 100})
//	obs := async.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer obs.Close()
//
//	cache := retrycache.New(fetch, retrycache.WithObserver(obs))
package async

import (
	"sync"
	"sync/atomic"

	retrycache "github.com/probablyarth/retrycache-go"
)

// Observer queues events for an inner Observer.
type Observer struct {
	inner retrycache.Observer
	q     chan retrycache.EventData
	wg    sync.WaitGroup

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ retrycache.Observer = (*Observer)(nil)

// New starts workers goroutines delivering to inner from a queue of qlen
// events. Non-positive values fall back to 1 worker and 1024 events.
func New(inner retrycache.Observer, workers, qlen int) *Observer {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	o := &Observer{inner: inner, q: make(chan retrycache.EventData, qlen)}
	o.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer o.wg.Done()
			for e := range o.q {
				o.inner.On(e)
			}
		}()
	}
	return o
}

// On queues eventData without blocking.
func (o *Observer) On(eventData retrycache.EventData) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		o.dropped.Add(1)
		return
	}
	select {
	case o.q <- eventData:
	default:
		o.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded because the queue was full
// or the observer was closed.
func (o *Observer) Dropped() uint64 {
	return o.dropped.Load()
}

// Close delivers the queued events and stops the workers.
func (o *Observer) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	close(o.q)
	o.mu.Unlock()

	o.wg.Wait()
}
