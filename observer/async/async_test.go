package async_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	retrycache "github.com/probablyarth/retrycache-go"
	"github.com/probablyarth/retrycache-go/observer/async"
)

type collector struct {
	mu     sync.Mutex
	events []retrycache.Event
}

func (c *collector) On(e retrycache.EventData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e.Event)
}

func TestObserverDeliversBeforeClose(t *testing.T) {
	inner := &collector{}
	o := async.New(inner, 1, 16)

	o.On(retrycache.EventData{Event: retrycache.EventMiss})
	o.On(retrycache.EventData{Event: retrycache.EventInvoke})
	o.On(retrycache.EventData{Event: retrycache.EventSuccess})
	o.Close()

	assert.Equal(t, []retrycache.Event{
		retrycache.EventMiss,
		retrycache.EventInvoke,
		retrycache.EventSuccess,
	}, inner.events)
	assert.Zero(t, o.Dropped())
}

func TestObserverDropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	inner := retrycache.ObserverFunc(func(retrycache.EventData) { <-block })
	o := async.New(inner, 1, 1)

	// One event is held by the worker, one fills the queue; the rest drop.
	for i := 0; i < 10; i++ {
		o.On(retrycache.EventData{Event: retrycache.EventHit})
	}
	close(block)
	o.Close()

	assert.GreaterOrEqual(t, o.Dropped(), uint64(8))
}

func TestObserverAfterClose(t *testing.T) {
	o := async.New(&collector{}, 2, 4)
	o.Close()
	o.Close()

	o.On(retrycache.EventData{Event: retrycache.EventHit})
	assert.Equal(t, uint64(1), o.Dropped())
}
