package retrycache

import (
	"fmt"
	"time"
)

// Observer receives cache lifecycle events. Implementations must be safe
// for concurrent use. The cache never holds its lock while calling On, so
// an observer may call back into the cache.
type Observer interface {
	On(eventData EventData)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(EventData)

// On calls f(eventData).
func (f ObserverFunc) On(eventData EventData) { f(eventData) }

// Event represents a cache event type.
type Event int

const (
	// EventHit is emitted when Get returns the already shared future.
	EventHit Event = iota
	// EventMiss is emitted when Get starts a new attempt.
	EventMiss
	// EventThrottled is emitted when a new attempt has to wait for the
	// minimum retry interval. Delay holds the wait.
	EventThrottled
	// EventInvoke is emitted right before the producer is called.
	EventInvoke
	// EventSuccess is emitted when an attempt succeeds.
	EventSuccess
	// EventFailure is emitted when an attempt fails. Err holds the failure.
	EventFailure
	// EventRetry is emitted when a failure schedules an automatic retry.
	EventRetry
	// EventExhausted is emitted when a failure crosses the retry ceiling
	// and no further attempt is scheduled automatically.
	EventExhausted
)

var eventNames = [...]string{
	EventHit:       "hit",
	EventMiss:      "miss",
	EventThrottled: "throttled",
	EventInvoke:    "invoke",
	EventSuccess:   "success",
	EventFailure:   "failure",
	EventRetry:     "retry",
	EventExhausted: "exhausted",
}

// String returns the lower-case event name.
func (e Event) String() string {
	if e >= 0 && int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// EventData carries the details of a cache event.
type EventData struct {
	Event Event
	// Name is the cache name set with WithName.
	Name string
	// Attempt counts producer invocations, starting at 1. It is zero for
	// events that are not tied to an invocation.
	Attempt int
	// Retries is the number of failed attempts so far.
	Retries int
	Delay   time.Duration
	Err     error
}

type multiObserver []Observer

func (m multiObserver) On(eventData EventData) {
	for _, o := range m {
		o.On(eventData)
	}
}

// Observers fans events out to every non-nil observer in order.
func Observers(observers ...Observer) Observer {
	out := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}
