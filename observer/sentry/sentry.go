// Package sentry reports caches that gave up retrying to Sentry.
package sentry

import (
	"fmt"

	"github.com/getsentry/sentry-go"
	retrycache "github.com/probablyarth/retrycache-go"
)

// ExhaustedError is the exception captured when a cache stops retrying.
// Callers of the cache never see it.
type ExhaustedError struct {
	Name    string
	Retries int
	Err     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retrycache %q: automatic retries exhausted after %d failures: %v", e.Name, e.Retries, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Observer captures one exception per EventExhausted and ignores every
// other event.
type Observer struct {
	hub *sentry.Hub
}

var _ retrycache.Observer = (*Observer)(nil)

// New reports to hub, or to the current hub when hub is nil.
func New(hub *sentry.Hub) *Observer {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return &Observer{hub: hub}
}

// On reports eventData if it is an EventExhausted.
func (o *Observer) On(e retrycache.EventData) {
	if e.Event != retrycache.EventExhausted {
		return
	}

	o.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("cache", e.Name)
		scope.SetExtra("attempt", e.Attempt)
		scope.SetExtra("retries", e.Retries)
		scope.SetFingerprint([]string{"retrycache", "exhausted", e.Name})
		o.hub.CaptureException(&ExhaustedError{Name: e.Name, Retries: e.Retries, Err: e.Err})
	})
}
