// Package slog logs cache events with log/slog.
package slog

import (
	"context"
	stdslog "log/slog"
	"sync/atomic"

	retrycache "github.com/probablyarth/retrycache-go"
)

// Options tunes an Observer.
type Options struct {
	// Sampling for hit events to avoid floods; 0/1 = log all.
	HitEvery uint64
}

// Observer logs cache events. Hits, misses and successful invocations are
// logged at debug, failures and retries at warn, exhaustion at error.
type Observer struct {
	l    *stdslog.Logger
	opts Options

	hitCtr atomic.Uint64
}

var _ retrycache.Observer = (*Observer)(nil)

// New logs to l. A nil l discards every event.
func New(l *stdslog.Logger, opts Options) *Observer {
	return &Observer{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func level(e retrycache.Event) stdslog.Level {
	switch e {
	case retrycache.EventFailure, retrycache.EventRetry:
		return stdslog.LevelWarn
	case retrycache.EventExhausted:
		return stdslog.LevelError
	default:
		return stdslog.LevelDebug
	}
}

// On logs eventData at the level of its kind.
func (o *Observer) On(e retrycache.EventData) {
	if o.l == nil {
		return
	}
	if e.Event == retrycache.EventHit && !sample(o.opts.HitEvery, &o.hitCtr) {
		return
	}

	attrs := make([]stdslog.Attr, 0, 5)
	if e.Name != "" {
		attrs = append(attrs, stdslog.String("cache", e.Name))
	}
	if e.Attempt > 0 {
		attrs = append(attrs, stdslog.Int("attempt", e.Attempt))
	}
	attrs = append(attrs, stdslog.Int("retries", e.Retries))
	if e.Delay > 0 {
		attrs = append(attrs, stdslog.Duration("delay", e.Delay))
	}
	if e.Err != nil {
		attrs = append(attrs, stdslog.Any("err", e.Err))
	}
	o.l.LogAttrs(context.Background(), level(e.Event), "retrycache."+e.Event.String(), attrs...)
}
