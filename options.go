package retrycache

import "time"

// Option configures a Cache created by New, or every Cache of a Group.
type Option func(*config)

// WithLazy suppresses the eager first fetch and the automatic re-fetch after
// a failure. The producer then only runs in response to Get.
func WithLazy(lazy bool) Option {
	return func(c *config) {
		c.lazy = lazy
	}
}

// WithMaxRetries caps how many failures are followed by an automatic retry.
// With n retries the producer runs at most n+1 times on its own. Explicit
// Get calls are never capped.
func WithMaxRetries(n int) Option {
	return func(c *config) {
		c.maxRetries = n
	}
}

// WithMinRetryInterval sets the minimum spacing between the start times of
// two consecutive producer invocations, whether the earlier one succeeded or
// failed.
func WithMinRetryInterval(d time.Duration) Option {
	return func(c *config) {
		c.minRetryInterval = d
	}
}

// WithClock replaces the wall clock, mostly for tests.
func WithClock(clock Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithObserver attaches an Observer that receives every cache event for the
// lifetime of the cache. Combine several with Observers.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}

// WithLogger sets the logger. If unset, logging is disabled.
func WithLogger(l Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithName labels the cache in events and log fields.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithIdleTTL makes a Group drop the cache of a key that has not been asked
// for in d. A dropped key starts over on its next Get. Zero keeps keys
// forever. Caches created with New ignore it.
func WithIdleTTL(d time.Duration) Option {
	return func(c *config) {
		c.idleTTL = d
	}
}
