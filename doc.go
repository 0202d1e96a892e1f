// Package retrycache provides a single-flight, retrying memoizer for a
// zero-argument producer.
//
// A Cache wraps a producer and shares one in-flight or already-resolved
// result between every caller. When an attempt fails, the failure is handed
// to whoever holds that attempt's Future and the cache drops it, so the next
// attempt starts fresh. Unless the cache is lazy, that next attempt is
// scheduled automatically:
//
//	c := retrycache.New(fetchConfig,
//		retrycache.WithMaxRetries(5),
//		retrycache.WithMinRetryInterval(2*time.Second),
//	)
//
//	cfg, err := c.Get().Wait(ctx)
//
// Concurrent callers of [Cache.Get] receive the same [*Future] until it
// fails. Successful results are kept for the lifetime of the cache.
//
// Two consecutive producer invocations never start closer together than the
// minimum retry interval. Once the retry ceiling is crossed the cache stops
// scheduling attempts on its own, but an explicit Get still starts a new one.
// The crossing is reported to an [Observer] as [EventExhausted]; callers only
// ever see the producer's own errors.
//
// [Group] memoizes one Cache per key.
package retrycache
