package retrycache

import (
	"runtime/debug"
	"sync"
	"time"
)

// Producer starts one attempt to obtain a value. It is called once per
// attempt, each time on its own goroutine.
type Producer[T any] func() (T, error)

// Cache memoizes the result of a Producer. Concurrent callers share one
// in-flight or resolved Future, failed attempts are dropped and, unless the
// cache is lazy, retried automatically.
type Cache[T any] struct {
	producer Producer[T]
	cfg      config

	mu sync.Mutex
	// pending is the shared future. It is nil while idle and after a
	// failure. A success keeps it forever.
	pending *Future[T]
	// lastStart is when the most recent invocation actually began.
	lastStart time.Time
	retries   int
	attempts  int
	// stopped caches finish what is scheduled but never retry on their own.
	stopped bool
}

// attempt is an attempt that has been stored as pending but not yet launched.
type attempt[T any] struct {
	f     *Future[T]
	n     int
	delay time.Duration
}

// New wraps producer. Unless WithLazy(true) is given, the first attempt is
// started right away; its outcome surfaces through Get.
func New[T any](producer Producer[T], opts ...Option) *Cache[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.normalize()

	c := newCache(producer, cfg)
	if !cfg.lazy {
		c.Get()
	}
	return c
}

// newCache builds a cache without priming it.
func newCache[T any](producer Producer[T], cfg config) *Cache[T] {
	return &Cache[T]{producer: producer, cfg: cfg}
}

// stop ends automatic retries. An attempt already scheduled still runs and
// settles for whoever holds its future.
func (c *Cache[T]) stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
}

// Get returns the shared future, starting a new attempt if there is none.
// Every Get issued while an attempt is pending or after it succeeded
// receives the same *Future.
func (c *Cache[T]) Get() *Future[T] {
	c.mu.Lock()
	if f := c.pending; f != nil {
		retries := c.retries
		c.mu.Unlock()
		c.emit(EventData{Event: EventHit, Retries: retries})
		return f
	}
	next := c.scheduleLocked()
	retries := c.retries
	c.mu.Unlock()

	c.emit(EventData{Event: EventMiss, Retries: retries})
	c.launch(next)
	return next.f
}

// scheduleLocked stores a fresh pending future and decides when its
// producer invocation may start.
func (c *Cache[T]) scheduleLocked() attempt[T] {
	f := newFuture[T]()
	c.pending = f

	now := c.cfg.clock.Now()
	var wait time.Duration
	if !c.lastStart.IsZero() {
		wait = c.lastStart.Add(c.cfg.minRetryInterval).Sub(now)
	}
	if wait > 0 {
		return attempt[T]{f: f, delay: wait}
	}
	c.lastStart = now
	c.attempts++
	return attempt[T]{f: f, n: c.attempts}
}

func (c *Cache[T]) launch(a attempt[T]) {
	if a.delay <= 0 {
		go c.invoke(a.f, a.n)
		return
	}

	c.emit(EventData{Event: EventThrottled, Delay: a.delay})
	c.cfg.logger.Debug("retrycache: attempt delayed", c.fields(Fields{FieldDelay: a.delay}))
	c.cfg.clock.AfterFunc(a.delay, func() {
		c.mu.Lock()
		c.lastStart = c.cfg.clock.Now()
		c.attempts++
		n := c.attempts
		c.mu.Unlock()

		c.invoke(a.f, n)
	})
}

func (c *Cache[T]) invoke(f *Future[T], n int) {
	c.emit(EventData{Event: EventInvoke, Attempt: n})

	val, err := c.call()
	if err != nil {
		c.fail(f, n, err)
		var zero T
		f.settle(zero, err)
		return
	}
	c.emit(EventData{Event: EventSuccess, Attempt: n})
	f.settle(val, nil)
}

func (c *Cache[T]) call() (val T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return c.producer()
}

// fail drops the failed future and, under the retry ceiling and when not
// lazy, primes the next attempt. It runs before f is settled so a caller
// reacting to the failure already sees the new state.
func (c *Cache[T]) fail(f *Future[T], n int, err error) {
	c.mu.Lock()
	c.retries++
	retries := c.retries
	if c.pending == f {
		c.pending = nil
	}
	exhausted := c.cfg.exhausted(retries)
	var next *attempt[T]
	if !exhausted && !c.cfg.lazy && !c.stopped && c.pending == nil {
		a := c.scheduleLocked()
		next = &a
	}
	c.mu.Unlock()

	c.emit(EventData{Event: EventFailure, Attempt: n, Retries: retries, Err: err})
	fields := c.fields(Fields{FieldAttempt: n, FieldRetries: retries, FieldError: err})
	switch {
	case exhausted:
		c.cfg.logger.Info("retrycache: automatic retries exhausted", fields)
		c.emit(EventData{Event: EventExhausted, Attempt: n, Retries: retries, Err: err})
	case next != nil:
		c.cfg.logger.Warn("retrycache: attempt failed, retrying", fields)
		c.emit(EventData{Event: EventRetry, Attempt: n, Retries: retries, Err: err})
		c.launch(*next)
	default:
		c.cfg.logger.Warn("retrycache: attempt failed", fields)
	}
}

func (c *Cache[T]) emit(eventData EventData) {
	if c.cfg.observer == nil {
		return
	}
	eventData.Name = c.cfg.name
	c.cfg.observer.On(eventData)
}

func (c *Cache[T]) fields(f Fields) Fields {
	if c.cfg.name != "" {
		f[FieldCache] = c.cfg.name
	}
	return f
}
