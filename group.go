package retrycache

import (
	"context"
	"fmt"
	"sync"

	"github.com/jellydator/ttlcache/v3"
)

// Group holds one Cache per key. Every cache shares the group's options and
// is named after its key.
//
// A key that is dropped, by Forget, by idle expiry or by Close, stops
// retrying on its own, so at most one retry chain runs per key.
type Group[K comparable, T any] struct {
	producer func(K) (T, error)
	cfg      config

	mu        sync.Mutex
	caches    *ttlcache.Cache[K, *Cache[T]]
	closeOnce sync.Once
}

// NewGroup creates a Group whose caches call producer with their key.
// Call Close to stop the background expiry of idle keys.
func NewGroup[K comparable, T any](producer func(K) (T, error), opts ...Option) *Group[K, T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.normalize()

	caches := ttlcache.New[K, *Cache[T]](
		ttlcache.WithTTL[K, *Cache[T]](cfg.idleTTL),
	)
	caches.OnEviction(func(_ context.Context, _ ttlcache.EvictionReason, item *ttlcache.Item[K, *Cache[T]]) {
		item.Value().stop()
	})
	go caches.Start()

	return &Group[K, T]{
		producer: producer,
		cfg:      cfg,
		caches:   caches,
	}
}

// Get returns the shared future for key, creating the key's cache on first
// use. Observers may call back into the group.
func (g *Group[K, T]) Get(key K) *Future[T] {
	return g.cache(key).Get()
}

// cache never runs callbacks while g.mu is held: the cache it creates is
// not primed, the caller's Get starts the first attempt.
func (g *Group[K, T]) cache(key K) *Cache[T] {
	// Fast path: the key already has a cache.
	if item := g.caches.Get(key); item != nil {
		return item.Value()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	// Double-check: another goroutine may have created it while we waited.
	if item := g.caches.Get(key); item != nil {
		return item.Value()
	}

	cfg := g.cfg
	cfg.name = g.keyName(key)
	c := newCache(func() (T, error) { return g.producer(key) }, cfg)
	g.caches.Set(key, c, ttlcache.DefaultTTL)
	return c
}

func (g *Group[K, T]) keyName(key K) string {
	if g.cfg.name == "" {
		return fmt.Sprint(key)
	}
	return g.cfg.name + ":" + fmt.Sprint(key)
}

// Forget drops the cache for key and stops its automatic retries. An
// attempt already scheduled still settles for the callers holding its
// future, and the next Get starts over.
func (g *Group[K, T]) Forget(key K) {
	if item := g.caches.Get(key); item != nil {
		item.Value().stop()
	}
	g.caches.Delete(key)
}

// Len returns the number of keys with a cache.
func (g *Group[K, T]) Len() int {
	return g.caches.Len()
}

// Close stops the background expiry and the automatic retries of every
// key. It is safe to call more than once.
func (g *Group[K, T]) Close() {
	g.closeOnce.Do(func() {
		g.caches.Stop()
		for _, item := range g.caches.Items() {
			item.Value().stop()
		}
	})
}
