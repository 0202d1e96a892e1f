package retrycache

import "time"

// Clock supplies the current time and one-shot delayed callbacks.
// The cache never cancels a callback it has scheduled.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func())
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// AfterFunc runs f on its own goroutine once d has elapsed.
func (SystemClock) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}
