package retrycache

import "time"

// UnlimitedRetries disables the automatic retry ceiling. Any negative
// value passed to WithMaxRetries means the same.
const UnlimitedRetries = -1

type config struct {
	lazy             bool
	maxRetries       int
	minRetryInterval time.Duration
	clock            Clock
	observer         Observer
	logger           Logger
	name             string
	idleTTL          time.Duration
}

func defaultConfig() config {
	return config{
		maxRetries: UnlimitedRetries,
		clock:      SystemClock{},
		logger:     NopLogger{},
	}
}

func (c *config) normalize() {
	if c.maxRetries < 0 {
		c.maxRetries = UnlimitedRetries
	}
	c.minRetryInterval = max(c.minRetryInterval, 0)
	c.idleTTL = max(c.idleTTL, 0)
	if c.clock == nil {
		c.clock = SystemClock{}
	}
	if c.logger == nil {
		c.logger = NopLogger{}
	}
}

// exhausted reports whether retries failed attempts exceed the ceiling.
func (c *config) exhausted(retries int) bool {
	return c.maxRetries != UnlimitedRetries && retries > c.maxRetries
}
