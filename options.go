package polycache

import "math"

// Unbounded is the byte-budget sentinel meaning "no size limit". It is
// deliberately distinct from zero: a zero budget is rejected as invalid
// rather than silently meaning unlimited.
const Unbounded = uint64(math.MaxUint64)

type config struct {
	maxSize    uint64
	initialAge float64
}

// Option tweaks an engine before it becomes active.
type Option func(*config)

// WithMaxSize bounds the total byte size of resident entries. Inserts evict
// until the budget holds again; a single value larger than the budget is
// rejected with ErrValueTooLarge.
func WithMaxSize(bytes uint64) Option {
	return func(c *config) { c.maxSize = bytes }
}

// WithInitialAge seeds the aging counter of the LFUDA and GDSF policies.
// LFUDA keeps an integer age and truncates the given value; the other
// policies ignore it.
func WithInitialAge(age float64) Option {
	return func(c *config) { c.initialAge = age }
}

func buildConfig(opts []Option) config {
	c := config{maxSize: Unbounded}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
