package polycache

import "github.com/pkg/errors"

// Evicted is one entry displaced by an insert, in eviction order. Callers
// tear down external resources from it, or spill it to a second tier.
type Evicted[K comparable, V any] struct {
	Key   K
	Value V
	Size  uint64
}

// core is the state every engine shares: the arena, the key to index map,
// the dual limits and the running totals. The ordering structures on top of
// it differ per policy; everything here is policy-neutral.
type core[K comparable, V any] struct {
	a       arena[K, V]
	idx     map[K]uint32
	bytes   uint64
	cap     int
	maxSize uint64
	stats   Stats
}

func newCore[K comparable, V any](capacity int, cfg config) (core[K, V], error) {
	if capacity <= 0 {
		return core[K, V]{}, errors.Wrapf(ErrInvalidConfig, "capacity %d", capacity)
	}
	if cfg.maxSize == 0 {
		return core[K, V]{}, errors.Wrap(ErrInvalidConfig, "max size 0, use Unbounded for no limit")
	}
	return core[K, V]{
		idx:     make(map[K]uint32, capacity),
		cap:     capacity,
		maxSize: cfg.maxSize,
	}, nil
}

// checkSize vets an entry size before any state is touched
func (c *core[K, V]) checkSize(size uint64) error {
	if size == 0 {
		return errors.Wrap(ErrInvalidConfig, "entry size 0")
	}
	if size > c.maxSize {
		return errors.Wrapf(ErrValueTooLarge, "size %d over budget %d", size, c.maxSize)
	}
	return nil
}

// over reports whether either limit is currently exceeded
func (c *core[K, V]) over() bool {
	return len(c.idx) > c.cap || c.bytes > c.maxSize
}

// makeRoom drives the eviction loop for a new entry of the given size,
// before the entry is linked in: the incoming entry is never its own
// victim, resident entries compete on the policy's terms alone. evictOne
// must detach the victim from the engine's ordering structure (updating any
// aging state) and return its index; each round shrinks the entry count by
// one and checkSize has already bounded size, so the loop terminates. The
// drained entries come back in eviction order.
func (c *core[K, V]) makeRoom(size uint64, evictOne func() uint32) []Evicted[K, V] {
	var out []Evicted[K, V]
	for len(c.idx) >= c.cap || size > c.maxSize-c.bytes {
		i := evictOne()
		if i == 0 {
			return out
		}
		out = append(out, c.reap(i))
	}
	return out
}

// enforce re-checks the limits after an in-place replacement changed an
// entry's size. Here the replaced entry is resident and competes like any
// other.
func (c *core[K, V]) enforce(evictOne func() uint32) []Evicted[K, V] {
	var out []Evicted[K, V]
	for c.over() {
		i := evictOne()
		if i == 0 {
			return out
		}
		out = append(out, c.reap(i))
	}
	return out
}

// reap finishes an eviction: index map, totals, arena, counters
func (c *core[K, V]) reap(i uint32) Evicted[K, V] {
	e := c.a.at(i)
	ev := Evicted[K, V]{Key: e.k, Value: e.v, Size: e.size}
	delete(c.idx, e.k)
	c.bytes -= e.size
	c.a.release(i)
	c.stats.Evictions++
	return ev
}

// drop removes a known index outside the eviction path (Del)
func (c *core[K, V]) drop(i uint32) {
	e := c.a.at(i)
	delete(c.idx, e.k)
	c.bytes -= e.size
	c.a.release(i)
}

func (c *core[K, V]) reset() {
	c.a.reset()
	for k := range c.idx {
		delete(c.idx, k)
	}
	c.bytes = 0
}

func (c *core[K, V]) len() int     { return len(c.idx) }
func (c *core[K, V]) size() uint64 { return c.bytes }
func (c *core[K, V]) capac() int   { return c.cap }
func (c *core[K, V]) snap() Stats  { return c.stats }
