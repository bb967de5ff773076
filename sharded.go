package polycache

import (
	"sync"

	"github.com/pkg/errors"
)

// Sharded fans one cache out over independent shards to reduce lock racing.
// Each shard is its own engine behind its own mutex; a key's shard is fixed
// by its hash, so per-key operations lock exactly one shard and keys on
// distinct shards proceed in parallel. Every policy mutates on read, which
// is why the lock is a plain mutex rather than a reader/writer one.
//
// Len, Bytes, Clear, Stats walk the shards one at a time without a global
// lock; their result is a per-shard snapshot, not a global atomic one.
type Sharded[K Hashable, V any] struct {
	locks []sync.Mutex
	insts []Cache[K, V]
	mask  uint64 // n-1 fast path when the shard count is a power of two
	n     uint64
	hash  func(K) uint64
}

// NewSharded creates shards engines of the given policy behind one facade.
// The entry capacity and any byte budget are split evenly across shards by
// integer division, with the remainder absorbed by shard 0 so the combined
// limits stay exact. Both must be at least the shard count, or some shard
// would get a zero limit. A power-of-two shard count selects by mask;
// other counts fall back to modulo.
func NewSharded[K Hashable, V any](p Policy, shards, capacity int, opts ...Option) (*Sharded[K, V], error) {
	if shards <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "shard count %d", shards)
	}
	if capacity < shards {
		return nil, errors.Wrapf(ErrInvalidConfig, "capacity %d below shard count %d", capacity, shards)
	}
	cfg := buildConfig(opts)
	if cfg.maxSize != Unbounded && cfg.maxSize < uint64(shards) {
		return nil, errors.Wrapf(ErrInvalidConfig, "max size %d below shard count %d", cfg.maxSize, shards)
	}

	s := &Sharded[K, V]{
		locks: make([]sync.Mutex, shards),
		insts: make([]Cache[K, V], shards),
		n:     uint64(shards),
		hash:  defaultHash[K],
	}
	if isPowOf2(shards) {
		s.mask = uint64(shards - 1)
	}

	per, rem := capacity/shards, capacity%shards
	perSize, remSize := Unbounded, uint64(0)
	if cfg.maxSize != Unbounded {
		perSize, remSize = cfg.maxSize/uint64(shards), cfg.maxSize%uint64(shards)
	}
	for i := range s.insts {
		c, sz := per, perSize
		if i == 0 {
			c += rem
			if sz != Unbounded {
				sz += remSize
			}
		}
		eng, err := New[K, V](p, c, WithMaxSize(sz), WithInitialAge(cfg.initialAge))
		if err != nil {
			return nil, err
		}
		s.insts[i] = eng
	}
	return s, nil
}

// Hasher swaps in a user hash before the cache is shared. Returns the
// receiver for chaining.
func (s *Sharded[K, V]) Hasher(h func(K) uint64) *Sharded[K, V] {
	s.hash = h
	return s
}

func (s *Sharded[K, V]) shard(k K) uint64 {
	h := s.hash(k)
	if s.mask != 0 || s.n == 1 {
		return h & s.mask
	}
	return h % s.n
}

// Put inserts or replaces k with size 1 in its shard.
func (s *Sharded[K, V]) Put(k K, v V) ([]Evicted[K, V], error) {
	return s.PutSized(k, v, 1)
}

// PutSized inserts or replaces k in its shard, returning that shard's
// evictions.
func (s *Sharded[K, V]) PutSized(k K, v V, size uint64) ([]Evicted[K, V], error) {
	i := s.shard(k)
	s.locks[i].Lock()
	ev, err := s.insts[i].PutSized(k, v, size)
	s.locks[i].Unlock()
	return ev, err
}

// Get returns the value, updating the shard engine's metadata.
func (s *Sharded[K, V]) Get(k K) (V, bool) {
	i := s.shard(k)
	s.locks[i].Lock()
	v, ok := s.insts[i].Get(k)
	s.locks[i].Unlock()
	return v, ok
}

// GetWith runs f on the resident value under the shard lock, avoiding a
// copy. f must not touch the cache again: re-entering the same shard
// deadlocks. Reports whether the key was present.
func (s *Sharded[K, V]) GetWith(k K, f func(v *V)) bool {
	i := s.shard(k)
	s.locks[i].Lock()
	ok := s.insts[i].Update(k, f)
	s.locks[i].Unlock()
	return ok
}

// Update mutates the value in place under the shard lock. The same
// re-entrance contract as GetWith applies to f.
func (s *Sharded[K, V]) Update(k K, f func(v *V)) bool {
	return s.GetWith(k, f)
}

// Peek reads without updating any metadata.
func (s *Sharded[K, V]) Peek(k K) (V, bool) {
	i := s.shard(k)
	s.locks[i].Lock()
	v, ok := s.insts[i].Peek(k)
	s.locks[i].Unlock()
	return v, ok
}

// Del removes k from its shard.
func (s *Sharded[K, V]) Del(k K) (V, bool) {
	i := s.shard(k)
	s.locks[i].Lock()
	v, ok := s.insts[i].Del(k)
	s.locks[i].Unlock()
	return v, ok
}

// Contains reports presence without updating any metadata.
func (s *Sharded[K, V]) Contains(k K) bool {
	i := s.shard(k)
	s.locks[i].Lock()
	ok := s.insts[i].Contains(k)
	s.locks[i].Unlock()
	return ok
}

// Len sums the shard lengths, one shard at a time.
func (s *Sharded[K, V]) Len() int {
	n := 0
	for i := range s.insts {
		s.locks[i].Lock()
		n += s.insts[i].Len()
		s.locks[i].Unlock()
	}
	return n
}

// Empty reports whether every shard is empty.
func (s *Sharded[K, V]) Empty() bool { return s.Len() == 0 }

// Cap returns the combined entry capacity.
func (s *Sharded[K, V]) Cap() int {
	n := 0
	for i := range s.insts {
		n += s.insts[i].Cap()
	}
	return n
}

// Bytes sums the shard byte totals, one shard at a time.
func (s *Sharded[K, V]) Bytes() uint64 {
	var n uint64
	for i := range s.insts {
		s.locks[i].Lock()
		n += s.insts[i].Bytes()
		s.locks[i].Unlock()
	}
	return n
}

// Clear empties the shards one at a time.
func (s *Sharded[K, V]) Clear() {
	for i := range s.insts {
		s.locks[i].Lock()
		s.insts[i].Clear()
		s.locks[i].Unlock()
	}
}

// Stats sums the shard counters, one shard at a time.
func (s *Sharded[K, V]) Stats() Stats {
	var out Stats
	for i := range s.insts {
		s.locks[i].Lock()
		st := s.insts[i].Stats()
		s.locks[i].Unlock()
		out.add(st)
	}
	return out
}
