package polycache

import "github.com/pkg/errors"

// Cache is the surface every engine exposes. Engines are single-threaded:
// they assume exclusive access for the duration of each call and never
// block. Wrap one in Sharded for concurrent use.
//
// Put and PutSized return the entries displaced to make room, in eviction
// order; the only error paths are a zero size, and a value whose size alone
// exceeds the byte budget (ErrValueTooLarge, cache untouched). A miss on
// Get/Peek/Del is (zero, false), never an error.
type Cache[K comparable, V any] interface {
	Put(k K, v V) ([]Evicted[K, V], error)
	PutSized(k K, v V, size uint64) ([]Evicted[K, V], error)
	Get(k K) (V, bool)
	// Update mutates the value in place and counts as a hit.
	Update(k K, f func(v *V)) bool
	// Peek reads without touching recency, frequency or segment state.
	Peek(k K) (V, bool)
	Del(k K) (V, bool)
	Contains(k K) bool
	Len() int
	Empty() bool
	Cap() int
	Bytes() uint64
	Clear()
	Stats() Stats
}

// Policy selects an eviction engine for the uniform constructors.
type Policy uint8

const (
	// PolicyLRU evicts the least recently used entry.
	PolicyLRU Policy = iota
	// PolicySLRU splits the space into probationary and protected segments
	// for scan resistance.
	PolicySLRU
	// PolicyLFU evicts the least frequently used entry.
	PolicyLFU
	// PolicyLFUDA is LFU with dynamic aging, so old popularity decays.
	PolicyLFUDA
	// PolicyGDSF weighs frequency against entry size, preferring to keep
	// many small hot entries over few large ones.
	PolicyGDSF
)

func (p Policy) String() string {
	switch p {
	case PolicyLRU:
		return "lru"
	case PolicySLRU:
		return "slru"
	case PolicyLFU:
		return "lfu"
	case PolicyLFUDA:
		return "lfuda"
	case PolicyGDSF:
		return "gdsf"
	}
	return "unknown"
}

// New builds an engine of the given policy behind the uniform Cache
// interface. SLRU reserves half the capacity for the protected segment;
// use NewSLRU directly for a different split.
func New[K comparable, V any](p Policy, capacity int, opts ...Option) (Cache[K, V], error) {
	switch p {
	case PolicyLRU:
		return NewLRU[K, V](capacity, opts...)
	case PolicySLRU:
		prot := capacity / 2
		if prot == 0 {
			prot = 1
		}
		return NewSLRU[K, V](capacity, prot, opts...)
	case PolicyLFU:
		return NewLFU[K, V](capacity, opts...)
	case PolicyLFUDA:
		return NewLFUDA[K, V](capacity, opts...)
	case PolicyGDSF:
		return NewGDSF[K, V](capacity, opts...)
	}
	return nil, errors.Wrapf(ErrInvalidConfig, "unknown policy %d", p)
}
