package polycache

import "github.com/cespare/xxhash/v2"

// Hashable is the constraint for keys the sharded wrapper can place.
type Hashable interface {
	string | int64 | int32 | int | uint64 | uint32 | uint
}

// defaultHash computes the shard hash for a key.
// For string: xxhash.
// For integer types: directly uses the key value.
func defaultHash[K Hashable](key K) uint64 {
	switch k := any(key).(type) {
	case string:
		return xxhash.Sum64String(k)
	case int64:
		return uint64(k)
	case int32:
		return uint64(k)
	case int:
		return uint64(k)
	case uint64:
		return k
	case uint32:
		return uint64(k)
	case uint:
		return uint64(k)
	default:
		// fallback: should not happen with Hashable constraint
		return 0
	}
}

func isPowOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
