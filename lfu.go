package polycache

// LFU is the frequency engine: nodes live in buckets keyed by their access
// count, the victim is the oldest node of the least-used bucket. Frequencies
// only move up, so a promotion is always to the adjacent bucket.
type LFU[K comparable, V any] struct {
	core[K, V]
	buckets bucketMap[K, V]
}

// NewLFU creates an LFU engine holding up to capacity entries.
func NewLFU[K comparable, V any](capacity int, opts ...Option) (*LFU[K, V], error) {
	c, err := newCore[K, V](capacity, buildConfig(opts))
	if err != nil {
		return nil, err
	}
	l := &LFU[K, V]{core: c}
	l.buckets = newBucketMap(&l.a)
	return l, nil
}

// Put inserts or replaces k with size 1.
func (l *LFU[K, V]) Put(k K, v V) ([]Evicted[K, V], error) {
	return l.PutSized(k, v, 1)
}

// PutSized inserts or replaces k. New keys start in the frequency-1 bucket;
// a replaced key keeps its frequency and bucket position.
func (l *LFU[K, V]) PutSized(k K, v V, size uint64) ([]Evicted[K, V], error) {
	if err := l.checkSize(size); err != nil {
		return nil, err
	}
	if i, ok := l.idx[k]; ok {
		e := l.a.at(i)
		l.bytes = l.bytes - e.size + size
		e.v, e.size = v, size
		return l.enforce(l.evictOne), nil
	}
	ev := l.makeRoom(size, l.evictOne)
	i := l.a.alloc()
	e := l.a.at(i)
	e.k, e.v, e.size, e.freq = k, v, size, 1
	l.idx[k] = i
	l.bytes += size
	l.buckets.add(i, 1)
	return ev, nil
}

// Get returns the value and bumps the entry into the next frequency bucket.
func (l *LFU[K, V]) Get(k K) (V, bool) {
	i, ok := l.idx[k]
	if !ok {
		l.stats.Misses++
		var zero V
		return zero, false
	}
	l.bump(i)
	l.stats.Hits++
	return l.a.at(i).v, true
}

// Update mutates the value in place and bumps the frequency.
func (l *LFU[K, V]) Update(k K, f func(v *V)) bool {
	i, ok := l.idx[k]
	if !ok {
		l.stats.Misses++
		return false
	}
	f(&l.a.at(i).v)
	l.bump(i)
	l.stats.Hits++
	return true
}

// Peek reads without touching the frequency.
func (l *LFU[K, V]) Peek(k K) (V, bool) {
	if i, ok := l.idx[k]; ok {
		return l.a.at(i).v, true
	}
	var zero V
	return zero, false
}

// Del removes k and returns its value.
func (l *LFU[K, V]) Del(k K) (V, bool) {
	if i, ok := l.idx[k]; ok {
		e := l.a.at(i)
		v := e.v
		l.buckets.remove(i, e.prio)
		l.drop(i)
		return v, true
	}
	var zero V
	return zero, false
}

// Contains reports presence without touching the frequency.
func (l *LFU[K, V]) Contains(k K) bool {
	_, ok := l.idx[k]
	return ok
}

func (l *LFU[K, V]) Len() int      { return l.len() }
func (l *LFU[K, V]) Empty() bool   { return l.len() == 0 }
func (l *LFU[K, V]) Cap() int      { return l.capac() }
func (l *LFU[K, V]) Bytes() uint64 { return l.size() }
func (l *LFU[K, V]) Stats() Stats  { return l.snap() }

// Clear drops every entry and bucket; counters keep accumulating.
func (l *LFU[K, V]) Clear() {
	l.buckets.clear()
	l.reset()
}

func (l *LFU[K, V]) bump(i uint32) {
	e := l.a.at(i)
	old := e.prio
	e.freq++
	l.buckets.promote(i, old, float64(e.freq))
}

func (l *LFU[K, V]) evictOne() uint32 { return l.buckets.evictMin() }
