package polycache

// LFUDA is LFU with dynamic aging. A global integer age rises to the
// priority of every victim, and fresh or re-touched entries are keyed at
// frequency plus that age, so entries that were popular long ago stop
// outranking the current working set.
type LFUDA[K comparable, V any] struct {
	core[K, V]
	buckets bucketMap[K, V]
	age     uint64
}

// NewLFUDA creates an LFUDA engine. WithInitialAge seeds the aging counter.
func NewLFUDA[K comparable, V any](capacity int, opts ...Option) (*LFUDA[K, V], error) {
	cfg := buildConfig(opts)
	c, err := newCore[K, V](capacity, cfg)
	if err != nil {
		return nil, err
	}
	l := &LFUDA[K, V]{core: c, age: uint64(cfg.initialAge)}
	l.buckets = newBucketMap(&l.a)
	return l, nil
}

// Put inserts or replaces k with size 1.
func (l *LFUDA[K, V]) Put(k K, v V) ([]Evicted[K, V], error) {
	return l.PutSized(k, v, 1)
}

// PutSized inserts or replaces k. New keys are keyed at 1 + age; a replaced
// key keeps its frequency and priority.
func (l *LFUDA[K, V]) PutSized(k K, v V, size uint64) ([]Evicted[K, V], error) {
	if err := l.checkSize(size); err != nil {
		return nil, err
	}
	if i, ok := l.idx[k]; ok {
		e := l.a.at(i)
		l.bytes = l.bytes - e.size + size
		e.v, e.size = v, size
		return l.enforce(l.evictOne), nil
	}
	// key the newcomer off the age as of entry, then clear room: the
	// evictions this insert causes must not inflate its own priority
	prio := float64(1 + l.age)
	ev := l.makeRoom(size, l.evictOne)
	i := l.a.alloc()
	e := l.a.at(i)
	e.k, e.v, e.size, e.freq = k, v, size, 1
	l.idx[k] = i
	l.bytes += size
	l.buckets.add(i, prio)
	return ev, nil
}

// Get returns the value and re-keys the entry at its new frequency plus the
// current age.
func (l *LFUDA[K, V]) Get(k K) (V, bool) {
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

// Update mutates the value in place and re-keys like Get.
func (l *LFUDA[K, V]) Update(k K, f func(v *V)) bool {
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

// Peek reads without touching frequency or priority.
func (l *LFUDA[K, V]) Peek(k K) (V, bool) {
	if i, ok := l.idx[k]; ok {
		return l.a.at(i).v, true
	}
	var zero V
	return zero, false
}

// Del removes k and returns its value. The age is untouched.
func (l *LFUDA[K, V]) Del(k K) (V, bool) {
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

// Contains reports presence without touching metadata.
func (l *LFUDA[K, V]) Contains(k K) bool {
	_, ok := l.idx[k]
	return ok
}

func (l *LFUDA[K, V]) Len() int      { return l.len() }
func (l *LFUDA[K, V]) Empty() bool   { return l.len() == 0 }
func (l *LFUDA[K, V]) Cap() int      { return l.capac() }
func (l *LFUDA[K, V]) Bytes() uint64 { return l.size() }
func (l *LFUDA[K, V]) Stats() Stats  { return l.snap() }

// Age returns the current aging counter.
func (l *LFUDA[K, V]) Age() uint64 { return l.age }

// Clear drops every entry and bucket. The age persists, staying monotone
// across the life of the engine.
func (l *LFUDA[K, V]) Clear() {
	l.buckets.clear()
	l.reset()
}

func (l *LFUDA[K, V]) bump(i uint32) {
	e := l.a.at(i)
	old := e.prio
	e.freq++
	l.buckets.promote(i, old, float64(e.freq+l.age))
}

// evictOne takes the min-priority victim and raises the age to its
// priority, never lowering it.
func (l *LFUDA[K, V]) evictOne() uint32 {
	i := l.buckets.evictMin()
	if p := uint64(l.a.at(i).prio); p > l.age {
		l.age = p
	}
	return i
}
