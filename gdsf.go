package polycache

// GDSF (greedy dual size frequency) keys every entry at freq/size + age, so
// among equally hot entries the large ones go first, and the aging term
// keeps long-resident entries from squatting. All inputs are finite and
// positive, so the float keys are total-ordered with no NaN case; ties land
// in the same bucket and break by arrival order.
type GDSF[K comparable, V any] struct {
	core[K, V]
	buckets bucketMap[K, V]
	age     float64
}

// NewGDSF creates a GDSF engine. WithInitialAge seeds the aging term.
func NewGDSF[K comparable, V any](capacity int, opts ...Option) (*GDSF[K, V], error) {
	cfg := buildConfig(opts)
	c, err := newCore[K, V](capacity, cfg)
	if err != nil {
		return nil, err
	}
	g := &GDSF[K, V]{core: c, age: cfg.initialAge}
	g.buckets = newBucketMap(&g.a)
	return g, nil
}

// Put inserts or replaces k with size 1.
func (g *GDSF[K, V]) Put(k K, v V) ([]Evicted[K, V], error) {
	return g.PutSized(k, v, 1)
}

// PutSized inserts or replaces k. The priority depends on the size, so a
// replacement that changes the size is re-keyed under the current age while
// keeping its frequency.
func (g *GDSF[K, V]) PutSized(k K, v V, size uint64) ([]Evicted[K, V], error) {
	if err := g.checkSize(size); err != nil {
		return nil, err
	}
	if i, ok := g.idx[k]; ok {
		e := g.a.at(i)
		g.bytes = g.bytes - e.size + size
		e.v = v
		if e.size != size {
			old := e.prio
			e.size = size
			g.buckets.promote(i, old, g.prioOf(e))
		}
		return g.enforce(g.evictOne), nil
	}
	// key the newcomer off the age as of entry, then clear room: the
	// evictions this insert causes must not inflate its own priority
	prio := 1/float64(size) + g.age
	ev := g.makeRoom(size, g.evictOne)
	i := g.a.alloc()
	e := g.a.at(i)
	e.k, e.v, e.size, e.freq = k, v, size, 1
	g.idx[k] = i
	g.bytes += size
	g.buckets.add(i, prio)
	return ev, nil
}

// Get returns the value and re-keys the entry at its new frequency.
func (g *GDSF[K, V]) Get(k K) (V, bool) {
	i, ok := g.idx[k]
	if !ok {
		g.stats.Misses++
		var zero V
		return zero, false
	}
	g.bump(i)
	g.stats.Hits++
	return g.a.at(i).v, true
}

// Update mutates the value in place and re-keys like Get.
func (g *GDSF[K, V]) Update(k K, f func(v *V)) bool {
	i, ok := g.idx[k]
	if !ok {
		g.stats.Misses++
		return false
	}
	f(&g.a.at(i).v)
	g.bump(i)
	g.stats.Hits++
	return true
}

// Peek reads without touching frequency or priority.
func (g *GDSF[K, V]) Peek(k K) (V, bool) {
	if i, ok := g.idx[k]; ok {
		return g.a.at(i).v, true
	}
	var zero V
	return zero, false
}

// Del removes k and returns its value. The age is untouched.
func (g *GDSF[K, V]) Del(k K) (V, bool) {
	if i, ok := g.idx[k]; ok {
		e := g.a.at(i)
		v := e.v
		g.buckets.remove(i, e.prio)
		g.drop(i)
		return v, true
	}
	var zero V
	return zero, false
}

// Contains reports presence without touching metadata.
func (g *GDSF[K, V]) Contains(k K) bool {
	_, ok := g.idx[k]
	return ok
}

func (g *GDSF[K, V]) Len() int      { return g.len() }
func (g *GDSF[K, V]) Empty() bool   { return g.len() == 0 }
func (g *GDSF[K, V]) Cap() int      { return g.capac() }
func (g *GDSF[K, V]) Bytes() uint64 { return g.size() }
func (g *GDSF[K, V]) Stats() Stats  { return g.snap() }

// Age returns the current aging term.
func (g *GDSF[K, V]) Age() float64 { return g.age }

// Clear drops every entry and bucket. The age persists, staying monotone
// across the life of the engine.
func (g *GDSF[K, V]) Clear() {
	g.buckets.clear()
	g.reset()
}

func (g *GDSF[K, V]) prioOf(e *node[K, V]) float64 {
	return float64(e.freq)/float64(e.size) + g.age
}

func (g *GDSF[K, V]) bump(i uint32) {
	e := g.a.at(i)
	old := e.prio
	e.freq++
	g.buckets.promote(i, old, g.prioOf(e))
}

// evictOne takes the min-priority victim and raises the age to its
// priority, never lowering it.
func (g *GDSF[K, V]) evictOne() uint32 {
	i := g.buckets.evictMin()
	if p := g.a.at(i).prio; p > g.age {
		g.age = p
	}
	return i
}
