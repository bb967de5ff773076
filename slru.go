package polycache

import "github.com/pkg/errors"

const (
	segProbation uint8 = iota
	segProtected
)

// SLRU is a segmented LRU: new entries serve time in the probationary list
// and only a hit promotes them into the protected list, so one scan over
// cold keys cannot flush the hot set. The protected list never grows past
// its own capacity; its overflow is demoted back to the front of probation
// rather than evicted.
type SLRU[K comparable, V any] struct {
	core[K, V]
	prob    olist[K, V]
	prot    olist[K, V]
	protCap int
}

// NewSLRU creates an SLRU engine. protectedCapacity bounds the protected
// segment and must not exceed the total capacity.
func NewSLRU[K comparable, V any](capacity, protectedCapacity int, opts ...Option) (*SLRU[K, V], error) {
	if protectedCapacity <= 0 || protectedCapacity > capacity {
		return nil, errors.Wrapf(ErrInvalidConfig, "protected capacity %d of %d", protectedCapacity, capacity)
	}
	c, err := newCore[K, V](capacity, buildConfig(opts))
	if err != nil {
		return nil, err
	}
	s := &SLRU[K, V]{core: c, protCap: protectedCapacity}
	s.prob.a, s.prot.a = &s.a, &s.a
	return s, nil
}

// Put inserts or replaces k with size 1.
func (s *SLRU[K, V]) Put(k K, v V) ([]Evicted[K, V], error) {
	return s.PutSized(k, v, 1)
}

// PutSized inserts or replaces k. New keys enter the probationary segment;
// a replaced key keeps its segment and moves to that segment's front.
func (s *SLRU[K, V]) PutSized(k K, v V, size uint64) ([]Evicted[K, V], error) {
	if err := s.checkSize(size); err != nil {
		return nil, err
	}
	if i, ok := s.idx[k]; ok {
		e := s.a.at(i)
		s.bytes = s.bytes - e.size + size
		e.v, e.size = v, size
		s.segList(e.seg).moveToFront(i)
		return s.enforce(s.evictOne), nil
	}
	ev := s.makeRoom(size, s.evictOne)
	i := s.a.alloc()
	e := s.a.at(i)
	e.k, e.v, e.size, e.seg = k, v, size, segProbation
	s.idx[k] = i
	s.bytes += size
	s.prob.pushFront(i)
	return ev, nil
}

// Get returns the value, promoting probationary hits into the protected
// segment and refreshing protected hits in place.
func (s *SLRU[K, V]) Get(k K) (V, bool) {
	i, ok := s.idx[k]
	if !ok {
		s.stats.Misses++
		var zero V
		return zero, false
	}
	s.touch(i)
	s.stats.Hits++
	return s.a.at(i).v, true
}

// Update mutates the value in place with Get's promotion rule.
func (s *SLRU[K, V]) Update(k K, f func(v *V)) bool {
	i, ok := s.idx[k]
	if !ok {
		s.stats.Misses++
		return false
	}
	f(&s.a.at(i).v)
	s.touch(i)
	s.stats.Hits++
	return true
}

// Peek reads without promotion or recency movement.
func (s *SLRU[K, V]) Peek(k K) (V, bool) {
	if i, ok := s.idx[k]; ok {
		return s.a.at(i).v, true
	}
	var zero V
	return zero, false
}

// Del removes k from whichever segment holds it.
func (s *SLRU[K, V]) Del(k K) (V, bool) {
	if i, ok := s.idx[k]; ok {
		e := s.a.at(i)
		v := e.v
		s.segList(e.seg).unlink(i)
		s.drop(i)
		return v, true
	}
	var zero V
	return zero, false
}

// Contains reports presence without touching either segment.
func (s *SLRU[K, V]) Contains(k K) bool {
	_, ok := s.idx[k]
	return ok
}

func (s *SLRU[K, V]) Len() int      { return s.len() }
func (s *SLRU[K, V]) Empty() bool   { return s.len() == 0 }
func (s *SLRU[K, V]) Cap() int      { return s.capac() }
func (s *SLRU[K, V]) Bytes() uint64 { return s.size() }
func (s *SLRU[K, V]) Stats() Stats  { return s.snap() }

// Clear drops both segments; counters keep accumulating.
func (s *SLRU[K, V]) Clear() {
	s.prob.clear()
	s.prot.clear()
	s.reset()
}

// touch applies the hit protocol: probationary entries promote to the
// protected front, protected entries refresh. Promotion that overflows the
// protected segment demotes its back entry to the probationary front; the
// demoted entry survives, only its segment changes.
func (s *SLRU[K, V]) touch(i uint32) {
	e := s.a.at(i)
	if e.seg == segProtected {
		s.prot.moveToFront(i)
		return
	}
	s.prob.unlink(i)
	e.seg = segProtected
	s.prot.pushFront(i)
	if s.prot.len() > s.protCap {
		d := s.prot.popBack()
		s.a.at(d).seg = segProbation
		s.prob.pushFront(d)
	}
}

// evictOne drains the probationary back first, falling back to the
// protected back when probation is empty.
func (s *SLRU[K, V]) evictOne() uint32 {
	if i := s.prob.popBack(); i != 0 {
		return i
	}
	return s.prot.popBack()
}

func (s *SLRU[K, V]) segList(seg uint8) *olist[K, V] {
	if seg == segProtected {
		return &s.prot
	}
	return &s.prob
}
