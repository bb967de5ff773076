package polycache

import "github.com/google/btree"

// bucket is one priority class: an intrusive FIFO of the nodes currently
// holding exactly this priority. Insertion goes to the back, the eviction
// victim is the front, so ties break by arrival order.
type bucket[K comparable, V any] struct {
	prio float64
	ls   olist[K, V]
}

// bucketMap orders buckets by priority. The btree gives O(log B) ordered
// maintenance over the B distinct priorities in use, the side map gives O(1)
// exact-key hits on the hot promote path, and min caches the current
// smallest bucket so victim selection is O(1). Empty buckets are deleted the
// moment their list drains; letting them linger degrades min scans, the
// classic naive-LFU trap.
type bucketMap[K comparable, V any] struct {
	a    *arena[K, V]
	tree *btree.BTreeG[*bucket[K, V]]
	m    map[float64]*bucket[K, V]
	min  *bucket[K, V]
}

func newBucketMap[K comparable, V any](a *arena[K, V]) bucketMap[K, V] {
	return bucketMap[K, V]{
		a:    a,
		tree: btree.NewG(8, func(x, y *bucket[K, V]) bool { return x.prio < y.prio }),
		m:    make(map[float64]*bucket[K, V]),
	}
}

// add places i at the back of bucket p, creating the bucket if absent
func (b *bucketMap[K, V]) add(i uint32, p float64) {
	bk, ok := b.m[p]
	if !ok {
		bk = &bucket[K, V]{prio: p, ls: olist[K, V]{a: b.a}}
		b.m[p] = bk
		b.tree.ReplaceOrInsert(bk)
		if b.min == nil || p < b.min.prio {
			b.min = bk
		}
	}
	bk.ls.pushBack(i)
	b.a.at(i).prio = p
}

// remove unlinks i from bucket p and deletes the bucket if it drains
func (b *bucketMap[K, V]) remove(i uint32, p float64) {
	bk := b.m[p]
	bk.ls.unlink(i)
	if bk.ls.len() == 0 {
		b.drop(bk)
	}
}

// promote moves i from bucket oldP to the back of bucket newP
func (b *bucketMap[K, V]) promote(i uint32, oldP, newP float64) {
	if oldP == newP {
		bk := b.m[oldP]
		bk.ls.unlink(i)
		bk.ls.pushBack(i)
		return
	}
	b.remove(i, oldP)
	b.add(i, newP)
}

// evictMin unlinks and returns the front of the smallest bucket, 0 when empty
func (b *bucketMap[K, V]) evictMin() uint32 {
	if b.min == nil {
		return 0
	}
	bk := b.min
	i := bk.ls.popFront()
	if bk.ls.len() == 0 {
		b.drop(bk)
	}
	return i
}

func (b *bucketMap[K, V]) drop(bk *bucket[K, V]) {
	delete(b.m, bk.prio)
	b.tree.Delete(bk)
	if b.min == bk {
		b.min, _ = b.tree.Min()
	}
}

func (b *bucketMap[K, V]) clear() {
	b.tree.Clear(false)
	for p := range b.m {
		delete(b.m, p)
	}
	b.min = nil
}
