// Package polycache is an in-memory key/value cache with five
// interchangeable eviction policies behind one interface: LRU, SLRU, LFU,
// LFUDA and GDSF. Every engine enforces two limits at once, an entry count
// and an optional total byte size, and returns the entries it displaces so
// callers can tear down resources or spill them to a second tier.
//
// Engines are plain single-threaded data structures. For concurrent use,
// Sharded partitions the key space over independent engine instances, one
// mutex per shard:
//
//	c, _ := polycache.NewSharded[string, []byte](polycache.PolicyGDSF, 16, 4096,
//		polycache.WithMaxSize(64<<20))
//	ev, _ := c.PutSized("k", payload, uint64(len(payload)))
//	for _, e := range ev {
//		spill(e.Key, e.Value)
//	}
package polycache
