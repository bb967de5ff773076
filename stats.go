package polycache

// Stats is a snapshot of one engine's counters. Fields are mutated under
// the engine's exclusive access; Stats() copies them out.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

func (s *Stats) add(o Stats) {
	s.Hits += o.Hits
	s.Misses += o.Misses
	s.Evictions += o.Evictions
}
