package polycache

import "github.com/prometheus/client_golang/prometheus"

// StatsSource is what the collector scrapes: any engine or Sharded facade.
type StatsSource interface {
	Stats() Stats
	Len() int
	Bytes() uint64
}

// Collector adapts a cache to a prometheus.Collector. It is pull-only: the
// cache never touches prometheus on its own paths, the collector reads the
// counters at scrape time.
type Collector struct {
	src       StatsSource
	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	entries   *prometheus.Desc
	bytes     *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector builds a collector for src, labelling every series with the
// given cache name.
func NewCollector(src StatsSource, name string) *Collector {
	l := prometheus.Labels{"cache": name}
	return &Collector{
		src:       src,
		hits:      prometheus.NewDesc("polycache_hits_total", "Lookups served from the cache.", nil, l),
		misses:    prometheus.NewDesc("polycache_misses_total", "Lookups that found nothing.", nil, l),
		evictions: prometheus.NewDesc("polycache_evictions_total", "Entries displaced by inserts.", nil, l),
		entries:   prometheus.NewDesc("polycache_entries", "Entries currently resident.", nil, l),
		bytes:     prometheus.NewDesc("polycache_bytes", "Bytes currently resident.", nil, l),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.entries
	ch <- c.bytes
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(st.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(st.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(st.Evictions))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.src.Len()))
	ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.GaugeValue, float64(c.src.Bytes()))
}
