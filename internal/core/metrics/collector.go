package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-svcaddr/pkg/types"
)

const subsystem = "cache"

// CacheCollector 把身份缓存统计导出为 Prometheus 指标
//
// 每次采集时读取一次快照，不保存任何状态。
type CacheCollector struct {
	src StatsSource

	durableIDs      *prometheus.Desc
	aliases         *prometheus.Desc
	pairs           *prometheus.Desc
	watchedIDs      *prometheus.Desc
	tokensMinted    *prometheus.Desc
	resolves        *prometheus.Desc
	reassignments   *prometheus.Desc
	broadcasts      *prometheus.Desc
	callerErrors    *prometheus.Desc
	observerRefresh *prometheus.Desc
	warmedRecords   *prometheus.Desc
	warmedAt        *prometheus.Desc
}

var _ prometheus.Collector = (*CacheCollector)(nil)

// NewCacheCollector 创建采集器
func NewCacheCollector(src StatsSource, namespace string) *CacheCollector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, name), help, labels, nil)
	}

	return &CacheCollector{
		src:             src,
		durableIDs:      desc("durable_ids", "Durable ids with a cached hash token."),
		aliases:         desc("aliases", "Aliases with a cached hash token."),
		pairs:           desc("pairs", "Aliases paired with a durable id."),
		watchedIDs:      desc("watched_ids", "Durable ids with registered address handles."),
		tokensMinted:    desc("tokens_minted_total", "Hash tokens minted."),
		resolves:        desc("resolves_total", "Resolve calls by trust level.", "trust"),
		reassignments:   desc("reassignments_total", "Authoritative alias reassignments."),
		broadcasts:      desc("broadcasts_total", "Mapping change broadcasts."),
		callerErrors:    desc("caller_errors_total", "Calls rejected or ignored as caller misuse."),
		observerRefresh: desc("observer_refreshes_total", "Address handle alias refreshes."),
		warmedRecords:   desc("warmed_records", "Records loaded by the last warm."),
		warmedAt:        desc("warmed_timestamp_seconds", "Unix time of the last warm."),
	}
}

// Describe 实现 prometheus.Collector
func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.durableIDs
	ch <- c.aliases
	ch <- c.pairs
	ch <- c.watchedIDs
	ch <- c.tokensMinted
	ch <- c.resolves
	ch <- c.reassignments
	ch <- c.broadcasts
	ch <- c.callerErrors
	ch <- c.observerRefresh
	ch <- c.warmedRecords
	ch <- c.warmedAt
}

// Collect 实现 prometheus.Collector
func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}
	counter := func(d *prometheus.Desc, v uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}

	gauge(c.durableIDs, float64(s.DurableIDs))
	gauge(c.aliases, float64(s.Aliases))
	gauge(c.pairs, float64(s.Pairs))
	gauge(c.watchedIDs, float64(s.WatchedIDs))
	counter(c.tokensMinted, s.TokensMinted)
	counter(c.resolves, s.ResolvesLow, types.TrustLow.String())
	counter(c.resolves, s.ResolvesHigh, types.TrustHigh.String())
	counter(c.reassignments, s.Reassignments)
	counter(c.broadcasts, s.Broadcasts)
	counter(c.callerErrors, s.CallerErrors)
	counter(c.observerRefresh, s.ObserverRefresh)
	gauge(c.warmedRecords, float64(s.WarmedRecords))

	if !s.WarmedAt.IsZero() {
		gauge(c.warmedAt, float64(s.WarmedAt.Unix()))
	}
}
