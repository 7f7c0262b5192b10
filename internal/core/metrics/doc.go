// Package metrics 把身份缓存统计导出为 Prometheus 指标
//
// CacheCollector 在每次采集时读取一次 StatsSource 快照：
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(metrics.NewCacheCollector(resolver, "svcaddr"))
//
// 导出的指标（前缀 <namespace>_cache_）：
//   - durable_ids / aliases / pairs / watched_ids：当前规模
//   - tokens_minted_total、resolves_total{trust}、reassignments_total、
//     broadcasts_total、caller_errors_total、observer_refreshes_total：累计计数
//   - warmed_records / warmed_timestamp_seconds：最近一次预热
//
// Fx 模块始终提供独立注册表，metrics.enable 开启时才注册采集器。
// 不提供 HTTP 端点，WriteText 可用于命令行输出。
package metrics
