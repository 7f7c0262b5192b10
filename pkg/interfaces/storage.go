// Package interfaces - Storage 存储引擎接口
//
// 联系人记录持久化所需的最小 KV 接口。默认实现为 BadgerDB，
// 调用方可以提供自定义后端。
package interfaces

// Engine 存储引擎基础接口
//
// 线程安全：实现必须保证所有方法的线程安全性。
//
// 示例:
//
//	eng, err := badger.New(engine.DefaultConfig("/data/svcaddr"))
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	if err := eng.Put([]byte("key"), []byte("value")); err != nil {
//	    return err
//	}
type Engine interface {
	// Get 获取指定键的值
	//
	// 返回值是副本，调用者可以安全修改。键不存在时返回 ErrNotFound。
	Get(key []byte) ([]byte, error)

	// Put 设置键值对，已存在则覆盖
	Put(key, value []byte) error

	// Delete 删除指定键（幂等）
	Delete(key []byte) error

	// Has 检查键是否存在
	Has(key []byte) (bool, error)

	// Close 关闭存储引擎，多次调用是安全的
	Close() error
}

// EngineStats 引擎统计信息
type EngineStats struct {
	// KeyCount 当前存储的键数量
	KeyCount int64 `json:"key_count"`

	// DiskSize 磁盘占用大小（字节）
	DiskSize int64 `json:"disk_size"`

	// CacheHits 读取命中次数
	CacheHits int64 `json:"cache_hits"`

	// CacheMisses 读取未命中次数
	CacheMisses int64 `json:"cache_misses"`
}

// HitRate 计算读取命中率（0.0 - 1.0），没有访问时返回 0
func (s *EngineStats) HitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}
