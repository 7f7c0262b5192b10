// Package badger 提供基于 BadgerDB 的存储引擎实现
//
// 联系人记录通过 kv.Store 写入本引擎。引擎支持磁盘与纯内存两种模式：
//
//	db, err := badger.New(engine.DefaultConfig("/data/svcaddr.db"))
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	mem, _ := badger.New(engine.InMemoryConfig())
package badger
