// Package storage 提供联系人记录的持久化存储
//
// 分层：
//   - engine        - 引擎接口、配置与错误
//   - engine/badger - BadgerDB 实现（磁盘或内存模式）
//   - kv            - 前缀隔离的键空间与 JSON 辅助
//
// Module 通过 fx 提供 engine.InternalEngine，启动时开启 value log GC，
// 停止时关闭数据库。
package storage
