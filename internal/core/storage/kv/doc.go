// Package kv 提供带前缀隔离的 KV 存储抽象层
//
// # 键空间设计
//
// svcaddr 使用以下前缀约定：
//   - c/r/ - 联系人记录（recipient）
//
// # 使用示例
//
//	contacts := kv.New(eng, []byte("c/")).SubStore([]byte("r/"))
//	contacts.PutJSON(id[:], rec)   // 实际键: c/r/<16 字节 UUID>
package kv
