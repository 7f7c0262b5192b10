// Package interfaces 定义 svcaddr 的公共接口
//
// 接口文件与实现目录一一对应：
//   - identitycache.go - 身份缓存（internal/core/addrcache）
//   - recipient.go     - 联系人记录存储（internal/core/recipient）
//   - storage.go       - 存储引擎（internal/core/storage）
//   - eventbus.go      - 事件总线（internal/core/eventbus）
//
// 本包只依赖 pkg/types，不依赖任何 internal 包。
package interfaces
