// Package svcaddr 提供服务用户身份解析缓存与自更新地址句柄
//
// 一个服务用户由两个标识描述：持久的 DurableID（UUID）和可重新分配的别名
// （例如电话号码）。svcaddr 维护两者之间的双向映射，为每个用户签发稳定的
// 哈希令牌，并让已创建的 Address 句柄在别名被权威重新分配后自动更新。
//
// # 快速开始
//
//	book, err := svcaddr.New(ctx,
//	    svcaddr.WithConfigFile("svcaddr.yaml"),
//	    svcaddr.WithLocalIdentity(selfID, "+15550100"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer book.Close()
//
//	addr := book.Address(id, "+15550123", svcaddr.TrustHigh)
//
//	// 可信来源（例如服务端通知）确认号码易主
//	book.Reassign(otherID, "+15550123")
//
//	alias, ok := addr.Alias() // 句柄已不再报告 +15550123
//
// # 组成
//
//   - internal/core/addrcache: 身份缓存（映射、令牌、变更通知）
//   - internal/core/address:   地址句柄与兴趣注册表
//   - internal/core/recipient: 联系人记录存储（BadgerDB）
//   - internal/core/eventbus:  映射变更事件
//   - internal/core/metrics:   Prometheus 指标
//
// 各组件通过 Fx 装配，Book 是对外入口。
package svcaddr
