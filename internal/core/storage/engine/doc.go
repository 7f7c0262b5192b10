// Package engine 定义存储引擎的内部接口
//
// 本包扩展 pkg/interfaces 中的公共 Engine 接口，
// 提供迭代器、事务等联系人存储需要的能力。
//
// # 线程安全
//
// 所有接口实现必须保证线程安全。事务在提交前相互独立。
package engine
