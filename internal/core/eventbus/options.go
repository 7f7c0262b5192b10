package eventbus

import pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"

// BufSize 等同于 pkg/interfaces.BufSize
func BufSize(size int) pkgif.SubscriptionOpt {
	return pkgif.BufSize(size)
}

// Name 等同于 pkg/interfaces.Name
func Name(name string) pkgif.SubscriptionOpt {
	return pkgif.Name(name)
}

// Stateful 等同于 pkg/interfaces.Stateful
func Stateful() pkgif.EmitterOpt {
	return pkgif.Stateful()
}
