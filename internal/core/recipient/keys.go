package recipient

import "github.com/dep2p/go-svcaddr/pkg/types"

// 键空间（相对 Store 前缀 "c/"）：
//
//	r/<16 字节 UUID>  → Recipient JSON
//	a/<别名>          → 16 字节 UUID
var (
	rootPrefix   = []byte("c/")
	recordPrefix = []byte("r/")
	aliasPrefix  = []byte("a/")
)

func recordKey(id types.DurableID) []byte {
	k := make([]byte, 0, len(recordPrefix)+len(id))
	k = append(k, recordPrefix...)
	return append(k, id[:]...)
}

func aliasKey(alias types.Alias) []byte {
	k := make([]byte, 0, len(aliasPrefix)+len(alias))
	k = append(k, aliasPrefix...)
	return append(k, alias...)
}

func idFromBytes(b []byte) (types.DurableID, bool) {
	var id types.DurableID
	if len(b) != len(id) {
		return id, false
	}
	copy(id[:], b)
	return id, true
}
