package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// GetIntOrZero returns an integer stored under the given key. A missing key
// reads as zero, which makes deleted and never-written entries
// indistinguishable.
func GetIntOrZero(ctx storage.Context, key []byte) int {
	val := storage.Get(ctx, key)
	if val != nil {
		return val.(int)
	}

	return 0
}

// PutIntOrDelete stores a positive integer under the given key and removes
// the key entirely when the value reaches zero, keeping the storage free of
// zero entries.
func PutIntOrDelete(ctx storage.Context, key []byte, amount int) {
	if amount == 0 {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, amount)
	}
}
