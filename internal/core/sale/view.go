package sale

import "crypto/sha256"

// Key is the 32-byte storage key of a ledger entry.
type Key = [32]byte

// StateView provides read/write access to the sale ledger state. The
// persistent implementation lives in internal/storage/salestore; the
// engine additionally wraps views in a change-tracking StateTable so
// that a failed operation commits nothing.
type StateView interface {
	// Read returns the entry bytes, or nil if the entry is absent.
	Read(k Key) ([]byte, error)

	// Exists reports whether an entry is present.
	Exists(k Key) (bool, error)

	// Write inserts or replaces an entry.
	Write(k Key, data []byte) error
}

// Entry key namespaces. Keys are namespace-tagged hashes so that sale
// records, balance accumulators and the scalar platform entries can
// never collide.
const (
	spaceSale     byte = 0x01
	spaceCreator  byte = 0x02
	spacePlatform byte = 0x03
	spaceFeeRate  byte = 0x04
)

func hashKey(space byte, payload []byte) Key {
	h := sha256.New()
	h.Write([]byte{space})
	h.Write(payload)
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// SaleKey returns the storage key of a sale record.
func SaleKey(id SaleID) Key {
	return hashKey(spaceSale, id[:])
}

// CreatorBalanceKey returns the storage key of a creator's accumulated
// proceeds.
func CreatorBalanceKey(creator AccountID) Key {
	return hashKey(spaceCreator, creator[:])
}

// PlatformBalanceKey returns the storage key of the platform fee pool.
func PlatformBalanceKey() Key {
	return hashKey(spacePlatform, nil)
}

// FeeRateKey returns the storage key of the platform fee rate.
func FeeRateKey() Key {
	return hashKey(spaceFeeRate, nil)
}
