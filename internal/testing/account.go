package testing

import (
	"crypto/sha256"

	"github.com/curvemint/curved/internal/core/sale"
)

// NewAccount derives a deterministic test account from a name. The same
// name always yields the same account.
func NewAccount(name string) sale.AccountID {
	sum := sha256.Sum256([]byte("curved-test-account:" + name))
	var a sale.AccountID
	copy(a[:], sum[:])
	return a
}

// OwnerAccount is the platform owner of every test environment.
func OwnerAccount() sale.AccountID {
	return NewAccount("platform-owner")
}

// PoolAccount is the supply-holding account of every test environment.
func PoolAccount() sale.AccountID {
	return NewAccount("platform-pool")
}
