// Package sale implements the bonding-curve sale engine: the sale
// registry, the per-creator and platform balance ledger, and the
// purchase state machine that ties them to the pricing math and the
// external token and payment collaborators.
package sale

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// AccountID identifies an account (buyer, creator, platform owner or
// pool holder).
type AccountID [20]byte

// SaleID identifies a listed sale. It doubles as the identifier of the
// fungible asset being sold; the asset issuer generates it and
// uniqueness is guaranteed by construction.
type SaleID [32]byte

// IsZero reports whether the account is the zero account.
func (a AccountID) IsZero() bool {
	return a == AccountID{}
}

// String returns the 0x-prefixed hex form of the account.
func (a AccountID) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// String returns the 0x-prefixed hex form of the sale identifier.
func (s SaleID) String() string {
	return "0x" + hex.EncodeToString(s[:])
}

// ParseAccountID parses a 0x-prefixed (or bare) 40-digit hex account.
func ParseAccountID(s string) (AccountID, error) {
	var a AccountID
	raw, err := parseHex(s, len(a))
	if err != nil {
		return a, fmt.Errorf("invalid account id %q: %w", s, err)
	}
	copy(a[:], raw)
	return a, nil
}

// ParseSaleID parses a 0x-prefixed (or bare) 64-digit hex sale id.
func ParseSaleID(s string) (SaleID, error) {
	var id SaleID
	raw, err := parseHex(s, len(id))
	if err != nil {
		return id, fmt.Errorf("invalid sale id %q: %w", s, err)
	}
	copy(id[:], raw)
	return id, nil
}

func parseHex(s string, wantLen int) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(raw) != wantLen {
		return nil, fmt.Errorf("expected %d bytes, got %d", wantLen, len(raw))
	}
	return raw, nil
}

// SaleState is the persistent per-sale record. Once listed, both
// CurrentPrice and IncreaseRate are positive and CurrentPrice only ever
// increases. A zero-valued SaleState (both curve fields nil or zero) is
// the sentinel for "not listed / not authorized".
type SaleState struct {
	// Receiver is the account credited with post-fee proceeds.
	Receiver AccountID

	// CurrentPrice is the marginal price of the next base unit sold.
	CurrentPrice *big.Int

	// IncreaseRate is the price increase per whole token-unit sold.
	IncreaseRate *big.Int
}

// IsZero reports whether the state is the not-authorized sentinel.
func (s SaleState) IsZero() bool {
	return (s.CurrentPrice == nil || s.CurrentPrice.Sign() == 0) &&
		(s.IncreaseRate == nil || s.IncreaseRate.Sign() == 0)
}

// PendingPurchase is the ephemeral resolution of a single purchase. It
// exists only for the duration of one operation and is never persisted.
type PendingPurchase struct {
	Payment          *big.Int
	TokensResolved   *big.Int
	Expense          *big.Int
	Refund           *big.Int
	EffectivePayment *big.Int
}

// MaxFeeBps is the upper bound on the platform fee rate (100%).
const MaxFeeBps = 10000
