// Package token provides the reference in-memory implementation of the
// fungible-asset collaborators the sale engine depends on: asset
// issuance with premint and max-supply enforcement, per-holder token
// balances, and a simple payment book for outbound value transfers.
// The engine itself only sees the interfaces in the sale package.
package token

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/curvemint/curved/internal/core/sale"
)

var (
	// ErrUnknownToken reports an identifier no asset was issued under.
	ErrUnknownToken = errors.New("token: unknown token")

	// ErrPremintMismatch reports premint address/amount lists of
	// different lengths.
	ErrPremintMismatch = errors.New("token: premint address and amount lists differ in length")

	// ErrExceedsMaxSupply reports preminting beyond the max supply.
	ErrExceedsMaxSupply = errors.New("token: premint exceeds max supply")

	// ErrInsufficientBalance reports a transfer beyond the sender's
	// balance.
	ErrInsufficientBalance = errors.New("token: insufficient balance")

	// ErrBadAmount reports a nil or negative amount.
	ErrBadAmount = errors.New("token: amount must be non-negative")
)

type asset struct {
	name      string
	symbol    string
	maxSupply *big.Int
	pool      sale.AccountID
	balances  map[sale.AccountID]*big.Int
}

// Ledger is an in-memory fungible-token ledger. It implements both
// sale.AssetIssuer and sale.TokenLedger. Identifiers are derived from
// the asset identity plus an issuance counter, unique by construction.
type Ledger struct {
	mu     sync.RWMutex
	assets map[sale.SaleID]*asset
	seq    uint64
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{assets: make(map[sale.SaleID]*asset)}
}

// Issue creates a new asset: premints to the given accounts, mints the
// remainder of the max supply to the pool account, and returns the
// fresh identifier.
func (l *Ledger) Issue(spec sale.AssetSpec) (sale.SaleID, error) {
	var id sale.SaleID

	if len(spec.PremintTo) != len(spec.PremintAmounts) {
		return id, ErrPremintMismatch
	}
	if spec.MaxSupply == nil || spec.MaxSupply.Sign() <= 0 {
		return id, fmt.Errorf("%w: max supply must be positive", ErrBadAmount)
	}

	preminted := new(big.Int)
	for _, amt := range spec.PremintAmounts {
		if amt == nil || amt.Sign() < 0 {
			return id, ErrBadAmount
		}
		preminted.Add(preminted, amt)
	}
	if preminted.Cmp(spec.MaxSupply) > 0 {
		return id, ErrExceedsMaxSupply
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	id = deriveID(spec.Name, spec.Symbol, l.seq)

	a := &asset{
		name:      spec.Name,
		symbol:    spec.Symbol,
		maxSupply: new(big.Int).Set(spec.MaxSupply),
		pool:      spec.Pool,
		balances:  make(map[sale.AccountID]*big.Int),
	}
	for i, to := range spec.PremintTo {
		l.credit(a, to, spec.PremintAmounts[i])
	}
	l.credit(a, spec.Pool, new(big.Int).Sub(spec.MaxSupply, preminted))

	l.assets[id] = a
	return id, nil
}

// BalanceOf returns the holder's balance of the given token.
func (l *Ledger) BalanceOf(tokenID sale.SaleID, holder sale.AccountID) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.assets[tokenID]
	if !ok {
		return nil, ErrUnknownToken
	}
	bal, ok := a.balances[holder]
	if !ok {
		return new(big.Int), nil
	}
	return new(big.Int).Set(bal), nil
}

// Transfer moves tokens from the asset's pool account to the
// recipient. Nothing moves on error.
func (l *Ledger) Transfer(tokenID sale.SaleID, to sale.AccountID, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrBadAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.assets[tokenID]
	if !ok {
		return ErrUnknownToken
	}
	from := a.balances[a.pool]
	if from == nil || from.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	from.Sub(from, amount)
	l.credit(a, to, amount)
	return nil
}

// Asset metadata accessors used by the query surface.

// AssetInfo describes an issued asset.
type AssetInfo struct {
	Name      string
	Symbol    string
	MaxSupply *big.Int
	Pool      sale.AccountID
}

// Info returns metadata for an issued asset.
func (l *Ledger) Info(tokenID sale.SaleID) (AssetInfo, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.assets[tokenID]
	if !ok {
		return AssetInfo{}, ErrUnknownToken
	}
	return AssetInfo{
		Name:      a.name,
		Symbol:    a.symbol,
		MaxSupply: new(big.Int).Set(a.maxSupply),
		Pool:      a.pool,
	}, nil
}

// credit assumes l.mu is held.
func (l *Ledger) credit(a *asset, to sale.AccountID, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	bal, ok := a.balances[to]
	if !ok {
		bal = new(big.Int)
		a.balances[to] = bal
	}
	bal.Add(bal, amount)
}

func deriveID(name, symbol string, seq uint64) sale.SaleID {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(symbol))
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seq)
	h.Write(buf[:])
	var id sale.SaleID
	copy(id[:], h.Sum(nil))
	return id
}
