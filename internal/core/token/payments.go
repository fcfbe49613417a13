package token

import (
	"math/big"
	"sync"

	"github.com/curvemint/curved/internal/core/sale"
)

// PaymentBook is an in-memory record of outbound value transfers. It
// implements sale.PaymentSender by crediting an internal balance per
// recipient, which makes refunds and withdrawals observable in tests
// and in single-process deployments.
type PaymentBook struct {
	mu       sync.RWMutex
	balances map[sale.AccountID]*big.Int
}

// NewPaymentBook creates an empty payment book.
func NewPaymentBook() *PaymentBook {
	return &PaymentBook{balances: make(map[sale.AccountID]*big.Int)}
}

// Send credits the recipient.
func (p *PaymentBook) Send(to sale.AccountID, value *big.Int) error {
	if value == nil || value.Sign() < 0 {
		return ErrBadAmount
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bal, ok := p.balances[to]
	if !ok {
		bal = new(big.Int)
		p.balances[to] = bal
	}
	bal.Add(bal, value)
	return nil
}

// Recall debits a previous credit. It fails if the account never
// received that much, so a recall can only undo an earlier Send.
func (p *PaymentBook) Recall(from sale.AccountID, value *big.Int) error {
	if value == nil || value.Sign() < 0 {
		return ErrBadAmount
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bal, ok := p.balances[from]
	if !ok || bal.Cmp(value) < 0 {
		return ErrInsufficientBalance
	}
	bal.Sub(bal, value)
	return nil
}

// Received returns the total value sent to an account so far.
func (p *PaymentBook) Received(to sale.AccountID) *big.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	bal, ok := p.balances[to]
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Set(bal)
}
