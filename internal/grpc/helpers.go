package grpc

import (
	"errors"
	"math/big"

	"github.com/curvemint/curved/internal/core/pricing"
	"github.com/curvemint/curved/internal/core/sale"
)

// Common errors for gRPC handlers
var (
	ErrSaleNotFound   = errors.New("sale not found")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrPaymentTooLow  = errors.New("payment is below the current marginal price")
	ErrAmountTooLarge = errors.New("amount exceeds the safe operating range")
)

// parseAmount parses a non-negative decimal amount string.
func parseAmount(raw string) (*big.Int, bool) {
	if raw == "" {
		return nil, false
	}
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok || n.Sign() < 0 {
		return nil, false
	}
	return n, true
}

// quoteTokens evaluates a sale's curve at its current price for one
// payment amount.
func quoteTokens(st sale.SaleState, payment *big.Int) (*big.Int, error) {
	tokens, err := pricing.TokensForPayment(payment, st.CurrentPrice, st.IncreaseRate)
	if err != nil {
		if errors.Is(err, pricing.ErrAmountTooLarge) {
			return nil, ErrAmountTooLarge
		}
		return nil, ErrInvalidAmount
	}
	if tokens.Sign() == 0 {
		return nil, ErrPaymentTooLow
	}
	return tokens, nil
}
