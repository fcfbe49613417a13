// Package sales provides the sale-related RPC method handlers.
package sales

import (
	"context"
	"math/big"

	"github.com/curvemint/curved/internal/core/sale"
	"github.com/curvemint/curved/internal/rpc/handlers"
)

// ListHandler handles the "sale_list" RPC method: it creates the
// backing asset and registers a new sale on the curve.
type ListHandler struct{}

// NewListHandler creates a new sale_list handler.
func NewListHandler() *ListHandler {
	return &ListHandler{}
}

// Name returns the method name.
func (h *ListHandler) Name() string {
	return "sale_list"
}

// Handle processes the sale_list request.
func (h *ListHandler) Handle(ctx context.Context, params map[string]interface{}, services *handlers.Services) (interface{}, error) {
	receiver, herr := handlers.AccountParam(params, "receiver")
	if herr != nil {
		return nil, herr
	}
	name, herr := handlers.StringParam(params, "name")
	if herr != nil {
		return nil, herr
	}
	symbol, herr := handlers.StringParam(params, "symbol")
	if herr != nil {
		return nil, herr
	}
	maxSupply, herr := handlers.AmountParam(params, "max_supply")
	if herr != nil {
		return nil, herr
	}
	priceInit, herr := handlers.AmountParam(params, "price_init")
	if herr != nil {
		return nil, herr
	}
	priceIncrease, herr := handlers.AmountParam(params, "price_increase")
	if herr != nil {
		return nil, herr
	}

	premintTo, premintAmounts, herr := premintParams(params)
	if herr != nil {
		return nil, herr
	}

	out := services.Sales.List(sale.ListRequest{
		Receiver:       receiver,
		Name:           name,
		Symbol:         symbol,
		MaxSupply:      maxSupply,
		PremintTo:      premintTo,
		PremintAmounts: premintAmounts,
		PriceInit:      priceInit,
		PriceIncrease:  priceIncrease,
	})
	if !out.Result.IsSuccess() {
		return nil, handlers.ResultError(out.Result)
	}

	return map[string]interface{}{
		"sale_id":        out.SaleID.String(),
		"receiver":       receiver.String(),
		"price_init":     priceInit.String(),
		"price_increase": priceIncrease.String(),
	}, nil
}

// RequiresAdmin returns false: anyone may list a sale.
func (h *ListHandler) RequiresAdmin() bool {
	return false
}

// premintParams extracts the optional parallel premint lists.
func premintParams(params map[string]interface{}) ([]sale.AccountID, []*big.Int, *handlers.Error) {
	raw, ok := params["premint"]
	if !ok {
		return nil, nil, nil
	}
	entries, ok := raw.([]interface{})
	if !ok {
		return nil, nil, handlers.InvalidParams("field \"premint\" must be an array")
	}

	accounts := make([]sale.AccountID, 0, len(entries))
	amounts := make([]*big.Int, 0, len(entries))
	for i, e := range entries {
		entry, ok := e.(map[string]interface{})
		if !ok {
			return nil, nil, handlers.InvalidParams("premint entry %d must be an object", i)
		}
		account, herr := handlers.AccountParam(entry, "account")
		if herr != nil {
			return nil, nil, herr
		}
		amount, herr := handlers.AmountParam(entry, "amount")
		if herr != nil {
			return nil, nil, herr
		}
		accounts = append(accounts, account)
		amounts = append(amounts, amount)
	}
	return accounts, amounts, nil
}

func init() {
	handlers.MustRegister(NewListHandler())
}
