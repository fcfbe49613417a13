package sales

import (
	"context"

	"github.com/curvemint/curved/internal/rpc/handlers"
)

// PurchaseHandler handles the "sale_purchase" RPC method: it converts
// a payment into tokens on the sale's curve.
type PurchaseHandler struct{}

// NewPurchaseHandler creates a new sale_purchase handler.
func NewPurchaseHandler() *PurchaseHandler {
	return &PurchaseHandler{}
}

// Name returns the method name.
func (h *PurchaseHandler) Name() string {
	return "sale_purchase"
}

// Handle processes the sale_purchase request.
func (h *PurchaseHandler) Handle(ctx context.Context, params map[string]interface{}, services *handlers.Services) (interface{}, error) {
	id, herr := handlers.SaleIDParam(params, "sale_id")
	if herr != nil {
		return nil, herr
	}
	buyer, herr := handlers.AccountParam(params, "buyer")
	if herr != nil {
		return nil, herr
	}
	payment, herr := handlers.AmountParam(params, "payment")
	if herr != nil {
		return nil, herr
	}

	out := services.Sales.Purchase(id, buyer, payment)
	if !out.Result.IsSuccess() {
		return nil, handlers.ResultError(out.Result)
	}

	return map[string]interface{}{
		"sale_id":            id.String(),
		"buyer":              buyer.String(),
		"tokens_transferred": out.TokensTransferred.String(),
		"effective_payment":  out.EffectivePayment.String(),
		"refund":             out.Refund.String(),
		"fee":                out.Fee.String(),
		"new_price":          out.NewPrice.String(),
	}, nil
}

// RequiresAdmin returns false: purchases are public.
func (h *PurchaseHandler) RequiresAdmin() bool {
	return false
}

func init() {
	handlers.MustRegister(NewPurchaseHandler())
}
