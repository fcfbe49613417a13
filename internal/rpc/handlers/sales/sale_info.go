package sales

import (
	"context"

	"github.com/curvemint/curved/internal/rpc/handlers"
)

// InfoHandler handles the "sale_info" RPC method.
type InfoHandler struct{}

// NewInfoHandler creates a new sale_info handler.
func NewInfoHandler() *InfoHandler {
	return &InfoHandler{}
}

// Name returns the method name.
func (h *InfoHandler) Name() string {
	return "sale_info"
}

// Handle processes the sale_info request.
func (h *InfoHandler) Handle(ctx context.Context, params map[string]interface{}, services *handlers.Services) (interface{}, error) {
	id, herr := handlers.SaleIDParam(params, "sale_id")
	if herr != nil {
		return nil, herr
	}

	st, ok, err := services.Sales.SaleInfo(id)
	if err != nil {
		return nil, handlers.NewError(handlers.CodeInternal, "%v", err)
	}
	if !ok {
		return nil, handlers.NewError(handlers.CodeNotFound, "no authorized sale for %s", id)
	}

	result := map[string]interface{}{
		"sale_id":       id.String(),
		"receiver":      st.Receiver.String(),
		"current_price": st.CurrentPrice.String(),
		"increase_rate": st.IncreaseRate.String(),
	}

	// Enrich with asset metadata and remaining supply when the token
	// ledger knows this asset.
	if info, err := services.Tokens.Info(id); err == nil {
		result["name"] = info.Name
		result["symbol"] = info.Symbol
		result["max_supply"] = info.MaxSupply.String()
		if available, err := services.Tokens.BalanceOf(id, info.Pool); err == nil {
			result["available_supply"] = available.String()
		}
	}

	return result, nil
}

// RequiresAdmin returns false: sale_info is a public query.
func (h *InfoHandler) RequiresAdmin() bool {
	return false
}

func init() {
	handlers.MustRegister(NewInfoHandler())
}
