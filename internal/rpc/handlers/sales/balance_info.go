package sales

import (
	"context"

	"github.com/curvemint/curved/internal/rpc/handlers"
)

// BalanceHandler handles the "balance_info" RPC method: token balance
// of one holder plus the holder's withdrawable creator proceeds.
type BalanceHandler struct{}

// NewBalanceHandler creates a new balance_info handler.
func NewBalanceHandler() *BalanceHandler {
	return &BalanceHandler{}
}

// Name returns the method name.
func (h *BalanceHandler) Name() string {
	return "balance_info"
}

// Handle processes the balance_info request.
func (h *BalanceHandler) Handle(ctx context.Context, params map[string]interface{}, services *handlers.Services) (interface{}, error) {
	account, herr := handlers.AccountParam(params, "account")
	if herr != nil {
		return nil, herr
	}

	result := map[string]interface{}{
		"account": account.String(),
	}

	proceeds, err := services.Sales.CreatorProceeds(account)
	if err != nil {
		return nil, handlers.NewError(handlers.CodeInternal, "%v", err)
	}
	result["creator_proceeds"] = proceeds.String()

	// Token balance is reported when a sale_id is given.
	if raw, _ := handlers.OptionalStringParam(params, "sale_id"); raw != "" {
		id, herr := handlers.SaleIDParam(params, "sale_id")
		if herr != nil {
			return nil, herr
		}
		balance, err := services.Tokens.BalanceOf(id, account)
		if err != nil {
			return nil, handlers.NewError(handlers.CodeNotFound, "%v", err)
		}
		result["sale_id"] = id.String()
		result["token_balance"] = balance.String()
	}

	return result, nil
}

// RequiresAdmin returns false: balances are public queries.
func (h *BalanceHandler) RequiresAdmin() bool {
	return false
}

func init() {
	handlers.MustRegister(NewBalanceHandler())
}
