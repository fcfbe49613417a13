package sales

import (
	"context"

	"github.com/curvemint/curved/internal/core/sale"
	"github.com/curvemint/curved/internal/rpc/handlers"
)

// FeeInfoHandler handles the "fee_info" RPC method.
type FeeInfoHandler struct{}

// NewFeeInfoHandler creates a new fee_info handler.
func NewFeeInfoHandler() *FeeInfoHandler {
	return &FeeInfoHandler{}
}

// Name returns the method name.
func (h *FeeInfoHandler) Name() string {
	return "fee_info"
}

// Handle processes the fee_info request.
func (h *FeeInfoHandler) Handle(ctx context.Context, params map[string]interface{}, services *handlers.Services) (interface{}, error) {
	bps, err := services.Sales.CurrentFee()
	if err != nil {
		return nil, handlers.NewError(handlers.CodeInternal, "%v", err)
	}
	pool, err := services.Sales.PlatformProceeds()
	if err != nil {
		return nil, handlers.NewError(handlers.CodeInternal, "%v", err)
	}

	return map[string]interface{}{
		"fee_bps":           bps,
		"platform_proceeds": pool.String(),
	}, nil
}

// RequiresAdmin returns false: the fee rate is public.
func (h *FeeInfoHandler) RequiresAdmin() bool {
	return false
}

// FeeSetHandler handles the "fee_set" RPC method.
type FeeSetHandler struct{}

// NewFeeSetHandler creates a new fee_set handler.
func NewFeeSetHandler() *FeeSetHandler {
	return &FeeSetHandler{}
}

// Name returns the method name.
func (h *FeeSetHandler) Name() string {
	return "fee_set"
}

// Handle processes the fee_set request. The engine additionally
// verifies that the caller is the platform owner account.
func (h *FeeSetHandler) Handle(ctx context.Context, params map[string]interface{}, services *handlers.Services) (interface{}, error) {
	caller, herr := handlers.AccountParam(params, "caller")
	if herr != nil {
		return nil, herr
	}
	bps, herr := handlers.UintParam(params, "fee_bps")
	if herr != nil {
		return nil, herr
	}
	if bps > sale.MaxFeeBps {
		return nil, handlers.ResultError(sale.ResultWrongFeeRate)
	}

	if res := services.Sales.SetFee(caller, uint32(bps)); !res.IsSuccess() {
		return nil, handlers.ResultError(res)
	}

	return map[string]interface{}{
		"fee_bps": uint32(bps),
	}, nil
}

// RequiresAdmin returns true: fee changes are administrative.
func (h *FeeSetHandler) RequiresAdmin() bool {
	return true
}

func init() {
	handlers.MustRegister(NewFeeInfoHandler())
	handlers.MustRegister(NewFeeSetHandler())
}
