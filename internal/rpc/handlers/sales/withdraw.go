package sales

import (
	"context"

	"github.com/curvemint/curved/internal/rpc/handlers"
)

// CreatorWithdrawHandler handles the "creator_withdraw" RPC method.
type CreatorWithdrawHandler struct{}

// NewCreatorWithdrawHandler creates a new creator_withdraw handler.
func NewCreatorWithdrawHandler() *CreatorWithdrawHandler {
	return &CreatorWithdrawHandler{}
}

// Name returns the method name.
func (h *CreatorWithdrawHandler) Name() string {
	return "creator_withdraw"
}

// Handle processes the creator_withdraw request.
func (h *CreatorWithdrawHandler) Handle(ctx context.Context, params map[string]interface{}, services *handlers.Services) (interface{}, error) {
	creator, herr := handlers.AccountParam(params, "creator")
	if herr != nil {
		return nil, herr
	}

	out := services.Sales.CreatorWithdraw(creator)
	if !out.Result.IsSuccess() {
		return nil, handlers.ResultError(out.Result)
	}

	return map[string]interface{}{
		"creator": creator.String(),
		"amount":  out.Amount.String(),
	}, nil
}

// RequiresAdmin returns false: creators withdraw their own proceeds.
func (h *CreatorWithdrawHandler) RequiresAdmin() bool {
	return false
}

// OwnerWithdrawHandler handles the "owner_withdraw" RPC method.
type OwnerWithdrawHandler struct{}

// NewOwnerWithdrawHandler creates a new owner_withdraw handler.
func NewOwnerWithdrawHandler() *OwnerWithdrawHandler {
	return &OwnerWithdrawHandler{}
}

// Name returns the method name.
func (h *OwnerWithdrawHandler) Name() string {
	return "owner_withdraw"
}

// Handle processes the owner_withdraw request. The engine additionally
// verifies that the caller is the platform owner account.
func (h *OwnerWithdrawHandler) Handle(ctx context.Context, params map[string]interface{}, services *handlers.Services) (interface{}, error) {
	caller, herr := handlers.AccountParam(params, "caller")
	if herr != nil {
		return nil, herr
	}
	receiver, herr := handlers.AccountParam(params, "receiver")
	if herr != nil {
		return nil, herr
	}

	out := services.Sales.OwnerWithdraw(caller, receiver)
	if !out.Result.IsSuccess() {
		return nil, handlers.ResultError(out.Result)
	}

	return map[string]interface{}{
		"receiver": receiver.String(),
		"amount":   out.Amount.String(),
	}, nil
}

// RequiresAdmin returns true: platform withdrawals are administrative.
func (h *OwnerWithdrawHandler) RequiresAdmin() bool {
	return true
}

func init() {
	handlers.MustRegister(NewCreatorWithdrawHandler())
	handlers.MustRegister(NewOwnerWithdrawHandler())
}
