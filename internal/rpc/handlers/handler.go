// Package handlers provides the RPC method handler interface and
// registry for the sale daemon.
package handlers

import (
	"context"
	"math/big"

	"github.com/curvemint/curved/internal/core/sale"
	"github.com/curvemint/curved/internal/core/token"
	"github.com/curvemint/curved/internal/storage/eventdb"
)

// Handler defines the interface for RPC method handlers.
type Handler interface {
	// Name returns the RPC method name.
	Name() string

	// Handle processes the RPC request and returns a response.
	Handle(ctx context.Context, params map[string]interface{}, services *Services) (interface{}, error)

	// RequiresAdmin returns true if the method requires admin
	// privileges.
	RequiresAdmin() bool
}

// Role represents an RPC caller role.
type Role int

const (
	// RolePublic is the default role for public methods.
	RolePublic Role = iota

	// RoleAdmin is for administrative methods.
	RoleAdmin
)

// Services provides access to all services needed by RPC handlers.
type Services struct {
	// Sales executes sale operations, serialized by the distributor.
	Sales SaleService

	// Tokens provides read access to the token ledger.
	Tokens TokenService

	// Events provides read access to recorded events. Nil when no
	// event database is configured.
	Events EventService

	// Version is the reported server version.
	Version string
}

// SaleService defines the sale operations exposed over RPC. The
// engine's Distributor satisfies it.
type SaleService interface {
	List(req sale.ListRequest) sale.ListOutcome
	Purchase(id sale.SaleID, buyer sale.AccountID, payment *big.Int) sale.PurchaseOutcome
	CreatorWithdraw(creator sale.AccountID) sale.WithdrawOutcome
	OwnerWithdraw(caller, receiver sale.AccountID) sale.WithdrawOutcome
	SetFee(caller sale.AccountID, bps uint32) sale.Result
	SaleInfo(id sale.SaleID) (sale.SaleState, bool, error)
	CreatorProceeds(creator sale.AccountID) (*big.Int, error)
	PlatformProceeds() (*big.Int, error)
	CurrentFee() (uint32, error)
}

// TokenService defines the token ledger reads exposed over RPC.
type TokenService interface {
	BalanceOf(tokenID sale.SaleID, holder sale.AccountID) (*big.Int, error)
	Info(tokenID sale.SaleID) (token.AssetInfo, error)
}

// EventService defines the event history reads exposed over RPC.
type EventService interface {
	Recent(ctx context.Context, limit int) ([]eventdb.Event, error)
	BySale(ctx context.Context, id sale.SaleID) ([]eventdb.Event, error)
}
