package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/curvemint/curved/internal/core/sale"
)

// GetSaleRequest represents a request to get sale information.
type GetSaleRequest struct {
	// SaleID is the 32-byte sale identifier
	SaleID sale.SaleID

	// IncludeAsset indicates whether to include asset metadata
	IncludeAsset bool
}

// GetSaleResponse represents the response containing sale information.
type GetSaleResponse struct {
	// SaleID is the 32-byte sale identifier
	SaleID sale.SaleID

	// Receiver is the creator account credited with sale proceeds
	Receiver sale.AccountID

	// CurrentPrice is the current marginal price, decimal string
	CurrentPrice string

	// IncreaseRate is the per-token price increase, decimal string
	IncreaseRate string

	// AssetName is the token name (if IncludeAsset is true)
	AssetName string

	// AssetSymbol is the token symbol (if IncludeAsset is true)
	AssetSymbol string

	// MaxSupply is the issued token supply, decimal string (if IncludeAsset is true)
	MaxSupply string

	// AvailableSupply is the remaining pool balance, decimal string (if IncludeAsset is true)
	AvailableSupply string
}

// GetSale retrieves the state of one sale.
func (s *Server) GetSale(ctx context.Context, req *GetSaleRequest) (*GetSaleResponse, error) {
	if s.sales == nil {
		return nil, status.Error(codes.Internal, "sale service not available")
	}

	st, ok, err := s.sales.SaleInfo(req.SaleID)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to read sale: "+err.Error())
	}
	if !ok {
		return nil, status.Error(codes.NotFound, "sale not found")
	}

	resp := &GetSaleResponse{
		SaleID:       req.SaleID,
		Receiver:     st.Receiver,
		CurrentPrice: st.CurrentPrice.String(),
		IncreaseRate: st.IncreaseRate.String(),
	}

	if req.IncludeAsset && s.tokens != nil {
		info, err := s.tokens.Info(req.SaleID)
		if err == nil {
			resp.AssetName = info.Name
			resp.AssetSymbol = info.Symbol
			resp.MaxSupply = info.MaxSupply.String()
			if available, err := s.tokens.BalanceOf(req.SaleID, info.Pool); err == nil {
				resp.AvailableSupply = available.String()
			}
		}
	}

	return resp, nil
}

// GetBalanceRequest represents a request to get account balances.
type GetBalanceRequest struct {
	// Account is the 20-byte account identifier
	Account sale.AccountID

	// SaleID selects the token balance to report; zero means proceeds only
	SaleID sale.SaleID

	// HasSaleID indicates if SaleID was explicitly set
	HasSaleID bool
}

// GetBalanceResponse represents the response containing account balances.
type GetBalanceResponse struct {
	// Account is the queried account
	Account sale.AccountID

	// CreatorProceeds is the withdrawable creator balance, decimal string
	CreatorProceeds string

	// TokenBalance is the token balance for SaleID, decimal string (if HasSaleID)
	TokenBalance string
}

// GetBalance retrieves the proceeds and optional token balance of one account.
func (s *Server) GetBalance(ctx context.Context, req *GetBalanceRequest) (*GetBalanceResponse, error) {
	if s.sales == nil {
		return nil, status.Error(codes.Internal, "sale service not available")
	}

	proceeds, err := s.sales.CreatorProceeds(req.Account)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to read proceeds: "+err.Error())
	}

	resp := &GetBalanceResponse{
		Account:         req.Account,
		CreatorProceeds: proceeds.String(),
	}

	if req.HasSaleID {
		if s.tokens == nil {
			return nil, status.Error(codes.Internal, "token service not available")
		}
		balance, err := s.tokens.BalanceOf(req.SaleID, req.Account)
		if err != nil {
			return nil, status.Error(codes.NotFound, "token not found: "+err.Error())
		}
		resp.TokenBalance = balance.String()
	}

	return resp, nil
}

// GetFeeRequest represents a request for the platform fee state.
type GetFeeRequest struct{}

// GetFeeResponse represents the response containing the fee state.
type GetFeeResponse struct {
	// FeeBps is the platform fee rate in basis points
	FeeBps uint32

	// PlatformProceeds is the accumulated fee balance, decimal string
	PlatformProceeds string
}

// GetFee retrieves the platform fee rate and accumulated proceeds.
func (s *Server) GetFee(ctx context.Context, req *GetFeeRequest) (*GetFeeResponse, error) {
	if s.sales == nil {
		return nil, status.Error(codes.Internal, "sale service not available")
	}

	bps, err := s.sales.CurrentFee()
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to read fee rate: "+err.Error())
	}
	pool, err := s.sales.PlatformProceeds()
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to read platform proceeds: "+err.Error())
	}

	return &GetFeeResponse{
		FeeBps:           bps,
		PlatformProceeds: pool.String(),
	}, nil
}

// QuoteRequest represents a request to quote a purchase without executing it.
type QuoteRequest struct {
	// SaleID is the 32-byte sale identifier
	SaleID sale.SaleID

	// Payment is the payment amount, decimal string
	Payment string
}

// QuoteResponse represents the quoted outcome of a hypothetical purchase.
type QuoteResponse struct {
	// Tokens is the quantity the payment buys at the current price, decimal string
	Tokens string

	// CurrentPrice is the current marginal price, decimal string
	CurrentPrice string
}

// Quote computes how many tokens a payment would buy on a sale's curve
// at its current price, without mutating any state.
func (s *Server) Quote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	if s.sales == nil {
		return nil, status.Error(codes.Internal, "sale service not available")
	}

	payment, ok := parseAmount(req.Payment)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "payment must be a non-negative decimal string")
	}

	st, found, err := s.sales.SaleInfo(req.SaleID)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to read sale: "+err.Error())
	}
	if !found {
		return nil, status.Error(codes.NotFound, "sale not found")
	}

	tokens, err := quoteTokens(st, payment)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	return &QuoteResponse{
		Tokens:       tokens.String(),
		CurrentPrice: st.CurrentPrice.String(),
	}, nil
}
