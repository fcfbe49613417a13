package testing

import (
	"math/big"
	"testing"

	"github.com/curvemint/curved/internal/core/sale"
	"github.com/curvemint/curved/internal/core/token"
	"github.com/curvemint/curved/internal/storage/salestore"
)

// Default curve parameters used by ListSale. Price starts at 1e15 base
// units and rises by 1e12 per whole token sold.
var (
	DefaultPriceInit     = big.NewInt(1e15)
	DefaultPriceIncrease = big.NewInt(1e12)
)

// TestEnv manages an in-memory sale platform for testing. It wires the
// token ledger, the payment book, a memory-backed sale store and the
// engine together behind a serializing distributor.
type TestEnv struct {
	t *testing.T

	// Store is the memory-backed persistent state.
	Store *salestore.Store

	// Tokens is the in-memory token ledger acting as issuer and ledger.
	Tokens *token.Ledger

	// Payments records outbound payments (refunds and withdrawals).
	Payments *token.PaymentBook

	// Sales is the serialized engine surface.
	Sales *sale.Distributor

	// Owner and Pool are the platform accounts.
	Owner sale.AccountID
	Pool  sale.AccountID
}

// NewTestEnv creates a new in-memory test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	store, err := salestore.New(
		salestore.WithBackend("memory"),
		salestore.WithCompression("none", 0),
		salestore.WithCacheSize(100),
	)
	if err != nil {
		t.Fatalf("failed to create sale store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ledger := token.NewLedger()
	payments := token.NewPaymentBook()
	owner := OwnerAccount()
	pool := PoolAccount()

	engine := sale.NewEngine(sale.Config{
		View:     store,
		Tokens:   ledger,
		Payments: payments,
		Issuer:   ledger,
		Owner:    owner,
		Pool:     pool,
	})

	return &TestEnv{
		t:        t,
		Store:    store,
		Tokens:   ledger,
		Payments: payments,
		Sales:    sale.NewDistributor(engine),
		Owner:    owner,
		Pool:     pool,
	}
}

// ListSale lists a sale with the default curve and fails the test on
// rejection.
func (e *TestEnv) ListSale(receiver sale.AccountID, name, symbol string, maxSupply *big.Int) sale.SaleID {
	e.t.Helper()
	return e.ListSaleCurve(receiver, name, symbol, maxSupply, DefaultPriceInit, DefaultPriceIncrease)
}

// ListSaleCurve lists a sale with explicit curve parameters and fails
// the test on rejection.
func (e *TestEnv) ListSaleCurve(receiver sale.AccountID, name, symbol string, maxSupply, priceInit, priceIncrease *big.Int) sale.SaleID {
	e.t.Helper()

	out := e.Sales.List(sale.ListRequest{
		Receiver:      receiver,
		Name:          name,
		Symbol:        symbol,
		MaxSupply:     maxSupply,
		PriceInit:     priceInit,
		PriceIncrease: priceIncrease,
	})
	if !out.Result.IsSuccess() {
		e.t.Fatalf("listing rejected: %s", out.Result)
	}
	return out.SaleID
}

// Purchase submits a purchase.
func (e *TestEnv) Purchase(id sale.SaleID, buyer sale.AccountID, payment *big.Int) sale.PurchaseOutcome {
	e.t.Helper()
	return e.Sales.Purchase(id, buyer, payment)
}

// SetFee sets the platform fee as the owner and fails the test on
// rejection.
func (e *TestEnv) SetFee(bps uint32) {
	e.t.Helper()
	if res := e.Sales.SetFee(e.Owner, bps); !res.IsSuccess() {
		e.t.Fatalf("fee change rejected: %s", res)
	}
}

// TokenBalance returns a holder's token balance, failing the test on a
// lookup error.
func (e *TestEnv) TokenBalance(id sale.SaleID, holder sale.AccountID) *big.Int {
	e.t.Helper()
	balance, err := e.Tokens.BalanceOf(id, holder)
	if err != nil {
		e.t.Fatalf("failed to read token balance: %v", err)
	}
	return balance
}

// Proceeds returns a creator's withdrawable balance.
func (e *TestEnv) Proceeds(creator sale.AccountID) *big.Int {
	e.t.Helper()
	proceeds, err := e.Sales.CreatorProceeds(creator)
	if err != nil {
		e.t.Fatalf("failed to read creator proceeds: %v", err)
	}
	return proceeds
}

// Received returns the total payments sent to an account (refunds and
// withdrawals).
func (e *TestEnv) Received(account sale.AccountID) *big.Int {
	return e.Payments.Received(account)
}
