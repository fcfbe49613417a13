package sale

import (
	"math/big"
	"sync"
)

// Distributor is the global serialization point for one sale engine
// instance. Callers at the platform boundary may submit operations
// concurrently; the Distributor orders them into one total sequence
// with a single lock, so every operation runs as an atomic transaction
// against the shared ledger state. The ReentrancyGuard inside the
// engine stays responsible for nested callbacks only.
type Distributor struct {
	mu     sync.Mutex
	engine *Engine
}

// NewDistributor wraps an engine.
func NewDistributor(engine *Engine) *Distributor {
	return &Distributor{engine: engine}
}

// Engine exposes the underlying engine for test scenarios that need to
// bypass serialization (for example reentrancy simulations).
func (d *Distributor) Engine() *Engine { return d.engine }

// List serializes Engine.List.
func (d *Distributor) List(req ListRequest) ListOutcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.List(req)
}

// Purchase serializes Engine.Purchase.
func (d *Distributor) Purchase(id SaleID, buyer AccountID, payment *big.Int) PurchaseOutcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.Purchase(id, buyer, payment)
}

// CreatorWithdraw serializes Engine.CreatorWithdraw.
func (d *Distributor) CreatorWithdraw(creator AccountID) WithdrawOutcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.CreatorWithdraw(creator)
}

// OwnerWithdraw serializes Engine.OwnerWithdraw.
func (d *Distributor) OwnerWithdraw(caller, receiver AccountID) WithdrawOutcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.OwnerWithdraw(caller, receiver)
}

// SetFee serializes Engine.SetFee.
func (d *Distributor) SetFee(caller AccountID, bps uint32) Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.SetFee(caller, bps)
}

// SaleInfo serializes Engine.SaleInfo.
func (d *Distributor) SaleInfo(id SaleID) (SaleState, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.SaleInfo(id)
}

// CreatorProceeds serializes Engine.CreatorProceeds.
func (d *Distributor) CreatorProceeds(creator AccountID) (*big.Int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.CreatorProceeds(creator)
}

// PlatformProceeds serializes Engine.PlatformProceeds.
func (d *Distributor) PlatformProceeds() (*big.Int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.PlatformProceeds()
}

// CurrentFee serializes Engine.CurrentFee.
func (d *Distributor) CurrentFee() (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.CurrentFee()
}
