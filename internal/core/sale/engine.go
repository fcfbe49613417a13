package sale

import (
	"math/big"

	"github.com/curvemint/curved/internal/core/pricing"
)

// Engine executes sale operations against a StateView. Its methods are
// lock-free: the only gate here is the ReentrancyGuard on the purchase
// path. Independent callers must go through a Distributor, which
// provides the global serialization point for all mutating operations
// on one instance.
type Engine struct {
	view     StateView
	tokens   TokenLedger
	payments PaymentSender
	issuer   AssetIssuer
	events   Recorder

	// owner is the single privileged platform account.
	owner AccountID

	// pool holds the unsold supply of every listed sale.
	pool AccountID

	guard ReentrancyGuard
}

// Config wires an Engine.
type Config struct {
	View     StateView
	Tokens   TokenLedger
	Payments PaymentSender
	Issuer   AssetIssuer
	Events   Recorder
	Owner    AccountID
	Pool     AccountID
}

// NewEngine creates an engine. A nil Events recorder is replaced with
// NopRecorder.
func NewEngine(cfg Config) *Engine {
	if cfg.Events == nil {
		cfg.Events = NopRecorder{}
	}
	return &Engine{
		view:     cfg.View,
		tokens:   cfg.Tokens,
		payments: cfg.Payments,
		issuer:   cfg.Issuer,
		events:   cfg.Events,
		owner:    cfg.Owner,
		pool:     cfg.Pool,
	}
}

// Owner returns the privileged platform account.
func (e *Engine) Owner() AccountID { return e.owner }

// Pool returns the supply-holding account.
func (e *Engine) Pool() AccountID { return e.pool }

// ListOutcome is the result of a listing request.
type ListOutcome struct {
	Result Result
	SaleID SaleID
}

// ListRequest carries the parameters of a listing.
type ListRequest struct {
	Receiver       AccountID
	Name           string
	Symbol         string
	MaxSupply      *big.Int
	PremintTo      []AccountID
	PremintAmounts []*big.Int
	PriceInit      *big.Int
	PriceIncrease  *big.Int
}

// List validates the curve bounds, has the asset issuer create the
// backing token, and registers the sale. The bounds are checked before
// the issuer runs so that an out-of-range listing creates nothing.
func (e *Engine) List(req ListRequest) ListOutcome {
	if !pricing.CurveParamInRange(req.PriceInit) || !pricing.CurveParamInRange(req.PriceIncrease) {
		return ListOutcome{Result: ResultPriceOutOfRange}
	}

	id, err := e.issuer.Issue(AssetSpec{
		Name:           req.Name,
		Symbol:         req.Symbol,
		MaxSupply:      req.MaxSupply,
		PremintTo:      req.PremintTo,
		PremintAmounts: req.PremintAmounts,
		Pool:           e.pool,
	})
	if err != nil {
		return ListOutcome{Result: ResultAssetIssueFailed}
	}

	table := NewStateTable(e.view)
	if err := ListSale(table, id, req.Receiver, req.PriceInit, req.PriceIncrease); err != nil {
		return ListOutcome{Result: ResultInternal}
	}
	if _, err := table.Apply(); err != nil {
		return ListOutcome{Result: ResultInternal}
	}

	e.events.SaleListed(id, req.Receiver, req.MaxSupply)
	return ListOutcome{Result: ResultSuccess, SaleID: id}
}

// PurchaseOutcome is the result of a purchase.
type PurchaseOutcome struct {
	Result            Result
	TokensTransferred *big.Int
	Refund            *big.Int
	Fee               *big.Int
	EffectivePayment  *big.Int
	NewPrice          *big.Int
}

// Purchase converts a payment into tokens on the sale's curve.
//
// Ordering discipline: the refund (if any) is attempted before any
// state is persisted, so a failed refund aborts with nothing written.
// The price update is persisted before the outbound token transfer, so
// a recipient re-entering during the transfer observes the updated
// price; if the transfer then fails, the persisted price is reverted
// and any refund already sent is recalled, so the operation reports
// failure with nothing moved.
func (e *Engine) Purchase(id SaleID, buyer AccountID, payment *big.Int) PurchaseOutcome {
	if !e.guard.Enter() {
		return PurchaseOutcome{Result: ResultReentrant}
	}
	defer e.guard.Exit()

	table := NewStateTable(e.view)

	st, ok, err := LookupSale(table, id)
	if err != nil {
		return PurchaseOutcome{Result: ResultInternal}
	}
	if !ok {
		return PurchaseOutcome{Result: ResultSaleNotAuthorized}
	}

	if payment == nil || payment.Cmp(st.CurrentPrice) < 0 {
		return PurchaseOutcome{Result: ResultPaymentTooLow}
	}

	available, err := e.tokens.BalanceOf(id, e.pool)
	if err != nil {
		return PurchaseOutcome{Result: ResultInternal}
	}
	if available == nil || available.Sign() == 0 {
		return PurchaseOutcome{Result: ResultInsufficientSupply}
	}

	wanted, err := pricing.TokensForPayment(payment, st.CurrentPrice, st.IncreaseRate)
	if err != nil {
		return PurchaseOutcome{Result: ResultAmountOverflow}
	}

	pending := PendingPurchase{
		Payment:          payment,
		TokensResolved:   wanted,
		Refund:           new(big.Int),
		EffectivePayment: payment,
	}

	if wanted.Cmp(available) > 0 {
		// Partial fill: clamp to remaining supply, charge the exact
		// curve cost of that quantity and refund the rest.
		pending.TokensResolved = available
		expense, err := pricing.ExpenseForTokens(available, st.CurrentPrice, st.IncreaseRate)
		if err != nil {
			return PurchaseOutcome{Result: ResultAmountOverflow}
		}
		pending.Expense = expense
		pending.EffectivePayment = expense
		pending.Refund = new(big.Int).Sub(payment, expense)
		if pending.Refund.Sign() < 0 {
			return PurchaseOutcome{Result: ResultInternal}
		}
		if pending.Refund.Sign() > 0 {
			// Nothing has been persisted yet: a failed refund aborts
			// the entire purchase with no rollback needed.
			if err := e.payments.Send(buyer, pending.Refund); err != nil {
				return PurchaseOutcome{Result: ResultRefundFailed}
			}
		}
	}

	// Price bump: currentPrice += increaseRate * tokens / Unit.
	priceBefore := new(big.Int).Set(st.CurrentPrice)
	bump := new(big.Int).Mul(st.IncreaseRate, pending.TokensResolved)
	bump.Quo(bump, pricing.Unit)
	st.CurrentPrice = new(big.Int).Add(priceBefore, bump)

	if err := writeSale(table, id, st); err != nil {
		return PurchaseOutcome{Result: ResultInternal}
	}

	// Persist the new price before the outbound token transfer. This
	// closes the reentrancy window: a nested call triggered by the
	// recipient sees the already-updated price and availability.
	if _, err := table.Apply(); err != nil {
		return PurchaseOutcome{Result: ResultInternal}
	}

	if err := e.tokens.Transfer(id, buyer, pending.TokensResolved); err != nil {
		// Undo everything the aborted purchase already did: the
		// persisted price bump and, on a partial fill, the refund that
		// went out before the commit.
		restored := st
		restored.CurrentPrice = priceBefore
		if rerr := writeSale(e.view, id, restored); rerr != nil {
			return PurchaseOutcome{Result: ResultInternal}
		}
		if pending.Refund.Sign() > 0 {
			if rerr := e.payments.Recall(buyer, pending.Refund); rerr != nil {
				return PurchaseOutcome{Result: ResultInternal}
			}
		}
		return PurchaseOutcome{Result: ResultTokenTransferFailed}
	}

	// Fee split: fee = floor(effectivePayment * bps / 10000); creator
	// gets the rest. Credited atomically through a fresh table.
	post := NewStateTable(e.view)
	feeBps, err := FeeRate(post)
	if err != nil {
		return PurchaseOutcome{Result: ResultInternal}
	}
	fee := new(big.Int).Mul(pending.EffectivePayment, big.NewInt(int64(feeBps)))
	fee.Quo(fee, big.NewInt(MaxFeeBps))
	creatorCut := new(big.Int).Sub(pending.EffectivePayment, fee)

	if err := creditBalance(post, CreatorBalanceKey(st.Receiver), creatorCut); err != nil {
		return PurchaseOutcome{Result: ResultInternal}
	}
	if err := creditBalance(post, PlatformBalanceKey(), fee); err != nil {
		return PurchaseOutcome{Result: ResultInternal}
	}
	if _, err := post.Apply(); err != nil {
		return PurchaseOutcome{Result: ResultInternal}
	}

	e.events.SaleCompleted(id, buyer, pending.TokensResolved)
	if pending.Refund.Sign() > 0 {
		e.events.RefundIssued(buyer, pending.Refund)
	}

	return PurchaseOutcome{
		Result:            ResultSuccess,
		TokensTransferred: pending.TokensResolved,
		Refund:            pending.Refund,
		Fee:               fee,
		EffectivePayment:  pending.EffectivePayment,
		NewPrice:          st.CurrentPrice,
	}
}

// WithdrawOutcome is the result of a withdrawal.
type WithdrawOutcome struct {
	Result Result
	Amount *big.Int
}

// CreatorWithdraw pays out and zeroes the creator's accumulated
// proceeds. The balance is zeroed before the payout; a failed payout
// restores it, so failure never destroys funds.
func (e *Engine) CreatorWithdraw(creator AccountID) WithdrawOutcome {
	return e.withdraw(CreatorBalanceKey(creator), creator, ResultCreatorWithdrawalFailed, func(amount *big.Int) {
		e.events.CreatorWithdrew(creator, amount)
	})
}

// OwnerWithdraw pays the platform fee pool out to receiver. Only the
// privileged platform account may call it.
func (e *Engine) OwnerWithdraw(caller, receiver AccountID) WithdrawOutcome {
	if caller != e.owner {
		return WithdrawOutcome{Result: ResultNotPermitted}
	}
	return e.withdraw(PlatformBalanceKey(), receiver, ResultOwnerWithdrawalFailed, func(amount *big.Int) {
		e.events.OwnerWithdrew(receiver, amount)
	})
}

func (e *Engine) withdraw(k Key, to AccountID, failure Result, record func(*big.Int)) WithdrawOutcome {
	amount, err := readBalance(e.view, k)
	if err != nil {
		return WithdrawOutcome{Result: ResultInternal}
	}
	if amount.Sign() == 0 {
		return WithdrawOutcome{Result: ResultSuccess, Amount: amount}
	}

	if err := writeBalance(e.view, k, new(big.Int)); err != nil {
		return WithdrawOutcome{Result: ResultInternal}
	}

	if err := e.payments.Send(to, amount); err != nil {
		// Restore the pre-withdrawal value.
		if rerr := writeBalance(e.view, k, amount); rerr != nil {
			return WithdrawOutcome{Result: ResultInternal}
		}
		return WithdrawOutcome{Result: failure}
	}

	record(amount)
	return WithdrawOutcome{Result: ResultSuccess, Amount: amount}
}

// SetFee replaces the platform fee rate for all future purchases.
// Never retroactive.
func (e *Engine) SetFee(caller AccountID, bps uint32) Result {
	if caller != e.owner {
		return ResultNotPermitted
	}
	if bps > MaxFeeBps {
		return ResultWrongFeeRate
	}
	if err := writeFeeRate(e.view, bps); err != nil {
		return ResultInternal
	}
	e.events.FeeChanged(bps)
	return ResultSuccess
}

// SaleInfo returns the current state of a sale.
func (e *Engine) SaleInfo(id SaleID) (SaleState, bool, error) {
	return LookupSale(e.view, id)
}

// CreatorProceeds returns a creator's withdrawable balance.
func (e *Engine) CreatorProceeds(creator AccountID) (*big.Int, error) {
	return CreatorBalance(e.view, creator)
}

// PlatformProceeds returns the withdrawable platform fee pool.
func (e *Engine) PlatformProceeds() (*big.Int, error) {
	return PlatformBalance(e.view)
}

// CurrentFee returns the fee rate in basis points.
func (e *Engine) CurrentFee() (uint32, error) {
	return FeeRate(e.view)
}
