package sale_test

import (
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvemint/curved/internal/core/pricing"
	"github.com/curvemint/curved/internal/core/sale"
	"github.com/curvemint/curved/internal/core/token"
)

// memView is a bare map-backed StateView for engine tests. The
// persistent implementation lives in internal/storage/salestore.
type memView struct {
	m map[sale.Key][]byte
}

func newMemView() *memView {
	return &memView{m: make(map[sale.Key][]byte)}
}

func (v *memView) Read(k sale.Key) ([]byte, error) {
	return v.m[k], nil
}

func (v *memView) Exists(k sale.Key) (bool, error) {
	_, ok := v.m[k]
	return ok, nil
}

func (v *memView) Write(k sale.Key, data []byte) error {
	v.m[k] = data
	return nil
}

func acct(b byte) sale.AccountID {
	var a sale.AccountID
	a[0] = b
	return a
}

var (
	owner = acct(0xaa)
	pool  = acct(0xbb)
	buyer = acct(0x01)
)

type env struct {
	view   *memView
	ledger *token.Ledger
	book   *token.PaymentBook
	engine *sale.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		view:   newMemView(),
		ledger: token.NewLedger(),
		book:   token.NewPaymentBook(),
	}
	e.engine = sale.NewEngine(sale.Config{
		View:     e.view,
		Tokens:   e.ledger,
		Payments: e.book,
		Issuer:   e.ledger,
		Owner:    owner,
		Pool:     pool,
	})
	return e
}

func unit() *big.Int { return new(big.Int).Set(pricing.Unit) }

func units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), pricing.Unit)
}

// list registers a sale with the given curve and whole-token supply.
func (e *env) list(t *testing.T, supplyTokens, price0, increase int64) sale.SaleID {
	t.Helper()
	out := e.engine.List(sale.ListRequest{
		Receiver:      acct(0x02),
		Name:          "Test Asset",
		Symbol:        "TST",
		MaxSupply:     units(supplyTokens),
		PriceInit:     big.NewInt(price0),
		PriceIncrease: big.NewInt(increase),
	})
	require.Equal(t, sale.ResultSuccess, out.Result)
	return out.SaleID
}

func TestListAndLookup(t *testing.T) {
	e := newEnv(t)
	id := e.list(t, 1000, 1e15, 1e12)

	st, ok, err := e.engine.SaleInfo(id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, acct(0x02), st.Receiver)
	assert.Equal(t, big.NewInt(1e15), st.CurrentPrice)
	assert.Equal(t, big.NewInt(1e12), st.IncreaseRate)

	avail, err := e.ledger.BalanceOf(id, pool)
	require.NoError(t, err)
	assert.Equal(t, units(1000), avail)
}

func TestListRejectsOutOfRangeCurve(t *testing.T) {
	e := newEnv(t)

	cases := []struct {
		name             string
		price0, increase *big.Int
	}{
		{"price below floor", big.NewInt(4999), big.NewInt(5000)},
		{"increase below floor", big.NewInt(5000), big.NewInt(4999)},
		{"price above cap", new(big.Int).Add(pricing.MaxCurveParam, big.NewInt(1)), big.NewInt(5000)},
		{"increase above cap", big.NewInt(5000), new(big.Int).Add(pricing.MaxCurveParam, big.NewInt(1))},
		{"nil price", nil, big.NewInt(5000)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := e.engine.List(sale.ListRequest{
				Receiver:      acct(0x02),
				Name:          "Bad",
				Symbol:        "BAD",
				MaxSupply:     units(10),
				PriceInit:     tc.price0,
				PriceIncrease: tc.increase,
			})
			assert.Equal(t, sale.ResultPriceOutOfRange, out.Result)
			// Rejection happens before issuance, so no asset exists.
			_, err := e.ledger.Info(out.SaleID)
			assert.ErrorIs(t, err, token.ErrUnknownToken)
		})
	}
}

func TestPurchaseUnknownSale(t *testing.T) {
	e := newEnv(t)
	var id sale.SaleID
	out := e.engine.Purchase(id, buyer, units(1))
	assert.Equal(t, sale.ResultSaleNotAuthorized, out.Result)
}

func TestPurchasePaymentTooLow(t *testing.T) {
	e := newEnv(t)
	id := e.list(t, 1000, 1e15, 1e12)

	out := e.engine.Purchase(id, buyer, big.NewInt(1e15-1))
	assert.Equal(t, sale.ResultPaymentTooLow, out.Result)

	out = e.engine.Purchase(id, buyer, nil)
	assert.Equal(t, sale.ResultPaymentTooLow, out.Result)
}

func TestPurchaseOverflowingPayment(t *testing.T) {
	e := newEnv(t)
	id := e.list(t, 1000, 1e15, 1e12)

	huge := new(big.Int).Exp(big.NewInt(10), big.NewInt(60), nil)
	out := e.engine.Purchase(id, buyer, huge)
	assert.Equal(t, sale.ResultAmountOverflow, out.Result)
}

func TestPurchaseFullFill(t *testing.T) {
	e := newEnv(t)
	price0, increase := int64(1e15), int64(1e12)
	id := e.list(t, 1_000_000, price0, increase)

	payment := units(1)
	wantTokens, err := pricing.TokensForPayment(payment, big.NewInt(price0), big.NewInt(increase))
	require.NoError(t, err)

	out := e.engine.Purchase(id, buyer, payment)
	require.Equal(t, sale.ResultSuccess, out.Result)
	assert.Equal(t, wantTokens, out.TokensTransferred)
	assert.Equal(t, 0, out.Refund.Sign())
	assert.Equal(t, payment, out.EffectivePayment)

	// Buyer got exactly the resolved quantity from the pool.
	bal, err := e.ledger.BalanceOf(id, buyer)
	require.NoError(t, err)
	assert.Equal(t, wantTokens, bal)

	// Price moved by increase * tokens / unit.
	bump := new(big.Int).Mul(big.NewInt(increase), wantTokens)
	bump.Quo(bump, unit())
	wantPrice := new(big.Int).Add(big.NewInt(price0), bump)
	st, ok, err := e.engine.SaleInfo(id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, wantPrice, st.CurrentPrice)
	assert.Equal(t, wantPrice, out.NewPrice)

	// No fee configured: the creator keeps the whole payment.
	proceeds, err := e.engine.CreatorProceeds(acct(0x02))
	require.NoError(t, err)
	assert.Equal(t, payment, proceeds)
	platform, err := e.engine.PlatformProceeds()
	require.NoError(t, err)
	assert.Equal(t, 0, platform.Sign())
}

func TestPurchasePartialFillRefund(t *testing.T) {
	e := newEnv(t)
	price0, increase := int64(1e15), int64(1e12)
	id := e.list(t, 10, price0, increase)

	// Far more than ten tokens cost at this curve.
	payment := units(100)
	out := e.engine.Purchase(id, buyer, payment)
	require.Equal(t, sale.ResultSuccess, out.Result)

	// Clamped to the whole remaining supply.
	assert.Equal(t, units(10), out.TokensTransferred)

	expense, err := pricing.ExpenseForTokens(units(10), big.NewInt(price0), big.NewInt(increase))
	require.NoError(t, err)
	assert.Equal(t, expense, out.EffectivePayment)

	wantRefund := new(big.Int).Sub(payment, expense)
	assert.Equal(t, wantRefund, out.Refund)
	assert.Equal(t, wantRefund, e.book.Received(buyer))

	// Pool is drained; the next purchase has no supply.
	avail, err := e.ledger.BalanceOf(id, pool)
	require.NoError(t, err)
	assert.Equal(t, 0, avail.Sign())

	out = e.engine.Purchase(id, buyer, units(1))
	assert.Equal(t, sale.ResultInsufficientSupply, out.Result)
}

func TestFeeSplitExact(t *testing.T) {
	e := newEnv(t)
	id := e.list(t, 1_000_000, 1e15, 1e12)

	require.Equal(t, sale.ResultSuccess, e.engine.SetFee(owner, 250))

	payment := big.NewInt(1e18 + 7)
	out := e.engine.Purchase(id, buyer, payment)
	require.Equal(t, sale.ResultSuccess, out.Result)

	wantFee := new(big.Int).Mul(payment, big.NewInt(250))
	wantFee.Quo(wantFee, big.NewInt(10000))
	assert.Equal(t, wantFee, out.Fee)

	platform, err := e.engine.PlatformProceeds()
	require.NoError(t, err)
	assert.Equal(t, wantFee, platform)

	proceeds, err := e.engine.CreatorProceeds(acct(0x02))
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Sub(payment, wantFee), proceeds)

	// Conservation: fee + creator cut account for the whole payment.
	total := new(big.Int).Add(platform, proceeds)
	assert.Equal(t, payment, total)
}

func TestSetFeeGuards(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, sale.ResultNotPermitted, e.engine.SetFee(buyer, 100))
	assert.Equal(t, sale.ResultWrongFeeRate, e.engine.SetFee(owner, sale.MaxFeeBps+1))
	assert.Equal(t, sale.ResultSuccess, e.engine.SetFee(owner, sale.MaxFeeBps))

	bps, err := e.engine.CurrentFee()
	require.NoError(t, err)
	assert.Equal(t, uint32(sale.MaxFeeBps), bps)
}

// reentrantLedger re-enters Purchase from inside the outbound token
// transfer, simulating a recipient callback.
type reentrantLedger struct {
	inner  *token.Ledger
	engine *sale.Engine
	saleID sale.SaleID
	nested *sale.PurchaseOutcome
}

func (r *reentrantLedger) BalanceOf(tokenID sale.SaleID, holder sale.AccountID) (*big.Int, error) {
	return r.inner.BalanceOf(tokenID, holder)
}

func (r *reentrantLedger) Transfer(tokenID sale.SaleID, to sale.AccountID, amount *big.Int) error {
	if err := r.inner.Transfer(tokenID, to, amount); err != nil {
		return err
	}
	if r.nested == nil {
		out := r.engine.Purchase(r.saleID, to, big.NewInt(1e16))
		r.nested = &out
	}
	return nil
}

func (r *reentrantLedger) Issue(spec sale.AssetSpec) (sale.SaleID, error) {
	return r.inner.Issue(spec)
}

func TestPurchaseRejectsReentry(t *testing.T) {
	view := newMemView()
	ledger := token.NewLedger()
	book := token.NewPaymentBook()
	wrapped := &reentrantLedger{inner: ledger}

	engine := sale.NewEngine(sale.Config{
		View:     view,
		Tokens:   wrapped,
		Payments: book,
		Issuer:   wrapped,
		Owner:    owner,
		Pool:     pool,
	})
	wrapped.engine = engine

	out := engine.List(sale.ListRequest{
		Receiver:      acct(0x02),
		Name:          "Re", Symbol: "RE",
		MaxSupply:     units(1000),
		PriceInit:     big.NewInt(1e15),
		PriceIncrease: big.NewInt(1e12),
	})
	require.Equal(t, sale.ResultSuccess, out.Result)
	wrapped.saleID = out.SaleID

	res := engine.Purchase(out.SaleID, buyer, units(1))
	assert.Equal(t, sale.ResultSuccess, res.Result)

	require.NotNil(t, wrapped.nested)
	assert.Equal(t, sale.ResultReentrant, wrapped.nested.Result)
}

// failingLedger fails every Transfer.
type failingLedger struct {
	*token.Ledger
}

func (f *failingLedger) Transfer(sale.SaleID, sale.AccountID, *big.Int) error {
	return errors.New("transfer rejected")
}

func TestTransferFailureRevertsPrice(t *testing.T) {
	view := newMemView()
	ledger := token.NewLedger()
	engine := sale.NewEngine(sale.Config{
		View:     view,
		Tokens:   &failingLedger{ledger},
		Payments: token.NewPaymentBook(),
		Issuer:   ledger,
		Owner:    owner,
		Pool:     pool,
	})

	out := engine.List(sale.ListRequest{
		Receiver:      acct(0x02),
		Name:          "F", Symbol: "F",
		MaxSupply:     units(1000),
		PriceInit:     big.NewInt(1e15),
		PriceIncrease: big.NewInt(1e12),
	})
	require.Equal(t, sale.ResultSuccess, out.Result)

	res := engine.Purchase(out.SaleID, buyer, units(1))
	assert.Equal(t, sale.ResultTokenTransferFailed, res.Result)

	st, ok, err := engine.SaleInfo(out.SaleID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, big.NewInt(1e15), st.CurrentPrice)

	proceeds, err := engine.CreatorProceeds(acct(0x02))
	require.NoError(t, err)
	assert.Equal(t, 0, proceeds.Sign())
}

func TestTransferFailureRecallsRefund(t *testing.T) {
	view := newMemView()
	ledger := token.NewLedger()
	book := token.NewPaymentBook()
	engine := sale.NewEngine(sale.Config{
		View:     view,
		Tokens:   &failingLedger{ledger},
		Payments: book,
		Issuer:   ledger,
		Owner:    owner,
		Pool:     pool,
	})

	out := engine.List(sale.ListRequest{
		Receiver:      acct(0x02),
		Name:          "F", Symbol: "F",
		MaxSupply:     units(5),
		PriceInit:     big.NewInt(1e15),
		PriceIncrease: big.NewInt(1e12),
	})
	require.Equal(t, sale.ResultSuccess, out.Result)

	// Overpays the five-token supply, so a refund goes out before the
	// transfer fails.
	res := engine.Purchase(out.SaleID, buyer, units(100))
	assert.Equal(t, sale.ResultTokenTransferFailed, res.Result)

	// The refund was taken back along with the price revert, so the
	// aborted purchase moved no value in either direction.
	assert.Equal(t, 0, book.Received(buyer).Sign())

	st, ok, err := engine.SaleInfo(out.SaleID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, big.NewInt(1e15), st.CurrentPrice)

	avail, err := ledger.BalanceOf(out.SaleID, pool)
	require.NoError(t, err)
	assert.Equal(t, units(5), avail)

	proceeds, err := engine.CreatorProceeds(acct(0x02))
	require.NoError(t, err)
	assert.Equal(t, 0, proceeds.Sign())
}

// A sale of exactly 100 token-units at price0 = one payment unit,
// increase 5000, hit with a payment of 9999 units: the fill clamps to
// the whole supply and the refund is the payment minus the exact curve
// cost of those 100 units.
func TestPurchaseClampAtSupplyCap(t *testing.T) {
	e := newEnv(t)
	id := e.list(t, 100, 1e18, 5000)

	payment := units(9999)
	out := e.engine.Purchase(id, buyer, payment)
	require.Equal(t, sale.ResultSuccess, out.Result)
	assert.Equal(t, units(100), out.TokensTransferred)

	expense, err := pricing.ExpenseForTokens(units(100), big.NewInt(1e18), big.NewInt(5000))
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Sub(payment, expense), out.Refund)
	assert.Equal(t, out.Refund, e.book.Received(buyer))

	avail, err := e.ledger.BalanceOf(id, pool)
	require.NoError(t, err)
	assert.Equal(t, 0, avail.Sign())
}

// One basis point of fee on a one-unit purchase: the creator withdraws
// exactly payment - floor(payment/10000).
func TestOneBasisPointFeeWithdrawal(t *testing.T) {
	e := newEnv(t)
	id := e.list(t, 1_000_000, 1e15, 1e12)
	creator := acct(0x02)

	require.Equal(t, sale.ResultSuccess, e.engine.SetFee(owner, 1))

	payment := units(1)
	require.Equal(t, sale.ResultSuccess, e.engine.Purchase(id, buyer, payment).Result)

	want := new(big.Int).Sub(payment, new(big.Int).Quo(payment, big.NewInt(10000)))
	res := e.engine.CreatorWithdraw(creator)
	require.Equal(t, sale.ResultSuccess, res.Result)
	assert.Equal(t, want, res.Amount)
	assert.Equal(t, want, e.book.Received(creator))
}

// failingSender fails every Send.
type failingSender struct{}

func (failingSender) Send(sale.AccountID, *big.Int) error {
	return errors.New("send rejected")
}

func (failingSender) Recall(sale.AccountID, *big.Int) error { return nil }

func TestRefundFailureAbortsPurchase(t *testing.T) {
	view := newMemView()
	ledger := token.NewLedger()
	engine := sale.NewEngine(sale.Config{
		View:     view,
		Tokens:   ledger,
		Payments: failingSender{},
		Issuer:   ledger,
		Owner:    owner,
		Pool:     pool,
	})

	out := engine.List(sale.ListRequest{
		Receiver:      acct(0x02),
		Name:          "R", Symbol: "R",
		MaxSupply:     units(5),
		PriceInit:     big.NewInt(1e15),
		PriceIncrease: big.NewInt(1e12),
	})
	require.Equal(t, sale.ResultSuccess, out.Result)

	// Overpays the five-token supply, so a refund is owed and fails.
	res := engine.Purchase(out.SaleID, buyer, units(100))
	assert.Equal(t, sale.ResultRefundFailed, res.Result)

	// Nothing was persisted and nothing moved.
	st, ok, err := engine.SaleInfo(out.SaleID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, big.NewInt(1e15), st.CurrentPrice)

	avail, err := ledger.BalanceOf(out.SaleID, pool)
	require.NoError(t, err)
	assert.Equal(t, units(5), avail)
}

func TestCreatorWithdraw(t *testing.T) {
	e := newEnv(t)
	id := e.list(t, 1_000_000, 1e15, 1e12)
	creator := acct(0x02)

	payment := units(2)
	require.Equal(t, sale.ResultSuccess, e.engine.Purchase(id, buyer, payment).Result)

	res := e.engine.CreatorWithdraw(creator)
	require.Equal(t, sale.ResultSuccess, res.Result)
	assert.Equal(t, payment, res.Amount)
	assert.Equal(t, payment, e.book.Received(creator))

	// Balance is zeroed; a second withdrawal is a no-op success.
	res = e.engine.CreatorWithdraw(creator)
	assert.Equal(t, sale.ResultSuccess, res.Result)
	assert.Equal(t, 0, res.Amount.Sign())
}

func TestWithdrawFailureRestoresBalance(t *testing.T) {
	view := newMemView()
	ledger := token.NewLedger()
	engine := sale.NewEngine(sale.Config{
		View:     view,
		Tokens:   ledger,
		Payments: failingSender{},
		Issuer:   ledger,
		Owner:    owner,
		Pool:     pool,
	})

	out := engine.List(sale.ListRequest{
		Receiver:      acct(0x02),
		Name:          "W", Symbol: "W",
		MaxSupply:     units(1_000_000),
		PriceInit:     big.NewInt(1e15),
		PriceIncrease: big.NewInt(1e12),
	})
	require.Equal(t, sale.ResultSuccess, out.Result)
	require.Equal(t, sale.ResultSuccess, engine.Purchase(out.SaleID, buyer, units(1)).Result)

	res := engine.CreatorWithdraw(acct(0x02))
	assert.Equal(t, sale.ResultCreatorWithdrawalFailed, res.Result)

	proceeds, err := engine.CreatorProceeds(acct(0x02))
	require.NoError(t, err)
	assert.Equal(t, units(1), proceeds)
}

func TestOwnerWithdraw(t *testing.T) {
	e := newEnv(t)
	id := e.list(t, 1_000_000, 1e15, 1e12)
	receiver := acct(0x07)

	require.Equal(t, sale.ResultSuccess, e.engine.SetFee(owner, 1000))
	payment := units(1)
	require.Equal(t, sale.ResultSuccess, e.engine.Purchase(id, buyer, payment).Result)

	assert.Equal(t, sale.ResultNotPermitted, e.engine.OwnerWithdraw(buyer, receiver).Result)

	wantFee := new(big.Int).Quo(payment, big.NewInt(10))
	res := e.engine.OwnerWithdraw(owner, receiver)
	require.Equal(t, sale.ResultSuccess, res.Result)
	assert.Equal(t, wantFee, res.Amount)
	assert.Equal(t, wantFee, e.book.Received(receiver))

	platform, err := e.engine.PlatformProceeds()
	require.NoError(t, err)
	assert.Equal(t, 0, platform.Sign())
}

func TestDistributorSerializesPurchases(t *testing.T) {
	e := newEnv(t)
	id := e.list(t, 10_000_000, 1e15, 1e12)
	dist := sale.NewDistributor(e.engine)

	const workers = 16
	payment := units(1)

	var wg sync.WaitGroup
	results := make([]sale.PurchaseOutcome, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = dist.Purchase(id, acct(byte(0x10+i)), payment)
		}(i)
	}
	wg.Wait()

	total := new(big.Int)
	for i, res := range results {
		require.Equal(t, sale.ResultSuccess, res.Result, "worker %d", i)
		total.Add(total, res.EffectivePayment)
	}

	proceeds, err := dist.CreatorProceeds(acct(0x02))
	require.NoError(t, err)
	assert.Equal(t, total, proceeds)

	// Price rose monotonically across the whole run.
	st, ok, err := dist.SaleInfo(id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Greater(t, st.CurrentPrice.Cmp(big.NewInt(1e15)), 0)
}
