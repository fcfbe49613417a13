package sale

import "math/big"

// External collaborators. The engine never assumes an outbound call
// succeeds; every transfer returns an explicit result that is consumed
// immediately.

// TokenLedger is the fungible-asset implementation holding per-sale
// token balances. The unsold supply of a sale sits in the pool account
// configured on the engine.
type TokenLedger interface {
	// BalanceOf returns the holder's balance of the given token.
	BalanceOf(token SaleID, holder AccountID) (*big.Int, error)

	// Transfer moves tokens from the pool account to the recipient.
	// A non-nil error means nothing moved.
	Transfer(token SaleID, to AccountID, amount *big.Int) error
}

// PaymentSender is the push-based value-transfer primitive used for
// refunds and withdrawals. Send must tolerate and report failure, never
// assume delivery. Recall is the compensating debit: it takes back a
// prior Send when the operation that issued it aborts.
type PaymentSender interface {
	Send(to AccountID, value *big.Int) error
	Recall(from AccountID, value *big.Int) error
}

// AssetSpec describes the fungible asset created for a listing.
type AssetSpec struct {
	Name           string
	Symbol         string
	MaxSupply      *big.Int
	PremintTo      []AccountID
	PremintAmounts []*big.Int

	// Pool receives the unpreminted remainder of the supply; it is the
	// account the engine sells from.
	Pool AccountID
}

// AssetIssuer creates the fungible asset backing a listing and returns
// its unique identifier. The issuer validates the premint lists
// (matching lengths, max-supply enforcement) before anything is
// created.
type AssetIssuer interface {
	Issue(spec AssetSpec) (SaleID, error)
}
