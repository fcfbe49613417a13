package sale

import "fmt"

// Result is the typed outcome code of a sale operation. Every failure
// aborts the whole operation and leaves persistent state untouched;
// the code tells the caller precisely which precondition or external
// failure caused the abort.
type Result int

const (
	// ResultSuccess indicates the operation was applied.
	ResultSuccess Result = 0

	// ResultWrongFeeRate: fee rate above 10000 basis points.
	ResultWrongFeeRate Result = 100

	// ResultPriceOutOfRange: listing price or increase rate outside
	// the [5000, 1e18] bound.
	ResultPriceOutOfRange Result = 101

	// ResultSaleNotAuthorized: unknown or zero-valued sale entry.
	ResultSaleNotAuthorized Result = 102

	// ResultPaymentTooLow: payment below the current marginal price.
	ResultPaymentTooLow Result = 103

	// ResultInsufficientSupply: no remaining supply to sell.
	ResultInsufficientSupply Result = 104

	// ResultRefundFailed: the partial-fill refund transfer failed;
	// the entire purchase is rolled back.
	ResultRefundFailed Result = 105

	// ResultCreatorWithdrawalFailed: creator payout failed; the
	// balance is restored.
	ResultCreatorWithdrawalFailed Result = 106

	// ResultOwnerWithdrawalFailed: platform payout failed; the
	// balance is restored.
	ResultOwnerWithdrawalFailed Result = 107

	// ResultReentrant: a guarded operation was entered while another
	// guarded call was already in progress on this instance.
	ResultReentrant Result = 108

	// ResultTokenTransferFailed: the outbound token transfer failed;
	// the already-persisted price update is reverted.
	ResultTokenTransferFailed Result = 109

	// ResultAmountOverflow: an amount beyond the documented safe
	// operating range of the pricing math.
	ResultAmountOverflow Result = 110

	// ResultNotPermitted: caller is not the privileged platform
	// account.
	ResultNotPermitted Result = 111

	// ResultAssetIssueFailed: the asset issuer rejected the listing
	// (for example mismatched premint address/amount lists).
	ResultAssetIssueFailed Result = 112

	// ResultInternal: an unexpected storage or invariant failure.
	ResultInternal Result = 199
)

// IsSuccess reports whether the operation was applied.
func (r Result) IsSuccess() bool { return r == ResultSuccess }

// String returns the canonical code name.
func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultWrongFeeRate:
		return "wrongFeeRate"
	case ResultPriceOutOfRange:
		return "priceOutOfRange"
	case ResultSaleNotAuthorized:
		return "saleNotAuthorized"
	case ResultPaymentTooLow:
		return "paymentTooLow"
	case ResultInsufficientSupply:
		return "insufficientRemainingSupply"
	case ResultRefundFailed:
		return "refundTransferFailed"
	case ResultCreatorWithdrawalFailed:
		return "creatorWithdrawalFailed"
	case ResultOwnerWithdrawalFailed:
		return "ownerWithdrawalFailed"
	case ResultReentrant:
		return "reentrant"
	case ResultTokenTransferFailed:
		return "tokenTransferFailed"
	case ResultAmountOverflow:
		return "amountOverflow"
	case ResultNotPermitted:
		return "notPermitted"
	case ResultAssetIssueFailed:
		return "assetIssueFailed"
	case ResultInternal:
		return "internal"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// Message returns a human-readable description of the result.
func (r Result) Message() string {
	switch r {
	case ResultSuccess:
		return "The operation was applied."
	case ResultWrongFeeRate:
		return "Fee rate exceeds 10000 basis points."
	case ResultPriceOutOfRange:
		return "Initial price or increase rate is outside the allowed range."
	case ResultSaleNotAuthorized:
		return "No authorized sale exists for this identifier."
	case ResultPaymentTooLow:
		return "Payment is below the current marginal price."
	case ResultInsufficientSupply:
		return "No remaining token supply is available for sale."
	case ResultRefundFailed:
		return "The refund transfer failed; the purchase was rolled back."
	case ResultCreatorWithdrawalFailed:
		return "The creator payout failed; the balance was restored."
	case ResultOwnerWithdrawalFailed:
		return "The platform payout failed; the balance was restored."
	case ResultReentrant:
		return "A guarded operation is already in progress."
	case ResultTokenTransferFailed:
		return "The token transfer failed; the purchase was rolled back."
	case ResultAmountOverflow:
		return "Amount exceeds the safe operating range."
	case ResultNotPermitted:
		return "Caller is not the privileged platform account."
	case ResultAssetIssueFailed:
		return "The asset issuer rejected the listing request."
	case ResultInternal:
		return "Internal error; the operation was not applied."
	default:
		return "Unknown result."
	}
}
