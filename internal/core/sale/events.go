package sale

import "math/big"

// Recorder receives the append-only observability records emitted by
// successful operations. Implementations must not fail the operation:
// recording happens after the state transition has committed.
type Recorder interface {
	SaleListed(id SaleID, receiver AccountID, maxSupply *big.Int)
	SaleCompleted(id SaleID, buyer AccountID, tokensTransferred *big.Int)
	RefundIssued(buyer AccountID, amount *big.Int)
	CreatorWithdrew(creator AccountID, amount *big.Int)
	OwnerWithdrew(owner AccountID, amount *big.Int)
	FeeChanged(newFeeBps uint32)
}

// NopRecorder discards all records.
type NopRecorder struct{}

func (NopRecorder) SaleListed(SaleID, AccountID, *big.Int)    {}
func (NopRecorder) SaleCompleted(SaleID, AccountID, *big.Int) {}
func (NopRecorder) RefundIssued(AccountID, *big.Int)          {}
func (NopRecorder) CreatorWithdrew(AccountID, *big.Int)       {}
func (NopRecorder) OwnerWithdrew(AccountID, *big.Int)         {}
func (NopRecorder) FeeChanged(uint32)                         {}
