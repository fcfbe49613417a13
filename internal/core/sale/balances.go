package sale

import "math/big"

// Balance accumulators. Creator balances and the platform fee pool are
// monotonically credited by purchases and zeroed atomically on
// withdrawal; a failed payout restores the pre-withdrawal value.

// CreatorBalance returns a creator's accumulated net proceeds. An
// absent entry reads as zero.
func CreatorBalance(view StateView, creator AccountID) (*big.Int, error) {
	return readBalance(view, CreatorBalanceKey(creator))
}

// PlatformBalance returns the accumulated platform fees.
func PlatformBalance(view StateView) (*big.Int, error) {
	return readBalance(view, PlatformBalanceKey())
}

// FeeRate returns the platform fee rate in basis points. An absent
// entry reads as zero (no fee).
func FeeRate(view StateView) (uint32, error) {
	data, err := view.Read(FeeRateKey())
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, nil
	}
	return decodeFee(data)
}

func readBalance(view StateView, k Key) (*big.Int, error) {
	data, err := view.Read(k)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return new(big.Int), nil
	}
	return decodeBalance(data)
}

func writeBalance(view StateView, k Key, amount *big.Int) error {
	data, err := encodeBalance(amount)
	if err != nil {
		return err
	}
	return view.Write(k, data)
}

func creditBalance(view StateView, k Key, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	cur, err := readBalance(view, k)
	if err != nil {
		return err
	}
	return writeBalance(view, k, cur.Add(cur, amount))
}

func writeFeeRate(view StateView, bps uint32) error {
	data, err := encodeFee(bps)
	if err != nil {
		return err
	}
	return view.Write(FeeRateKey(), data)
}
