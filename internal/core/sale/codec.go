package sale

import (
	"fmt"
	"math/big"

	"github.com/ugorji/go/codec"
)

// Entries are encoded as CBOR. Big integers travel as their magnitude
// bytes; every persisted amount is non-negative.
var cborHandle = &codec.CborHandle{}

type saleEntry struct {
	Receiver     [20]byte
	CurrentPrice []byte
	IncreaseRate []byte
}

type balanceEntry struct {
	Amount []byte
}

type feeEntry struct {
	Bps uint32
}

func encodeEntry(v interface{}) ([]byte, error) {
	var out []byte
	enc := codec.NewEncoderBytes(&out, cborHandle)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode entry: %w", err)
	}
	return out, nil
}

func decodeEntry(data []byte, v interface{}) error {
	dec := codec.NewDecoderBytes(data, cborHandle)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode entry: %w", err)
	}
	return nil
}

func encodeSale(st SaleState) ([]byte, error) {
	e := saleEntry{Receiver: st.Receiver}
	if st.CurrentPrice != nil {
		e.CurrentPrice = st.CurrentPrice.Bytes()
	}
	if st.IncreaseRate != nil {
		e.IncreaseRate = st.IncreaseRate.Bytes()
	}
	return encodeEntry(&e)
}

func decodeSale(data []byte) (SaleState, error) {
	var e saleEntry
	if err := decodeEntry(data, &e); err != nil {
		return SaleState{}, err
	}
	return SaleState{
		Receiver:     e.Receiver,
		CurrentPrice: new(big.Int).SetBytes(e.CurrentPrice),
		IncreaseRate: new(big.Int).SetBytes(e.IncreaseRate),
	}, nil
}

func encodeBalance(amount *big.Int) ([]byte, error) {
	e := balanceEntry{}
	if amount != nil {
		e.Amount = amount.Bytes()
	}
	return encodeEntry(&e)
}

func decodeBalance(data []byte) (*big.Int, error) {
	var e balanceEntry
	if err := decodeEntry(data, &e); err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(e.Amount), nil
}

func encodeFee(bps uint32) ([]byte, error) {
	return encodeEntry(&feeEntry{Bps: bps})
}

func decodeFee(data []byte) (uint32, error) {
	var e feeEntry
	if err := decodeEntry(data, &e); err != nil {
		return 0, err
	}
	return e.Bps, nil
}
