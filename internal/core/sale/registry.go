package sale

import (
	"fmt"
	"math/big"
)

// The registry is append-only: sales are created and looked up, never
// delisted.

// ListSale validates the curve bounds and stores a fresh sale record
// under the externally generated identifier. Identifier collisions are
// impossible by construction, so an existing entry is an invariant
// failure, not a user error.
func ListSale(view StateView, id SaleID, receiver AccountID, priceInit, priceIncrease *big.Int) error {
	exists, err := view.Exists(SaleKey(id))
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("sale %s already listed", id)
	}
	return writeSale(view, id, SaleState{
		Receiver:     receiver,
		CurrentPrice: priceInit,
		IncreaseRate: priceIncrease,
	})
}

// LookupSale returns the sale record, or ok=false for an unknown or
// zero-valued (unauthorized) entry.
func LookupSale(view StateView, id SaleID) (SaleState, bool, error) {
	data, err := view.Read(SaleKey(id))
	if err != nil {
		return SaleState{}, false, err
	}
	if data == nil {
		return SaleState{}, false, nil
	}
	st, err := decodeSale(data)
	if err != nil {
		return SaleState{}, false, err
	}
	if st.IsZero() {
		return SaleState{}, false, nil
	}
	return st, true, nil
}

func writeSale(view StateView, id SaleID, st SaleState) error {
	data, err := encodeSale(st)
	if err != nil {
		return err
	}
	return view.Write(SaleKey(id), data)
}
