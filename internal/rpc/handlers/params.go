package handlers

import (
	"math/big"

	"github.com/curvemint/curved/internal/core/sale"
)

// Parameter extraction helpers. Amounts travel as decimal strings so
// that values beyond float64 precision survive JSON transport.

// StringParam returns the named string parameter.
func StringParam(params map[string]interface{}, name string) (string, *Error) {
	v, ok := params[name]
	if !ok {
		return "", InvalidParams("missing field %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", InvalidParams("field %q must be a string", name)
	}
	return s, nil
}

// OptionalStringParam returns the named string parameter or the empty
// string when absent.
func OptionalStringParam(params map[string]interface{}, name string) (string, *Error) {
	v, ok := params[name]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", InvalidParams("field %q must be a string", name)
	}
	return s, nil
}

// AmountParam parses the named parameter as a non-negative decimal
// big integer string.
func AmountParam(params map[string]interface{}, name string) (*big.Int, *Error) {
	s, err := StringParam(params, name)
	if err != nil {
		return nil, err
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, InvalidParams("field %q must be a non-negative decimal integer", name)
	}
	return v, nil
}

// AccountParam parses the named parameter as a hex account identifier.
func AccountParam(params map[string]interface{}, name string) (sale.AccountID, *Error) {
	s, err := StringParam(params, name)
	if err != nil {
		return sale.AccountID{}, err
	}
	account, perr := sale.ParseAccountID(s)
	if perr != nil {
		return sale.AccountID{}, InvalidParams("%v", perr)
	}
	return account, nil
}

// SaleIDParam parses the named parameter as a hex sale identifier.
func SaleIDParam(params map[string]interface{}, name string) (sale.SaleID, *Error) {
	s, err := StringParam(params, name)
	if err != nil {
		return sale.SaleID{}, err
	}
	id, perr := sale.ParseSaleID(s)
	if perr != nil {
		return sale.SaleID{}, InvalidParams("%v", perr)
	}
	return id, nil
}

// UintParam parses the named parameter as an unsigned integer. JSON
// numbers arrive as float64.
func UintParam(params map[string]interface{}, name string) (uint64, *Error) {
	v, ok := params[name]
	if !ok {
		return 0, InvalidParams("missing field %q", name)
	}
	switch n := v.(type) {
	case float64:
		if n < 0 || n != float64(uint64(n)) {
			return 0, InvalidParams("field %q must be a non-negative integer", name)
		}
		return uint64(n), nil
	default:
		return 0, InvalidParams("field %q must be a number", name)
	}
}
