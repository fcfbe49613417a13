package testing

import "math/big"

// unitScale is the number of base units in one whole token.
var unitScale = new(big.Int).SetUint64(1e18)

// Units returns n whole tokens in base units.
func Units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), unitScale)
}

// Raw parses a decimal base-unit amount. It panics on malformed input,
// which keeps test fixtures terse.
func Raw(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("testing: bad amount: " + s)
	}
	return n
}
