// Package pricing implements the linear bonding-curve math used by the
// sale engine. All functions are pure, operate on big.Int values in base
// units, and use truncating (floor) division throughout so that the
// quantity solve and the inverse cost computation round in the same
// direction.
package pricing

import (
	"errors"
	"math/big"
)

// Unit is the fixed-point scale: one whole token-unit equals Unit base
// units.
var Unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Curve parameter bounds. Both the initial price and the per-unit
// increase rate must stay within [MinCurveParam, MaxCurveParam]; the
// lower bound keeps the continuous-curve approximation error below
// ~0.01%, the upper bound keeps the quadratic solve away from overflow.
var (
	MinCurveParam = big.NewInt(5000)
	MaxCurveParam = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
)

// MaxAmount is the fail-fast magnitude bound on payments and token
// quantities. Values up to ~1e50 are well inside the safe operating
// range of the quadratic solve; above ~1e58 the discriminant would no
// longer fit the range Isqrt is tuned for, so anything past this bound
// is rejected as a caller contract violation rather than computed.
var MaxAmount = new(big.Int).Exp(big.NewInt(10), big.NewInt(58), nil)

var (
	// ErrAmountTooLarge reports an input beyond MaxAmount.
	ErrAmountTooLarge = errors.New("pricing: amount exceeds safe operating range")

	// ErrInvalidCurve reports non-positive curve parameters.
	ErrInvalidCurve = errors.New("pricing: curve parameters must be positive")

	// ErrNegativeAmount reports a negative payment or quantity.
	ErrNegativeAmount = errors.New("pricing: amount must not be negative")
)

// newtonSteps is the fixed number of Newton-Raphson refinements in
// Isqrt. The discriminant in TokensForPayment is bounded by
// MaxCurveParam^2 + 2*MaxCurveParam*MaxAmount < 2^256, and from a
// bit-length initial estimate (relative error <= 1) eight quadratic
// refinements push the error below one, which the final correction
// then removes.
const newtonSteps = 8

// Isqrt returns the largest r such that r*r <= x (floor square root).
// Negative or zero input yields zero. The estimate starts from the bit
// length of x, is refined by a fixed number of Newton-Raphson steps,
// and is finally corrected by taking the smaller of r and x/r, which
// guards against overshoot from truncated integer division.
func Isqrt(x *big.Int) *big.Int {
	if x.Sign() <= 0 {
		return new(big.Int)
	}

	// Initial estimate 2^ceil(bits/2) >= sqrt(x).
	r := new(big.Int).Lsh(big.NewInt(1), uint(x.BitLen()+1)/2)

	t := new(big.Int)
	for i := 0; i < newtonSteps; i++ {
		t.Quo(x, r)
		t.Add(t, r)
		t.Rsh(t, 1)
		r, t = t, r
	}

	q := new(big.Int).Quo(x, r)
	if q.Cmp(r) < 0 {
		return q
	}
	return r
}

// TokensForPayment solves the continuous linear curve
// price(n) = price0 + inc*n for the quantity n (scaled by Unit) whose
// integral cost equals payment:
//
//	n = Unit * ((inc/2) + sqrt((price0 - inc/2)^2 + 2*inc*payment) - price0) / inc
//
// The continuous curve approximates the discrete per-unit step
// function; within the enforced curve bounds the relative error stays
// around 0.01%. Division truncates, so the result never overstates the
// quantity the payment covers.
func TokensForPayment(payment, price0, inc *big.Int) (*big.Int, error) {
	if err := checkAmount(payment); err != nil {
		return nil, err
	}
	if price0 == nil || inc == nil || price0.Sign() <= 0 || inc.Sign() <= 0 {
		return nil, ErrInvalidCurve
	}

	halfInc := new(big.Int).Rsh(inc, 1)

	// d may go negative when inc > 2*price0; squaring makes that fine.
	d := new(big.Int).Sub(price0, halfInc)
	disc := new(big.Int).Mul(d, d)

	twoIncPay := new(big.Int).Mul(inc, payment)
	twoIncPay.Lsh(twoIncPay, 1)
	disc.Add(disc, twoIncPay)

	num := Isqrt(disc)
	num.Add(num, halfInc)
	num.Sub(num, price0)
	if num.Sign() < 0 {
		// Only reachable through isqrt flooring at tiny payments.
		return new(big.Int), nil
	}

	num.Mul(num, Unit)
	return num.Quo(num, inc), nil
}

// ExpenseForTokens returns the total cost of a known quantity of
// token-units on the curve:
//
//	a = tokens*inc/Unit; b = 2*price0 - inc; expense = a*(a+b)/(2*inc)
//
// which is the discrete sum of per-unit marginal prices. Division
// truncates toward zero in the same direction as TokensForPayment, so
// ExpenseForTokens(TokensForPayment(p), ...) <= p for every valid p.
// In the sub-unit regime (tokens*inc/Unit smaller than inc - 2*price0)
// the closed form dips below zero and is clamped to zero.
func ExpenseForTokens(tokens, price0, inc *big.Int) (*big.Int, error) {
	if err := checkAmount(tokens); err != nil {
		return nil, err
	}
	if price0 == nil || inc == nil || price0.Sign() <= 0 || inc.Sign() <= 0 {
		return nil, ErrInvalidCurve
	}

	a := new(big.Int).Mul(tokens, inc)
	a.Quo(a, Unit)

	b := new(big.Int).Lsh(price0, 1)
	b.Sub(b, inc)

	e := new(big.Int).Add(a, b)
	e.Mul(e, a)

	twoInc := new(big.Int).Lsh(inc, 1)
	e.Quo(e, twoInc)
	if e.Sign() < 0 {
		return new(big.Int), nil
	}
	return e, nil
}

// CurveParamInRange reports whether a curve parameter satisfies the
// [MinCurveParam, MaxCurveParam] listing bound.
func CurveParamInRange(p *big.Int) bool {
	return p != nil && p.Cmp(MinCurveParam) >= 0 && p.Cmp(MaxCurveParam) <= 0
}

func checkAmount(x *big.Int) error {
	if x == nil || x.Sign() < 0 {
		return ErrNegativeAmount
	}
	if x.Cmp(MaxAmount) > 0 {
		return ErrAmountTooLarge
	}
	return nil
}
