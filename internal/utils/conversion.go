/*
This file contains the shared integer arithmetic helpers for the pool and
farm engines: floor square root for first-deposit share seeding, floored
multiply-divide for the proportional formulas, and display conversion for
the web layer.
*/

package utils

import (
	"errors"
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
)

// Error definitions for zero-tolerance error handling
var (
	ErrAmountNil        = errors.New("amount is nil")
	ErrAmountNegative   = errors.New("amount is negative")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrInvalidPrecision = errors.New("precision is invalid")
	ErrParseFailed      = errors.New("amount parse failed")
)

// IntSqrt returns floor(sqrt(v)). Used to seed the first liquidity deposit
// from the geometric mean of the two deposited amounts.
func IntSqrt(v sdkmath.Int) (sdkmath.Int, error) {
	if v.IsNil() {
		return sdkmath.ZeroInt(), ErrAmountNil
	}
	if v.IsNegative() {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: %s", ErrAmountNegative, v)
	}
	root := new(big.Int).Sqrt(v.BigInt())
	return sdkmath.NewIntFromBigInt(root), nil
}

// MulDiv returns floor(a * b / den). The intermediate product is arbitrary
// precision, so large reserves never overflow. Truncation toward zero is the
// engine-wide rounding policy: every division favors the pool.
func MulDiv(a, b, den sdkmath.Int) (sdkmath.Int, error) {
	if a.IsNil() || b.IsNil() || den.IsNil() {
		return sdkmath.ZeroInt(), ErrAmountNil
	}
	if a.IsNegative() || b.IsNegative() || den.IsNegative() {
		return sdkmath.ZeroInt(), ErrAmountNegative
	}
	if den.IsZero() {
		return sdkmath.ZeroInt(), ErrDivisionByZero
	}
	return a.Mul(b).Quo(den), nil
}

// ParseAmount parses a non-negative base-10 integer amount.
func ParseAmount(s string) (sdkmath.Int, error) {
	v, ok := sdkmath.NewIntFromString(s)
	if !ok {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: %q", ErrParseFailed, s)
	}
	if v.IsNegative() {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: %q", ErrAmountNegative, s)
	}
	return v, nil
}

// AmountToDisplay converts a base-unit amount to a human-readable decimal
// string using the given precision (number of base-10 fractional digits).
func AmountToDisplay(amount sdkmath.Int, precision int) (string, error) {
	if precision < 0 || precision > 18 {
		return "", fmt.Errorf("%w: %d (must be between 0 and 18)", ErrInvalidPrecision, precision)
	}
	if amount.IsNil() {
		return "", ErrAmountNil
	}
	dec := sdkmath.LegacyNewDecFromIntWithPrec(amount, int64(precision))
	return dec.String(), nil
}
