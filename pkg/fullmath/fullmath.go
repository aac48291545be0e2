// Package fullmath provides overflow-checked multiply-divide primitives over
// 256-bit unsigned integers. Products are carried in a 512-bit intermediate so
// a*b may exceed 2^256 as long as the quotient fits.
package fullmath

import (
	"errors"

	"github.com/holiman/uint256"
)

var (
	// ErrArithmeticOverflow is returned when a result does not fit in 256 bits.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	// ErrDivisionByZero is returned when the denominator is zero.
	ErrDivisionByZero = errors.New("division by zero")
)

// MulDiv returns floor(a*b/denominator).
func MulDiv(a, b, denominator *uint256.Int) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, ErrDivisionByZero
	}
	z, overflow := new(uint256.Int).MulDivOverflow(a, b, denominator)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}

// MulDivRoundingUp returns ceil(a*b/denominator).
func MulDivRoundingUp(a, b, denominator *uint256.Int) (*uint256.Int, error) {
	z, err := MulDiv(a, b, denominator)
	if err != nil {
		return nil, err
	}
	if new(uint256.Int).MulMod(a, b, denominator).IsZero() {
		return z, nil
	}
	if _, overflow := z.AddOverflow(z, uint256.NewInt(1)); overflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}

// Mul returns a*b, failing instead of wrapping.
func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}

// Add returns a+b, failing instead of wrapping.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}
