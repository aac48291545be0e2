// Package uniswapv2 implements constant-product swap quoting with a
// configurable fee. All functions are pure: inputs are never modified and no
// state is retained between calls.
package uniswapv2

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/bidzyyys/stylus-uniswap-workshop/pkg/fullmath"
)

// GetAmountOut returns the output received for selling amountIn against the
// given reserves:
//
//	amountInWithFee = amountIn * fee.Numerator
//	amountOut = amountInWithFee * reserveOut / (reserveIn * fee.Denominator + amountInWithFee)
//
// The result is rounded down and is always strictly less than reserveOut.
func GetAmountOut(amountIn, reserveIn, reserveOut *uint256.Int, fee Fee) (*uint256.Int, error) {
	if amountIn.IsZero() {
		return nil, ErrInvalidAmount
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, ErrInsufficientLiquidity
	}
	if err := fee.Validate(); err != nil {
		return nil, err
	}

	feeNum, feeDen := uint256.NewInt(fee.Numerator), uint256.NewInt(fee.Denominator)
	amountInWithFee, err := fullmath.Mul(amountIn, feeNum)
	if err != nil {
		return amountOutWide(amountIn, reserveIn, reserveOut, fee)
	}
	// denominator = reserveIn * feeDen + amountInWithFee
	denominator, err := fullmath.Mul(reserveIn, feeDen)
	if err != nil {
		return amountOutWide(amountIn, reserveIn, reserveOut, fee)
	}
	if denominator, err = fullmath.Add(denominator, amountInWithFee); err != nil {
		return amountOutWide(amountIn, reserveIn, reserveOut, fee)
	}
	// numerator may exceed 256 bits; MulDiv keeps the full product
	return fullmath.MulDiv(amountInWithFee, reserveOut, denominator)
}

// GetAmountIn returns the input required to receive exactly amountOut:
//
//	amountIn = ceil(reserveIn * amountOut * fee.Denominator / ((reserveOut - amountOut) * fee.Numerator))
//
// Rounding up guarantees GetAmountOut(GetAmountIn(x)) >= x.
func GetAmountIn(amountOut, reserveIn, reserveOut *uint256.Int, fee Fee) (*uint256.Int, error) {
	if amountOut.IsZero() {
		return nil, ErrInvalidAmount
	}
	if reserveIn.IsZero() || reserveOut.IsZero() || !amountOut.Lt(reserveOut) {
		return nil, ErrInsufficientLiquidity
	}
	if err := fee.Validate(); err != nil {
		return nil, err
	}

	scaledReserveIn, err := fullmath.Mul(reserveIn, uint256.NewInt(fee.Denominator))
	if err != nil {
		return amountInWide(amountOut, reserveIn, reserveOut, fee)
	}
	remaining := new(uint256.Int).Sub(reserveOut, amountOut)
	denominator, err := fullmath.Mul(remaining, uint256.NewInt(fee.Numerator))
	if err != nil {
		return amountInWide(amountOut, reserveIn, reserveOut, fee)
	}
	return fullmath.MulDivRoundingUp(scaledReserveIn, amountOut, denominator)
}

// amountOutWide evaluates GetAmountOut when a fee-scaled term needs more than
// 256 bits. The quotient is below reserveOut, so it always fits.
func amountOutWide(amountIn, reserveIn, reserveOut *uint256.Int, fee Fee) (*uint256.Int, error) {
	withFee := new(big.Int).Mul(amountIn.ToBig(), new(big.Int).SetUint64(fee.Numerator))
	numerator := new(big.Int).Mul(withFee, reserveOut.ToBig())
	denominator := new(big.Int).Mul(reserveIn.ToBig(), new(big.Int).SetUint64(fee.Denominator))
	denominator.Add(denominator, withFee)
	return fromBig(numerator.Quo(numerator, denominator))
}

// amountInWide evaluates GetAmountIn when a fee-scaled term needs more than
// 256 bits. Only the rounded quotient is range checked.
func amountInWide(amountOut, reserveIn, reserveOut *uint256.Int, fee Fee) (*uint256.Int, error) {
	numerator := new(big.Int).Mul(reserveIn.ToBig(), new(big.Int).SetUint64(fee.Denominator))
	numerator.Mul(numerator, amountOut.ToBig())
	remaining := new(big.Int).Sub(reserveOut.ToBig(), amountOut.ToBig())
	denominator := remaining.Mul(remaining, new(big.Int).SetUint64(fee.Numerator))

	quotient, rem := new(big.Int).QuoRem(numerator, denominator, new(big.Int))
	if rem.Sign() != 0 {
		quotient.Add(quotient, big.NewInt(1))
	}
	return fromBig(quotient)
}

func fromBig(v *big.Int) (*uint256.Int, error) {
	z, overflow := uint256.FromBig(v)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}
