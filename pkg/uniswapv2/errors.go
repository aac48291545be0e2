package uniswapv2

import (
	"errors"

	"github.com/bidzyyys/stylus-uniswap-workshop/pkg/fullmath"
)

var (
	// ErrInvalidAmount is returned for a zero input or output amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientLiquidity is returned when a reserve is empty or the
	// requested output would drain the pool.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrInvalidFee is returned for a fee outside (0, 1].
	ErrInvalidFee = errors.New("invalid fee")

	ErrArithmeticOverflow = fullmath.ErrArithmeticOverflow
	ErrDivisionByZero     = fullmath.ErrDivisionByZero
)
