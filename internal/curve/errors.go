package curve

import (
	"errors"

	"github.com/bidzyyys/stylus-uniswap-workshop/internal/pool"
	"github.com/bidzyyys/stylus-uniswap-workshop/pkg/fullmath"
	"github.com/bidzyyys/stylus-uniswap-workshop/pkg/uniswapv2"
)

// ErrDirectionMismatch is returned when the zeroForOne flag disagrees with
// the direction implied by the input and output tokens.
var ErrDirectionMismatch = errors.New("zeroForOne does not match input/output tokens")

// ErrorKind names the reason a quote call reverted.
type ErrorKind string

const (
	KindArithmeticOverflow    ErrorKind = "ArithmeticOverflow"
	KindDivisionByZero        ErrorKind = "DivisionByZero"
	KindPoolNotFound          ErrorKind = "PoolNotFound"
	KindIdenticalTokens       ErrorKind = "IdenticalTokens"
	KindInsufficientLiquidity ErrorKind = "InsufficientLiquidity"
	KindInvalidAmount         ErrorKind = "InvalidAmount"
	KindDirectionMismatch     ErrorKind = "DirectionMismatch"
	KindInvalidFee            ErrorKind = "InvalidFee"
	KindUnknown               ErrorKind = "Unknown"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{fullmath.ErrArithmeticOverflow, KindArithmeticOverflow},
	{fullmath.ErrDivisionByZero, KindDivisionByZero},
	{pool.ErrPoolNotFound, KindPoolNotFound},
	{pool.ErrIdenticalTokens, KindIdenticalTokens},
	{uniswapv2.ErrInsufficientLiquidity, KindInsufficientLiquidity},
	{uniswapv2.ErrInvalidAmount, KindInvalidAmount},
	{ErrDirectionMismatch, KindDirectionMismatch},
	{uniswapv2.ErrInvalidFee, KindInvalidFee},
}

// Kind classifies err. A nil error has no kind and returns "".
func Kind(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}
