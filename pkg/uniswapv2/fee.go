package uniswapv2

import (
	"fmt"
	"strconv"
	"strings"
)

// Fee is the fraction of the input that reaches the curve, e.g. 997/1000 for
// a 0.3% fee.
type Fee struct {
	Numerator   uint64 `json:"numerator"`
	Denominator uint64 `json:"denominator"`
}

// DefaultFee is the canonical Uniswap V2 pair fee.
var DefaultFee = Fee{Numerator: 997, Denominator: 1000}

// Validate reports ErrInvalidFee unless 0 < Numerator <= Denominator.
func (f Fee) Validate() error {
	if f.Denominator == 0 || f.Numerator == 0 || f.Numerator > f.Denominator {
		return fmt.Errorf("%w: %d/%d", ErrInvalidFee, f.Numerator, f.Denominator)
	}
	return nil
}

func (f Fee) String() string {
	return strconv.FormatUint(f.Numerator, 10) + "/" + strconv.FormatUint(f.Denominator, 10)
}

// ParseFee parses a fee written as "numerator/denominator".
func ParseFee(s string) (Fee, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return Fee{}, fmt.Errorf("%w: expected numerator/denominator, got %q", ErrInvalidFee, s)
	}
	n, err := strconv.ParseUint(strings.TrimSpace(num), 10, 64)
	if err != nil {
		return Fee{}, fmt.Errorf("%w: numerator: %v", ErrInvalidFee, err)
	}
	d, err := strconv.ParseUint(strings.TrimSpace(den), 10, 64)
	if err != nil {
		return Fee{}, fmt.Errorf("%w: denominator: %v", ErrInvalidFee, err)
	}
	fee := Fee{Numerator: n, Denominator: d}
	if err := fee.Validate(); err != nil {
		return Fee{}, err
	}
	return fee, nil
}
