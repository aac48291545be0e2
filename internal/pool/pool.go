// Package pool holds per-pair reserve state and resolves caller-supplied
// token pairs to their canonical pool and swap direction.
package pool

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/bidzyyys/stylus-uniswap-workshop/pkg/uniswapv2"
)

// Pool is a constant-product pair. Token0 < Token1 byte-wise.
type Pool struct {
	Address     common.Address
	Token0      common.Address
	Token1      common.Address
	Reserve0    uint256.Int
	Reserve1    uint256.Int
	Fee         uniswapv2.Fee
	BlockNumber uint64
}

// Ref identifies a pool by its canonical token pair.
type Ref struct {
	Token0 common.Address
	Token1 common.Address
}

// Ref returns the canonical reference of p.
func (p *Pool) Ref() Ref {
	return Ref{Token0: p.Token0, Token1: p.Token1}
}

// Snapshot is a copy of a pool's pricing inputs taken atomically.
type Snapshot struct {
	Address     common.Address
	Ref         Ref
	Reserve0    uint256.Int
	Reserve1    uint256.Int
	Fee         uniswapv2.Fee
	BlockNumber uint64
}

// Oriented returns (reserveIn, reserveOut) for a trade in direction d.
func (s Snapshot) Oriented(d Direction) (reserveIn, reserveOut *uint256.Int) {
	r0, r1 := s.Reserve0.Clone(), s.Reserve1.Clone()
	if d == ZeroForOne {
		return r0, r1
	}
	return r1, r0
}

// Direction says which canonical token is being sold.
type Direction uint8

const (
	// ZeroForOne sells Token0 for Token1.
	ZeroForOne Direction = iota
	// OneForZero sells Token1 for Token0.
	OneForZero
)

// DirectionOf converts a zeroForOne flag to a Direction.
func DirectionOf(zeroForOne bool) Direction {
	if zeroForOne {
		return ZeroForOne
	}
	return OneForZero
}

// ZeroForOne reports whether d sells Token0.
func (d Direction) ZeroForOne() bool {
	return d == ZeroForOne
}

// Inverse returns the opposite direction.
func (d Direction) Inverse() Direction {
	if d == ZeroForOne {
		return OneForZero
	}
	return ZeroForOne
}

func (d Direction) String() string {
	if d == ZeroForOne {
		return "zero_for_one"
	}
	return "one_for_zero"
}

// SortTokens returns a and b in canonical order.
func SortTokens(a, b common.Address) (token0, token1 common.Address, err error) {
	switch bytes.Compare(a.Bytes(), b.Bytes()) {
	case 0:
		return common.Address{}, common.Address{}, ErrIdenticalTokens
	case -1:
		return a, b, nil
	default:
		return b, a, nil
	}
}
