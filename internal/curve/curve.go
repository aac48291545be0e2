// Package curve exposes the constant-product quoting surface: a version
// string plus exact-input and exact-output quotes resolved through the pool
// registry. Quotes never modify pool state.
package curve

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/bidzyyys/stylus-uniswap-workshop/internal/pool"
	"github.com/bidzyyys/stylus-uniswap-workshop/pkg/uniswapv2"
)

// Curve quotes swaps against the pools held by a registry.
type Curve struct {
	version VersionRecord
	pools   *pool.Registry
	sink    EventSink
}

type Option func(*Curve)

// WithEventSink routes quote events to sink.
func WithEventSink(sink EventSink) Option {
	return func(c *Curve) {
		if sink != nil {
			c.sink = sink
		}
	}
}

func New(version string, pools *pool.Registry, opts ...Option) (*Curve, error) {
	if pools == nil {
		return nil, fmt.Errorf("curve: pool registry is required")
	}
	c := &Curve{pools: pools, sink: discardSink{}}
	if err := c.version.Initialize(version); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Version returns the version set at construction.
func (c *Curve) Version() string {
	v, _ := c.version.Get()
	return v
}

// Quote describes one priced trade and the pool state it was priced on.
type Quote struct {
	Pool        common.Address
	Ref         pool.Ref
	Direction   pool.Direction
	AmountIn    *uint256.Int
	AmountOut   *uint256.Int
	ReserveIn   *uint256.Int
	ReserveOut  *uint256.Int
	Fee         uniswapv2.Fee
	BlockNumber uint64
}

// GetAmountOutFromExactInput returns the output received for selling
// amountIn of input for output.
func (c *Curve) GetAmountOutFromExactInput(amountIn *uint256.Int, input, output common.Address, zeroForOne bool) (*uint256.Int, error) {
	q, err := c.QuoteExactInput(amountIn, input, output, zeroForOne)
	if err != nil {
		return nil, err
	}
	return q.AmountOut, nil
}

// GetAmountInForExactOutput returns the input required to receive exactly
// amountOut of output.
func (c *Curve) GetAmountInForExactOutput(amountOut *uint256.Int, input, output common.Address, zeroForOne bool) (*uint256.Int, error) {
	q, err := c.QuoteExactOutput(amountOut, input, output, zeroForOne)
	if err != nil {
		return nil, err
	}
	return q.AmountIn, nil
}

// QuoteExactInput is GetAmountOutFromExactInput returning the full quote.
func (c *Curve) QuoteExactInput(amountIn *uint256.Int, input, output common.Address, zeroForOne bool) (Quote, error) {
	q, err := c.prepare(input, output, zeroForOne)
	if err != nil {
		return Quote{}, err
	}
	amountOut, err := uniswapv2.GetAmountOut(amountIn, q.ReserveIn, q.ReserveOut, q.Fee)
	if err != nil {
		return Quote{}, fmt.Errorf("exact input: %w", err)
	}
	q.AmountIn, q.AmountOut = amountIn.Clone(), amountOut

	c.emit(q.Pool, CalculatedEvent{
		Name:       EventAmountOutCalculated,
		Amount:     q.AmountIn,
		Input:      input,
		Output:     output,
		ZeroForOne: zeroForOne,
	})
	return q, nil
}

// QuoteExactOutput is GetAmountInForExactOutput returning the full quote.
func (c *Curve) QuoteExactOutput(amountOut *uint256.Int, input, output common.Address, zeroForOne bool) (Quote, error) {
	q, err := c.prepare(input, output, zeroForOne)
	if err != nil {
		return Quote{}, err
	}
	amountIn, err := uniswapv2.GetAmountIn(amountOut, q.ReserveIn, q.ReserveOut, q.Fee)
	if err != nil {
		return Quote{}, fmt.Errorf("exact output: %w", err)
	}
	q.AmountIn, q.AmountOut = amountIn, amountOut.Clone()

	c.emit(q.Pool, CalculatedEvent{
		Name:       EventAmountInCalculated,
		Amount:     q.AmountOut,
		Input:      input,
		Output:     output,
		ZeroForOne: zeroForOne,
	})
	return q, nil
}

// prepare resolves the pool once per call and orients a single snapshot of
// its reserves.
func (c *Curve) prepare(input, output common.Address, zeroForOne bool) (Quote, error) {
	ref, dir, err := c.pools.Resolve(input, output)
	if err != nil {
		return Quote{}, fmt.Errorf("resolve pool: %w", err)
	}
	if dir.ZeroForOne() != zeroForOne {
		return Quote{}, fmt.Errorf("%w: input %s is token%d", ErrDirectionMismatch, input.Hex(), tokenIndex(dir))
	}
	snap, err := c.pools.Snapshot(ref)
	if err != nil {
		return Quote{}, fmt.Errorf("snapshot pool: %w", err)
	}
	reserveIn, reserveOut := snap.Oriented(dir)
	return Quote{
		Pool:        snap.Address,
		Ref:         ref,
		Direction:   dir,
		ReserveIn:   reserveIn,
		ReserveOut:  reserveOut,
		Fee:         snap.Fee,
		BlockNumber: snap.BlockNumber,
	}, nil
}

func (c *Curve) emit(emitter common.Address, ev CalculatedEvent) {
	log, err := encodeEvent(emitter, ev)
	if err != nil {
		// the ABI is a package constant; failure here is a programming error
		panic(err)
	}
	c.sink.Emit(log)
}

func tokenIndex(d pool.Direction) int {
	if d.ZeroForOne() {
		return 0
	}
	return 1
}
