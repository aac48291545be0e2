package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/bidzyyys/stylus-uniswap-workshop/internal/curve"
	"github.com/bidzyyys/stylus-uniswap-workshop/internal/metrics"
)

// QuoteService prices swaps through the curve and records metrics for each
// request.
type QuoteService struct {
	BaseService
	curve *curve.Curve
}

func NewQuoteService(logger *slog.Logger, c *curve.Curve) *QuoteService {
	return &QuoteService{
		BaseService: newBaseService(logger, "quote"),
		curve:       c,
	}
}

func (s *QuoteService) Version() string {
	return s.curve.Version()
}

// ExactInput quotes the output for selling amountIn of input.
func (s *QuoteService) ExactInput(ctx context.Context, amountIn *uint256.Int, input, output common.Address, zeroForOne bool) (curve.Quote, error) {
	return s.quote(ctx, metrics.ModeExactIn, amountIn, input, output, zeroForOne, s.curve.QuoteExactInput)
}

// ExactOutput quotes the input required to buy amountOut of output.
func (s *QuoteService) ExactOutput(ctx context.Context, amountOut *uint256.Int, input, output common.Address, zeroForOne bool) (curve.Quote, error) {
	return s.quote(ctx, metrics.ModeExactOut, amountOut, input, output, zeroForOne, s.curve.QuoteExactOutput)
}

type quoteFunc func(amount *uint256.Int, input, output common.Address, zeroForOne bool) (curve.Quote, error)

func (s *QuoteService) quote(ctx context.Context, mode string, amount *uint256.Int, input, output common.Address, zeroForOne bool, fn quoteFunc) (curve.Quote, error) {
	if err := ctx.Err(); err != nil {
		return curve.Quote{}, err
	}
	s.logger.Debug("quoting swap", "mode", mode, "input", input.Hex(), "output", output.Hex(), "amount", amount.Dec(), "zero_for_one", zeroForOne)

	start := time.Now()
	q, err := fn(amount, input, output, zeroForOne)
	metrics.QuoteDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.QuoteRequests.WithLabelValues(mode, string(curve.Kind(err))).Inc()
		return curve.Quote{}, err
	}
	metrics.QuoteRequests.WithLabelValues(mode, "ok").Inc()

	s.logger.Debug("quote computed", "mode", mode, "pool", q.Pool.Hex(), "in", q.AmountIn.Dec(), "out", q.AmountOut.Dec(), "block", q.BlockNumber)
	return q, nil
}
