package handler

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v3"
	"github.com/holiman/uint256"

	"github.com/bidzyyys/stylus-uniswap-workshop/internal/curve"
	"github.com/bidzyyys/stylus-uniswap-workshop/internal/pool"
	"github.com/bidzyyys/stylus-uniswap-workshop/internal/service"
)

type QuoteHandler struct {
	BaseHandler
	service *service.QuoteService
}

func NewQuoteHandler(logger *slog.Logger, svc *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		BaseHandler: newBaseHandler(logger, "quote"),
		service:     svc,
	}
}

type QuoteRequest struct {
	Amount     string `query:"amount" json:"amount"`
	Input      string `query:"input" json:"input"`
	Output     string `query:"output" json:"output"`
	ZeroForOne string `query:"zero_for_one" json:"zero_for_one"`
}

type quoteParams struct {
	amount     *uint256.Int
	input      common.Address
	output     common.Address
	zeroForOne bool
}

type quoteFunc func(ctx context.Context, amount *uint256.Int, input, output common.Address, zeroForOne bool) (curve.Quote, error)

// ExactInput answers with the output amount for an exact input.
func (h *QuoteHandler) ExactInput() fiber.Handler {
	return h.handle(h.service.ExactInput, func(q curve.Quote) *uint256.Int { return q.AmountOut })
}

// ExactOutput answers with the input amount for an exact output.
func (h *QuoteHandler) ExactOutput() fiber.Handler {
	return h.handle(h.service.ExactOutput, func(q curve.Quote) *uint256.Int { return q.AmountIn })
}

// Version answers with the curve version string.
func (h *QuoteHandler) Version() fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.SendString(h.service.Version())
	}
}

func (h *QuoteHandler) handle(fn quoteFunc, result func(curve.Quote) *uint256.Int) fiber.Handler {
	return func(c fiber.Ctx) error {
		params, err := h.parseAndValidateRequest(c)
		if err != nil {
			return err
		}

		q, err := fn(c.Context(), params.amount, params.input, params.output, params.zeroForOne)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.SendString(result(q).Dec())
	}
}

func (h *QuoteHandler) parseAndValidateRequest(c fiber.Ctx) (*quoteParams, error) {
	var req QuoteRequest

	if err := c.Bind().Query(&req); err != nil {
		h.logger.Debug("failed to bind query parameters", "err", err)
		return nil, ErrInvalidQueryParameters
	}

	if err := h.validateAddresses(&req); err != nil {
		return nil, err
	}

	amount, err := h.parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	if req.ZeroForOne == "" {
		return nil, ErrDirectionRequired
	}
	zeroForOne, err := strconv.ParseBool(req.ZeroForOne)
	if err != nil {
		return nil, ErrInvalidDirection
	}

	return &quoteParams{
		amount:     amount,
		input:      common.HexToAddress(req.Input),
		output:     common.HexToAddress(req.Output),
		zeroForOne: zeroForOne,
	}, nil
}

func (h *QuoteHandler) validateAddresses(req *QuoteRequest) error {
	for _, f := range []struct{ field, addr string }{
		{"input", req.Input},
		{"output", req.Output},
	} {
		if f.addr == "" {
			return NewAddressRequired(f.field)
		}
		if !common.IsHexAddress(f.addr) {
			return NewInvalidAddress(f.field)
		}
	}

	if common.HexToAddress(req.Input) == common.HexToAddress(req.Output) {
		return NewQuoteError(curve.KindIdenticalTokens, pool.ErrIdenticalTokens)
	}

	return nil
}

func (h *QuoteHandler) parseAmount(amountStr string) (*uint256.Int, error) {
	if amountStr == "" {
		return nil, ErrAmountRequired
	}

	amount, err := uint256.FromDecimal(amountStr)
	if err != nil {
		return nil, ErrInvalidAmountFormat
	}

	if amount.IsZero() {
		return nil, ErrAmountNonPositive
	}

	return amount, nil
}

func (h *QuoteHandler) handleServiceError(err error) error {
	kind := curve.Kind(err)
	switch kind {
	case curve.KindUnknown, curve.KindInvalidFee:
		h.logger.Error("service quote failed", "err", err)
		return ErrQuoteFailedInternal
	default:
		return NewQuoteError(kind, err)
	}
}
