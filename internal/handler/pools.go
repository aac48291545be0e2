package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/bidzyyys/stylus-uniswap-workshop/internal/pool"
)

type PoolsHandler struct {
	BaseHandler
	registry *pool.Registry
}

func NewPoolsHandler(logger *slog.Logger, registry *pool.Registry) *PoolsHandler {
	return &PoolsHandler{
		BaseHandler: newBaseHandler(logger, "pools"),
		registry:    registry,
	}
}

type PoolResponse struct {
	Address     string `json:"address"`
	Token0      string `json:"token0"`
	Token1      string `json:"token1"`
	Reserve0    string `json:"reserve0"`
	Reserve1    string `json:"reserve1"`
	Fee         string `json:"fee"`
	BlockNumber uint64 `json:"block_number"`
}

// List answers with every registered pool.
func (h *PoolsHandler) List() fiber.Handler {
	return func(c fiber.Ctx) error {
		pools := h.registry.Pools()
		resp := make([]PoolResponse, 0, len(pools))
		for i := range pools {
			p := &pools[i]
			resp = append(resp, PoolResponse{
				Address:     p.Address.Hex(),
				Token0:      p.Token0.Hex(),
				Token1:      p.Token1.Hex(),
				Reserve0:    p.Reserve0.Dec(),
				Reserve1:    p.Reserve1.Dec(),
				Fee:         p.Fee.String(),
				BlockNumber: p.BlockNumber,
			})
		}
		h.logger.Debug("listing pools", "count", len(resp))
		return c.JSON(resp)
	}
}
