package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/holiman/uint256"

	"github.com/bidzyyys/stylus-uniswap-workshop/internal/metrics"
	"github.com/bidzyyys/stylus-uniswap-workshop/internal/pool"
	"github.com/bidzyyys/stylus-uniswap-workshop/pkg/uniswapv2"
)

// PoolStore persists pools read from chain.
type PoolStore interface {
	UpsertPool(ctx context.Context, p pool.Pool) error
}

// SyncService keeps the registry's reserves in step with Uniswap V2 pair
// contracts by reading their storage directly.
type SyncService struct {
	BaseService
	ethereumClient *ethclient.Client
	registry       *pool.Registry
	fee            uniswapv2.Fee
	store          PoolStore
	callTimeout    time.Duration
}

// DefaultSyncTimeout bounds the chain reads for one pool.
const DefaultSyncTimeout = 10 * time.Second

type SyncOption func(*SyncService)

// WithCallTimeout bounds each SyncPool call made by SyncAll. Non-positive
// values keep the default.
func WithCallTimeout(d time.Duration) SyncOption {
	return func(s *SyncService) {
		if d > 0 {
			s.callTimeout = d
		}
	}
}

// NewSyncService constructs a SyncService. store may be nil.
func NewSyncService(logger *slog.Logger, ec *ethclient.Client, registry *pool.Registry, fee uniswapv2.Fee, store PoolStore, opts ...SyncOption) *SyncService {
	s := &SyncService{
		BaseService:    newBaseService(logger, "sync"),
		ethereumClient: ec,
		registry:       registry,
		fee:            fee,
		store:          store,
		callTimeout:    DefaultSyncTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// contract UniswapV2Pair is IUniswapV2Pair, UniswapV2ERC20 {
//     address public factory;            // slot 5
//     address public token0;             // slot 6
//     address public token1;             // slot 7
//
//     uint112 private reserve0;          // slot 8
//     uint112 private reserve1;          // slot 8
//     uint32  private blockTimestampLast; // slot 8
const (
	slotToken0   = 6
	slotToken1   = 7
	slotReserves = 8
)

// SyncPool reads token0, token1 and reserves of the pair at address from a
// single block and applies them to the registry.
func (s *SyncService) SyncPool(ctx context.Context, address common.Address) (pool.Pool, error) {
	bn, err := s.ethereumClient.BlockNumber(ctx)
	if err != nil {
		return pool.Pool{}, fmt.Errorf("block number: %w", err)
	}
	blockNum := new(big.Int).SetUint64(bn)

	token0, token1, err := s.loadTokens(ctx, address, blockNum)
	if err != nil {
		return pool.Pool{}, err
	}
	if token0 == token1 {
		return pool.Pool{}, fmt.Errorf("%w: %s", ErrPoolNotPair, address.Hex())
	}

	br, err := s.readSlot(ctx, address, blockNum, slotReserves)
	if err != nil {
		return pool.Pool{}, err
	}
	reserve0, reserve1, ts := parseReserves(br)

	p := pool.Pool{
		Address:     address,
		Token0:      token0,
		Token1:      token1,
		Reserve0:    *reserve0,
		Reserve1:    *reserve1,
		Fee:         s.fee,
		BlockNumber: bn,
	}
	changed, err := s.registry.Upsert(p)
	if err != nil {
		return pool.Pool{}, err
	}
	s.logger.Debug("pool synced", "pool", address.Hex(), "block", bn, "reserve0", reserve0.Dec(), "reserve1", reserve1.Dec(), "timestamp", ts, "changed", changed)

	if changed && s.store != nil {
		if err := s.store.UpsertPool(ctx, p); err != nil {
			return pool.Pool{}, fmt.Errorf("persist pool %s: %w", address.Hex(), err)
		}
	}
	return p, nil
}

// SyncAll syncs every address, continuing past individual failures. Each
// pool gets its own callTimeout.
func (s *SyncService) SyncAll(ctx context.Context, addresses []common.Address) error {
	if len(addresses) == 0 {
		return ErrNoPoolsToSync
	}
	var errs []error
	for _, addr := range addresses {
		p, err := s.syncWithTimeout(ctx, addr)
		if err != nil {
			metrics.ReserveSyncs.WithLabelValues("error").Inc()
			s.logger.Warn("pool sync failed", "pool", addr.Hex(), "err", err)
			errs = append(errs, err)
			continue
		}
		metrics.ReserveSyncs.WithLabelValues("ok").Inc()
		metrics.LastSyncedBlock.Set(float64(p.BlockNumber))
	}
	metrics.PoolCount.Set(float64(s.registry.Len()))
	return errors.Join(errs...)
}

// Run syncs all addresses immediately and then every interval until ctx is
// cancelled.
func (s *SyncService) Run(ctx context.Context, addresses []common.Address, interval time.Duration) error {
	if err := s.SyncAll(ctx, addresses); err != nil {
		if errors.Is(err, ErrNoPoolsToSync) {
			return err
		}
		s.logger.Warn("initial sync incomplete", "err", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.SyncAll(ctx, addresses); err != nil && ctx.Err() == nil {
				s.logger.Warn("sync incomplete", "err", err)
			}
		}
	}
}

func (s *SyncService) syncWithTimeout(ctx context.Context, address common.Address) (pool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.SyncPool(ctx, address)
}

func (s *SyncService) readSlot(ctx context.Context, address common.Address, blockNum *big.Int, slot uint64) ([]byte, error) {
	key := common.BigToHash(new(big.Int).SetUint64(slot))
	b, err := s.ethereumClient.StorageAt(ctx, address, key, blockNum)
	if err != nil {
		return nil, fmt.Errorf("storageAt slot %d (pool %s, block %s): %w",
			slot, address.Hex(), blockNum.String(), err)
	}
	return b, nil
}

func (s *SyncService) loadTokens(ctx context.Context, address common.Address, blockNum *big.Int) (common.Address, common.Address, error) {
	b0, err := s.readSlot(ctx, address, blockNum, slotToken0)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	b1, err := s.readSlot(ctx, address, blockNum, slotToken1)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	return common.BytesToAddress(b0), common.BytesToAddress(b1), nil
}

// parseReserves unpacks the reserve slot of a Uniswap V2 pair:
//
//	[ 32 bits timestamp | 112 bits reserve1 | 112 bits reserve0 ]
//
// Values are big-endian within the 256-bit word.
func parseReserves(b []byte) (reserve0, reserve1 *uint256.Int, timestamp uint32) {
	v := new(uint256.Int).SetBytes(b)
	mask112 := new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 112), uint256.NewInt(1))

	reserve0 = new(uint256.Int).And(v, mask112)
	reserve1 = new(uint256.Int).And(new(uint256.Int).Rsh(v, 112), mask112)
	timestamp = uint32(new(uint256.Int).Rsh(v, 224).Uint64())
	return
}
