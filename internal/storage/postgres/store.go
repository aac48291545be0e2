package postgres

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bidzyyys/stylus-uniswap-workshop/internal/pool"
	"github.com/bidzyyys/stylus-uniswap-workshop/pkg/uniswapv2"
)

const schema = `
CREATE TABLE IF NOT EXISTS curve_pools (
	pool_address    TEXT PRIMARY KEY,
	token0          TEXT NOT NULL,
	token1          TEXT NOT NULL,
	reserve0        NUMERIC(78, 0) NOT NULL,
	reserve1        NUMERIC(78, 0) NOT NULL,
	fee_numerator   BIGINT NOT NULL,
	fee_denominator BIGINT NOT NULL,
	block_number    BIGINT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (token0, token1)
)`

// Store provides Postgres persistence for pool state.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: p}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the pools table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// UpsertPool inserts or updates a pool. Rows are never moved back to an
// older block.
func (s *Store) UpsertPool(ctx context.Context, p pool.Pool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO curve_pools (
			pool_address, token0, token1, reserve0, reserve1, fee_numerator, fee_denominator, block_number
		) VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7, $8)
		ON CONFLICT (pool_address)
		DO UPDATE SET
			reserve0 = EXCLUDED.reserve0,
			reserve1 = EXCLUDED.reserve1,
			block_number = EXCLUDED.block_number,
			updated_at = now()
		WHERE curve_pools.block_number <= EXCLUDED.block_number
	`,
		p.Address.Hex(),
		p.Token0.Hex(),
		p.Token1.Hex(),
		p.Reserve0.Dec(),
		p.Reserve1.Dec(),
		int64(p.Fee.Numerator),
		int64(p.Fee.Denominator),
		int64(p.BlockNumber),
	)
	if err != nil {
		return fmt.Errorf("upsert pool %s: %w", p.Address.Hex(), err)
	}
	return nil
}

// LoadPools returns every stored pool.
func (s *Store) LoadPools(ctx context.Context) ([]pool.Pool, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pool_address, token0, token1, reserve0::text, reserve1::text, fee_numerator, fee_denominator, block_number
		FROM curve_pools
		ORDER BY token0, token1
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pool.Pool
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Seed loads every stored pool into registry.
func (s *Store) Seed(ctx context.Context, registry *pool.Registry) (int, error) {
	pools, err := s.LoadPools(ctx)
	if err != nil {
		return 0, err
	}
	for _, p := range pools {
		if _, err := registry.Upsert(p); err != nil {
			return 0, fmt.Errorf("seed pool %s: %w", p.Address.Hex(), err)
		}
	}
	return len(pools), nil
}

func scanPool(rows pgx.Rows) (pool.Pool, error) {
	var (
		address, token0, token1, reserve0, reserve1 string
		feeNum, feeDen, block                       int64
	)
	if err := rows.Scan(&address, &token0, &token1, &reserve0, &reserve1, &feeNum, &feeDen, &block); err != nil {
		return pool.Pool{}, err
	}

	r0, err := uint256.FromDecimal(reserve0)
	if err != nil {
		return pool.Pool{}, fmt.Errorf("pool %s reserve0: %w", address, err)
	}
	r1, err := uint256.FromDecimal(reserve1)
	if err != nil {
		return pool.Pool{}, fmt.Errorf("pool %s reserve1: %w", address, err)
	}
	return pool.Pool{
		Address:     common.HexToAddress(address),
		Token0:      common.HexToAddress(token0),
		Token1:      common.HexToAddress(token1),
		Reserve0:    *r0,
		Reserve1:    *r1,
		Fee:         uniswapv2.Fee{Numerator: uint64(feeNum), Denominator: uint64(feeDen)},
		BlockNumber: uint64(block),
	}, nil
}
