package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bidzyyys/stylus-uniswap-workshop/pkg/uniswapv2"
)

type Config struct {
	Addr          string
	RPCEndpoint   string
	LogLevel      string
	LogFormat     string
	Version       string
	PoolAddresses []common.Address
	PoolFee       uniswapv2.Fee
	SyncInterval  time.Duration
	SyncTimeout   time.Duration
	PostgresDSN   string
}

func FromEnv() (*Config, error) {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":1337"
	}

	rpcURL := os.Getenv("ETH_RPC_URL")
	if rpcURL == "" {
		return nil, ErrMissingRPCEndpoint
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "text"
	}

	version := os.Getenv("CURVE_VERSION")
	if version == "" {
		version = "v1.0.0"
	}

	pools, err := parseAddresses(os.Getenv("POOL_ADDRESSES"))
	if err != nil {
		return nil, err
	}

	fee := uniswapv2.DefaultFee
	if raw := os.Getenv("POOL_FEE"); raw != "" {
		if fee, err = uniswapv2.ParseFee(raw); err != nil {
			return nil, fmt.Errorf("POOL_FEE: %w", err)
		}
	}

	interval := 12 * time.Second
	if raw := os.Getenv("SYNC_INTERVAL"); raw != "" {
		if interval, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("SYNC_INTERVAL: %w", err)
		}
		if interval <= 0 {
			return nil, ErrInvalidSyncInterval
		}
	}

	timeout := 10 * time.Second
	if raw := os.Getenv("SYNC_TIMEOUT"); raw != "" {
		if timeout, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("SYNC_TIMEOUT: %w", err)
		}
		if timeout <= 0 {
			return nil, ErrInvalidSyncTimeout
		}
	}

	cfg := &Config{
		Addr:          addr,
		RPCEndpoint:   rpcURL,
		LogLevel:      logLevel,
		LogFormat:     logFormat,
		Version:       version,
		PoolAddresses: pools,
		PoolFee:       fee,
		SyncInterval:  interval,
		SyncTimeout:   timeout,
		PostgresDSN:   os.Getenv("PG_DSN"),
	}

	return cfg, nil
}

func parseAddresses(raw string) ([]common.Address, error) {
	var out []common.Address
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !common.IsHexAddress(part) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPoolAddress, part)
		}
		out = append(out, common.HexToAddress(part))
	}
	return out, nil
}
