package config

import "errors"

// ErrMissingRPCEndpoint indicates that the required ETH_RPC_URL variable is
// not set in the environment.
var ErrMissingRPCEndpoint = errors.New("missing ETH_RPC_URL environment variable")

// ErrInvalidPoolAddress indicates a malformed entry in POOL_ADDRESSES.
var ErrInvalidPoolAddress = errors.New("invalid address in POOL_ADDRESSES")

// ErrInvalidSyncInterval indicates a non-positive SYNC_INTERVAL.
var ErrInvalidSyncInterval = errors.New("SYNC_INTERVAL must be positive")

// ErrInvalidSyncTimeout indicates a non-positive SYNC_TIMEOUT.
var ErrInvalidSyncTimeout = errors.New("SYNC_TIMEOUT must be positive")
