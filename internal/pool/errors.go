package pool

import "errors"

var (
	ErrPoolNotFound    = errors.New("pool not found")
	ErrPoolExists      = errors.New("pool already exists for pair")
	ErrIdenticalTokens = errors.New("identical tokens")
)
