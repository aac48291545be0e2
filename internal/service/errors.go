package service

import "errors"

var (
	ErrPoolNotPair   = errors.New("pool token0 and token1 are equal")
	ErrNoPoolsToSync = errors.New("no pool addresses configured")
)
