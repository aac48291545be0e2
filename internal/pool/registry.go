package pool

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Registry stores at most one pool per unordered token pair.
//
// Quotes only read through Snapshot/Reserves, which copy under the read lock,
// so a quote never observes a half-applied reserve update.
type Registry struct {
	mu        sync.RWMutex
	pools     map[Ref]*Pool
	byAddress map[common.Address]Ref
}

func NewRegistry() *Registry {
	return &Registry{
		pools:     make(map[Ref]*Pool),
		byAddress: make(map[common.Address]Ref),
	}
}

// CreatePool registers p. Token order and reserves are canonicalized, so
// callers may pass the tokens in either order.
func (r *Registry) CreatePool(p Pool) (Ref, error) {
	canonical, err := canonicalize(p)
	if err != nil {
		return Ref{}, err
	}
	ref := canonical.Ref()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pools[ref]; exists {
		return Ref{}, fmt.Errorf("%w: %s/%s", ErrPoolExists, ref.Token0.Hex(), ref.Token1.Hex())
	}
	if err := r.insertLocked(&canonical); err != nil {
		return Ref{}, err
	}
	return ref, nil
}

// insertLocked stores p under its pair. A non-zero address may back only one
// pair.
func (r *Registry) insertLocked(p *Pool) error {
	ref := p.Ref()
	if p.Address != (common.Address{}) {
		if bound, ok := r.byAddress[p.Address]; ok && bound != ref {
			return fmt.Errorf("%w: address %s already holds %s/%s", ErrPoolExists, p.Address.Hex(), bound.Token0.Hex(), bound.Token1.Hex())
		}
		r.byAddress[p.Address] = ref
	}
	r.pools[ref] = p
	return nil
}

// Upsert creates p or, if a pool with the same address already holds the
// pair, applies its reserves. It reports whether state changed.
func (r *Registry) Upsert(p Pool) (bool, error) {
	canonical, err := canonicalize(p)
	if err != nil {
		return false, err
	}
	ref := canonical.Ref()

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.pools[ref]
	if !ok {
		if err := r.insertLocked(&canonical); err != nil {
			return false, err
		}
		return true, nil
	}
	if existing.Address != canonical.Address {
		return false, fmt.Errorf("%w: %s/%s held by %s", ErrPoolExists, ref.Token0.Hex(), ref.Token1.Hex(), existing.Address.Hex())
	}
	return applyReserves(existing, &canonical.Reserve0, &canonical.Reserve1, canonical.BlockNumber), nil
}

// UpdateReserves replaces the reserves of ref. Updates read at an older block
// than the stored one are ignored; the return value reports whether the
// update was applied.
func (r *Registry) UpdateReserves(ref Ref, reserve0, reserve1 *uint256.Int, blockNumber uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pools[ref]
	if !ok {
		return false, ErrPoolNotFound
	}
	return applyReserves(p, reserve0, reserve1, blockNumber), nil
}

func applyReserves(p *Pool, reserve0, reserve1 *uint256.Int, blockNumber uint64) bool {
	if blockNumber != 0 && blockNumber < p.BlockNumber {
		return false
	}
	p.Reserve0.Set(reserve0)
	p.Reserve1.Set(reserve1)
	if blockNumber != 0 {
		p.BlockNumber = blockNumber
	}
	return true
}

// Resolve maps an (input, output) pair in caller order to its pool and the
// direction of a trade selling input.
func (r *Registry) Resolve(input, output common.Address) (Ref, Direction, error) {
	token0, token1, err := SortTokens(input, output)
	if err != nil {
		return Ref{}, 0, err
	}
	ref := Ref{Token0: token0, Token1: token1}

	r.mu.RLock()
	_, ok := r.pools[ref]
	r.mu.RUnlock()
	if !ok {
		return Ref{}, 0, fmt.Errorf("%w: %s/%s", ErrPoolNotFound, token0.Hex(), token1.Hex())
	}

	if input == token0 {
		return ref, ZeroForOne, nil
	}
	return ref, OneForZero, nil
}

// Snapshot copies the pricing inputs of ref.
func (r *Registry) Snapshot(ref Ref) (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pools[ref]
	if !ok {
		return Snapshot{}, ErrPoolNotFound
	}
	return Snapshot{
		Address:     p.Address,
		Ref:         ref,
		Reserve0:    p.Reserve0,
		Reserve1:    p.Reserve1,
		Fee:         p.Fee,
		BlockNumber: p.BlockNumber,
	}, nil
}

// Reserves returns copies of the canonical reserves of ref.
func (r *Registry) Reserves(ref Ref) (reserve0, reserve1 *uint256.Int, err error) {
	s, err := r.Snapshot(ref)
	if err != nil {
		return nil, nil, err
	}
	return s.Reserve0.Clone(), s.Reserve1.Clone(), nil
}

// Lookup returns the pair held by the pool contract at address.
func (r *Registry) Lookup(address common.Address) (Ref, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ref, ok := r.byAddress[address]
	return ref, ok
}

// Pools returns copies of all pools ordered by token pair.
func (r *Registry) Pools() []Pool {
	r.mu.RLock()
	out := make([]Pool, 0, len(r.pools))
	for _, p := range r.pools {
		out = append(out, *p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if c := bytes.Compare(out[i].Token0.Bytes(), out[j].Token0.Bytes()); c != 0 {
			return c < 0
		}
		return bytes.Compare(out[i].Token1.Bytes(), out[j].Token1.Bytes()) < 0
	})
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pools)
}

func canonicalize(p Pool) (Pool, error) {
	token0, token1, err := SortTokens(p.Token0, p.Token1)
	if err != nil {
		return Pool{}, err
	}
	if err := p.Fee.Validate(); err != nil {
		return Pool{}, err
	}
	if token0 != p.Token0 {
		p.Reserve0, p.Reserve1 = p.Reserve1, p.Reserve0
	}
	p.Token0, p.Token1 = token0, token1
	return p, nil
}
