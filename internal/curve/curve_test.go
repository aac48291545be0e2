package curve

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/bidzyyys/stylus-uniswap-workshop/internal/pool"
	"github.com/bidzyyys/stylus-uniswap-workshop/pkg/uniswapv2"
)

var (
	token0   = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	token1   = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	stranger = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	pair     = common.HexToAddress("0x0000000000000000000000000000000000000abc")
)

func newCurve(t *testing.T, r0, r1 uint64) (*Curve, *MemorySink) {
	t.Helper()
	reg := pool.NewRegistry()
	p := pool.Pool{Address: pair, Token0: token0, Token1: token1, Fee: uniswapv2.DefaultFee}
	p.Reserve0.SetUint64(r0)
	p.Reserve1.SetUint64(r1)
	if _, err := reg.CreatePool(p); err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	sink := &MemorySink{}
	c, err := New("v1.0.0", reg, WithEventSink(sink))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, sink
}

func TestVersion(t *testing.T) {
	t.Parallel()

	c, _ := newCurve(t, 1, 1)
	if c.Version() != "v1.0.0" {
		t.Fatalf("Version() = %q", c.Version())
	}

	var v VersionRecord
	if _, err := v.Get(); !errors.Is(err, ErrVersionNotSet) {
		t.Fatalf("expected ErrVersionNotSet, got %v", err)
	}
	if err := v.Initialize("a"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := v.Initialize("b"); !errors.Is(err, ErrVersionAlreadySet) {
		t.Fatalf("expected ErrVersionAlreadySet, got %v", err)
	}
	if got, _ := v.Get(); got != "a" {
		t.Fatalf("Get() = %q, want a", got)
	}
}

func TestNew_RequiresRegistry(t *testing.T) {
	t.Parallel()

	if _, err := New("v1", nil); err == nil {
		t.Fatalf("expected error for nil registry")
	}
}

func TestGetAmountOutFromExactInput(t *testing.T) {
	t.Parallel()

	c, sink := newCurve(t, 1_000_000, 1_000_000)
	out, err := c.GetAmountOutFromExactInput(uint256.NewInt(1_000), token0, token1, true)
	if err != nil {
		t.Fatalf("GetAmountOutFromExactInput: %v", err)
	}
	if out.Uint64() != 996 {
		t.Fatalf("amountOut = %s, want 996", out.Dec())
	}

	logs := sink.Logs()
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}
	if logs[0].Address != pair {
		t.Fatalf("log emitted from %s", logs[0].Address.Hex())
	}
	wantTopic := crypto.Keccak256Hash([]byte("AmountOutCalculated(uint256,address,address,bool)"))
	if logs[0].Topics[0] != wantTopic {
		t.Fatalf("topic = %s, want %s", logs[0].Topics[0].Hex(), wantTopic.Hex())
	}
	ev, err := DecodeEvent(logs[0])
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if ev.Name != EventAmountOutCalculated || ev.Amount.Uint64() != 1_000 || ev.Input != token0 || ev.Output != token1 || !ev.ZeroForOne {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestGetAmountInForExactOutput(t *testing.T) {
	t.Parallel()

	c, sink := newCurve(t, 1_000_000, 2_000_000)
	// selling token1 for token0: reserveIn is reserve1
	in, err := c.GetAmountInForExactOutput(uint256.NewInt(996), token1, token0, false)
	if err != nil {
		t.Fatalf("GetAmountInForExactOutput: %v", err)
	}
	want, _ := uniswapv2.GetAmountIn(uint256.NewInt(996), uint256.NewInt(2_000_000), uint256.NewInt(1_000_000), uniswapv2.DefaultFee)
	if !in.Eq(want) {
		t.Fatalf("amountIn = %s, want %s", in.Dec(), want.Dec())
	}

	ev, err := DecodeEvent(sink.Logs()[0])
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if ev.Name != EventAmountInCalculated || ev.Amount.Uint64() != 996 || ev.Input != token1 || ev.ZeroForOne {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestQuoteExactInput_OrientsReserves(t *testing.T) {
	t.Parallel()

	c, _ := newCurve(t, 100, 900)
	q, err := c.QuoteExactInput(uint256.NewInt(10), token1, token0, false)
	if err != nil {
		t.Fatalf("QuoteExactInput: %v", err)
	}
	if q.ReserveIn.Uint64() != 900 || q.ReserveOut.Uint64() != 100 || q.Direction != pool.OneForZero {
		t.Fatalf("unexpected orientation: in=%s out=%s dir=%s", q.ReserveIn.Dec(), q.ReserveOut.Dec(), q.Direction)
	}
	if q.Pool != pair {
		t.Fatalf("quote pool = %s", q.Pool.Hex())
	}
}

func TestQuoteErrors(t *testing.T) {
	t.Parallel()

	c, sink := newCurve(t, 1_000, 1_000)
	cases := []struct {
		name string
		call func() error
		kind ErrorKind
	}{
		{"direction_mismatch", func() error {
			_, err := c.GetAmountOutFromExactInput(uint256.NewInt(1), token0, token1, false)
			return err
		}, KindDirectionMismatch},
		{"identical_tokens", func() error {
			_, err := c.GetAmountOutFromExactInput(uint256.NewInt(1), token0, token0, true)
			return err
		}, KindIdenticalTokens},
		{"pool_not_found", func() error {
			_, err := c.GetAmountInForExactOutput(uint256.NewInt(1), token0, stranger, true)
			return err
		}, KindPoolNotFound},
		{"zero_input", func() error {
			_, err := c.GetAmountOutFromExactInput(uint256.NewInt(0), token0, token1, true)
			return err
		}, KindInvalidAmount},
		{"zero_output", func() error {
			_, err := c.GetAmountInForExactOutput(uint256.NewInt(0), token0, token1, true)
			return err
		}, KindInvalidAmount},
		{"drain", func() error {
			_, err := c.GetAmountInForExactOutput(uint256.NewInt(1_000), token0, token1, true)
			return err
		}, KindInsufficientLiquidity},
	}
	for _, tc := range cases {
		if got := Kind(tc.call()); got != tc.kind {
			t.Fatalf("%s: kind = %q, want %q", tc.name, got, tc.kind)
		}
	}
	if n := len(sink.Logs()); n != 0 {
		t.Fatalf("failed quotes emitted %d logs", n)
	}
}

func TestQuote_FullWidthReserves(t *testing.T) {
	t.Parallel()

	maxU := new(uint256.Int).SetAllOne()
	reg := pool.NewRegistry()
	p := pool.Pool{Address: pair, Token0: token0, Token1: token1, Fee: uniswapv2.DefaultFee}
	p.Reserve0.Set(maxU)
	p.Reserve1.Set(maxU)
	if _, err := reg.CreatePool(p); err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	sink := &MemorySink{}
	c, err := New("v1.0.0", reg, WithEventSink(sink))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// reserveIn * 1000 exceeds 256 bits but the quote itself is small
	out, err := c.GetAmountOutFromExactInput(uint256.NewInt(1_000), token0, token1, true)
	if err != nil {
		t.Fatalf("GetAmountOutFromExactInput: %v", err)
	}
	if out.Uint64() != 996 {
		t.Fatalf("amountOut = %s, want 996", out.Dec())
	}

	// buying all but one unit needs more than 2^256 input
	almostAll := new(uint256.Int).SubUint64(maxU, 1)
	_, err = c.GetAmountInForExactOutput(almostAll, token0, token1, true)
	if Kind(err) != KindArithmeticOverflow {
		t.Fatalf("kind = %q (%v), want %q", Kind(err), err, KindArithmeticOverflow)
	}
	if n := len(sink.Logs()); n != 1 {
		t.Fatalf("logs = %d, want 1", n)
	}
}

func TestQuote_DrainedPool(t *testing.T) {
	t.Parallel()

	c, _ := newCurve(t, 1_000, 0)
	_, err := c.GetAmountOutFromExactInput(uint256.NewInt(1), token0, token1, true)
	if !errors.Is(err, uniswapv2.ErrInsufficientLiquidity) {
		t.Fatalf("expected ErrInsufficientLiquidity, got %v", err)
	}
}

func TestQuote_DoesNotMutateState(t *testing.T) {
	t.Parallel()

	c, _ := newCurve(t, 5_000, 7_000)
	amount := uint256.NewInt(100)
	if _, err := c.GetAmountOutFromExactInput(amount, token0, token1, true); err != nil {
		t.Fatalf("GetAmountOutFromExactInput: %v", err)
	}
	if _, err := c.GetAmountInForExactOutput(amount, token0, token1, true); err != nil {
		t.Fatalf("GetAmountInForExactOutput: %v", err)
	}
	if amount.Uint64() != 100 {
		t.Fatalf("amount mutated: %s", amount.Dec())
	}
	r0, r1, err := c.pools.Reserves(pool.Ref{Token0: token0, Token1: token1})
	if err != nil {
		t.Fatalf("Reserves: %v", err)
	}
	if r0.Uint64() != 5_000 || r1.Uint64() != 7_000 {
		t.Fatalf("reserves changed: %s %s", r0.Dec(), r1.Dec())
	}
}

func TestKind(t *testing.T) {
	t.Parallel()

	if Kind(nil) != "" {
		t.Fatalf("Kind(nil) = %q", Kind(nil))
	}
	if Kind(errors.New("boom")) != KindUnknown {
		t.Fatalf("Kind(unknown) = %q", Kind(errors.New("boom")))
	}
	if Kind(uniswapv2.ErrDivisionByZero) != KindDivisionByZero {
		t.Fatalf("Kind(div) = %q", Kind(uniswapv2.ErrDivisionByZero))
	}
}
