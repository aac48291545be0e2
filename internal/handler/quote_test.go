package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v3"

	"github.com/bidzyyys/stylus-uniswap-workshop/internal/curve"
	"github.com/bidzyyys/stylus-uniswap-workshop/internal/pool"
	"github.com/bidzyyys/stylus-uniswap-workshop/internal/service"
	"github.com/bidzyyys/stylus-uniswap-workshop/pkg/uniswapv2"
)

var (
	token0 = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	token1 = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	other  = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	pair   = common.HexToAddress("0x0000000000000000000000000000000000000abc")
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := pool.NewRegistry()
	p := pool.Pool{Address: pair, Token0: token0, Token1: token1, Fee: uniswapv2.DefaultFee}
	p.Reserve0.SetUint64(1_000_000)
	p.Reserve1.SetUint64(1_000_000)
	if _, err := reg.CreatePool(p); err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	c, err := curve.New("v1.0.0", reg)
	if err != nil {
		t.Fatalf("curve.New: %v", err)
	}

	qh := NewQuoteHandler(logger, service.NewQuoteService(logger, c))
	ph := NewPoolsHandler(logger, reg)

	app := fiber.New()
	app.Get("/version", qh.Version())
	app.Get("/quote/exact-input", qh.ExactInput())
	app.Get("/quote/exact-output", qh.ExactOutput())
	app.Get("/pools", ph.List())
	return app
}

func doGet(t *testing.T, app *fiber.App, target string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func quoteURL(path, amount string, input, output common.Address, zeroForOne string) string {
	return path + "?amount=" + amount + "&input=" + input.Hex() + "&output=" + output.Hex() + "&zero_for_one=" + zeroForOne
}

func TestQuoteHandler_ExactInput(t *testing.T) {
	app := newTestApp(t)

	status, body := doGet(t, app, quoteURL("/quote/exact-input", "1000", token0, token1, "true"))
	if status != http.StatusOK {
		t.Fatalf("unexpected status: %d (%s)", status, body)
	}
	if body != "996" {
		t.Fatalf("body = %q, want 996", body)
	}
}

func TestQuoteHandler_ExactOutput(t *testing.T) {
	app := newTestApp(t)

	status, body := doGet(t, app, quoteURL("/quote/exact-output", "996", token1, token0, "false"))
	if status != http.StatusOK {
		t.Fatalf("unexpected status: %d (%s)", status, body)
	}
	if body != "1000" {
		t.Fatalf("body = %q, want 1000", body)
	}
}

func TestQuoteHandler_Version(t *testing.T) {
	app := newTestApp(t)

	status, body := doGet(t, app, "/version")
	if status != http.StatusOK || body != "v1.0.0" {
		t.Fatalf("GET /version = %d %q", status, body)
	}
}

func TestQuoteHandler_Validation(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name   string
		target string
		status int
		kind   string
	}{
		{"missing_params", "/quote/exact-input", http.StatusBadRequest, ""},
		{"bad_amount", quoteURL("/quote/exact-input", "abc", token0, token1, "true"), http.StatusBadRequest, ""},
		{"zero_amount", quoteURL("/quote/exact-input", "0", token0, token1, "true"), http.StatusBadRequest, ""},
		{"negative_amount", quoteURL("/quote/exact-input", "-1", token0, token1, "true"), http.StatusBadRequest, ""},
		{"same_tokens", quoteURL("/quote/exact-input", "1", token0, token0, "true"), http.StatusBadRequest, string(curve.KindIdenticalTokens)},
		{"same_tokens_exact_output", quoteURL("/quote/exact-output", "1", token1, token1, "false"), http.StatusBadRequest, string(curve.KindIdenticalTokens)},
		{"bad_direction", quoteURL("/quote/exact-input", "1", token0, token1, "maybe"), http.StatusBadRequest, ""},
		{"missing_direction", "/quote/exact-input?amount=1&input=" + token0.Hex() + "&output=" + token1.Hex(), http.StatusBadRequest, ""},
		{"bad_address", "/quote/exact-input?amount=1&input=0x12&output=" + token1.Hex() + "&zero_for_one=true", http.StatusBadRequest, ""},
		{"unknown_pool", quoteURL("/quote/exact-input", "1", token0, other, "true"), http.StatusNotFound, string(curve.KindPoolNotFound)},
		{"direction_mismatch", quoteURL("/quote/exact-input", "1", token0, token1, "false"), http.StatusBadRequest, string(curve.KindDirectionMismatch)},
		{"drain", quoteURL("/quote/exact-output", "1000000", token0, token1, "true"), http.StatusBadRequest, string(curve.KindInsufficientLiquidity)},
	}
	for _, tc := range cases {
		status, body := doGet(t, app, tc.target)
		if status != tc.status {
			t.Fatalf("%s: expected %d, got %d (%s)", tc.name, tc.status, status, body)
		}
		if tc.kind != "" && !strings.HasPrefix(body, tc.kind) {
			t.Fatalf("%s: body %q does not carry kind %s", tc.name, body, tc.kind)
		}
	}
}

func TestPoolsHandler_List(t *testing.T) {
	app := newTestApp(t)

	status, body := doGet(t, app, "/pools")
	if status != http.StatusOK {
		t.Fatalf("unexpected status: %d", status)
	}
	var pools []PoolResponse
	if err := json.Unmarshal([]byte(body), &pools); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(pools) != 1 || pools[0].Reserve0 != "1000000" || pools[0].Fee != "997/1000" || pools[0].Address != pair.Hex() {
		t.Fatalf("unexpected pools: %+v", pools)
	}
}
