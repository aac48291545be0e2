package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bidzyyys/stylus-uniswap-workshop/internal/config"
	"github.com/bidzyyys/stylus-uniswap-workshop/internal/curve"
	"github.com/bidzyyys/stylus-uniswap-workshop/internal/eth"
	"github.com/bidzyyys/stylus-uniswap-workshop/internal/handler"
	"github.com/bidzyyys/stylus-uniswap-workshop/internal/logging"
	"github.com/bidzyyys/stylus-uniswap-workshop/internal/pool"
	"github.com/bidzyyys/stylus-uniswap-workshop/internal/service"
	"github.com/bidzyyys/stylus-uniswap-workshop/internal/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	app := fiber.New()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ethereumClient, err := eth.Dial(ctx, cfg.RPCEndpoint)
	if err != nil {
		return fmt.Errorf("failed to connect to Ethereum node: %w", err)
	}
	defer ethereumClient.Close()

	registry := pool.NewRegistry()

	var store service.PoolStore
	if cfg.PostgresDSN != "" {
		pg, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		n, err := pg.Seed(ctx, registry)
		if err != nil {
			return fmt.Errorf("seed registry: %w", err)
		}
		logger.Info("registry seeded from postgres", "pools", n)
		store = pg
	}

	quoteCurve, err := curve.New(cfg.Version, registry, curve.WithEventSink(curve.SinkFunc(func(l types.Log) {
		if ev, err := curve.DecodeEvent(l); err == nil {
			logger.Debug("curve event", "event", ev.Name, "pool", l.Address.Hex(), "amount", ev.Amount.Dec(), "zero_for_one", ev.ZeroForOne)
		}
	})))
	if err != nil {
		return err
	}

	syncService := service.NewSyncService(logger, ethereumClient, registry, cfg.PoolFee, store, service.WithCallTimeout(cfg.SyncTimeout))
	quoteService := service.NewQuoteService(logger, quoteCurve)
	quoteHandler := handler.NewQuoteHandler(logger, quoteService)
	poolsHandler := handler.NewPoolsHandler(logger, registry)

	app.Get("/version", quoteHandler.Version())
	app.Get("/quote/exact-input", quoteHandler.ExactInput())
	app.Get("/quote/exact-output", quoteHandler.ExactOutput())
	app.Get("/pools", poolsHandler.List())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	errCh := make(chan error, 2)
	go func() {
		errCh <- app.Listen(cfg.Addr)
	}()
	if len(cfg.PoolAddresses) > 0 {
		go func() {
			if err := syncService.Run(ctx, cfg.PoolAddresses, cfg.SyncInterval); err != nil {
				errCh <- fmt.Errorf("reserve sync: %w", err)
			}
		}()
	} else {
		logger.Warn("POOL_ADDRESSES is empty; reserves will not be synced from chain")
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			_ = app.Shutdown()
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return app.ShutdownWithContext(shutdownCtx)
}
