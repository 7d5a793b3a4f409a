package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"catatan/internal/backend"
	"catatan/internal/cli"
	apphttp "catatan/internal/http"
	applog "catatan/internal/log"
	"catatan/internal/services"
	"catatan/internal/telegram"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)

	logger.Info("Starting catatan")

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	store := result.Backend
	ledger := services.NewLedgerService(store, store, store, store)

	limiter := telegram.NewLimiter(cfg.RateLimitPerMinute)
	defer limiter.Stop()

	bot, err := telegram.NewBot(cfg.TelegramBotToken, ledger, limiter, cfg.AdminChatID)
	if err != nil {
		logger.Error("Failed to create Telegram bot", "error", err)
		os.Exit(1)
	}

	healthSrv := apphttp.NewServer(":"+cfg.Port, store)
	healthSrv.ReadTimeout = 10 * time.Second
	healthSrv.WriteTimeout = 10 * time.Second
	healthSrv.IdleTimeout = 60 * time.Second

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := bot.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		logger.Info("Starting health server", "port", cfg.Port)
		if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return healthSrv.Shutdown(shutdownCtx)
	})

	logger.Info("catatan running", "backend", cfg.DataBackend, "port", cfg.Port)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Service error", "error", err)
		os.Exit(1)
	}

	logger.Info("Stopped gracefully")
}
