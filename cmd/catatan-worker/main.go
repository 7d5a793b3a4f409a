package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catatan/internal/amqp"
	"catatan/internal/cli"
	applog "catatan/internal/log"
	gsheet "catatan/internal/sheets/google"
	"catatan/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)

	logger.Info("Starting catatan-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required: the worker's only job is replaying rows to the spreadsheet")
		os.Exit(1)
	}

	sheetsClient, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	syncWorker := worker.NewSyncWorker(sqliteRepo, sheetsClient, cfg.SyncBatchSize)

	// Replay anything recorded while the worker was down.
	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
	}

	cancelled := make(chan struct{})

	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		go func() {
			defer close(cancelled)
			if err := amqpClient.ConsumeTransactionSync(ctx, syncWorker.HandleSyncMessage); err != nil {
				if ctx.Err() == nil {
					logger.Error("Message consumption failed", "error", err)
				}
			}
		}()
	} else {
		logger.Info("AMQP disabled, relying on periodic pending scan only")
		close(cancelled)
	}

	// Periodic scan covers messages lost between bot and broker.
	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := syncWorker.ProcessPendingTransactions(ctx); err != nil {
					logger.Error("Periodic sync failed", "error", err)
				}
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		logger.Warn("Shutdown timeout reached")
	}

	logger.Info("Worker shutdown complete")
}
