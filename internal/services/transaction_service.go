package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"catatan/internal/amqp"
	"catatan/internal/core"
	"catatan/internal/storage"
)

// TransactionService appends transactions to the local SQLite mirror and
// publishes a sync message so the worker replays them to the spreadsheet.
// A publish failure is not fatal: the row is already durable locally and
// the worker's pending scan will pick it up.
type TransactionService struct {
	repo       *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewTransactionService(repo *storage.SQLiteRepository, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{repo: repo, amqpClient: amqpClient}
}

// Append implements sheets.TransactionAppender.
func (s *TransactionService) Append(ctx context.Context, tx core.Transaction) (string, error) {
	ref, err := s.repo.Append(ctx, tx)
	if err != nil {
		return "", err
	}

	if s.amqpClient != nil {
		id, convErr := strconv.ParseInt(ref, 10, 64)
		if convErr != nil {
			return "", fmt.Errorf("parse row reference %q: %w", ref, convErr)
		}
		if pubErr := s.amqpClient.PublishTransactionSync(ctx, id); pubErr != nil {
			slog.WarnContext(ctx, "Failed to publish sync message, transaction will sync via pending scan",
				"id", id,
				"error", pubErr)
		}
	}

	return ref, nil
}

func (s *TransactionService) Close() error {
	if s.amqpClient != nil {
		return s.amqpClient.Close()
	}
	return nil
}
