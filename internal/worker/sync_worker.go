package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"catatan/internal/amqp"
	"catatan/internal/sheets"
	"catatan/internal/storage"
)

// maxSyncAttempts bounds replay retries per transaction. After the last
// failed attempt the row is marked sync_error and the AMQP delivery is
// dropped instead of requeued, so storage and broker agree on giving up.
const maxSyncAttempts = 3

// transactionStore is the slice of the SQLite repository the worker uses.
type transactionStore interface {
	GetTransaction(ctx context.Context, id int64) (*storage.StoredTransaction, error)
	GetPendingSync(ctx context.Context, limit int) ([]int64, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// SyncWorker replays locally recorded transactions from SQLite to the
// spreadsheet. Messages arrive via AMQP; a periodic pending scan covers
// lost messages.
type SyncWorker struct {
	storage   transactionStore
	sheets    sheets.TransactionAppender
	batchSize int

	mu       sync.Mutex
	failures map[int64]int
}

func NewSyncWorker(storage transactionStore, sheets sheets.TransactionAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheets:    sheets,
		batchSize: batchSize,
		failures:  make(map[int64]int),
	}
}

// HandleSyncMessage processes a single transaction sync message from AMQP
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)
	return w.syncTransaction(ctx, msg.ID)
}

// ProcessPendingTransactions replays any transactions that haven't been
// synced yet. This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, id := range pending {
		if err := w.syncTransaction(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction", "id", id, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck replays pending transactions at worker startup. Useful
// to recover from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, id := range pending {
		if err := w.syncTransaction(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction during startup",
				"id", id, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) syncTransaction(ctx context.Context, id int64) error {
	stored, err := w.storage.GetTransaction(ctx, id)
	if err != nil {
		// The row is unreadable; redelivery cannot help.
		w.abandon(ctx, id)
		return fmt.Errorf("get transaction from storage: %w: %w", err, amqp.ErrDropDelivery)
	}

	ref, err := w.sheets.Append(ctx, stored.Transaction)
	if err != nil {
		if w.recordFailure(id) < maxSyncAttempts {
			// Still below the retry budget: leave synced=0 so the pending
			// scan and AMQP redelivery both get another go.
			return fmt.Errorf("append to sheets: %w", err)
		}
		w.abandon(ctx, id)
		return fmt.Errorf("append to sheets after %d attempts: %w: %w",
			maxSyncAttempts, err, amqp.ErrDropDelivery)
	}

	w.clearFailures(id)
	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The row made it to the sheet; a stale synced flag only causes a
		// duplicate replay attempt later.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced transaction",
		"id", id,
		"sheets_ref", ref,
		"amount", stored.Transaction.Amount,
		"category", stored.Transaction.Category)

	return nil
}

func (w *SyncWorker) recordFailure(id int64) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failures[id]++
	return w.failures[id]
}

func (w *SyncWorker) clearFailures(id int64) {
	w.mu.Lock()
	delete(w.failures, id)
	w.mu.Unlock()
}

// abandon marks the row as failed and forgets its retry count. Callers wrap
// amqp.ErrDropDelivery into their error so the delivery is not requeued.
func (w *SyncWorker) abandon(ctx context.Context, id int64) {
	w.clearFailures(id)
	if err := w.storage.MarkSyncError(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", err)
	}
}
