package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"catatan/internal/amqp"
	"catatan/internal/core"
	"catatan/internal/storage"
)

type fakeStore struct {
	txs        map[int64]*storage.StoredTransaction
	synced     map[int64]bool
	syncErrors map[int64]bool
}

func newFakeStore(ids ...int64) *fakeStore {
	s := &fakeStore{
		txs:        make(map[int64]*storage.StoredTransaction),
		synced:     make(map[int64]bool),
		syncErrors: make(map[int64]bool),
	}
	for _, id := range ids {
		s.txs[id] = &storage.StoredTransaction{
			ID: id,
			Transaction: core.Transaction{
				Date:     time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
				Amount:   15000,
				Category: "makan",
			},
		}
	}
	return s
}

func (s *fakeStore) GetTransaction(_ context.Context, id int64) (*storage.StoredTransaction, error) {
	tx, ok := s.txs[id]
	if !ok {
		return nil, fmt.Errorf("get transaction %d: no rows", id)
	}
	return tx, nil
}

func (s *fakeStore) GetPendingSync(_ context.Context, limit int) ([]int64, error) {
	var ids []int64
	for id := range s.txs {
		if !s.synced[id] && !s.syncErrors[id] && len(ids) < limit {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *fakeStore) MarkSynced(_ context.Context, id int64) error {
	s.synced[id] = true
	return nil
}

func (s *fakeStore) MarkSyncError(_ context.Context, id int64) error {
	s.syncErrors[id] = true
	return nil
}

type fakeAppender struct {
	failures int
	appended []core.Transaction
}

func (a *fakeAppender) Append(_ context.Context, tx core.Transaction) (string, error) {
	if a.failures > 0 {
		a.failures--
		return "", errors.New("sheets unavailable")
	}
	a.appended = append(a.appended, tx)
	return fmt.Sprintf("Transaksi!A%d:D%d", len(a.appended)+1, len(a.appended)+1), nil
}

func TestHandleSyncMessageRetriesBeforeGivingUp(t *testing.T) {
	store := newFakeStore(1)
	appender := &fakeAppender{failures: maxSyncAttempts + 1}
	w := NewSyncWorker(store, appender, 10)
	msg := &amqp.TransactionSyncMessage{ID: 1}

	for attempt := 1; attempt < maxSyncAttempts; attempt++ {
		err := w.HandleSyncMessage(context.Background(), msg)
		if err == nil {
			t.Fatalf("attempt %d: expected error", attempt)
		}
		if errors.Is(err, amqp.ErrDropDelivery) {
			t.Fatalf("attempt %d must stay retryable, got %v", attempt, err)
		}
		if store.syncErrors[1] {
			t.Fatalf("attempt %d must not mark sync_error yet", attempt)
		}
	}

	err := w.HandleSyncMessage(context.Background(), msg)
	if !errors.Is(err, amqp.ErrDropDelivery) {
		t.Fatalf("final attempt must drop the delivery, got %v", err)
	}
	if !store.syncErrors[1] {
		t.Error("final attempt must mark sync_error")
	}
	if store.synced[1] {
		t.Error("failed transaction must not be marked synced")
	}
}

func TestHandleSyncMessageRecoversFromTransientFailure(t *testing.T) {
	store := newFakeStore(1)
	appender := &fakeAppender{failures: 1}
	w := NewSyncWorker(store, appender, 10)
	msg := &amqp.TransactionSyncMessage{ID: 1}

	err := w.HandleSyncMessage(context.Background(), msg)
	if err == nil || errors.Is(err, amqp.ErrDropDelivery) {
		t.Fatalf("first failure must be retryable, got %v", err)
	}
	if store.syncErrors[1] {
		t.Fatal("one failure must not park the row")
	}

	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("retry should succeed, got %v", err)
	}
	if !store.synced[1] {
		t.Error("recovered transaction must be marked synced")
	}
	if len(appender.appended) != 1 {
		t.Errorf("appended %d rows, want 1", len(appender.appended))
	}
}

func TestHandleSyncMessageDropsMissingTransaction(t *testing.T) {
	store := newFakeStore()
	w := NewSyncWorker(store, &fakeAppender{}, 10)

	err := w.HandleSyncMessage(context.Background(), &amqp.TransactionSyncMessage{ID: 42})
	if !errors.Is(err, amqp.ErrDropDelivery) {
		t.Fatalf("missing row must drop the delivery, got %v", err)
	}
	if !store.syncErrors[42] {
		t.Error("missing row must be marked sync_error")
	}
}

func TestProcessPendingTransactionsSyncsBatch(t *testing.T) {
	store := newFakeStore(1, 2)
	appender := &fakeAppender{}
	w := NewSyncWorker(store, appender, 10)

	if err := w.ProcessPendingTransactions(context.Background()); err != nil {
		t.Fatalf("ProcessPendingTransactions: %v", err)
	}
	if !store.synced[1] || !store.synced[2] {
		t.Errorf("both pending rows must sync, got %v", store.synced)
	}
	if len(appender.appended) != 2 {
		t.Errorf("appended %d rows, want 2", len(appender.appended))
	}
}
