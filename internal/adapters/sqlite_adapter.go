package adapters

import (
	"context"

	"catatan/internal/core"
	"catatan/internal/services"
	"catatan/internal/storage"
)

// SQLiteAdapter adapts SQLiteRepository and TransactionService to implement
// the sheets.* ports. Writes go through the service so sync messages are
// published; reads go straight to storage.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.TransactionService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.TransactionService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

// Append implements sheets.TransactionAppender
func (a *SQLiteAdapter) Append(ctx context.Context, tx core.Transaction) (string, error) {
	return a.service.Append(ctx, tx)
}

// ReadAllRows implements sheets.RowReader
func (a *SQLiteAdapter) ReadAllRows(ctx context.Context) ([][]string, error) {
	return a.storage.ReadAllRows(ctx)
}

// ListCategories implements sheets.CategoryReader
func (a *SQLiteAdapter) ListCategories(ctx context.Context) ([]string, error) {
	return a.storage.ListCategories(ctx)
}

// ListBudgets implements sheets.BudgetReader
func (a *SQLiteAdapter) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	return a.storage.ListBudgets(ctx)
}
