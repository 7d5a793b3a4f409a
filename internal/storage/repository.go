package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"catatan/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository mirrors the spreadsheet locally. Appends are recorded
// with synced=0 and replayed to the sheet by the sync worker.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements sheets.TransactionAppender.
func (r *SQLiteRepository) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (date, amount, description, category) VALUES (?, ?, ?, ?)`,
		tx.Date.Format(core.DateLayout), tx.Amount, tx.Description, tx.Category)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"date", tx.Date.Format(core.DateLayout),
		"amount", tx.Amount,
		"category", tx.Category)

	return strconv.FormatInt(id, 10), nil
}

// ReadAllRows implements sheets.RowReader.
func (r *SQLiteRepository) ReadAllRows(ctx context.Context) ([][]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, amount, description, category FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var date, description, category string
		var amount int64
		if err := rows.Scan(&date, &amount, &description, &category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, []string{date, strconv.FormatInt(amount, 10), description, category})
	}
	return out, rows.Err()
}

// ListCategories implements sheets.CategoryReader.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// ListBudgets implements sheets.BudgetReader.
func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT month, category, limit_amount FROM budgets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.Month, &b.Category, &b.Limit); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// StoredTransaction is a transaction with its database ID, used by the sync
// worker.
type StoredTransaction struct {
	ID          int64
	Transaction core.Transaction
	CreatedAt   time.Time
}

// GetTransaction retrieves a single transaction by ID.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (*StoredTransaction, error) {
	var (
		st        StoredTransaction
		date      string
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, date, amount, description, category, created_at FROM transactions WHERE id = ?`, id).
		Scan(&st.ID, &date, &st.Transaction.Amount, &st.Transaction.Description, &st.Transaction.Category, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get transaction %d: %w", id, err)
	}
	if d, ok := core.ParseRowDate(date); ok {
		st.Transaction.Date = d
	}
	if t, err := time.Parse("2006-01-02 15:04:05", createdAt); err == nil {
		st.CreatedAt = t
	}
	return &st, nil
}

// GetPendingSync returns transactions not yet replayed to the sheet.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM transactions WHERE synced = 0 AND sync_error = 0 ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select pending transactions: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkSynced marks a transaction as successfully replayed.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET synced = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a transaction as having a replay failure so the
// pending scan stops retrying it.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}
