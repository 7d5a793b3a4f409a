package sheets

import (
	"context"

	"catatan/internal/core"
)

// Ports for outbound store adapters. Readers always hit the store; there is
// no caching layer, so out-of-band edits to the spreadsheet are visible on
// the next call.
type (
	TransactionAppender interface {
		Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}

	// RowReader returns every transaction row in store order, header
	// excluded. Rows come back raw so the engine can apply its tolerant
	// date parsing.
	RowReader interface {
		ReadAllRows(ctx context.Context) ([][]string, error)
	}

	CategoryReader interface {
		ListCategories(ctx context.Context) ([]string, error)
	}

	BudgetReader interface {
		ListBudgets(ctx context.Context) ([]core.Budget, error)
	}
)
