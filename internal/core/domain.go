package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical write format for transaction dates.
const DateLayout = "2006-01-02"

// MonthLayout is the canonical YYYY-MM token used for budgets and recaps.
const MonthLayout = "2006-01"

// RowDateLayouts are the accepted formats when reading rows back, in order.
// The sheet is hand-editable, so slash-delimited and day-first variants are
// tolerated alongside the canonical layout.
var RowDateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
}

type (
	// Transaction is one recorded expense row.
	Transaction struct {
		Date        time.Time
		Amount      int64
		Description string
		Category    string
	}

	// Budget is a per-month spending limit for one category.
	Budget struct {
		Month    string // YYYY-MM
		Category string
		Limit    int64
	}

	// Command is the parsed form of a free-text submission.
	Command struct {
		Amount      int64
		Description string
		Category    string
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrMissingCategoryTag = errors.New("missing category tag")
	ErrUnresolvedMonth    = errors.New("unresolved month")
)

// UnknownCategoryError is returned when a submitted category is not in the
// current category list. The rejected name is surfaced to the user.
type UnknownCategoryError struct {
	Name string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", e.Name)
}

func (tx Transaction) Validate() error {
	if tx.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	if tx.Amount < 1 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrMissingCategoryTag
	}
	return nil
}

// Row returns the transaction in store order: date, amount, description,
// category.
func (tx Transaction) Row() []string {
	return []string{
		tx.Date.Format(DateLayout),
		fmt.Sprintf("%d", tx.Amount),
		tx.Description,
		tx.Category,
	}
}

// NormalizeCategory lower-cases and trims a category name so lookups and
// grouping are case-insensitive.
func NormalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseRowDate tries each accepted layout in order.
func ParseRowDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	for _, layout := range RowDateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseRow converts a raw store row into a Transaction. Rows with a date or
// amount that cannot be parsed are reported as not ok and should be skipped,
// never treated as fatal.
func ParseRow(cols []string) (Transaction, bool) {
	if len(cols) < 2 {
		return Transaction{}, false
	}
	date, ok := ParseRowDate(cols[0])
	if !ok {
		return Transaction{}, false
	}
	amount, err := NormalizeAmount(cols[1])
	if err != nil {
		return Transaction{}, false
	}
	tx := Transaction{Date: date, Amount: amount}
	if len(cols) > 2 {
		tx.Description = strings.TrimSpace(cols[2])
	}
	if len(cols) > 3 {
		tx.Category = NormalizeCategory(cols[3])
	}
	return tx, true
}

// ParseRows converts raw store rows best-effort, skipping malformed ones.
func ParseRows(rows [][]string) []Transaction {
	out := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		if tx, ok := ParseRow(row); ok {
			out = append(out, tx)
		}
	}
	return out
}
