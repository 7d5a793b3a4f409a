package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"catatan/internal/core"
	"catatan/internal/sheets"
)

// LedgerService is the engine behind the chat commands: it records free-text
// submissions and builds weekly/monthly recaps. It owns no state beyond the
// injected store ports; every call round-trips through the store, so
// concurrent chat events need no synchronization here.
type LedgerService struct {
	appender sheets.TransactionAppender
	rows     sheets.RowReader
	cats     sheets.CategoryReader
	budgets  sheets.BudgetReader
	now      func() time.Time
}

func NewLedgerService(appender sheets.TransactionAppender, rows sheets.RowReader, cats sheets.CategoryReader, budgets sheets.BudgetReader) *LedgerService {
	return &LedgerService{
		appender: appender,
		rows:     rows,
		cats:     cats,
		budgets:  budgets,
		now:      time.Now,
	}
}

// Categories returns the current allowed category names, freshly fetched,
// lower-cased and with empties dropped. Deliberately uncached: a category
// added to the sheet must be usable on the very next message.
func (s *LedgerService) Categories(ctx context.Context) ([]string, error) {
	raw, err := s.cats.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]string, 0, len(raw))
	for _, name := range raw {
		name = core.NormalizeCategory(name)
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

// Record parses a submission, validates its category against the current
// list and appends exactly one row. Any validation failure leaves the store
// untouched.
func (s *LedgerService) Record(ctx context.Context, message string) (core.Transaction, error) {
	cmd, err := core.ParseCommand(message)
	if err != nil {
		return core.Transaction{}, err
	}
	if cmd.Amount < 1 {
		return core.Transaction{}, core.ErrInvalidAmount
	}

	cats, err := s.Categories(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	if !contains(cats, cmd.Category) {
		return core.Transaction{}, &core.UnknownCategoryError{Name: cmd.Category}
	}

	tx := core.Transaction{
		Date:        s.now(),
		Amount:      cmd.Amount,
		Description: cmd.Description,
		Category:    cmd.Category,
	}
	ref, err := s.appender.Append(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"ref", ref,
		"amount", tx.Amount,
		"category", tx.Category)

	return tx, nil
}

// WeeklyRecap aggregates from the most recent Monday through today.
func (s *LedgerService) WeeklyRecap(ctx context.Context) (core.Recap, error) {
	return s.recap(ctx, core.WeekOf(s.now()))
}

// MonthlyRecap aggregates a calendar month and joins budgets. An empty
// monthArg means the current month; otherwise the argument must resolve to
// a YYYY-MM token or ErrUnresolvedMonth is returned.
func (s *LedgerService) MonthlyRecap(ctx context.Context, monthArg string) (core.Recap, error) {
	period := core.MonthOf(s.now())
	if monthArg != "" {
		token, ok := core.ResolveMonth(monthArg, s.now())
		if !ok {
			return core.Recap{}, core.ErrUnresolvedMonth
		}
		period, ok = core.MonthFromToken(token)
		if !ok {
			return core.Recap{}, core.ErrUnresolvedMonth
		}
	}

	rec, err := s.recap(ctx, period)
	if err != nil {
		return core.Recap{}, err
	}

	budgets, err := s.budgets.ListBudgets(ctx)
	if err != nil {
		return core.Recap{}, fmt.Errorf("list budgets: %w", err)
	}
	rec.ApplyBudgets(budgets)
	return rec, nil
}

// AvailableMonths lists the YYYY-MM tokens that have data, newest first.
func (s *LedgerService) AvailableMonths(ctx context.Context) ([]string, error) {
	rows, err := s.rows.ReadAllRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return core.MonthsWithData(rows), nil
}

func (s *LedgerService) recap(ctx context.Context, period core.Period) (core.Recap, error) {
	rows, err := s.rows.ReadAllRows(ctx)
	if err != nil {
		return core.Recap{}, fmt.Errorf("read rows: %w", err)
	}
	return core.Summarize(core.ParseRows(rows), period), nil
}

func contains(names []string, target string) bool {
	for _, name := range names {
		if name == target {
			return true
		}
	}
	return false
}
