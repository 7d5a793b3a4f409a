package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"catatan/internal/core"
	"catatan/internal/sheets/memory"
)

func newTestLedger(store *memory.Store, now time.Time) *LedgerService {
	s := NewLedgerService(store, store, store, store)
	s.now = func() time.Time { return now }
	return s
}

func TestRecord(t *testing.T) {
	now := time.Date(2025, time.September, 3, 14, 30, 0, 0, time.UTC) // a Wednesday
	store := memory.New([]string{"makan", "transport"}, nil)
	svc := newTestLedger(store, now)
	ctx := context.Background()

	tx, err := svc.Record(ctx, "15.000 beli kopi #makan")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if tx.Amount != 15000 {
		t.Errorf("Amount = %d, want 15000", tx.Amount)
	}
	if tx.Category != "makan" {
		t.Errorf("Category = %q, want makan", tx.Category)
	}
	if tx.Description != "beli kopi" {
		t.Errorf("Description = %q, want %q", tx.Description, "beli kopi")
	}

	rows, err := store.ReadAllRows(ctx)
	if err != nil {
		t.Fatalf("ReadAllRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("stored %d rows, want 1", len(rows))
	}
	if rows[0][0] != "2025-09-03" {
		t.Errorf("stored date = %q, want 2025-09-03", rows[0][0])
	}
}

func TestRecordRejectsUnknownCategory(t *testing.T) {
	store := memory.New([]string{"makan"}, nil)
	svc := newTestLedger(store, time.Now())
	ctx := context.Background()

	_, err := svc.Record(ctx, "5000 parkir #transport")
	var unknown *core.UnknownCategoryError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownCategoryError", err)
	}
	if unknown.Name != "transport" {
		t.Errorf("rejected name = %q, want transport", unknown.Name)
	}

	rows, _ := store.ReadAllRows(ctx)
	if len(rows) != 0 {
		t.Errorf("rejected submission stored %d rows, want 0", len(rows))
	}
}

func TestRecordValidation(t *testing.T) {
	store := memory.New([]string{"makan"}, nil)
	svc := newTestLedger(store, time.Now())
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		wantErr error
	}{
		{"missing tag", "5000 beli kopi", core.ErrMissingCategoryTag},
		{"zero amount", "0 gratis #makan", core.ErrInvalidAmount},
		{"negative amount", "-500 refund #makan", core.ErrInvalidAmount},
		{"non-numeric amount", "banyak beli kopi #makan", core.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Record(ctx, tt.message); !errors.Is(err, tt.wantErr) {
				t.Errorf("Record(%q) err = %v, want %v", tt.message, err, tt.wantErr)
			}
		})
	}
}

func TestRecordSeesFreshCategories(t *testing.T) {
	store := memory.New([]string{"makan"}, nil)
	svc := newTestLedger(store, time.Now())
	ctx := context.Background()

	if _, err := svc.Record(ctx, "5000 parkir #transport"); err == nil {
		t.Fatal("expected rejection before category exists")
	}

	store.SetCategories([]string{"makan", "transport"})

	if _, err := svc.Record(ctx, "5000 parkir #transport"); err != nil {
		t.Fatalf("Record after category added: %v", err)
	}
}

func TestWeeklyRecap(t *testing.T) {
	now := time.Date(2025, time.September, 3, 10, 0, 0, 0, time.UTC) // Wednesday
	store := memory.New([]string{"makan", "transport"}, nil)
	svc := newTestLedger(store, now)
	ctx := context.Background()

	store.AppendRaw([]string{"2025-09-01", "10000", "sarapan", "makan"}) // Monday, in
	store.AppendRaw([]string{"2025-09-03", "5000", "parkir", "transport"})
	store.AppendRaw([]string{"2025-08-31", "99999", "lama", "makan"}) // Sunday, out

	rec, err := svc.WeeklyRecap(ctx)
	if err != nil {
		t.Fatalf("WeeklyRecap: %v", err)
	}
	if rec.Total != 15000 {
		t.Errorf("Total = %d, want 15000", rec.Total)
	}
	if len(rec.Categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(rec.Categories))
	}
	if rec.Categories[0].Category != "makan" || rec.Categories[0].Spent != 10000 {
		t.Errorf("first category = %+v, want makan/10000", rec.Categories[0])
	}
}

func TestMonthlyRecapCurrentMonth(t *testing.T) {
	now := time.Date(2025, time.September, 15, 10, 0, 0, 0, time.UTC)
	budgets := []core.Budget{{Month: "2025-09", Category: "makan", Limit: 50000}}
	store := memory.New([]string{"makan"}, budgets)
	svc := newTestLedger(store, now)
	ctx := context.Background()

	store.AppendRaw([]string{"2025-09-01", "45000", "belanja", "makan"})
	store.AppendRaw([]string{"2025-08-20", "10000", "lama", "makan"})

	rec, err := svc.MonthlyRecap(ctx, "")
	if err != nil {
		t.Fatalf("MonthlyRecap: %v", err)
	}
	if rec.Total != 45000 {
		t.Errorf("Total = %d, want 45000", rec.Total)
	}
	remaining, ok := rec.Remaining["makan"]
	if !ok {
		t.Fatal("makan should have a remaining budget entry")
	}
	if remaining != 5000 {
		t.Errorf("remaining = %d, want 5000", remaining)
	}
}

func TestMonthlyRecapNamedMonth(t *testing.T) {
	now := time.Date(2025, time.September, 15, 10, 0, 0, 0, time.UTC)
	store := memory.New([]string{"makan"}, nil)
	svc := newTestLedger(store, now)
	ctx := context.Background()

	store.AppendRaw([]string{"2025-08-20", "10000", "agustus", "makan"})
	store.AppendRaw([]string{"2025-09-01", "45000", "september", "makan"})

	rec, err := svc.MonthlyRecap(ctx, "agustus")
	if err != nil {
		t.Fatalf("MonthlyRecap(agustus): %v", err)
	}
	if rec.Period.Month != "2025-08" {
		t.Errorf("Period.Month = %q, want 2025-08", rec.Period.Month)
	}
	if rec.Total != 10000 {
		t.Errorf("Total = %d, want 10000", rec.Total)
	}
}

func TestMonthlyRecapUnresolvedMonth(t *testing.T) {
	store := memory.New([]string{"makan"}, nil)
	svc := newTestLedger(store, time.Now())

	if _, err := svc.MonthlyRecap(context.Background(), "xyz"); !errors.Is(err, core.ErrUnresolvedMonth) {
		t.Errorf("err = %v, want ErrUnresolvedMonth", err)
	}
}

func TestMonthlyRecapEmptyMonth(t *testing.T) {
	now := time.Date(2025, time.September, 15, 10, 0, 0, 0, time.UTC)
	store := memory.New([]string{"makan"}, nil)
	svc := newTestLedger(store, now)

	rec, err := svc.MonthlyRecap(context.Background(), "juli")
	if err != nil {
		t.Fatalf("MonthlyRecap(juli): %v", err)
	}
	if !rec.Empty() {
		t.Error("recap of a month without data should be empty")
	}
}

func TestAvailableMonths(t *testing.T) {
	store := memory.New([]string{"makan"}, nil)
	svc := newTestLedger(store, time.Now())
	ctx := context.Background()

	store.AppendRaw([]string{"2025-07-05", "1000", "a", "makan"})
	store.AppendRaw([]string{"2025-09-01", "2000", "b", "makan"})
	store.AppendRaw([]string{"2025-07-20", "3000", "c", "makan"})

	months, err := svc.AvailableMonths(ctx)
	if err != nil {
		t.Fatalf("AvailableMonths: %v", err)
	}
	want := []string{"2025-09", "2025-07"}
	if len(months) != len(want) {
		t.Fatalf("months = %v, want %v", months, want)
	}
	for i := range want {
		if months[i] != want[i] {
			t.Errorf("months[%d] = %q, want %q", i, months[i], want[i])
		}
	}
}

func TestCategoriesNormalized(t *testing.T) {
	store := memory.New([]string{"Makan", " Transport ", ""}, nil)
	svc := newTestLedger(store, time.Now())

	cats, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	want := []string{"makan", "transport"}
	if len(cats) != len(want) {
		t.Fatalf("cats = %v, want %v", cats, want)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("cats[%d] = %q, want %q", i, cats[i], want[i])
		}
	}
}
