package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekOfStartsOnMonday(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"monday stays put", date(2025, time.September, 1), date(2025, time.September, 1)},
		{"wednesday", time.Date(2025, time.September, 3, 15, 30, 0, 0, time.UTC), date(2025, time.September, 1)},
		{"sunday goes back six days", date(2025, time.September, 7), date(2025, time.September, 1)},
		{"week crossing month boundary", date(2025, time.July, 2), date(2025, time.June, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := WeekOf(tt.now)
			if !p.Start.Equal(tt.want) {
				t.Errorf("WeekOf(%v).Start = %v, want %v", tt.now, p.Start, tt.want)
			}
			if p.Start.Weekday() != time.Monday {
				t.Errorf("WeekOf(%v).Start is %v, want Monday", tt.now, p.Start.Weekday())
			}
			if h, m, s := p.Start.Clock(); h != 0 || m != 0 || s != 0 {
				t.Errorf("WeekOf(%v).Start is not midnight: %v", tt.now, p.Start)
			}
			if !p.Contains(midnight(tt.now)) {
				t.Errorf("WeekOf(%v) should include today", tt.now)
			}
		})
	}
}

func TestWeekOfMatchesRowDateZone(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
	}{
		{"west of UTC", time.Date(2025, time.September, 1, 10, 0, 0, 0, time.FixedZone("UTC-5", -5*60*60))},
		{"east of UTC", time.Date(2025, time.September, 3, 23, 30, 0, 0, time.FixedZone("UTC+9", 9*60*60))},
		{"utc", time.Date(2025, time.September, 7, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := WeekOf(tt.now)
			rowDate, ok := ParseRowDate(tt.now.Format(DateLayout))
			if !ok {
				t.Fatal("ParseRowDate failed")
			}
			if !p.Contains(rowDate) {
				t.Errorf("row dated %v must fall inside [%v, %v)", rowDate, p.Start, p.End)
			}
			if p.Start.Location() != time.UTC || p.End.Location() != time.UTC {
				t.Errorf("period bounds [%v, %v) must be in UTC like parsed row dates", p.Start, p.End)
			}
		})
	}
}

func TestMonthFromToken(t *testing.T) {
	tests := []struct {
		token     string
		wantStart time.Time
		wantEnd   time.Time
		wantOK    bool
	}{
		{"2025-01", date(2025, time.January, 1), date(2025, time.February, 1), true},
		{"2024-12", date(2024, time.December, 1), date(2025, time.January, 1), true},
		{"garbage", time.Time{}, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			p, ok := MonthFromToken(tt.token)
			if ok != tt.wantOK {
				t.Fatalf("MonthFromToken(%q) ok = %v, want %v", tt.token, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !p.Start.Equal(tt.wantStart) || !p.End.Equal(tt.wantEnd) {
				t.Errorf("MonthFromToken(%q) = [%v, %v), want [%v, %v)",
					tt.token, p.Start, p.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestSummarizeMonthlyWithBudget(t *testing.T) {
	rows := [][]string{
		{"2025-01-05", "15000", "beli kopi", "makan"},
		{"2025-01-20", "30000", "makan siang", "makan"},
	}
	txs := ParseRows(rows)

	p, ok := MonthFromToken("2025-01")
	if !ok {
		t.Fatal("MonthFromToken failed")
	}
	rec := Summarize(txs, p)
	rec.ApplyBudgets([]Budget{{Month: "2025-01", Category: "makan", Limit: 50000}})

	if rec.Total != 45000 {
		t.Errorf("Total = %d, want 45000", rec.Total)
	}
	if len(rec.Categories) != 1 || rec.Categories[0].Category != "makan" || rec.Categories[0].Spent != 45000 {
		t.Errorf("Categories = %+v, want makan:45000", rec.Categories)
	}
	if got := rec.Remaining["makan"]; got != 5000 {
		t.Errorf("Remaining[makan] = %d, want 5000", got)
	}
}

func TestSummarizeTotalsMatchCategorySums(t *testing.T) {
	txs := []Transaction{
		{Date: date(2025, time.May, 2), Amount: 1000, Category: "makan"},
		{Date: date(2025, time.May, 10), Amount: 2500, Category: "transport"},
		{Date: date(2025, time.May, 15), Amount: 700, Category: "makan"},
		{Date: date(2025, time.June, 1), Amount: 9999, Category: "makan"}, // outside
	}
	p, _ := MonthFromToken("2025-05")
	rec := Summarize(txs, p)

	var sum int64
	for _, ct := range rec.Categories {
		sum += ct.Spent
	}
	if sum != rec.Total {
		t.Errorf("per-category sum %d != total %d", sum, rec.Total)
	}
	if rec.Total != 4200 {
		t.Errorf("Total = %d, want 4200", rec.Total)
	}
}

func TestSummarizePreservesFirstSeenOrder(t *testing.T) {
	txs := []Transaction{
		{Date: date(2025, time.May, 1), Amount: 1, Category: "b"},
		{Date: date(2025, time.May, 2), Amount: 1, Category: "a"},
		{Date: date(2025, time.May, 3), Amount: 1, Category: "b"},
	}
	p, _ := MonthFromToken("2025-05")
	rec := Summarize(txs, p)

	if len(rec.Categories) != 2 || rec.Categories[0].Category != "b" || rec.Categories[1].Category != "a" {
		t.Errorf("Categories order = %+v, want b then a", rec.Categories)
	}
}

func TestSummarizeEmptyPeriodIsDistinguished(t *testing.T) {
	txs := []Transaction{
		{Date: date(2025, time.April, 1), Amount: 100, Category: "makan"},
	}
	p, _ := MonthFromToken("2025-05")
	rec := Summarize(txs, p)

	if !rec.Empty() {
		t.Error("recap over period with no rows should be Empty")
	}

	// A zero-amount row inside the period still counts as data.
	withZero := append(txs, Transaction{Date: date(2025, time.May, 3), Amount: 0, Category: "makan"})
	rec = Summarize(withZero, p)
	if rec.Empty() {
		t.Error("recap with qualifying rows must not be Empty, even at zero total")
	}
}

func TestApplyBudgetsLastRowWins(t *testing.T) {
	txs := []Transaction{{Date: date(2025, time.May, 2), Amount: 10000, Category: "makan"}}
	p, _ := MonthFromToken("2025-05")
	rec := Summarize(txs, p)
	rec.ApplyBudgets([]Budget{
		{Month: "2025-05", Category: "makan", Limit: 30000},
		{Month: "2025-05", Category: "Makan", Limit: 40000},
	})

	if got := rec.Remaining["makan"]; got != 30000 {
		t.Errorf("Remaining[makan] = %d, want 30000 (last duplicate wins)", got)
	}
}

func TestApplyBudgetsLeavesUnbudgetedCategoriesFlagged(t *testing.T) {
	txs := []Transaction{
		{Date: date(2025, time.May, 2), Amount: 10000, Category: "makan"},
		{Date: date(2025, time.May, 3), Amount: 5000, Category: "transport"},
	}
	p, _ := MonthFromToken("2025-05")
	rec := Summarize(txs, p)
	rec.ApplyBudgets([]Budget{{Month: "2025-05", Category: "makan", Limit: 30000}})

	if _, ok := rec.Remaining["makan"]; !ok {
		t.Error("makan should have a remaining figure")
	}
	if _, ok := rec.Remaining["transport"]; ok {
		t.Error("transport has no budget row and must stay out of Remaining")
	}
	if len(rec.Categories) != 2 {
		t.Errorf("budget-less categories must stay in the recap, got %+v", rec.Categories)
	}
}

func TestApplyBudgetsIgnoresOtherMonths(t *testing.T) {
	txs := []Transaction{{Date: date(2025, time.May, 2), Amount: 10000, Category: "makan"}}
	p, _ := MonthFromToken("2025-05")
	rec := Summarize(txs, p)
	rec.ApplyBudgets([]Budget{{Month: "2025-04", Category: "makan", Limit: 30000}})

	if _, ok := rec.Remaining["makan"]; ok {
		t.Error("budget for a different month must not apply")
	}
}

func TestParseRowToleratesFormatsAndSkipsGarbage(t *testing.T) {
	tests := []struct {
		name   string
		row    []string
		wantOK bool
	}{
		{"canonical", []string{"2025-05-01", "1000", "kopi", "makan"}, true},
		{"slash layout", []string{"2025/05/01", "1000", "kopi", "makan"}, true},
		{"day first", []string{"01-05-2025", "1000", "kopi", "makan"}, true},
		{"header row", []string{"tanggal", "jumlah", "deskripsi", "kategori"}, false},
		{"bad amount", []string{"2025-05-01", "seribu", "kopi", "makan"}, false},
		{"short row", []string{"2025-05-01"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseRow(tt.row)
			if ok != tt.wantOK {
				t.Errorf("ParseRow(%v) ok = %v, want %v", tt.row, ok, tt.wantOK)
			}
		})
	}
}
