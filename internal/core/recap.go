package core

import (
	"fmt"
	"time"
)

type PeriodKind string

const (
	WeeklyPeriod  PeriodKind = "weekly"
	MonthlyPeriod PeriodKind = "monthly"
)

// Period is the date range a recap aggregates over. Start is inclusive, End
// exclusive. Month carries the YYYY-MM token for monthly periods so the
// budget join knows which limits apply.
type Period struct {
	Kind  PeriodKind
	Start time.Time
	End   time.Time
	Month string
}

// midnight returns t's calendar date at UTC midnight. Row dates parse as
// UTC midnights, so period bounds must sit in the same zone or same-day rows
// fall outside the range for deployments west of UTC.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekOf returns the period from the most recent Monday through today,
// using now's calendar date. Rows carry dates only, so the exclusive end
// bound is tomorrow's midnight.
func WeekOf(now time.Time) Period {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	start := midnight(now).AddDate(0, 0, -daysSinceMonday)
	return Period{
		Kind:  WeeklyPeriod,
		Start: start,
		End:   midnight(now).AddDate(0, 0, 1),
	}
}

// MonthOf returns the calendar-month period containing now.
func MonthOf(now time.Time) Period {
	p, _ := MonthFromToken(now.Format(MonthLayout))
	return p
}

// MonthFromToken returns the period for an explicit YYYY-MM token. The end
// bound is day 1 of the following month; AddDate handles the December to
// January rollover.
func MonthFromToken(token string) (Period, bool) {
	start, err := time.Parse(MonthLayout, token)
	if err != nil {
		return Period{}, false
	}
	return Period{
		Kind:  MonthlyPeriod,
		Start: start,
		End:   start.AddDate(0, 1, 0),
		Month: token,
	}, true
}

// Contains reports whether a transaction date falls inside the period.
func (p Period) Contains(date time.Time) bool {
	return !date.Before(p.Start) && date.Before(p.End)
}

type CategoryTotal struct {
	Category string
	Spent    int64
}

// Recap is an aggregated summary over one period. Categories preserves
// first-seen order from the row scan. Remaining holds limit minus spent per
// category and only has entries for categories that had a budget row; a
// category missing from Remaining is budget-less, not over budget.
type Recap struct {
	Period     Period
	Total      int64
	Categories []CategoryTotal
	Remaining  map[string]int64
}

// Empty reports whether no transaction qualified for the period. This is
// distinct from a zero total: the response layer renders a dedicated "no
// transactions" message for it.
func (r Recap) Empty() bool {
	return len(r.Categories) == 0
}

// Summarize filters transactions by period and sums the total and the
// per-category amounts.
func Summarize(txs []Transaction, p Period) Recap {
	rec := Recap{Period: p}
	index := map[string]int{}
	for _, tx := range txs {
		if !p.Contains(tx.Date) {
			continue
		}
		rec.Total += tx.Amount
		i, ok := index[tx.Category]
		if !ok {
			i = len(rec.Categories)
			index[tx.Category] = i
			rec.Categories = append(rec.Categories, CategoryTotal{Category: tx.Category})
		}
		rec.Categories[i].Spent += tx.Amount
	}
	return rec
}

// ApplyBudgets joins monthly budget limits onto a recap. Duplicate rows for
// the same month and category resolve last-wins in store order.
func (r *Recap) ApplyBudgets(budgets []Budget) {
	if r.Period.Month == "" {
		return
	}
	limits := map[string]int64{}
	for _, b := range budgets {
		if b.Month != r.Period.Month {
			continue
		}
		limits[NormalizeCategory(b.Category)] = b.Limit
	}
	r.Remaining = make(map[string]int64)
	for _, ct := range r.Categories {
		if limit, ok := limits[ct.Category]; ok {
			r.Remaining[ct.Category] = limit - ct.Spent
		}
	}
}

// Title is a short label for the recap period, e.g. "september 2025" for a
// monthly recap.
func (r Recap) Title() string {
	if r.Period.Kind == MonthlyPeriod {
		return fmt.Sprintf("%s %d", MonthName(r.Period.Start.Month()), r.Period.Start.Year())
	}
	return fmt.Sprintf("%s s/d %s",
		r.Period.Start.Format(DateLayout),
		r.Period.End.AddDate(0, 0, -1).Format(DateLayout))
}
