package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Indonesian month names, index 0 = January. Abbreviations like "nov" or
// "agu" resolve by prefix match, so only the full names are listed.
var monthNames = []string{
	"januari", "februari", "maret", "april", "mei", "juni",
	"juli", "agustus", "september", "oktober", "november", "desember",
}

// MonthName returns the Indonesian name for a 1-based month number.
func MonthName(month time.Month) string {
	if month < time.January || month > time.December {
		return ""
	}
	return monthNames[month-1]
}

func monthFromName(token string) (time.Month, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if len(token) < 3 {
		return 0, false
	}
	for i, name := range monthNames {
		if strings.HasPrefix(name, token) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ResolveMonth maps a free-form month reference to a canonical YYYY-MM
// token. Accepted forms, tried in order: an explicit "YYYY-MM", a single
// Indonesian month name or 3+ letter prefix (combined with the current
// year), and "<name> <year>". Returns ok=false when nothing matches; that is
// a user input problem, not a fault.
func ResolveMonth(text string, now time.Time) (string, bool) {
	fields := strings.Fields(strings.ToLower(text))
	switch len(fields) {
	case 1:
		if t, err := time.Parse(MonthLayout, fields[0]); err == nil {
			return t.Format(MonthLayout), true
		}
		if m, ok := monthFromName(fields[0]); ok {
			return fmt.Sprintf("%04d-%02d", now.Year(), m), true
		}
	case 2:
		if m, ok := monthFromName(fields[0]); ok && isDigits(fields[1]) {
			year, err := strconv.Atoi(fields[1])
			if err == nil {
				return fmt.Sprintf("%04d-%02d", year, m), true
			}
		}
	}
	return "", false
}

// MonthsWithData collects the distinct YYYY-MM prefixes present in raw store
// rows, sorted descending. Rows whose date field fails every accepted layout
// are skipped silently.
func MonthsWithData(rows [][]string) []string {
	seen := map[string]struct{}{}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		date, ok := ParseRowDate(row[0])
		if !ok {
			continue
		}
		seen[date.Format(MonthLayout)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for token := range seen {
		out = append(out, token)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}
