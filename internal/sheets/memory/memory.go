package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"catatan/internal/core"
)

// Store is an in-process store used by tests and the memory backend. Rows
// are held raw, the same shape the sheet adapter returns.
type Store struct {
	mu      sync.Mutex
	cats    []string
	budgets []core.Budget
	rows    [][]string
}

func New(cats []string, budgets []core.Budget) *Store {
	return &Store{cats: dedupe(cats), budgets: budgets}
}

// NewFromFiles seeds categories and budgets from plain-text files under
// base. Missing files fall back to a small default set.
func NewFromFiles(base string) *Store {
	cats := readLines(filepath.Join(base, "seed_categories.txt"))
	if len(cats) == 0 {
		cats = []string{"makan", "transport", "jajan"}
	}
	var budgets []core.Budget
	for _, line := range readLines(filepath.Join(base, "seed_budgets.txt")) {
		// One budget per line: "<YYYY-MM> <category> <limit>".
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		limit, err := core.NormalizeAmount(fields[len(fields)-1])
		if err != nil {
			continue
		}
		budgets = append(budgets, core.Budget{
			Month:    fields[0],
			Category: strings.Join(fields[1:len(fields)-1], " "),
			Limit:    limit,
		})
	}
	return New(cats, budgets)
}

// Append stores the transaction and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, tx.Row())
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// AppendRaw injects an arbitrary row, bypassing validation. Test hook for
// externally-edited data.
func (s *Store) AppendRaw(row []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
}

func (s *Store) ReadAllRows(_ context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.rows))
	for i, row := range s.rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (s *Store) ListCategories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cats...), nil
}

func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Budget(nil), s.budgets...), nil
}

// SetCategories replaces the category list, mimicking an out-of-band edit.
func (s *Store) SetCategories(cats []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cats = dedupe(cats)
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
