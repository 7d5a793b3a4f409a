package telegram

import (
	"errors"
	"fmt"
	"strings"

	"catatan/internal/core"
)

const formatHint = "<jumlah> <deskripsi> #kategori\nContoh:\n15000 beli kopi #makan"

// WelcomeMessage is the /start reply.
func WelcomeMessage() string {
	return "Halo! Kirim catatan keuangan kamu dengan format:\n\n" + formatHint + "\n\n" +
		"Perintah lain:\n" +
		"/kategori — daftar kategori\n" +
		"/rekapminggu — rekap minggu ini\n" +
		"/rekapbulan [bulan] — rekap bulanan"
}

// RecordedMessage confirms a stored transaction.
func RecordedMessage(tx core.Transaction) string {
	if tx.Description == "" {
		return fmt.Sprintf("✅ Tersimpan! %s #%s", FormatRupiah(tx.Amount), tx.Category)
	}
	return fmt.Sprintf("✅ Tersimpan! %s untuk %s #%s", FormatRupiah(tx.Amount), tx.Description, tx.Category)
}

// ErrorMessage maps a recording or recap failure to a user-facing reply.
// Unexpected errors get a generic apology; the caller logs the detail.
func ErrorMessage(err error, categories []string) string {
	var unknown *core.UnknownCategoryError
	switch {
	case errors.As(err, &unknown):
		msg := fmt.Sprintf("❌ Kategori #%s tidak dikenal.", unknown.Name)
		if len(categories) > 0 {
			msg += "\nKategori yang tersedia:\n" + bulletList(categories)
		}
		return msg
	case errors.Is(err, core.ErrInvalidAmount), errors.Is(err, core.ErrMissingCategoryTag):
		return "❌ Format salah! Gunakan format:\n" + formatHint
	default:
		return "❌ Terjadi kesalahan, coba lagi nanti."
	}
}

// CategoriesMessage is the /kategori reply.
func CategoriesMessage(categories []string) string {
	if len(categories) == 0 {
		return "📭 Belum ada kategori."
	}
	return "Kategori yang tersedia:\n" + bulletList(categories)
}

// UnresolvedMonthMessage is the reply when /rekapbulan gets an argument that
// doesn't name a month, listing the months that actually have data.
func UnresolvedMonthMessage(months []string) string {
	msg := "❌ Bulan tidak dikenal. Gunakan nama bulan (misal: november) atau format 2025-09."
	if len(months) > 0 {
		msg += "\nBulan dengan data:\n" + bulletList(months)
	}
	return msg
}

// RenderRecap formats a recap reply: period title, per-category totals with
// budget leftovers where known, and the overall total.
func RenderRecap(rec core.Recap) string {
	if rec.Empty() {
		return "📭 Belum ada catatan untuk " + rec.Title() + "."
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("📊 Rekap %s", rec.Title()))
	for _, ct := range rec.Categories {
		line := fmt.Sprintf("• %s: %s", ct.Category, FormatRupiah(ct.Spent))
		if rec.Remaining != nil {
			if remaining, ok := rec.Remaining[ct.Category]; ok {
				if remaining < 0 {
					line += fmt.Sprintf(" (lebih %s dari anggaran)", FormatRupiah(-remaining))
				} else {
					line += fmt.Sprintf(" (sisa %s)", FormatRupiah(remaining))
				}
			} else {
				line += " (tanpa anggaran)"
			}
		}
		lines = append(lines, line)
	}
	lines = append(lines, fmt.Sprintf("Total: %s", FormatRupiah(rec.Total)))
	return strings.Join(lines, "\n")
}

// FormatRupiah renders a whole-rupiah amount with dot thousand separators,
// e.g. 15000 becomes "Rp15.000".
func FormatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return sign + "Rp" + strings.Join(groups, ".")
}

func bulletList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("• ")
		b.WriteString(item)
	}
	return b.String()
}
