package telegram

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// SanitizeInput collapses all whitespace runs to single spaces and drops
// control characters, so parsing sees clean tokens regardless of which
// client sent the message.
func SanitizeInput(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsControl(r):
			// skip
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// FixEncoding repairs text that arrives as mojibake from clients that send
// Windows-1251 bytes instead of UTF-8. Valid UTF-8 passes through untouched;
// anything unrepairable has its invalid sequences stripped.
func FixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	decoder := charmap.Windows1251.NewDecoder()
	fixed, err := decoder.String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}

	return strings.ToValidUTF8(s, "")
}
