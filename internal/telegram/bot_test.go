package telegram

import "testing"

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		in          string
		wantCommand string
		wantArg     string
	}{
		{"/start", "/start", ""},
		{"/rekapbulan", "/rekapbulan", ""},
		{"/rekapbulan november", "/rekapbulan", "november"},
		{"/rekapbulan nov 2024", "/rekapbulan", "nov 2024"},
		{"/rekapminggu@catatan_bot", "/rekapminggu", ""},
		{"/REKAPMINGGU", "/rekapminggu", ""},
		{"15000 beli kopi #makan", "15000 beli kopi #makan", ""},
	}
	for _, tt := range tests {
		command, arg := splitCommand(tt.in)
		if command != tt.wantCommand || arg != tt.wantArg {
			t.Errorf("splitCommand(%q) = (%q, %q), want (%q, %q)",
				tt.in, command, arg, tt.wantCommand, tt.wantArg)
		}
	}
}
