package ui

import (
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short string untouched", "div.hero", 10, "div.hero"},
		{"exact length untouched", "div.hero", 8, "div.hero"},
		{"ascii truncated with ellipsis", "div.hero-banner", 8, "div.her…"},
		{"multibyte classes survive", "div.überschrift-größe", 10, "div.übers…"},
		{"cut point inside a rune", "ság.művész", 5, "ság.…"},
		{"width one", "div.hero", 1, "d"},
		{"width zero", "div.hero", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.n)
			}
		})
	}
}
