package util

import "testing"

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Gehalt  August 2026", "gehalt august #"},
		{"Rechnung RE-20260815", "rechnung re-#"},
		{"  MIETE   Lager 12 ", "miete lager #"},
		{"", ""},
		{"12345", "#"},
	}
	for _, c := range cases {
		if got := NormalizeText(c.in); got != c.want {
			t.Fatalf("NormalizeText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
