package source

import (
	"strings"
	"testing"
)

// FuzzParseSourceName checks that a parsed source name is trimmed, non-empty
// and a prefix of the file name.
func FuzzParseSourceName(f *testing.F) {
	for _, seed := range []string{
		"IGN - 2025-01-17_20-08-18.csv",
		"GameSpot - Top 100.csv",
		" - .csv",
		"",
		"no separator.csv",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, name string) {
		got, ok := ParseSourceName(name)
		if !ok {
			return
		}
		if got == "" || got != strings.TrimSpace(got) {
			t.Fatalf("ParseSourceName(%q) = %q", name, got)
		}
		if !strings.Contains(name, got) {
			t.Fatalf("ParseSourceName(%q) = %q is not part of the name", name, got)
		}
	})
}

// FuzzParseTimestamp checks that matched components stay within their digit widths.
func FuzzParseTimestamp(f *testing.F) {
	f.Add("IGN - 2025-01-17_20-08-18.csv")
	f.Add("IGN - 9999-99-99_99-99-99.CSV")
	f.Add("IGN.csv")

	f.Fuzz(func(t *testing.T, name string) {
		ts, ok := ParseTimestamp(name)
		if !ok {
			return
		}
		if ts[0] > 9999 {
			t.Fatalf("year out of range: %v", ts)
		}
		for _, v := range ts[1:] {
			if v < 0 || v > 99 {
				t.Fatalf("component out of range: %v", ts)
			}
		}
	})
}
