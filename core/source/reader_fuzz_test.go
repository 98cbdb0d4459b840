package source

import (
	"strings"
	"testing"
)

// FuzzParseScore checks that any input yields a non-negative score.
func FuzzParseScore(f *testing.F) {
	for _, seed := range []string{"10", "9.99", "N/A", "-1", "1e400", "NaN", "", " 3 "} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, raw string) {
		if got := ParseScore(raw); got < 0 {
			t.Fatalf("ParseScore(%q) = %d", raw, got)
		}
	})
}

// FuzzDecodeRows checks that arbitrary input never panics and never yields
// rows without the required header.
func FuzzDecodeRows(f *testing.F) {
	f.Add("Title,Score,ReleaseDate\nTetris,5,1984-06-06\n")
	f.Add("Title,Score,ReleaseDate\n\"unterminated,5\n")
	f.Add("a,b\n1,2\n")
	f.Fuzz(func(t *testing.T, input string) {
		rows, err := DecodeRows(strings.NewReader(input))
		if err == nil && len(rows) > 0 && !strings.Contains(input, "Title") {
			t.Fatalf("decoded %d rows without a Title column", len(rows))
		}
	})
}
