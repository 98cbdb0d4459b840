// Package source locates and reads the per-source ranking files of a list.
package source

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/gamerank/schema"
)

// timestampPattern matches the capture time suffix of a snapshot file name.
var timestampPattern = regexp.MustCompile(` - (\d{4})-(\d{2})-(\d{2})_(\d{2})-(\d{2})-(\d{2})\.(?i:csv)$`)

// ParseSourceName returns the source encoded in a flat snapshot file name,
// which is the text before the first " - " once the extension is removed.
func ParseSourceName(name string) (string, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	before, _, found := strings.Cut(stem, schema.SourceSeparator)
	if !found {
		return "", false
	}
	before = strings.TrimSpace(before)
	if before == "" {
		return "", false
	}
	return before, true
}

// ParseTimestamp extracts the capture time from a name ending in
// " - YYYY-MM-DD_HH-MM-SS.csv".
func ParseTimestamp(name string) (*schema.Timestamp, bool) {
	m := timestampPattern.FindStringSubmatch(name)
	if m == nil {
		return nil, false
	}
	var ts schema.Timestamp
	for i := range ts {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return nil, false
		}
		ts[i] = v
	}
	return &ts, true
}

// IsReserved reports whether the name is one of the files the engine writes.
func IsReserved(name string) bool {
	return strings.EqualFold(name, schema.AggregatedFileName) || strings.EqualFold(name, schema.ManifestFileName)
}

// IsCSV reports whether the name has a .csv extension, in any case.
func IsCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// isEligible reports whether a file may hold source rows.
func isEligible(name string) bool {
	return IsCSV(name) && !IsReserved(name)
}
