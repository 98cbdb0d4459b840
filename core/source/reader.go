package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/gamerank/schema"
	"github.com/jszwec/csvutil"
)

const utf8BOM = "\ufeff"

// paddedReader adapts a lenient csv.Reader for csvutil: the header is
// cleaned up and every data row is padded or truncated to the header width.
type paddedReader struct {
	r     *csv.Reader
	width int
}

func newPaddedReader(r io.Reader) *paddedReader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return &paddedReader{r: cr}
}

func (p *paddedReader) Read() ([]string, error) {
	record, err := p.r.Read()
	if err != nil {
		return nil, err
	}
	if p.width == 0 {
		if len(record) > 0 {
			record[0] = strings.TrimPrefix(record[0], utf8BOM)
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		p.width = len(record)
		return record, nil
	}
	switch {
	case len(record) < p.width:
		record = append(record, make([]string, p.width-len(record))...)
	case len(record) > p.width:
		record = record[:p.width]
	}
	return record, nil
}

// ReadRows reads every row of a source file. Optional columns absent from
// the header are left empty.
func ReadRows(path string) ([]schema.SourceRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	rows, err := DecodeRows(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// NewDecoder returns a csvutil decoder over a lenient reader: a leading BOM
// is dropped, header names are trimmed and ragged rows fit the header.
func NewDecoder(r io.Reader) (*csvutil.Decoder, error) {
	return csvutil.NewDecoder(newPaddedReader(r))
}

// DecodeRows decodes source rows from r. An empty input yields no rows.
func DecodeRows(r io.Reader) ([]schema.SourceRow, error) {
	dec, err := NewDecoder(r)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	header := dec.Header()
	for _, col := range schema.RequiredColumns {
		if !slices.Contains(header, col) {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, col)
		}
	}

	var rows []schema.SourceRow
	for {
		var row schema.SourceRow
		if err := dec.Decode(&row); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadEntries reads the selected file of a source and normalizes its rows.
func ReadEntries(pick schema.SourcePick, listName string) ([]schema.RankEntry, error) {
	rows, err := ReadRows(pick.Path)
	if err != nil {
		return nil, err
	}
	return ToEntries(rows, pick.SourceName, listName), nil
}

// ToEntries normalizes rows, dropping those with a blank title.
func ToEntries(rows []schema.SourceRow, sourceName, listName string) []schema.RankEntry {
	entries := make([]schema.RankEntry, 0, len(rows))
	for _, row := range rows {
		title := strings.TrimSpace(row.Title)
		if title == "" {
			continue
		}
		entries = append(entries, schema.RankEntry{
			Title:       title,
			Score:       ParseScore(row.Score),
			ReleaseDate: strings.TrimSpace(row.ReleaseDate),
			SourceName:  sourceName,
			ListName:    listName,
		})
	}
	return entries
}

// MaxScore is the largest score kept: every integer up to it is exact as a
// float64 (2^53 - 1).
const MaxScore = 1<<53 - 1

// ParseScore reads a decimal score and truncates it toward zero. Anything
// that is not a finite number in [0, MaxScore] scores 0.
func ParseScore(raw string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	v = math.Trunc(v)
	if v <= 0 || v > MaxScore {
		return 0
	}
	return int(v)
}
