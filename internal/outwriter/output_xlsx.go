package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx/v2"
)

// maxSheetName is the longest sheet name spreadsheet applications accept.
const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(
	"[", "_", "]", "_", ":", "_", "*", "_", "?", "_", "/", "_", `\`, "_",
)

// writeRankingsXLSX writes one sheet per ranking view.
func writeRankingsXLSX(w io.Writer, views []RankingView) error {
	f := xlsx.NewFile()
	used := make(map[string]bool)
	for _, view := range views {
		sheet, err := f.AddSheet(sheetName(view.List, used))
		if err != nil {
			return fmt.Errorf("failed to add sheet for %s: %w", view.List, err)
		}
		addStringRow(sheet, "Position", "Title", "TotalScore", "ListsAppeared", "Label")
		for _, t := range view.Titles {
			row := sheet.AddRow()
			row.AddCell().SetInt(t.Position)
			row.AddCell().SetString(t.Title)
			row.AddCell().SetInt(t.TotalScore)
			row.AddCell().SetInt(t.ListsAppeared)
			row.AddCell().SetString(t.Label)
		}
	}
	return f.Write(w)
}

// addStringRow appends a row of text cells.
func addStringRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// sheetName makes a unique, valid sheet name from a list name.
func sheetName(name string, used map[string]bool) string {
	base := strings.TrimSpace(sheetNameReplacer.Replace(name))
	if base == "" {
		base = "list"
	}
	if r := []rune(base); len(r) > maxSheetName {
		base = string(r[:maxSheetName])
	}
	candidate := base
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf("~%d", n)
		r := []rune(base)
		if len(r)+len(suffix) > maxSheetName {
			r = r[:maxSheetName-len(suffix)]
		}
		candidate = string(r) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
