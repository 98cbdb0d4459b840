package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/huangsam/gamerank/schema"
	"go.uber.org/zap"
)

// Structural errors for a list.
var (
	ErrListNotFound  = errors.New("list directory not found")
	ErrMissingColumn = errors.New("missing required column")
)

// SelectSources returns one file per source in a list directory.
// Subdirectories are sources when present; otherwise top-level files are
// grouped by the source name encoded in their file names.
func SelectSources(listDir string) (schema.Selection, error) {
	entries, err := readDir(listDir)
	if err != nil {
		return schema.Selection{}, err
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() && !isHidden(e.Name()) {
			dirs = append(dirs, e.Name())
		}
	}
	if len(dirs) > 0 {
		return selectFromDirs(listDir, dirs)
	}
	return selectFromFlat(listDir, entries)
}

// ListDirs returns the immediate, non-hidden subdirectories of root in
// case-insensitive order.
func ListDirs(root string) ([]string, error) {
	entries, err := readDir(root)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && !isHidden(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sortFold(names)
	return names, nil
}

// selectFromDirs treats every subdirectory as one source named after it.
func selectFromDirs(listDir string, dirs []string) (schema.Selection, error) {
	sortFold(dirs)
	var sel schema.Selection
	for _, name := range dirs {
		dir := filepath.Join(listDir, name)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return schema.Selection{}, fmt.Errorf("read source directory %s: %w", dir, err)
		}
		files, err := collectFiles(dir, name, entries)
		if err != nil {
			return schema.Selection{}, err
		}
		if newest, ok := pickNewest(files); ok {
			sel.Picks = append(sel.Picks, schema.SourcePick{SourceName: name, Path: newest.Path})
		}
	}
	return sel, nil
}

// selectFromFlat groups top-level files by the source name in their file names.
func selectFromFlat(listDir string, entries []fs.DirEntry) (schema.Selection, error) {
	var sel schema.Selection
	groups := make(map[string][]fs.DirEntry)
	for _, e := range entries {
		if e.IsDir() || !isEligible(e.Name()) {
			continue
		}
		name, ok := ParseSourceName(e.Name())
		if !ok {
			zap.L().Warn("Skipping file without a source name",
				zap.String("list", filepath.Base(listDir)),
				zap.String("file", e.Name()))
			sel.Unrecognized = append(sel.Unrecognized, e.Name())
			continue
		}
		groups[name] = append(groups[name], e)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sortFold(names)

	for _, name := range names {
		files, err := collectFiles(listDir, name, groups[name])
		if err != nil {
			return schema.Selection{}, err
		}
		if newest, ok := pickNewest(files); ok {
			sel.Picks = append(sel.Picks, schema.SourcePick{SourceName: name, Path: newest.Path})
		}
	}
	return sel, nil
}

// collectFiles stats the eligible entries of dir as snapshots of one source.
func collectFiles(dir, sourceName string, entries []fs.DirEntry) ([]schema.SourceFile, error) {
	var files []schema.SourceFile
	for _, e := range entries {
		if e.IsDir() || !isEligible(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", filepath.Join(dir, e.Name()), err)
		}
		ts, _ := ParseTimestamp(e.Name())
		files = append(files, schema.SourceFile{
			SourceName: sourceName,
			Path:       filepath.Join(dir, e.Name()),
			CapturedAt: ts,
			ModTime:    info.ModTime(),
		})
	}
	return files, nil
}

// pickNewest returns the file with the greatest capture timestamp. Files
// without a timestamp are only considered when none has one, and are then
// ordered by modification time. Remaining ties go to the greatest file name.
func pickNewest(files []schema.SourceFile) (schema.SourceFile, bool) {
	var stamped []schema.SourceFile
	for _, f := range files {
		if f.CapturedAt != nil {
			stamped = append(stamped, f)
		}
	}
	if len(stamped) > 0 {
		files = stamped
	}
	if len(files) == 0 {
		return schema.SourceFile{}, false
	}

	best := files[0]
	for _, f := range files[1:] {
		if newer(f, best) {
			best = f
		}
	}
	return best, true
}

// newer reports whether a should be preferred over b.
func newer(a, b schema.SourceFile) bool {
	if a.CapturedAt != nil && b.CapturedAt != nil {
		if c := a.CapturedAt.Compare(*b.CapturedAt); c != 0 {
			return c > 0
		}
	} else if !a.ModTime.Equal(b.ModTime) {
		return a.ModTime.After(b.ModTime)
	}
	return filepath.Base(a.Path) > filepath.Base(b.Path)
}

// readDir lists a directory, mapping a missing one to ErrListNotFound.
func readDir(dir string) ([]fs.DirEntry, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrListNotFound, dir)
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrListNotFound, dir)
	}
	return os.ReadDir(dir)
}

// sortFold orders names case-insensitively, breaking ties by exact name.
func sortFold(names []string) {
	sort.Slice(names, func(i, j int) bool {
		a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
