// Package organize moves flat source snapshots of a list into one
// subdirectory per source, so history can be kept per source.
package organize

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/huangsam/gamerank/core/source"
	"github.com/huangsam/gamerank/schema"
	"go.uber.org/zap"
)

// unknownSource names the folder of a source whose name sanitizes to nothing.
const unknownSource = "unknown_source"

var dirNameReplacer = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	"\"", "_",
	"/", "_",
	"\\", "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// SanitizeDirName makes a source name usable as a folder name on any
// common filesystem, Windows included.
func SanitizeDirName(name string) string {
	name = strings.TrimSpace(dirNameReplacer.Replace(name))
	name = strings.TrimRight(name, " .")
	if _, ok := reservedNames[strings.ToUpper(name)]; ok {
		name += "_"
	}
	if name == "" {
		return unknownSource
	}
	return name
}

// uniquePath returns path, or "name (N).ext" for the smallest N not taken
// on disk or by an earlier planned move.
func uniquePath(path string, taken map[string]struct{}) string {
	free := func(p string) bool {
		if _, ok := taken[p]; ok {
			return false
		}
		_, err := os.Lstat(p)
		return errors.Is(err, os.ErrNotExist)
	}
	if free(path) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		if free(candidate) {
			return candidate
		}
	}
}

// Plan lists the moves that would file every top-level snapshot of a list
// under its source folder. Reserved files and unrecognized names stay put.
func Plan(listDir string) ([]schema.OrganizeMove, error) {
	entries, err := os.ReadDir(listDir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", listDir, err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && source.IsCSV(e.Name()) && !source.IsReserved(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	taken := make(map[string]struct{})
	var moves []schema.OrganizeMove
	for _, name := range names {
		src, ok := source.ParseSourceName(name)
		if !ok {
			zap.L().Warn("Skipping file with unrecognized source",
				zap.String("list", filepath.Base(listDir)),
				zap.String("file", name))
			continue
		}
		dest := uniquePath(filepath.Join(listDir, SanitizeDirName(src), name), taken)
		taken[dest] = struct{}{}
		moves = append(moves, schema.OrganizeMove{From: filepath.Join(listDir, name), To: dest})
	}
	return moves, nil
}

// Apply performs planned moves in order, creating source folders as needed.
func Apply(moves []schema.OrganizeMove) error {
	for _, m := range moves {
		if err := os.MkdirAll(filepath.Dir(m.To), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(m.To), err)
		}
		if err := moveFile(m.From, m.To); err != nil {
			return fmt.Errorf("move %s: %w", m.From, err)
		}
		zap.L().Debug("Moved source file", zap.String("from", m.From), zap.String("to", m.To))
	}
	return nil
}

// Organize plans and, unless dryRun, applies the moves of each list in turn.
func Organize(root string, lists []string, dryRun bool) ([]schema.OrganizeMove, error) {
	if len(lists) == 0 {
		var err error
		if lists, err = source.ListDirs(root); err != nil {
			return nil, err
		}
	}

	var all []schema.OrganizeMove
	for _, list := range lists {
		moves, err := Plan(filepath.Join(root, list))
		if err != nil {
			return all, err
		}
		if !dryRun {
			if err := Apply(moves); err != nil {
				return all, err
			}
		}
		all = append(all, moves...)
	}
	return all, nil
}

// moveFile renames src to dst, copying across filesystems when needed.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyFile(src, dst); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
