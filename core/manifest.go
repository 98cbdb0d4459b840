package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/huangsam/gamerank/core/source"
	"github.com/huangsam/gamerank/schema"
)

// ReadManifest reads a list's about.csv. A missing file yields no entries.
func ReadManifest(path string) ([]schema.ManifestEntry, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	entries, err := decodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

func decodeManifest(r io.Reader) ([]schema.ManifestEntry, error) {
	dec, err := source.NewDecoder(r)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []schema.ManifestEntry
	for {
		var e schema.ManifestEntry
		if err := dec.Decode(&e); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// manifestKey matches sources between runs regardless of case and padding.
func manifestKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BuildManifest describes the picks of a list. URL and ID metadata of a
// source already present in prior is kept, along with its spelling.
func BuildManifest(listDir string, picks []schema.SourcePick, prior []schema.ManifestEntry) ([]schema.ManifestEntry, error) {
	known := make(map[string]schema.ManifestEntry, len(prior))
	for _, e := range prior {
		key := manifestKey(e.SourceName)
		if key == "" {
			continue
		}
		known[key] = e
	}

	entries := make([]schema.ManifestEntry, 0, len(picks))
	for _, p := range picks {
		rel, err := filepath.Rel(listDir, p.Path)
		if err != nil {
			return nil, fmt.Errorf("relative path for %s: %w", p.Path, err)
		}
		entry := schema.ManifestEntry{
			SourceName:       p.SourceName,
			GeneratedCSVPath: filepath.ToSlash(rel),
		}
		if prev, ok := known[manifestKey(p.SourceName)]; ok {
			entry.SourceName = prev.SourceName
			entry.SourceURL = prev.SourceURL
			entry.SourceID = prev.SourceID
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		li, lj := strings.ToLower(entries[i].SourceName), strings.ToLower(entries[j].SourceName)
		if li != lj {
			return li < lj
		}
		return entries[i].SourceName < entries[j].SourceName
	})
	return entries, nil
}
