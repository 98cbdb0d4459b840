package core

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/gamerank/core/source"
	"github.com/huangsam/gamerank/schema"
)

// BuildSourcesIndex maps every source named in a list's about.csv to the
// lists that use it. Names are matched exactly after trimming.
func BuildSourcesIndex(root string) ([]schema.SourceIndexEntry, error) {
	lists, err := source.ListDirs(root)
	if err != nil {
		return nil, err
	}

	datasets := make(map[string]map[string]struct{})
	for _, list := range lists {
		entries, err := ReadManifest(filepath.Join(root, list, schema.ManifestFileName))
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			name := strings.TrimSpace(e.SourceName)
			if name == "" {
				continue
			}
			if datasets[name] == nil {
				datasets[name] = make(map[string]struct{})
			}
			datasets[name][list] = struct{}{}
		}
	}

	index := make([]schema.SourceIndexEntry, 0, len(datasets))
	for name, set := range datasets {
		names := make([]string, 0, len(set))
		for list := range set {
			names = append(names, list)
		}
		sort.Strings(names)
		index = append(index, schema.SourceIndexEntry{
			SourceName: name,
			Count:      len(names),
			Datasets:   names,
		})
	}
	sort.Slice(index, func(i, j int) bool {
		if index[i].Count != index[j].Count {
			return index[i].Count > index[j].Count
		}
		li, lj := strings.ToLower(index[i].SourceName), strings.ToLower(index[j].SourceName)
		if li != lj {
			return li < lj
		}
		return index[i].SourceName < index[j].SourceName
	})
	return index, nil
}

// BuildListsManifest names every list under root that already has an
// aggregated ranking.
func BuildListsManifest(root string, now time.Time) (schema.ListsManifest, error) {
	manifest := schema.ListsManifest{
		GeneratedAt: now.UTC().Truncate(time.Second),
		Lists:       []string{},
	}
	lists, err := source.ListDirs(root)
	if err != nil {
		return manifest, err
	}
	for _, list := range lists {
		info, err := os.Stat(filepath.Join(root, list, schema.AggregatedFileName))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return manifest, err
		}
		if info.Mode().IsRegular() {
			manifest.Lists = append(manifest.Lists, list)
		}
	}
	return manifest, nil
}
