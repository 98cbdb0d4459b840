package cmd

import (
	"github.com/huangsam/gamerank/core"
	"github.com/spf13/cobra"
)

// sourcesCmd writes the index of sources across lists.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Index which lists each source contributes to.",
	Long: `Read the about.csv of every list and write <root>/all_sources.csv.

Each row names a source, the number of lists it appears in and those lists.
Rows are ordered by that count, most widely used source first.

Run "gamerank all" first so every list has an up-to-date about.csv.

Examples:
  gamerank sources
  gamerank sources --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("Cannot index sources", core.ExecuteSourcesIndex),
}

// indexCmd writes the lists manifest.
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Write the manifest of lists that have a ranking.",
	Long: `Write <root>/_manifest.json naming every list folder that contains an
aggregated-list.csv, along with the generation time.

Examples:
  gamerank index --root ~/rankings`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("Cannot write lists manifest", core.ExecuteListsManifest),
}

// organizeCmd files flat snapshots into per-source folders.
var organizeCmd = &cobra.Command{
	Use:   "organize [name]...",
	Short: "Move flat source snapshots into one folder per source.",
	Long: `Move every "<Source> - <timestamp>.csv" file at the top of a list folder into
a subfolder named after the source.

Folder names are made safe for every filesystem. A file that would overwrite an
existing one is renamed "name (N).csv". Files without a source name are left alone.

Examples:
  # Preview the moves for every list
  gamerank organize --dry-run

  # Organize only the rpg list
  gamerank organize rpg`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("Cannot organize lists", core.ExecuteOrganize),
}

// coversCmd downloads cover images.
var coversCmd = &cobra.Command{
	Use:   "covers [name]...",
	Short: "Download cover images for the titles of each list.",
	Long: `Download the cover image of every title that carries a CoverImageId column.

Covers are shared by every list: an image already present in --covers-dir is skipped
unless --force is set. Failed downloads are counted and do not stop the others.

Examples:
  # Fetch small and big covers for every list
  gamerank covers

  # Fetch only big covers for the rpg list, 4 at a time, 2 requests per second
  gamerank covers rpg --size big --parallel 4 --rate-limit 2`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("Cannot download covers", core.ExecuteCovers),
}
