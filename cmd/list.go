package cmd

import (
	"github.com/huangsam/gamerank/core"
	"github.com/huangsam/gamerank/internal/contract"
	"github.com/spf13/cobra"
)

// runExecutor adapts a core executor to a cobra Run function.
func runExecutor(what string, fn core.ExecutorFunc) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := fn(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal(what, err)
		}
	}
}

// listCmd rebuilds one or more lists.
var listCmd = &cobra.Command{
	Use:   "list <name>...",
	Short: "Rebuild the aggregated ranking of the named lists.",
	Long: `Merge the newest snapshot of every source in a list folder into one ranking.

For each list the command:
- Picks one file per source (the newest capture timestamp wins)
- Sums every row's score per title and counts the sources listing it
- Writes aggregated-list.csv and about.csv inside the list folder
- Prints the top titles with a consensus label

Sources are either subfolders of the list, or files named "<Source> - <timestamp>.csv"
directly inside it.

Examples:
  # Rebuild the rpg list under ./list
  gamerank list rpg

  # Rebuild two lists under another root and show the top 50
  gamerank list rpg all_time --root ~/rankings --limit 50

  # Print the ranking as JSON
  gamerank list rpg --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("Cannot rebuild list", core.ExecuteList),
}

// allCmd rebuilds every list and the global ranking.
var allCmd = &cobra.Command{
	Use:   "all [name]...",
	Short: "Rebuild every list and the global ranking.",
	Long: `Rebuild every list folder under the root, then rank the union of all lists.

A list that cannot be aggregated (missing folder, no sources, missing column) is reported
and skipped; the other lists are still written and the command exits with status 1.

The global ranking is written to <root>/aggregated-list.csv unless --global-output is set.
A source that contributes to two lists counts as two sources in the global ranking.

Examples:
  # Rebuild everything under ./list
  gamerank all

  # Rebuild without the global ranking
  gamerank all --global=false

  # Export the summary to a spreadsheet
  gamerank all --output xlsx --output-file rankings.xlsx`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("Cannot rebuild lists", core.ExecuteAll),
}
