// Package cmd defines the command-line interface for gamerank.
package cmd

import (
	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(allCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(coversCmd)
	rootCmd.AddCommand(organizeCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("root", contract.DefaultRoot, "Directory holding one folder per list")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of titles to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or xlsx")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.NoneBackend), "Parse cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.DefaultLogFormat, "Log format: console or json")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of allCmd to Viper
	allCmd.Flags().Bool("global", true, "Also write the ranking across every list")
	allCmd.Flags().String("global-output", "", "Where to write the global ranking (default: <root>/aggregated-list.csv)")
	if err := viper.BindPFlags(allCmd.Flags()); err != nil {
		contract.LogFatal("Error binding all flags", err)
	}

	// Bind all flags of coversCmd to Viper
	coversCmd.Flags().String("covers-dir", contract.DefaultCoversDir, "Directory the cover images are written to")
	coversCmd.Flags().String("size", string(schema.BothCovers), "Cover size: small or big or both")
	coversCmd.Flags().String("cover-base-url", contract.DefaultCoverBase, "Base URL of the image service")
	coversCmd.Flags().Bool("force", false, "Download covers that already exist")
	coversCmd.Flags().Int("parallel", contract.DefaultParallel, "Number of concurrent downloads")
	coversCmd.Flags().Float64("rate-limit", 0, "Maximum requests per second (0 = unlimited)")
	coversCmd.Flags().String("timeout", contract.DefaultTimeout.String(), "Timeout of one request")
	if err := viper.BindPFlags(coversCmd.Flags()); err != nil {
		contract.LogFatal("Error binding covers flags", err)
	}

	// Bind all flags of organizeCmd to Viper
	organizeCmd.Flags().Bool("dry-run", false, "Report the moves without performing them")
	if err := viper.BindPFlags(organizeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding organize flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
