package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string

	// CoverSize represents which IGDB cover variant to fetch.
	CoverSize string

	// CoverOutcome is the result of one cover fetch task.
	CoverOutcome string
)

// Reserved file names inside a list directory.
const (
	AggregatedFileName = "aggregated-list.csv"
	ManifestFileName   = "about.csv"
)

// Files written at the root of the lists tree.
const (
	SourcesIndexFileName  = "all_sources.csv"
	ListsManifestFileName = "_manifest.json"
)

// SourceSeparator splits the source name from the rest of a snapshot file name.
const SourceSeparator = " - "

// CSV headers of the canonical output files.
var (
	RankingHeader      = []string{"Position", "Title", "TotalScore", "ListsAppeared"}
	ManifestHeader     = []string{"SourceName", "SourceURL", "SourceId", "GeneratedCsvPath"}
	SourcesIndexHeader = []string{"SourceName", "Count", "Datasets"}
)

// RequiredColumns must be present in every source file header.
var RequiredColumns = []string{"Title", "Score", "ReleaseDate"}

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// Cover sizes.
const (
	SmallCover CoverSize = "small"
	BigCover   CoverSize = "big"
	BothCovers CoverSize = "both" // default
)

// Cover fetch outcomes.
const (
	CoverDownloaded CoverOutcome = "downloaded"
	CoverSkipped    CoverOutcome = "skipped"
	CoverFailed     CoverOutcome = "failed"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidCoverSizes lists all valid cover sizes.
var ValidCoverSizes = map[CoverSize]struct{}{
	SmallCover: {},
	BigCover:   {},
	BothCovers: {},
}

// Variants expands a size selection into the concrete sizes to fetch.
func (s CoverSize) Variants() []CoverSize {
	if s == BothCovers {
		return []CoverSize{SmallCover, BigCover}
	}
	return []CoverSize{s}
}
