package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/schema"
)

// Table names for run history.
const (
	runsTable      = "gamerank_runs"
	runTitlesTable = "gamerank_run_titles"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore migrates the history schema to the latest version and
// opens the store.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (*HistoryStoreImpl, error) {
	if err := migrateToLatest(backend, connStr); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	db, err := openDB(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// BeginRun inserts a new run and returns its ID.
func (hs *HistoryStoreImpl) BeginRun(listName string, startTime time.Time, configParams map[string]any) (int64, error) {
	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to encode config params: %w", err)
	}

	runUUID := uuid.NewString()
	quotedTableName := quoteTableName(runsTable, hs.backend)

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, list_name, start_time, config_params) VALUES ($1, $2, $3, $4) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, runUUID, listName, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, list_name, start_time, config_params) VALUES (?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, runUUID, listName, formatTime(startTime, hs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// RecordRanking stores every ranked row of a run in one transaction.
func (hs *HistoryStoreImpl) RecordRanking(runID int64, ranking []schema.RankedTitle) error {
	if len(ranking) == 0 {
		return nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	params := make([]string, 5)
	for i := range params {
		params[i] = placeholder(hs.backend, i+1)
	}
	query := fmt.Sprintf(`INSERT INTO %s (run_id, rank_position, title, total_score, lists_appeared) VALUES (%s)`,
		quoteTableName(runTitlesTable, hs.backend), strings.Join(params, ", "))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare ranking insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range ranking {
		if _, err := stmt.Exec(runID, r.Position, r.Title, r.TotalScore, r.ListsAppeared); err != nil {
			return fmt.Errorf("failed to insert ranked title %q: %w", r.Title, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ranking: %w", err)
	}
	return nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, sourceCount, titleCount int) error {
	quotedTableName := quoteTableName(runsTable, hs.backend)

	// First, get the start_time to calculate duration
	row := hs.db.QueryRow(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(hs.backend, 1)), runID)
	startTime, err := hs.scanTime(row)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	var query string
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, source_count = $3, title_count = $4 WHERE run_id = $5`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, source_count = ?, title_count = ? WHERE run_id = ?`, quotedTableName)
	}
	if _, err := hs.db.Exec(query, formatTime(endTime, hs.backend), durationMs, sourceCount, titleCount, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	return hs.db.Close()
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  true,
		TableSizes: make(map[string]int64),
	}

	quotedRuns := quoteTableName(runsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastStart any
		row := hs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns))
		if err := row.Scan(&status.LastRunID, &lastStart); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastRunTime, err := parseTimeValue(lastStart)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		row = hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns))
		if status.OldestRunTime, err = hs.scanTime(row); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
	}

	for _, table := range []string{runsTable, runTitlesTable} {
		var count int64
		if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalTitlesRanked = int(status.TableSizes[runTitlesTable])

	return status, nil
}

// GetAllRuns retrieves every run ordered by ID.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	query := fmt.Sprintf(`SELECT run_id, run_uuid, list_name, start_time, end_time, run_duration_ms,
		source_count, title_count, config_params FROM %s ORDER BY run_id`, quoteTableName(runsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var start, end any
		if err := rows.Scan(&record.RunID, &record.RunUUID, &record.ListName, &start, &end,
			&record.RunDurationMs, &record.SourceCount, &record.TitleCount, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if record.StartTime, err = parseTimeValue(start); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if end != nil {
			endTime, err := parseTimeValue(end)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllRunTitles retrieves every ranked row ordered by run and position.
func (hs *HistoryStoreImpl) GetAllRunTitles() ([]schema.RunTitleRecord, error) {
	query := fmt.Sprintf(`SELECT run_id, rank_position, title, total_score, lists_appeared
		FROM %s ORDER BY run_id, rank_position`, quoteTableName(runTitlesTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query run titles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunTitleRecord
	for rows.Next() {
		var record schema.RunTitleRecord
		if err := rows.Scan(&record.RunID, &record.Position, &record.Title, &record.TotalScore, &record.ListsAppeared); err != nil {
			return nil, fmt.Errorf("failed to scan run title: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run titles: %w", err)
	}
	return results, nil
}

// scanTime reads a single time column from row.
func (hs *HistoryStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	var v any
	if err := row.Scan(&v); err != nil {
		return time.Time{}, err
	}
	return parseTimeValue(v)
}

// parseTimeValue accepts the representations the drivers hand back: native
// times from MySQL (parseTime=true) and PostgreSQL, RFC3339 text otherwise.
func parseTimeValue(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return parseTimeText(t)
	case []byte:
		return parseTimeText(string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value of type %T", v)
	}
}

func parseTimeText(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	// MySQL without parseTime=true returns DATETIME as text
	return time.Parse("2006-01-02 15:04:05.999999", s)
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
