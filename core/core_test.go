package core

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/internal/iocache"
	"github.com/huangsam/gamerank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// writeFile creates path with its parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newFixtureRoot lays out an "rpg" list with two sources in subfolders.
// IGN also carries an older snapshot that must be ignored.
func newFixtureRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "rpg", "IGN", "IGN - 2025-01-17_20-08-18.csv"),
		"Title,Score,ReleaseDate\nChrono Trigger,10,1995-03-11\nFinal Fantasy VI,9,1994-04-02\n")
	writeFile(t, filepath.Join(root, "rpg", "IGN", "IGN - 2024-06-01_10-00-00.csv"),
		"Title,Score,ReleaseDate\nOld Pick,100,2001\n")
	writeFile(t, filepath.Join(root, "rpg", "GameSpot", "GameSpot - 2025-01-10_08-00-00.csv"),
		"Title,Score,ReleaseDate\nChrono Trigger,8,1995\nTetris,N/A,1984-06-06\n")
	return root
}

func newTestConfig(root string, lists ...string) *contract.Config {
	return &contract.Config{
		Root:        root,
		Lists:       lists,
		ResultLimit: contract.DefaultResultLimit,
		Output:      schema.JSONOut,
	}
}

func newNoStoreManager() *iocache.MockCacheManager {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetCacheStore").Return(nil)
	mgr.On("GetHistoryStore").Return(nil)
	return mgr
}

func TestComputeListAggregatesNewestSnapshots(t *testing.T) {
	root := newFixtureRoot(t)
	cfg := newTestConfig(root)

	result, err := computeList(context.Background(), cfg, newNoStoreManager(), "rpg")
	require.NoError(t, err)

	assert.Equal(t, []schema.RankedTitle{
		{Position: 1, Title: "Chrono Trigger (1995)", TotalScore: 18, ListsAppeared: 2},
		{Position: 2, Title: "Final Fantasy VI (1994)", TotalScore: 9, ListsAppeared: 1},
		{Position: 3, Title: "Tetris (1984)", TotalScore: 0, ListsAppeared: 1},
	}, result.Ranking)
	assert.Equal(t, 4, result.RowCount)
	assert.Equal(t, 27, result.ScoreSum, "the old IGN snapshot never contributes")
	assert.Equal(t, 27, sumScores(result.Ranking))

	require.Len(t, result.Picks, 2)
	assert.Equal(t, "GameSpot", result.Picks[0].SourceName)
	assert.Equal(t, "IGN", result.Picks[1].SourceName)
	assert.Equal(t, "IGN - 2025-01-17_20-08-18.csv", filepath.Base(result.Picks[1].Path))
}

func sumScores(ranked []schema.RankedTitle) int {
	total := 0
	for _, r := range ranked {
		total += r.TotalScore
	}
	return total
}

func TestComputeListErrors(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))
	writeFile(t, filepath.Join(root, "broken", "IGN - 2025-01-01.csv"), "Name,Score\nX,1\n")
	cfg := newTestConfig(root)

	_, err := computeList(context.Background(), cfg, nil, "missing")
	assert.ErrorIs(t, err, ErrListNotFound)

	_, err = computeList(context.Background(), cfg, nil, "empty")
	assert.ErrorIs(t, err, ErrNoSources)

	_, err = computeList(context.Background(), cfg, nil, "broken")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestComputeListHonorsCancellation(t *testing.T) {
	root := newFixtureRoot(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := computeList(ctx, newTestConfig(root), nil, "rpg")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessListWritesFiles(t *testing.T) {
	root := newFixtureRoot(t)
	cfg := newTestConfig(root)
	listDir := filepath.Join(root, "rpg")

	_, err := processList(context.Background(), cfg, newNoStoreManager(), "rpg")
	require.NoError(t, err)

	ranking, err := os.ReadFile(filepath.Join(listDir, schema.AggregatedFileName))
	require.NoError(t, err)
	assert.Equal(t, "Position,Title,TotalScore,ListsAppeared\r\n"+
		"1,Chrono Trigger (1995),18,2\r\n"+
		"2,Final Fantasy VI (1994),9,1\r\n"+
		"3,Tetris (1984),0,1\r\n", string(ranking))

	manifest, err := os.ReadFile(filepath.Join(listDir, schema.ManifestFileName))
	require.NoError(t, err)
	assert.Equal(t, "SourceName,SourceURL,SourceId,GeneratedCsvPath\r\n"+
		"GameSpot,,,GameSpot/GameSpot - 2025-01-10_08-00-00.csv\r\n"+
		"IGN,,,IGN/IGN - 2025-01-17_20-08-18.csv\r\n", string(manifest))

	t.Run("second run is byte identical", func(t *testing.T) {
		_, err := processList(context.Background(), cfg, newNoStoreManager(), "rpg")
		require.NoError(t, err)

		again, err := os.ReadFile(filepath.Join(listDir, schema.AggregatedFileName))
		require.NoError(t, err)
		assert.Equal(t, ranking, again)

		manifestAgain, err := os.ReadFile(filepath.Join(listDir, schema.ManifestFileName))
		require.NoError(t, err)
		assert.Equal(t, manifest, manifestAgain)
	})
}

func TestProcessListKeepsManifestMetadata(t *testing.T) {
	root := newFixtureRoot(t)
	writeFile(t, filepath.Join(root, "rpg", schema.ManifestFileName),
		"SourceName,SourceURL,SourceId,GeneratedCsvPath\n"+
			"ign,https://www.ign.com/rpg,42,stale.csv\n"+
			"Retired,https://example.com,7,retired.csv\n")

	_, err := processList(context.Background(), newTestConfig(root), nil, "rpg")
	require.NoError(t, err)

	entries, err := ReadManifest(filepath.Join(root, "rpg", schema.ManifestFileName))
	require.NoError(t, err)
	assert.Equal(t, []schema.ManifestEntry{
		{SourceName: "GameSpot", GeneratedCSVPath: "GameSpot/GameSpot - 2025-01-10_08-00-00.csv"},
		{SourceName: "ign", SourceURL: "https://www.ign.com/rpg", SourceID: "42", GeneratedCSVPath: "IGN/IGN - 2025-01-17_20-08-18.csv"},
	}, entries)
}

func TestProcessListRecordsHistory(t *testing.T) {
	root := newFixtureRoot(t)
	cfg := newTestConfig(root)

	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", "rpg", mock.AnythingOfType("time.Time"), mock.Anything).Return(int64(7), nil)
	history.On("RecordRanking", int64(7), mock.MatchedBy(func(r []schema.RankedTitle) bool {
		return len(r) == 3 && r[0].Title == "Chrono Trigger (1995)"
	})).Return(nil)
	history.On("EndRun", int64(7), mock.AnythingOfType("time.Time"), 2, 3).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetCacheStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)

	_, err := processList(context.Background(), cfg, mgr, "rpg")
	require.NoError(t, err)
	history.AssertExpectations(t)

	t.Run("tracking failures do not fail the run", func(t *testing.T) {
		failing := &iocache.MockHistoryStore{}
		failing.On("BeginRun", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))
		failingMgr := &iocache.MockCacheManager{}
		failingMgr.On("GetCacheStore").Return(nil)
		failingMgr.On("GetHistoryStore").Return(failing)

		_, err := processList(context.Background(), cfg, failingMgr, "rpg")
		require.NoError(t, err)
		failing.AssertNotCalled(t, "RecordRanking", mock.Anything, mock.Anything)
	})

	t.Run("queries skip history", func(t *testing.T) {
		unused := &iocache.MockHistoryStore{}
		queryMgr := &iocache.MockCacheManager{}
		queryMgr.On("GetCacheStore").Return(nil)
		queryMgr.On("GetHistoryStore").Return(unused)

		_, err := GetListRanking(context.Background(), cfg, queryMgr, "rpg")
		require.NoError(t, err)
		unused.AssertNotCalled(t, "BeginRun", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRunBatchContinuesPastFailures(t *testing.T) {
	root := newFixtureRoot(t)
	writeFile(t, filepath.Join(root, "all_time", "IGN - 2025-01-01.csv"),
		"Title,Score,ReleaseDate\nChrono Trigger,5,1995\nHalf-Life,7,1998-11-19\n")
	writeFile(t, filepath.Join(root, "broken", "Polygon - 2025-01-01.csv"), "Name\nX\n")
	cfg := newTestConfig(root)
	cfg.Global = true

	batch, err := RunBatch(context.Background(), cfg, newNoStoreManager())
	require.ErrorIs(t, err, ErrBatchFailed)

	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "broken", batch.Failures[0].Name)
	assert.ErrorIs(t, batch.Failures[0].Err, ErrMissingColumn)

	require.Len(t, batch.Lists, 2)
	assert.Equal(t, "all_time", batch.Lists[0].Name)
	assert.Equal(t, "rpg", batch.Lists[1].Name)
	assert.FileExists(t, filepath.Join(root, "all_time", schema.AggregatedFileName))
	assert.FileExists(t, filepath.Join(root, "rpg", schema.AggregatedFileName))
	assert.NoFileExists(t, filepath.Join(root, "broken", schema.AggregatedFileName))

	require.NotNil(t, batch.Global)
	assert.Equal(t, schema.GlobalListName, batch.Global.Name)
	assert.Equal(t, schema.RankedTitle{
		Position: 1, Title: "Chrono Trigger (1995)", TotalScore: 23, ListsAppeared: 3,
	}, batch.Global.Ranking[0], "IGN in two lists counts as two sources")
	assert.Equal(t, batch.Lists[0].ScoreSum+batch.Lists[1].ScoreSum, batch.Global.ScoreSum)
	assert.Equal(t, "all_time/IGN", batch.Global.Picks[0].SourceName)

	global, err := os.ReadFile(filepath.Join(root, schema.AggregatedFileName))
	require.NoError(t, err)
	assert.Contains(t, string(global), "1,Chrono Trigger (1995),23,3\r\n")
}

func TestRunBatchWithoutGlobal(t *testing.T) {
	root := newFixtureRoot(t)
	batch, err := RunBatch(context.Background(), newTestConfig(root), nil)
	require.NoError(t, err)
	assert.Nil(t, batch.Global)
	assert.NoFileExists(t, filepath.Join(root, schema.AggregatedFileName))

	_, err = RunBatch(context.Background(), newTestConfig(filepath.Join(root, "nope")), nil)
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestGetGlobalRanking(t *testing.T) {
	root := newFixtureRoot(t)
	writeFile(t, filepath.Join(root, "broken", "Polygon - 2025-01-01.csv"), "Name\nX\n")

	global, err := GetGlobalRanking(context.Background(), newTestConfig(root), nil)
	require.NoError(t, err)
	assert.Equal(t, schema.GlobalListName, global.Name)
	assert.Len(t, global.Ranking, 3)
	assert.NoFileExists(t, filepath.Join(root, schema.AggregatedFileName), "queries never write")
}

func TestListQueries(t *testing.T) {
	root := newFixtureRoot(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	cfg := newTestConfig(root)

	lists, err := ListLists(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"rpg"}, lists)

	sel, err := GetListSources(cfg, "rpg")
	require.NoError(t, err)
	assert.Len(t, sel.Picks, 2)

	_, err = GetListSources(cfg, "missing")
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestExecuteListJSON(t *testing.T) {
	root := newFixtureRoot(t)
	cfg := newTestConfig(root, "rpg")
	cfg.OutputFile = filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, ExecuteList(context.Background(), cfg, newNoStoreManager()))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var view struct {
		List        string `json:"list"`
		SourceCount int    `json:"source_count"`
		Titles      []struct {
			Title string `json:"title"`
			Label string `json:"label"`
		} `json:"titles"`
	}
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, "rpg", view.List)
	assert.Equal(t, 2, view.SourceCount)
	require.Len(t, view.Titles, 3)
	assert.Equal(t, "Chrono Trigger (1995)", view.Titles[0].Title)

	assert.Error(t, ExecuteList(context.Background(), newTestConfig(root), nil), "a list name is required")
	err = ExecuteList(context.Background(), newTestConfig(root, "missing"), nil)
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestExecuteAllReportsFailures(t *testing.T) {
	root := newFixtureRoot(t)
	writeFile(t, filepath.Join(root, "broken", "Polygon - 2025-01-01.csv"), "Name\nX\n")
	cfg := newTestConfig(root)
	cfg.OutputFile = filepath.Join(t.TempDir(), "batch.json")

	err := ExecuteAll(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, ErrBatchFailed)
	assert.FileExists(t, cfg.OutputFile, "the summary is printed even when a list fails")

	quiet := newTestConfig(root)
	quiet.OutputFile = filepath.Join(t.TempDir(), "quiet.json")
	err = ExecuteAll(withSuppressOutput(context.Background()), quiet, nil)
	assert.ErrorIs(t, err, ErrBatchFailed)
	assert.NoFileExists(t, quiet.OutputFile)
}

func TestExecuteSourcesIndexAndManifest(t *testing.T) {
	root := newFixtureRoot(t)
	writeFile(t, filepath.Join(root, "all_time", "IGN - 2025-01-01.csv"),
		"Title,Score,ReleaseDate\nHalf-Life,7,1998\n")
	cfg := newTestConfig(root)
	cfg.OutputFile = filepath.Join(t.TempDir(), "index.json")

	_, err := RunBatch(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NoError(t, ExecuteSourcesIndex(context.Background(), cfg, nil))

	index, err := os.ReadFile(filepath.Join(root, schema.SourcesIndexFileName))
	require.NoError(t, err)
	assert.Equal(t, "SourceName,Count,Datasets\r\n"+
		"IGN,2,all_time;rpg\r\n"+
		"GameSpot,1,rpg\r\n", string(index))

	require.NoError(t, ExecuteListsManifest(context.Background(), cfg, nil))
	data, err := os.ReadFile(filepath.Join(root, schema.ListsManifestFileName))
	require.NoError(t, err)
	var manifest schema.ListsManifest
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, []string{"all_time", "rpg"}, manifest.Lists)
	assert.WithinDuration(t, time.Now(), manifest.GeneratedAt, time.Minute)
}

func TestBuildListsManifestSkipsUnbuiltLists(t *testing.T) {
	root := newFixtureRoot(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pending"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "odd", schema.AggregatedFileName), 0o755))
	writeFile(t, filepath.Join(root, "rpg", schema.AggregatedFileName), "Position,Title,TotalScore,ListsAppeared\r\n")

	now := time.Date(2025, 1, 17, 20, 8, 18, 999, time.FixedZone("X", 3600))
	manifest, err := BuildListsManifest(root, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"rpg"}, manifest.Lists)
	assert.Equal(t, time.Date(2025, 1, 17, 19, 8, 18, 0, time.UTC), manifest.GeneratedAt)

	empty, err := BuildListsManifest(t.TempDir(), now)
	require.NoError(t, err)
	assert.NotNil(t, empty.Lists)
	assert.Empty(t, empty.Lists)
}

func TestBuildSourcesIndexOrdering(t *testing.T) {
	root := t.TempDir()
	header := "SourceName,SourceURL,SourceId,GeneratedCsvPath\n"
	writeFile(t, filepath.Join(root, "a", schema.ManifestFileName), header+"beta,,,x.csv\nAlpha,,,y.csv\n  ,,,z.csv\n")
	writeFile(t, filepath.Join(root, "b", schema.ManifestFileName), header+"beta,,,x.csv\n")
	writeFile(t, filepath.Join(root, "c", schema.ManifestFileName), header+"alpha,,,y.csv\n")
	require.NoError(t, os.Mkdir(filepath.Join(root, "d"), 0o755))

	index, err := BuildSourcesIndex(root)
	require.NoError(t, err)
	assert.Equal(t, []schema.SourceIndexEntry{
		{SourceName: "beta", Count: 2, Datasets: []string{"a", "b"}},
		{SourceName: "Alpha", Count: 1, Datasets: []string{"a"}},
		{SourceName: "alpha", Count: 1, Datasets: []string{"c"}},
	}, index)
}

func TestExecuteOrganizeDryRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "rpg", "IGN - 2025-01-01.csv"), "Title,Score,ReleaseDate\n")
	cfg := newTestConfig(root)
	cfg.DryRun = true
	cfg.OutputFile = filepath.Join(t.TempDir(), "moves.json")

	require.NoError(t, ExecuteOrganize(context.Background(), cfg, nil))
	assert.FileExists(t, filepath.Join(root, "rpg", "IGN - 2025-01-01.csv"))
	assert.FileExists(t, cfg.OutputFile)
}

func TestExecuteCoversSkipsUnreadableList(t *testing.T) {
	var requests []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, r.URL.Path)
		mu.Unlock()
		_, _ = w.Write([]byte("jpeg"))
	}))
	defer srv.Close()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a_broken", "IGN - 2025-01-01_00-00-00.csv"),
		"Title,ReleaseDate,CoverImageId\nDoom,1993,co1\n")
	writeFile(t, filepath.Join(root, "b_good", "IGN - 2025-01-01_00-00-00.csv"),
		"Title,Score,ReleaseDate,CoverImageId\nQuake,5,1996,co2\n")

	cfg := newTestConfig(root)
	cfg.CoversDir = filepath.Join(t.TempDir(), "covers")
	cfg.CoverSize = schema.BigCover
	cfg.CoverBaseURL = srv.URL
	cfg.Parallel = 2
	cfg.Timeout = 5 * time.Second
	cfg.OutputFile = filepath.Join(t.TempDir(), "covers.json")

	require.NoError(t, ExecuteCovers(context.Background(), cfg, nil))
	assert.FileExists(t, filepath.Join(cfg.CoversDir, "co2_big.jpg"))
	assert.NoFileExists(t, filepath.Join(cfg.CoversDir, "co1_big.jpg"))
	assert.Equal(t, []string{"/t_cover_big/co2.jpg"}, requests)

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "b_good")
	assert.NotContains(t, string(data), "a_broken")
}
