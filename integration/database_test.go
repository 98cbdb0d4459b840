//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestGamerankWithMySQL tests the gamerank CLI with a MySQL backend.
func TestGamerankWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "gamerank",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/gamerank?parseTime=true", host, port.Port())
	runBackendScenario(t, "mysql", connStr)
}

// TestGamerankWithPostgres tests the gamerank CLI with a PostgreSQL backend.
func TestGamerankWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runBackendScenario(t, "postgresql", connStr)
}

// runBackendScenario drives the cache and history commands against one backend.
func runBackendScenario(t *testing.T, backend, connStr string) {
	t.Helper()
	root := writeFixtureRoot(t)
	env := []string{
		"GAMERANK_CACHE_BACKEND=" + backend,
		"GAMERANK_CACHE_DB_CONNECT=" + connStr,
		"GAMERANK_HISTORY_BACKEND=" + backend,
		"GAMERANK_HISTORY_DB_CONNECT=" + connStr,
	}

	_, err := runGamerank(t, env, "history", "migrate")
	require.NoError(t, err)

	_, err = runGamerank(t, env, "all", "--root", root, "--output", "csv")
	require.NoError(t, err)
	_, err = runGamerank(t, env, "list", "rpg", "--root", root, "--output", "csv")
	require.NoError(t, err)

	output, err := runGamerank(t, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "Total Entries: 4")

	output, err = runGamerank(t, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "Total Runs: 4")

	base := fmt.Sprintf("%s/history", t.TempDir())
	_, err = runGamerank(t, env, "history", "export", "--output-file", base)
	require.NoError(t, err)
	assert.FileExists(t, base+".runs.parquet")

	_, err = runGamerank(t, env, "cache", "clear")
	require.NoError(t, err)
	_, err = runGamerank(t, env, "history", "clear")
	require.NoError(t, err)

	output, err = runGamerank(t, env, "history", "status")
	require.NoError(t, err, "the schema is migrated again on open")
	assert.Contains(t, output, "Total Runs: 0")
}
