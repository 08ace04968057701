package runstore

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/devpick/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateRuns_NoneBackend(t *testing.T) {
	err := MigrateRuns(schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "migrations are not supported for NoneBackend")
}

func TestMigrateRuns_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))
	assert.FileExists(t, dbPath)

	// Running again is a no-op
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 1))
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 0))
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, LatestVersion))

	// The store works against a migrated database
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	_, err = store.BeginRun(sampleTime(), 1, 1, nil)
	assert.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestMigrateRuns_SQLiteAfterStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))
}

func TestMigrateRuns_SQLiteInMemory(t *testing.T) {
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, ":memory:", -1))
}

func TestMigrateRuns_TooNew(t *testing.T) {
	err := MigrateRuns(schema.SQLiteBackend, ":memory:", LatestVersion+1)
	assert.ErrorContains(t, err, "newer than the latest version")
}
