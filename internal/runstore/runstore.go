// Package runstore keeps the history of allocation runs and the buildings they chose.
package runstore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/devpick/internal/contract"
	"github.com/huangsam/devpick/schema"
)

// StoreManager owns the process-wide RunStore.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	runs         contract.RunStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetRunStore returns the configured RunStore, or nil before InitRunStore.
func (mgr *StoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitRunStore initializes the global manager. An empty backend disables run tracking.
func InitRunStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		if backend == "" {
			return
		}
		store, err := NewRunStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize run store: %w", err)
			return
		}
		Manager.Lock()
		Manager.runs = store
		Manager.Unlock()
	})

	return initErr
}

// CloseRunStore should be called on application shutdown.
func CloseRunStore() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

// ClearRuns removes all run history for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the run tables.
// For NoneBackend, it does nothing.
func ClearRuns(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driverName := driverFor(backend)
		for _, table := range []string{buildingsTable, runsTable} {
			if err := dropSQLTable(driverName, connStr, table, backend); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported runs backend for clearing: %s", backend)
	}
}

// dropSQLTable connects to the SQL database and drops the table if it exists.
func dropSQLTable(driverName, connStr, tableName string, backend schema.DatabaseBackend) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}

// driverFor returns the database/sql driver name registered for backend.
func driverFor(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "mysql"
	case schema.PostgreSQLBackend:
		return "pgx"
	default:
		return "sqlite"
	}
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return fmt.Sprintf("`%s`", name)
	}
	return fmt.Sprintf("%q", name)
}
