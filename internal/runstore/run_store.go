package runstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/google/uuid"
	"github.com/huangsam/devpick/internal/contract"
	"github.com/huangsam/devpick/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for run tracking.
const (
	runsTable      = "devpick_runs"
	buildingsTable = "devpick_buildings"
)

// sqliteTimeFormat keeps a fixed width so stored timestamps sort as text.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetRunsDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname?parseTime=true", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=... user=... password=...", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// createRunTables creates the run tracking tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{buildingsTable, getCreateBuildingsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for devpick_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) PRIMARY KEY,
				started_at DATETIME(6) NOT NULL,
				ended_at DATETIME(6),
				duration_ms BIGINT,
				target_units BIGINT NOT NULL,
				net_units_built DOUBLE NOT NULL DEFAULT 0,
				buildings_built BIGINT NOT NULL DEFAULT 0,
				demand_exceeds_supply BOOLEAN NOT NULL DEFAULT FALSE,
				no_feasible BOOLEAN NOT NULL DEFAULT FALSE,
				seed BIGINT NOT NULL,
				config_params TEXT
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				started_at TIMESTAMPTZ NOT NULL,
				ended_at TIMESTAMPTZ,
				duration_ms BIGINT,
				target_units BIGINT NOT NULL,
				net_units_built DOUBLE PRECISION NOT NULL DEFAULT 0,
				buildings_built BIGINT NOT NULL DEFAULT 0,
				demand_exceeds_supply BOOLEAN NOT NULL DEFAULT FALSE,
				no_feasible BOOLEAN NOT NULL DEFAULT FALSE,
				seed BIGINT NOT NULL,
				config_params TEXT
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				started_at TEXT NOT NULL,
				ended_at TEXT,
				duration_ms INTEGER,
				target_units INTEGER NOT NULL,
				net_units_built REAL NOT NULL DEFAULT 0,
				buildings_built INTEGER NOT NULL DEFAULT 0,
				demand_exceeds_supply INTEGER NOT NULL DEFAULT 0,
				no_feasible INTEGER NOT NULL DEFAULT 0,
				seed INTEGER NOT NULL,
				config_params TEXT
			);
		`, quoted)
	}
}

// getCreateBuildingsQuery returns the CREATE TABLE query for devpick_buildings.
func getCreateBuildingsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(buildingsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) NOT NULL,
				parcel_id VARCHAR(128) NOT NULL,
				form VARCHAR(128) NOT NULL,
				net_units DOUBLE NOT NULL,
				residential_units DOUBLE NOT NULL,
				job_spaces DOUBLE NOT NULL,
				stories DOUBLE NOT NULL,
				max_profit DOUBLE NOT NULL,
				year_built INT,
				PRIMARY KEY (run_id, parcel_id)
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				parcel_id TEXT NOT NULL,
				form TEXT NOT NULL,
				net_units DOUBLE PRECISION NOT NULL,
				residential_units DOUBLE PRECISION NOT NULL,
				job_spaces DOUBLE PRECISION NOT NULL,
				stories DOUBLE PRECISION NOT NULL,
				max_profit DOUBLE PRECISION NOT NULL,
				year_built INT,
				PRIMARY KEY (run_id, parcel_id)
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				parcel_id TEXT NOT NULL,
				form TEXT NOT NULL,
				net_units REAL NOT NULL,
				residential_units REAL NOT NULL,
				job_spaces REAL NOT NULL,
				stories REAL NOT NULL,
				max_profit REAL NOT NULL,
				year_built INTEGER,
				PRIMARY KEY (run_id, parcel_id)
			);
		`, quoted)
	}
}

// disabled reports whether tracking is off for this store.
func (rs *RunStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// placeholders returns n bind parameters in the backend's style.
func (rs *RunStoreImpl) placeholders(n int) []string {
	ph := make([]string, n)
	for i := range ph {
		if rs.backend == schema.PostgreSQLBackend {
			ph[i] = fmt.Sprintf("$%d", i+1)
		} else {
			ph[i] = "?"
		}
	}
	return ph
}

// BeginRun creates a new run and returns its UUID.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, targetUnits int, seed uint64, configParams map[string]any) (string, error) {
	if rs.disabled() {
		return "", nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config params: %w", err)
	}

	runID := uuid.NewString()
	ph := rs.placeholders(5)
	query := fmt.Sprintf(`INSERT INTO %s (run_id, started_at, target_units, seed, config_params) VALUES (%s)`,
		quoteTableName(runsTable, rs.backend), strings.Join(ph, ", "))
	if _, err := rs.db.Exec(query, runID, formatTime(startTime, rs.backend), targetUnits, int64(seed), string(configJSON)); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// RecordBuilding stores one chosen building for a run.
func (rs *RunStoreImpl) RecordBuilding(runID string, b schema.Building) error {
	if rs.disabled() {
		return nil
	}

	var year any
	if b.YearBuilt != nil {
		year = *b.YearBuilt
	}
	ph := rs.placeholders(9)
	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, parcel_id, form, net_units, residential_units,
		                job_spaces, stories, max_profit, year_built)
		VALUES (%s)
	`, quoteTableName(buildingsTable, rs.backend), strings.Join(ph, ", "))
	_, err := rs.db.Exec(query, runID, b.ParcelID, b.Form, b.NetUnits, b.ResidentialUnits,
		b.JobSpaces, b.Stories, b.MaxProfit, year)
	if err != nil {
		return fmt.Errorf("failed to insert building for parcel %s: %w", b.ParcelID, err)
	}
	return nil
}

// EndRun updates the run with its outcome.
func (rs *RunStoreImpl) EndRun(runID string, endTime time.Time, result *schema.PickResult) error {
	if rs.disabled() {
		return nil
	}

	quoted := quoteTableName(runsTable, rs.backend)
	ph := rs.placeholders(1)
	row := rs.db.QueryRow(fmt.Sprintf(`SELECT started_at FROM %s WHERE run_id = %s`, quoted, ph[0]), runID)
	startTime, err := scanTime(row, rs.backend)
	if err != nil {
		return fmt.Errorf("failed to get started_at for run %s: %w", runID, err)
	}

	if result == nil {
		result = &schema.PickResult{NoFeasible: true}
	}
	ph = rs.placeholders(7)
	query := fmt.Sprintf(`
		UPDATE %s SET ended_at = %s, duration_ms = %s, net_units_built = %s, buildings_built = %s,
		              demand_exceeds_supply = %s, no_feasible = %s
		WHERE run_id = %s
	`, quoted, ph[0], ph[1], ph[2], ph[3], ph[4], ph[5], ph[6])
	_, err = rs.db.Exec(query, formatTime(endTime, rs.backend), endTime.Sub(startTime).Milliseconds(),
		result.NetUnitsBuilt, len(result.Buildings), result.DemandExceedsSupply, result.NoFeasible, runID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	runs := quoteTableName(runsTable, rs.backend)
	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := rs.db.QueryRow(fmt.Sprintf("SELECT run_id, started_at FROM %s ORDER BY started_at DESC LIMIT 1", runs))
		var lastStarted any
		if err := row.Scan(&status.LastRunID, &lastStarted); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		last, err := parseTime(lastStarted)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunTime = last

		oldest, err := scanTime(rs.db.QueryRow(fmt.Sprintf("SELECT started_at FROM %s ORDER BY started_at ASC LIMIT 1", runs)), rs.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest
	}

	for _, table := range []string{runsTable, buildingsTable} {
		var count int64
		if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalBuildings = int(status.TableSizes[buildingsTable])

	return status, nil
}

// GetAllRuns retrieves all runs from the store, oldest first.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, started_at, ended_at, duration_ms, target_units, net_units_built,
		buildings_built, demand_exceeds_supply, no_feasible, seed, config_params
		FROM %s ORDER BY started_at, run_id`, quoteTableName(runsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var started, ended any
		if err := rows.Scan(&record.RunID, &started, &ended, &record.DurationMs, &record.TargetUnits,
			&record.NetUnitsBuilt, &record.BuildingsBuilt, &record.DemandExceedsSupply, &record.NoFeasible,
			&record.Seed, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if record.StartedAt, err = parseTime(started); err != nil {
			return nil, fmt.Errorf("failed to parse started_at: %w", err)
		}
		if ended != nil {
			endedAt, err := parseTime(ended)
			if err != nil {
				return nil, fmt.Errorf("failed to parse ended_at: %w", err)
			}
			record.EndedAt = &endedAt
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllBuildings retrieves all recorded buildings from the store.
func (rs *RunStoreImpl) GetAllBuildings() ([]schema.BuildingRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, parcel_id, form, net_units, residential_units, job_spaces,
		stories, max_profit, year_built
		FROM %s ORDER BY run_id, parcel_id`, quoteTableName(buildingsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query buildings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.BuildingRecord
	for rows.Next() {
		var record schema.BuildingRecord
		if err := rows.Scan(&record.RunID, &record.ParcelID, &record.Form, &record.NetUnits,
			&record.ResidentialUnits, &record.JobSpaces, &record.Stories, &record.MaxProfit,
			&record.YearBuilt); err != nil {
			return nil, fmt.Errorf("failed to scan building: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating buildings: %w", err)
	}
	return results, nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(sqliteTimeFormat)
	}
	return t
}

// scanTime reads a single timestamp column written by formatTime.
func scanTime(row *sql.Row, backend schema.DatabaseBackend) (time.Time, error) {
	if backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}

// parseTime converts a scanned timestamp of any backend into a time.Time.
func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	case []byte:
		return time.Parse(time.RFC3339Nano, string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected timestamp type %T", v)
	}
}
