package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// FormsMode represents how building forms are turned into proposals.
	FormsMode string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All run history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All forms modes supported.
const (
	FormsAll     FormsMode = "all"     // every form's rows, possibly several per parcel
	FormsSingle  FormsMode = "single"  // one configured form
	FormsCompete FormsMode = "compete" // most profitable form per parcel
)

// Default values for the developer model.
const (
	DefaultBldgSqftPerJob = 400.0
	DefaultMinUnitSize    = 400.0
	DefaultMaxParcelSize  = 2000000.0
	DefaultTargetVacancy  = 0.1
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid run history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
