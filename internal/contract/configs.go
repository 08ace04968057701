package contract

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/huangsam/devpick/schema"
)

// Default values for configuration.
const (
	DefaultPrecision   = 1
	DefaultRounds      = 1
	MaxRounds          = 1000
	DefaultTargetUnits = -1 // derive the target from agents, supply and vacancy
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a pick.
// This struct is the "final, validated" config.
type Config struct {
	FeasibilityPath string
	ParcelsPath     string

	Forms     []string
	FormsMode schema.FormsMode

	TargetUnits   int // negative means derive from Agents, Supply and TargetVacancy
	Agents        int
	Supply        float64
	TargetVacancy float64

	BldgSqftPerJob float64
	MinUnitSize    float64
	MaxParcelSize  float64
	DropAfterBuild bool
	Residential    bool
	Year           *int
	Seed           uint64 // 0 = seed from the clock
	Rounds         int

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Inputs ---
	Feasibility string `mapstructure:"feasibility"`
	Parcels     string `mapstructure:"parcels"`
	Forms       string `mapstructure:"forms"`

	// --- Target ---
	TargetUnits   int     `mapstructure:"target-units" validate:"gte=-1"`
	Agents        int     `mapstructure:"agents" validate:"gte=0"`
	Supply        float64 `mapstructure:"supply" validate:"gte=0"`
	TargetVacancy float64 `mapstructure:"target-vacancy" validate:"gte=0,lt=1"`

	// --- Model ---
	BldgSqftPerJob float64 `mapstructure:"bldg-sqft-per-job" validate:"gt=0"`
	MinUnitSize    float64 `mapstructure:"min-unit-size" validate:"gt=0"`
	MaxParcelSize  float64 `mapstructure:"max-parcel-size" validate:"gt=0"`
	DropAfterBuild bool    `mapstructure:"drop-after-build"`
	Residential    bool    `mapstructure:"residential"`
	Year           int     `mapstructure:"year" validate:"gte=0"`
	Seed           uint64  `mapstructure:"seed"`
	Rounds         int     `mapstructure:"rounds" validate:"min=1,max=1000"`

	// --- Rendering ---
	Precision  int    `mapstructure:"precision" validate:"min=1,max=2"`
	Output     string `mapstructure:"output" validate:"required"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width" validate:"gte=0"`
	Color      string `mapstructure:"color"`

	// --- Run history ---
	RunsBackend   string `mapstructure:"runs-backend"`
	RunsDBConnect string `mapstructure:"runs-db-connect"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Forms != nil {
		clone.Forms = make([]string, len(c.Forms))
		copy(clone.Forms, c.Forms)
	}
	if c.Year != nil {
		year := *c.Year
		clone.Year = &year
	}
	return &clone
}

// DeriveTarget reports whether the target is computed from agents and supply.
func (c *Config) DeriveTarget() bool {
	return c.TargetUnits < 0
}

// RequireInputFiles checks that both input tables are configured and readable.
func (c *Config) RequireInputFiles() error {
	for flag, path := range map[string]string{"feasibility": c.FeasibilityPath, "parcels": c.ParcelsPath} {
		if path == "" {
			return fmt.Errorf("--%s is required", flag)
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("cannot read --%s: %w", flag, err)
		}
	}
	return nil
}

// Params returns the settings recorded alongside each run.
func (c *Config) Params() map[string]any {
	params := map[string]any{
		"feasibility":       c.FeasibilityPath,
		"parcels":           c.ParcelsPath,
		"forms":             strings.Join(c.Forms, ","),
		"forms_mode":        string(c.FormsMode),
		"target_units":      c.TargetUnits,
		"agents":            c.Agents,
		"supply":            c.Supply,
		"target_vacancy":    c.TargetVacancy,
		"bldg_sqft_per_job": c.BldgSqftPerJob,
		"min_unit_size":     c.MinUnitSize,
		"max_parcel_size":   c.MaxParcelSize,
		"drop_after_build":  c.DropAfterBuild,
		"residential":       c.Residential,
		"rounds":            c.Rounds,
	}
	if c.Year != nil {
		params["year"] = *c.Year
	}
	return params
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := NewValidator().Validate(input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processForms(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// validateSimpleInputs transfers and checks all fields that need no cross-field logic.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.FeasibilityPath = input.Feasibility
	cfg.ParcelsPath = input.Parcels
	cfg.TargetUnits = input.TargetUnits
	cfg.Agents = input.Agents
	cfg.Supply = input.Supply
	cfg.TargetVacancy = input.TargetVacancy
	cfg.BldgSqftPerJob = input.BldgSqftPerJob
	cfg.MinUnitSize = input.MinUnitSize
	cfg.MaxParcelSize = input.MaxParcelSize
	cfg.DropAfterBuild = input.DropAfterBuild
	cfg.Residential = input.Residential
	cfg.Seed = input.Seed
	cfg.Rounds = input.Rounds
	cfg.Precision = input.Precision
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	cfg.Year = nil
	if input.Year > 0 {
		year := input.Year
		cfg.Year = &year
	}

	if math.IsInf(cfg.MaxParcelSize, 0) || math.IsNaN(cfg.MaxParcelSize) {
		return fmt.Errorf("max-parcel-size must be finite (received %v)", cfg.MaxParcelSize)
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for %s output", schema.ParquetOut)
	}
	return nil
}

// processForms splits the forms list and derives the competition mode.
func processForms(cfg *Config, input *ConfigRawInput) error {
	forms, mode, err := ParseForms(input.Forms)
	if err != nil {
		return err
	}
	cfg.Forms = forms
	cfg.FormsMode = mode
	return nil
}

// ParseForms splits a comma-separated forms list. No forms means every form is
// offered, one form restricts the pick to it and several forms compete per parcel.
func ParseForms(list string) ([]string, schema.FormsMode, error) {
	var forms []string
	seen := make(map[string]bool)
	for part := range strings.SplitSeq(list, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if seen[name] {
			return nil, "", fmt.Errorf("form '%s' is listed more than once", name)
		}
		seen[name] = true
		forms = append(forms, name)
	}

	switch len(forms) {
	case 0:
		return nil, schema.FormsAll, nil
	case 1:
		return forms, schema.FormsSingle, nil
	default:
		return forms, schema.FormsCompete, nil
	}
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("runs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("runs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the run history backend.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if cfg.RunsBackend == "" {
		cfg.RunsBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunsBackend]; !ok {
		return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
	}
	cfg.RunsDBConnect = input.RunsDBConnect
	return ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect)
}
