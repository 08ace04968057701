package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/devpick/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns the raw input produced by the default flag values.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		TargetUnits:    DefaultTargetUnits,
		TargetVacancy:  schema.DefaultTargetVacancy,
		BldgSqftPerJob: schema.DefaultBldgSqftPerJob,
		MinUnitSize:    schema.DefaultMinUnitSize,
		MaxParcelSize:  schema.DefaultMaxParcelSize,
		DropAfterBuild: true,
		Residential:    true,
		Rounds:         DefaultRounds,
		Precision:      DefaultPrecision,
		Output:         "text",
		Color:          "yes",
		RunsBackend:    "none",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*ConfigRawInput)
		expectError string
	}{
		{name: "valid defaults"},
		{
			name:        "invalid output",
			modify:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: "invalid output format",
		},
		{
			name:        "parquet without file",
			modify:      func(in *ConfigRawInput) { in.Output = "parquet" },
			expectError: "--output-file is required",
		},
		{
			name:        "vacancy of one",
			modify:      func(in *ConfigRawInput) { in.TargetVacancy = 1 },
			expectError: "target-vacancy",
		},
		{
			name:        "zero sqft per job",
			modify:      func(in *ConfigRawInput) { in.BldgSqftPerJob = 0 },
			expectError: "bldg-sqft-per-job",
		},
		{
			name:        "precision too high",
			modify:      func(in *ConfigRawInput) { in.Precision = 3 },
			expectError: "precision",
		},
		{
			name:        "zero rounds",
			modify:      func(in *ConfigRawInput) { in.Rounds = 0 },
			expectError: "rounds",
		},
		{
			name:        "bad color",
			modify:      func(in *ConfigRawInput) { in.Color = "maybe" },
			expectError: "invalid --color value",
		},
		{
			name:        "duplicate form",
			modify:      func(in *ConfigRawInput) { in.Forms = "office, office" },
			expectError: "more than once",
		},
		{
			name:        "unknown backend",
			modify:      func(in *ConfigRawInput) { in.RunsBackend = "oracle" },
			expectError: "invalid runs backend",
		},
		{
			name:        "mysql without connection",
			modify:      func(in *ConfigRawInput) { in.RunsBackend = "mysql" },
			expectError: "runs-db-connect is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			if tt.modify != nil {
				tt.modify(input)
			}
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, schema.TextOut, cfg.Output)
			assert.Equal(t, schema.NoneBackend, cfg.RunsBackend)
			assert.True(t, cfg.DeriveTarget())
			assert.Nil(t, cfg.Year)
		})
	}
}

func TestProcessFormsModes(t *testing.T) {
	tests := []struct {
		forms    string
		mode     schema.FormsMode
		expected []string
	}{
		{forms: "", mode: schema.FormsAll},
		{forms: " , ", mode: schema.FormsAll},
		{forms: "residential", mode: schema.FormsSingle, expected: []string{"residential"}},
		{forms: "office, residential", mode: schema.FormsCompete, expected: []string{"office", "residential"}},
	}

	for _, tt := range tests {
		t.Run(tt.forms, func(t *testing.T) {
			input := validInput()
			input.Forms = tt.forms
			cfg := &Config{}
			require.NoError(t, ProcessAndValidate(cfg, input))
			assert.Equal(t, tt.mode, cfg.FormsMode)
			assert.Equal(t, tt.expected, cfg.Forms)
		})
	}
}

func TestProcessAndValidateYearAndTarget(t *testing.T) {
	input := validInput()
	input.Year = 2030
	input.TargetUnits = 25
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	require.NotNil(t, cfg.Year)
	assert.Equal(t, 2030, *cfg.Year)
	assert.False(t, cfg.DeriveTarget())
	assert.Equal(t, 2030, cfg.Params()["year"])

	clone := cfg.Clone()
	*clone.Year = 2040
	assert.Equal(t, 2030, *cfg.Year, "clone must not share the year")
}

func TestRequireInputFiles(t *testing.T) {
	dir := t.TempDir()
	feas := filepath.Join(dir, "feasibility.csv")
	parcels := filepath.Join(dir, "parcels.csv")
	require.NoError(t, os.WriteFile(feas, []byte("parcel_id\n"), 0o644))

	cfg := &Config{FeasibilityPath: feas}
	assert.ErrorContains(t, cfg.RequireInputFiles(), "--parcels is required")

	cfg.ParcelsPath = parcels
	assert.ErrorContains(t, cfg.RequireInputFiles(), "cannot read --parcels")

	require.NoError(t, os.WriteFile(parcels, []byte("parcel_id\n"), 0o644))
	assert.NoError(t, cfg.RequireInputFiles())
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{name: "sqlite empty", backend: schema.SQLiteBackend},
		{name: "none", backend: schema.NoneBackend},
		{name: "mysql ok", backend: schema.MySQLBackend, conn: "user:pass@tcp(localhost:3306)/devpick"},
		{name: "mysql no tcp", backend: schema.MySQLBackend, conn: "user:pass@localhost/devpick", wantErr: true},
		{name: "postgres ok", backend: schema.PostgreSQLBackend, conn: "host=localhost dbname=devpick"},
		{name: "postgres no dbname", backend: schema.PostgreSQLBackend, conn: "host=localhost", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseForms(t *testing.T) {
	forms, mode, err := ParseForms(" residential , office ")
	require.NoError(t, err)
	assert.Equal(t, []string{"residential", "office"}, forms)
	assert.Equal(t, schema.FormsCompete, mode)

	forms, mode, err = ParseForms("")
	require.NoError(t, err)
	assert.Nil(t, forms)
	assert.Equal(t, schema.FormsAll, mode)

	_, _, err = ParseForms("office,office")
	assert.ErrorContains(t, err, "more than once")
}
