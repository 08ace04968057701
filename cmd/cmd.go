// Package cmd defines the command-line interface for devpick.
package cmd

import (
	"github.com/huangsam/devpick/internal/contract"
	"github.com/huangsam/devpick/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(targetCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("feasibility", "", "Feasibility table with one row per parcel and form (.csv or .parquet)")
	rootCmd.PersistentFlags().String("parcels", "", "Parcel attributes table (.csv or .parquet)")
	rootCmd.PersistentFlags().String("forms", "", "Comma-separated forms: empty = all, one = single form, several = compete per parcel")
	rootCmd.PersistentFlags().IntP("target-units", "t", contract.DefaultTargetUnits, "Net units to build (negative = derive from agents, supply and vacancy)")
	rootCmd.PersistentFlags().Int("agents", 0, "Number of agents to house when deriving the target")
	rootCmd.PersistentFlags().Float64("supply", 0, "Units already built when deriving the target")
	rootCmd.PersistentFlags().Float64("target-vacancy", schema.DefaultTargetVacancy, "Target vacancy rate in [0, 1) when deriving the target")
	rootCmd.PersistentFlags().Float64("bldg-sqft-per-job", schema.DefaultBldgSqftPerJob, "Building square feet per job space")
	rootCmd.PersistentFlags().Float64("min-unit-size", schema.DefaultMinUnitSize, "Minimum average residential unit size")
	rootCmd.PersistentFlags().Float64("max-parcel-size", schema.DefaultMaxParcelSize, "Parcels this large or larger are never built on")
	rootCmd.PersistentFlags().Bool("drop-after-build", true, "Remove built parcels from the pool between rounds")
	rootCmd.PersistentFlags().Bool("residential", true, "Count residential units (true) or job spaces (false)")
	rootCmd.PersistentFlags().Int("year", 0, "Year stamped on new buildings (0 = unset)")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Random seed (0 = seed from the clock)")
	rootCmd.PersistentFlags().Int("rounds", contract.DefaultRounds, "Number of consecutive picks against the same pool")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("runs-backend", string(schema.NoneBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname?parseTime=true)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
