package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/devpick/internal/contract"
	"github.com/huangsam/devpick/internal/runstore"
	"github.com/huangsam/devpick/schema"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// storeManager is the global run history manager instance.
var storeManager contract.StoreManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "devpick",
	Short:              "Choose which feasible buildings get built to meet a unit target.",
	Long:               `Devpick turns a table of feasible building proposals into the set of buildings a developer would build this year.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Values from .env never override variables already set in the environment
	_ = godotenv.Load()

	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("DEVPICK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("target-units", contract.DefaultTargetUnits)
	viper.SetDefault("target-vacancy", schema.DefaultTargetVacancy)
	viper.SetDefault("bldg-sqft-per-job", schema.DefaultBldgSqftPerJob)
	viper.SetDefault("min-unit-size", schema.DefaultMinUnitSize)
	viper.SetDefault("max-parcel-size", schema.DefaultMaxParcelSize)
	viper.SetDefault("drop-after-build", true)
	viper.SetDefault("residential", true)
	viper.SetDefault("rounds", contract.DefaultRounds)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("runs-backend", schema.NoneBackend)
	viper.SetDefault("runs-db-connect", "")
	viper.SetDefault("color", "yes")
}

// setConfigFile points viper at an explicit config file or the default search paths.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".devpick") // Name of config file (without extension)
	viper.SetConfigType("yaml")     // We'll use YAML format
	viper.AddConfigPath(".")        // Look in the current directory
	viper.AddConfigPath("$HOME")    // Look in the home directory
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	color.NoColor = color.NoColor || !cfg.UseColors

	// 4. Initialize run history with validated config
	if err := runstore.InitRunStore(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigFile()

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager sets the global run history manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}
