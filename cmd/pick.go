package cmd

import (
	"github.com/huangsam/devpick/core"
	"github.com/huangsam/devpick/internal/contract"
	"github.com/spf13/cobra"
)

// pickCmd chooses the buildings to build.
var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose which feasible buildings to build.",
	Long: `Sample feasible building proposals, weighted by profit per parcel size,
until their net new units reach the target.

Each proposal's capacity is derived from its floor area:
- Residential units from residential square feet and the parcel's average unit size
- Job spaces from non-residential square feet
- Existing units on the parcel are subtracted

When the target exceeds what the feasible proposals offer, every proposal is built.
When several forms are offered per parcel, at most one building is chosen per parcel.

Examples:
  # Build 500 residential units
  devpick pick --feasibility feasibility.csv --parcels parcels.csv --target-units 500

  # Let the most profitable of two forms compete on each parcel
  devpick pick --feasibility feasibility.parquet --parcels parcels.parquet \
    --forms residential,mixedresidential --target-units 500

  # Derive the target from households and existing units
  devpick pick --feasibility feasibility.csv --parcels parcels.csv \
    --agents 10000 --supply 9500 --target-vacancy 0.05

  # Three reproducible rounds recorded to SQLite, written as Parquet
  devpick pick --feasibility feasibility.csv --parcels parcels.csv -t 200 \
    --rounds 3 --seed 7 --runs-backend sqlite --output parquet --output-file picks.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePick(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run pick", err)
		}
	},
}

// targetCmd prints the number of units a pick would aim for.
var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Compute how many units need to be built.",
	Long: `Compute the units needed so that all agents fit into the stock at the target vacancy:

  units = max(agents / (1 - target-vacancy) - supply, 0)

An explicit --target-units is printed as is.

Examples:
  # Units needed for 10000 households in 9500 units at 5% vacancy
  devpick target --agents 10000 --supply 9500 --target-vacancy 0.05`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTarget(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot compute target", err)
		}
	},
}
