package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/devpick/core/algo"
	"github.com/huangsam/devpick/internal/contract"
	"github.com/huangsam/devpick/internal/feasio"
	"github.com/huangsam/devpick/internal/outwriter"
	"github.com/huangsam/devpick/schema"
)

// ResolveTarget returns the explicit target, or derives it from agents,
// supply and target vacancy when none is set.
func ResolveTarget(cfg *contract.Config) (int, error) {
	if !cfg.DeriveTarget() {
		return cfg.TargetUnits, nil
	}
	return algo.ComputeUnitsToBuild(cfg.Agents, cfg.Supply, cfg.TargetVacancy)
}

// resolveSeed returns the configured seed, or a clock-based one when unset.
func resolveSeed(cfg *contract.Config) uint64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return uint64(time.Now().UnixNano())
}

// ExecutePick reads the inputs, runs every configured round and prints the results.
// It serves as the main entry point for the 'pick' command.
func ExecutePick(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	results, err := GetPickResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WritePicks(results, cfg, duration)
}

// GetPickResults runs the configured pick rounds against one feasibility pool
// and returns one result per round.
func GetPickResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]*schema.PickResult, error) {
	if err := cfg.RequireInputFiles(); err != nil {
		return nil, err
	}
	target, err := ResolveTarget(cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve target units: %w", err)
	}
	seed := resolveSeed(cfg)

	if showHeader(ctx, cfg) {
		logPickHeader(cfg, target, seed)
	}

	tables, err := feasio.ReadFeasibility(cfg.FeasibilityPath)
	if err != nil {
		return nil, err
	}
	parcels, err := feasio.ReadParcels(cfg.ParcelsPath)
	if err != nil {
		return nil, err
	}

	dev := NewDeveloper(NewFeasibilityPool(tables), parcels, DeveloperOptionsFromConfig(cfg))
	return runRounds(ctx, cfg, mgr, dev, target, seed)
}

// runRounds repeats the pick against the same developer, one random stream for all rounds.
func runRounds(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, dev *Developer, target int, seed uint64) ([]*schema.PickResult, error) {
	rounds := max(cfg.Rounds, 1)
	rng := algo.NewRand(seed)
	results := make([]*schema.PickResult, 0, rounds)

	var store contract.RunStore
	if mgr != nil {
		store = mgr.GetRunStore()
	}

	for range rounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		roundCtx := beginRun(ctx, store, cfg, target, seed)

		result, err := dev.Pick(target, rng)
		if err != nil {
			return nil, err
		}
		result.Seed = seed

		endRun(roundCtx, store, result)
		results = append(results, result)
	}
	return results, nil
}

// beginRun starts run tracking when a store is configured. Tracking failures only warn.
func beginRun(ctx context.Context, store contract.RunStore, cfg *contract.Config, target int, seed uint64) context.Context {
	if store == nil {
		return ctx
	}
	runID, err := store.BeginRun(time.Now(), target, seed, cfg.Params())
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return ctx
	}
	return withRunID(ctx, runID)
}

// endRun records the chosen buildings and finalizes the run.
func endRun(ctx context.Context, store contract.RunStore, result *schema.PickResult) {
	runID, ok := getRunID(ctx)
	if store == nil || !ok {
		return
	}
	for _, b := range result.Buildings {
		if err := store.RecordBuilding(runID, b); err != nil {
			contract.LogWarn("Failed to record building", err)
			break
		}
	}
	if err := store.EndRun(runID, time.Now(), result); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

// ExecuteTarget derives the number of units to build and prints it.
// It serves as the main entry point for the 'target' command.
func ExecuteTarget(ctx context.Context, cfg *contract.Config) error {
	units, err := ResolveTarget(cfg)
	if err != nil {
		return err
	}
	if showHeader(ctx, cfg) {
		fmt.Printf("🎯 Target: %d agents, %.0f units of supply, %.1f%% vacancy\n",
			cfg.Agents, cfg.Supply, cfg.TargetVacancy*100)
	}
	return outwriter.NewOutWriter().WriteTarget(units, cfg)
}

// showHeader keeps machine-readable output on stdout free of headers.
func showHeader(ctx context.Context, cfg *contract.Config) bool {
	if shouldSuppressHeader(ctx) {
		return false
	}
	return cfg.Output == schema.TextOut || cfg.Output == "" || cfg.OutputFile != ""
}

// logPickHeader prints a concise, 2-line header for a pick.
func logPickHeader(cfg *contract.Config, target int, seed uint64) {
	forms := "all forms"
	if len(cfg.Forms) > 0 {
		forms = strings.Join(cfg.Forms, ", ")
	}
	fmt.Printf("🏗️ Pick: %d units from %s (Forms: %s, Mode: %s)\n", target, cfg.FeasibilityPath, forms, cfg.FormsMode)
	fmt.Printf("🎲 Seed: %d over %d rounds\n", seed, max(cfg.Rounds, 1))
}
