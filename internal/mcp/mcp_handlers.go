package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/devpick/core"
	"github.com/huangsam/devpick/core/algo"
	"github.com/huangsam/devpick/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

func (h *toolHandler) handlePickBuildings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.FeasibilityPath = request.GetString("feasibility", cfg.FeasibilityPath)
	cfg.ParcelsPath = request.GetString("parcels", cfg.ParcelsPath)
	cfg.TargetUnits = request.GetInt("target_units", cfg.TargetUnits)
	cfg.Residential = request.GetBool("residential", cfg.Residential)
	cfg.Rounds = 1
	if seed := request.GetInt("seed", 0); seed > 0 {
		cfg.Seed = uint64(seed)
	}
	if f := request.GetString("forms", ""); f != "" {
		forms, mode, err := contract.ParseForms(f)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid forms: %v", err)), nil
		}
		cfg.Forms = forms
		cfg.FormsMode = mode
	}

	results, err := core.GetPickResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("pick failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(results[0], "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleUnitsToBuild(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agents := request.GetInt("agents", 0)
	supply := request.GetFloat("supply", 0)
	vacancy := request.GetFloat("target_vacancy", h.baseCfg.TargetVacancy)

	units, err := algo.ComputeUnitsToBuild(agents, supply, vacancy)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(map[string]int{"target_units": units}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
