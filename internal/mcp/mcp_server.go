// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/devpick/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the devpick MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Devpick Allocation Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: pick_buildings ---
	s.AddTool(mcp.NewTool("pick_buildings",
		mcp.WithDescription("Choose which feasible buildings to build so that their net units reach a target."),
		mcp.WithString("feasibility", mcp.Description("Path to the feasibility table (.csv or .parquet)."), mcp.Required()),
		mcp.WithString("parcels", mcp.Description("Path to the parcel attributes table (.csv or .parquet)."), mcp.Required()),
		mcp.WithNumber("target_units", mcp.Description("Net units to build. Negative derives the target from the configured agents and supply.")),
		mcp.WithString("forms", mcp.Description("Comma-separated forms. Empty offers every form, several forms compete per parcel.")),
		mcp.WithNumber("seed", mcp.Description("Random seed. Zero seeds from the clock.")),
		mcp.WithBoolean("residential", mcp.Description("Count residential units (true) or job spaces (false).")),
	), h.handlePickBuildings)

	// --- 2. Tool: units_to_build ---
	s.AddTool(mcp.NewTool("units_to_build",
		mcp.WithDescription("Compute how many units are needed to house agents at a target vacancy."),
		mcp.WithNumber("agents", mcp.Description("Number of agents to house."), mcp.Required()),
		mcp.WithNumber("supply", mcp.Description("Units already built."), mcp.Required()),
		mcp.WithNumber("target_vacancy", mcp.Description("Target vacancy rate in [0, 1).")),
	), h.handleUnitsToBuild)

	return s
}

// StartMCPServer starts the devpick MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
