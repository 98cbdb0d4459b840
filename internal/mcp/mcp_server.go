// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/gamerank/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the gamerank MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Gamerank Ranking Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: list_lists ---
	s.AddTool(mcp.NewTool("list_lists",
		mcp.WithDescription("List the names of every ranking list under the lists root."),
	), h.handleListLists)

	// --- 2. Tool: get_list_ranking ---
	s.AddTool(mcp.NewTool("get_list_ranking",
		mcp.WithDescription("Aggregate the newest snapshot of every source in a list and return the ranking."),
		mcp.WithString("list", mcp.Description("Name of the list folder under the lists root."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Limit the number of titles returned.")),
	), h.handleGetListRanking)

	// --- 3. Tool: get_global_ranking ---
	s.AddTool(mcp.NewTool("get_global_ranking",
		mcp.WithDescription("Aggregate every list into one global ranking. Lists that fail are left out."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of titles returned.")),
	), h.handleGetGlobalRanking)

	// --- 4. Tool: get_list_sources ---
	s.AddTool(mcp.NewTool("get_list_sources",
		mcp.WithDescription("Show which file is selected for each source of a list."),
		mcp.WithString("list", mcp.Description("Name of the list folder under the lists root."), mcp.Required()),
	), h.handleGetListSources)

	return s
}

// StartMCPServer starts the gamerank MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
