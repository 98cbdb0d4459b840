package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/gamerank/core"
	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/internal/outwriter"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// listArg reads a list name, rejecting anything that would escape the root.
func listArg(request mcp.CallToolRequest) (string, error) {
	name := strings.TrimSpace(request.GetString("list", ""))
	if name == "" {
		return "", fmt.Errorf("list is required")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("list %q must be a folder name under the lists root", name)
	}
	return name, nil
}

// limitArg reads the limit override, falling back to the configured one.
func (h *toolHandler) limitArg(request mcp.CallToolRequest) (int, error) {
	limit := request.GetInt("limit", 0)
	switch {
	case limit < 0:
		return 0, fmt.Errorf("limit must be greater than 0 (received %d)", limit)
	case limit == 0:
		return h.baseCfg.ResultLimit, nil
	case limit > contract.MaxResultLimit:
		return 0, fmt.Errorf("limit cannot exceed %d (received %d)", contract.MaxResultLimit, limit)
	}
	return limit, nil
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListLists(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lists, err := core.ListLists(h.baseCfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	if lists == nil {
		lists = []string{}
	}
	return jsonResult(lists)
}

func (h *toolHandler) handleGetListRanking(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := listArg(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	limit, err := h.limitArg(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := core.GetListRanking(ctx, h.baseCfg.Clone(), h.mgr, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("aggregation failed: %v", err)), nil
	}
	return jsonResult(outwriter.NewRankingView(result, limit))
}

func (h *toolHandler) handleGetGlobalRanking(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, err := h.limitArg(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	cfg := h.baseCfg.Clone()
	cfg.Lists = nil
	result, err := core.GetGlobalRanking(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("aggregation failed: %v", err)), nil
	}
	return jsonResult(outwriter.NewRankingView(result, limit))
}

func (h *toolHandler) handleGetListSources(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := listArg(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	sel, err := core.GetListSources(h.baseCfg, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("selection failed: %v", err)), nil
	}
	return jsonResult(sel)
}
