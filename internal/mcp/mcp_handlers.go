package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/scoretools/core"
	"github.com/huangsam/scoretools/internal/contract"
	"github.com/huangsam/scoretools/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

// cutCategory is one category of a cut_variable result.
type cutCategory struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// cutResult is the cut_variable response.
type cutResult struct {
	Variable   string        `json:"variable"`
	Records    int           `json:"records"`
	Unbinned   int           `json:"unbinned"`
	Categories []cutCategory `json:"categories"`
}

// applyBinning overlays the binning arguments of a request onto cfg.
func applyBinning(cfg *contract.Config, request mcp.CallToolRequest) error {
	var err error
	if s := request.GetString("breaks", ""); s != "" {
		if cfg.Breaks, err = contract.ParseFloatList(s); err != nil {
			return fmt.Errorf("invalid breaks: %w", err)
		}
	}
	if s := request.GetString("percentiles", ""); s != "" {
		if cfg.Percentiles, err = contract.ParseFloatList(s); err != nil {
			return fmt.Errorf("invalid percentiles: %w", err)
		}
	}
	if s := request.GetString("exceptions", ""); s != "" {
		if cfg.Exceptions, err = contract.ParseFloatList(s); err != nil {
			return fmt.Errorf("invalid exceptions: %w", err)
		}
	}
	if n := request.GetInt("bins", 0); n != 0 {
		cfg.Bins = n
	}
	switch m := strings.ToLower(request.GetString("method", "")); {
	case m != "":
		cfg.Method = schema.BreakMethod(m)
	case len(cfg.Percentiles) > 0:
		cfg.Method = schema.PercentileBreak
	}
	return contract.RevalidateBinning(cfg)
}

// prepare clones the base config and applies the source and binning arguments.
func (h *toolHandler) prepare(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	cfg.Source = request.GetString("source", "")
	if cfg.Source == "" {
		return nil, fmt.Errorf("source is required")
	}
	return cfg, applyBinning(cfg, request)
}

func jsonResult(data any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleCutVariable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.Variables = contract.ParseStringList(request.GetString("variable", ""))
	if len(cfg.Variables) != 1 {
		return mcp.NewToolResultError("invalid parameters: exactly one variable is required"), nil
	}

	results, _, err := core.GetCutResults(core.WithSuppressHeader(ctx), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("binning failed: %v", err)), nil
	}

	c := results[0].Categorical
	counts := c.Counts()
	out := cutResult{Variable: c.Name, Records: c.Len(), Unbinned: c.NullCount()}
	for i, label := range c.Categories {
		out.Categories = append(out.Categories, cutCategory{Label: label, Count: counts[i]})
	}
	return jsonResult(out), nil
}

func (h *toolHandler) handleFrequencyTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.Variables = contract.ParseStringList(request.GetString("variables", ""))

	results, _, err := core.GetFreqResults(core.WithSuppressHeader(ctx), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("frequency table failed: %v", err)), nil
	}
	return jsonResult(results), nil
}

func (h *toolHandler) handleBivariateTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.Variables = contract.ParseStringList(request.GetString("variables", ""))
	cfg.Perfs = contract.ParseStringList(request.GetString("perf", ""))
	cfg.ExtraVars = contract.ParseStringList(request.GetString("extra", ""))

	results, _, err := core.GetBivarResults(core.WithSuppressHeader(ctx), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("bivariate table failed: %v", err)), nil
	}
	return jsonResult(results), nil
}

func (h *toolHandler) handleGainsKS(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Source = request.GetString("source", "")
	cfg.Scores = contract.ParseStringList(request.GetString("scores", ""))
	cfg.Perfs = contract.ParseStringList(request.GetString("perf", ""))
	if s := request.GetString("ascending", ""); s != "" {
		asc, err := contract.ParseBoolList(s)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: ascending: %v", err)), nil
		}
		cfg.Ascending = asc
	}
	if len(cfg.Ascending) == 0 {
		cfg.Ascending = []bool{true}
	}
	if s := request.GetString("exceptions", ""); s != "" {
		exc, err := contract.ParseFloatList(s)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: exceptions: %v", err)), nil
		}
		cfg.Exceptions = exc
	}
	cfg.DepthOfFile = request.GetFloat("dof", contract.DefaultDepthOfFile)
	if err := contract.RevalidateGains(cfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	series, _, err := core.GetGainsResults(core.WithSuppressHeader(ctx), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("gains failed: %v", err)), nil
	}
	if !request.GetBool("include_points", false) {
		for i := range series {
			series[i].Points = nil
		}
	}
	return jsonResult(series), nil
}
