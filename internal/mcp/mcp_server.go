// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/scoretools/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// binningOptions are shared by every tool that bins a variable.
func binningOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("method", mcp.Description("Break method. Defaults to 'cleancut', or 'percentiles' when percentiles are given."),
			mcp.Enum("none", "bins", "percentiles", "breaks", "cleancut")),
		mcp.WithNumber("bins", mcp.Description("Number of bins for the bins and cleancut methods (default 10).")),
		mcp.WithString("breaks", mcp.Description("Comma-separated cut points, e.g. '0,500,700'.")),
		mcp.WithString("percentiles", mcp.Description("Comma-separated percentiles, e.g. '10,50,90'.")),
		mcp.WithString("exceptions", mcp.Description("Comma-separated special values kept in their own categories, e.g. '-1,9999'.")),
	}
}

// NewMCPServer initializes and configures the scoretools MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Scoretools Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{baseCfg: baseCfg}

	// --- 1. Tool: cut_variable ---
	cutOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Bin a numeric column of a CSV file and count the records in each category."),
		mcp.WithString("source", mcp.Description("Path to the CSV file."), mcp.Required()),
		mcp.WithString("variable", mcp.Description("Column to bin."), mcp.Required()),
	}, binningOptions()...)
	s.AddTool(mcp.NewTool("cut_variable", cutOpts...), h.handleCutVariable)

	// --- 2. Tool: frequency_table ---
	freqOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Build frequency tables (count, percent and cumulative shares per bin) for CSV columns."),
		mcp.WithString("source", mcp.Description("Path to the CSV file."), mcp.Required()),
		mcp.WithString("variables", mcp.Description("Comma-separated columns to tabulate."), mcp.Required()),
	}, binningOptions()...)
	s.AddTool(mcp.NewTool("frequency_table", freqOpts...), h.handleFrequencyTable)

	// --- 3. Tool: bivariate_table ---
	bivarOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Distribute binary performance fields (e.g. bad flags) over the bins of CSV columns."),
		mcp.WithString("source", mcp.Description("Path to the CSV file."), mcp.Required()),
		mcp.WithString("variables", mcp.Description("Comma-separated columns to bin."), mcp.Required()),
		mcp.WithString("perf", mcp.Description("Comma-separated performance fields with values 0 or 1."), mcp.Required()),
		mcp.WithString("extra", mcp.Description("Comma-separated continuous fields summarized by their mean.")),
	}, binningOptions()...)
	s.AddTool(mcp.NewTool("bivariate_table", bivarOpts...), h.handleBivariateTable)

	// --- 4. Tool: gains_ks ---
	s.AddTool(mcp.NewTool("gains_ks",
		mcp.WithDescription("Rank score and performance pairs by their KS statistic and optionally return the cumulative gains curves."),
		mcp.WithString("source", mcp.Description("Path to the CSV file."), mcp.Required()),
		mcp.WithString("scores", mcp.Description("Comma-separated score columns."), mcp.Required()),
		mcp.WithString("perf", mcp.Description("Comma-separated performance fields with values 0 or 1."), mcp.Required()),
		mcp.WithString("ascending", mcp.Description("One direction for all scores or one per score, e.g. 'true,false'. Defaults to 'true'.")),
		mcp.WithString("exceptions", mcp.Description("Comma-separated score values dropped from the curves.")),
		mcp.WithNumber("dof", mcp.Description("Depth of file in (0, 1] at which the curves are clipped. Defaults to 1.")),
		mcp.WithBoolean("include_points", mcp.Description("Return the curve points as well as the KS statistics.")),
	), h.handleGainsKS)

	return s
}

// StartMCPServer starts the scoretools MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
