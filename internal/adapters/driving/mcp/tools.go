package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

// GenerateInput is the input schema for the generate tool.
type GenerateInput struct {
	DryRun bool     `json:"dry_run,omitempty" jsonschema:"compute changes and diffs without writing files"`
	Only   []string `json:"only,omitempty" jsonschema:"annotation kinds to process, e.g. Singleton or GenerateRepositories (default all)"`
}

// HistoryInput is the input schema for the history tool.
type HistoryInput struct {
	ID    string `json:"id,omitempty" jsonschema:"run ID or unique prefix; when set the full run with diffs is returned"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of runs to list (default 10)"`
}

// HistoryOutput is the output schema for the history tool.
type HistoryOutput struct {
	Runs  []RunOutput `json:"runs"`
	Count int         `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate",
		Description: "Run the annotation processor over the project and report what changed",
	}, s.handleGenerate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "history",
		Description: "List recent processor runs or show one run with its diffs",
	}, s.handleHistory)
}

// handleGenerate handles the generate tool invocation.
func (s *Server) handleGenerate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateInput,
) (*mcp.CallToolResult, RunOutput, error) {
	only, err := domain.ParseAnnotationKinds(input.Only)
	if err != nil {
		return nil, RunOutput{}, err
	}

	if s.ports.Diagnostics != nil {
		s.ports.Diagnostics.Drain()
	}

	report, err := s.ports.Processor.Run(ctx, domain.RunOptions{DryRun: input.DryRun, Only: only})
	if err != nil {
		return nil, RunOutput{}, err
	}

	output := toRunOutput(report, input.DryRun)
	if s.ports.Diagnostics != nil {
		for _, d := range s.ports.Diagnostics.Drain() {
			output.Diagnostics = append(output.Diagnostics, d.String())
		}
	}
	return nil, output, nil
}

// handleHistory handles the history tool invocation.
func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	if s.ports.History == nil {
		return nil, HistoryOutput{}, errors.New("run journal is not configured")
	}

	if input.ID != "" {
		report, err := s.ports.History.Get(ctx, input.ID)
		if err != nil {
			return nil, HistoryOutput{}, err
		}
		return nil, HistoryOutput{Runs: []RunOutput{toRunOutput(report, true)}, Count: 1}, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}
	runs, err := s.ports.History.List(ctx, limit)
	if err != nil {
		return nil, HistoryOutput{}, err
	}

	output := HistoryOutput{
		Runs:  make([]RunOutput, len(runs)),
		Count: len(runs),
	}
	for i := range runs {
		output.Runs[i] = toRunOutput(&runs[i], false)
	}
	return nil, output, nil
}
