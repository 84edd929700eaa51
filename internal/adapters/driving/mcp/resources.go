package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for annlib resources.
	uriScheme = "annlib://"

	latestRunURI = uriScheme + "runs/latest"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         latestRunURI,
		Name:        "latest-run",
		Description: "The most recent processor run with its diffs",
		MIMEType:    "application/json",
	}, s.handleLatestRunResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{runId}",
		Name:        "run",
		Description: "A processor run by ID",
		MIMEType:    "application/json",
	}, s.handleRunResource)
}

// handleLatestRunResource returns the most recent run.
func (s *Server) handleLatestRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	report, err := s.ports.History.Latest(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("reading latest run: %w", err)
	}

	return runResource(req.Params.URI, report)
}

// handleRunResource returns one run by ID.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract runId from URI: annlib://runs/{runId}
	runID := extractRunID(req.Params.URI)
	if runID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	report, err := s.ports.History.Get(ctx, runID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("reading run: %w", err)
	}

	return runResource(req.Params.URI, report)
}

func runResource(uri string, report *domain.RunReport) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(toRunOutput(report, true), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling run: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRunID extracts the run ID from a URI like annlib://runs/{runId}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
