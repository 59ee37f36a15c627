package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/learningequality/alignpro/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for alignpro resources.
	uriScheme = "alignpro://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "models",
		Name:        "models",
		Description: "Trained relevance models",
		MIMEType:    "application/json",
	}, s.handleModelsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "nodes/{nodeId}",
		Name:        "node",
		Description: "A curriculum node",
		MIMEType:    "application/json",
	}, s.handleNodeResource)
}

// handleModelsResource returns the list of trained models.
func (s *Server) handleModelsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	infos, err := s.ports.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	return jsonResource(req.Params.URI, listModelsOutput(infos, s.ports.Models.DefaultModel()))
}

// handleNodeResource returns one node.
func (s *Server) handleNodeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Nodes == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	id, ok := extractNodeID(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	node, err := s.ports.Nodes.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting node: %w", err)
	}
	return jsonResource(req.Params.URI, node)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractNodeID extracts the node ID from a URI like alignpro://nodes/{nodeId}.
func extractNodeID(uri string) (int64, bool) {
	const prefix = uriScheme + "nodes/"

	rest, ok := strings.CutPrefix(uri, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
