package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/learningequality/alignpro/internal/core/domain"
)

// uiName identifies judgments recorded through this server.
const uiName = "mcp"

// NextPairInput is the input schema for the next_pair tool.
type NextPairInput struct {
	Model             string   `json:"model,omitempty" jsonschema:"trained model name (default: configured model)"`
	Policy            string   `json:"policy,omitempty" jsonschema:"weighted or uniform-random (default: configured policy)"`
	Gamma             *float64 `json:"gamma,omitempty" jsonschema:"skew exponent for the weighted policy (default: configured gamma)"`
	LeftRootID        *int64   `json:"left_root_id,omitempty" jsonschema:"restrict the left node to this subtree"`
	RightRootID       *int64   `json:"right_root_id,omitempty" jsonschema:"restrict the right node to this subtree"`
	AllowSameDocument *bool    `json:"allow_same_document,omitempty" jsonschema:"allow both nodes from one document"`
	IncludeNonLeaf    *bool    `json:"include_nonleaf,omitempty" jsonschema:"allow nodes that have children"`
	PublishedOnly     bool     `json:"published_only,omitempty" jsonschema:"skip nodes of draft documents"`
	Seed              *uint64  `json:"seed,omitempty" jsonschema:"seed for a reproducible draw"`
}

// NodeOutput is a node summary.
type NodeOutput struct {
	ID         int64  `json:"id"`
	DocumentID int64  `json:"document_id"`
	Identifier string `json:"identifier,omitempty"`
	Title      string `json:"title"`
	Kind       string `json:"kind"`
	Depth      int    `json:"depth"`
}

// NextPairOutput is the output schema for the next_pair tool.
type NextPairOutput struct {
	Model        string               `json:"model"`
	Policy       string               `json:"policy"`
	Left         int64                `json:"left"`
	Right        int64                `json:"right"`
	LeftNode     *NodeOutput          `json:"left_node,omitempty"`
	RightNode    *NodeOutput          `json:"right_node,omitempty"`
	Score        float64              `json:"score"`
	Probability  float64              `json:"probability"`
	TopWeights   []domain.WeightEntry `json:"top_weights"`
	UsedFallback bool                 `json:"used_fallback"`
}

// RecommendInput is the input schema for the recommend tool.
type RecommendInput struct {
	NodeID              int64    `json:"node_id" jsonschema:"the target node"`
	Model               string   `json:"model,omitempty" jsonschema:"trained model name (default: configured model)"`
	Threshold           *float64 `json:"threshold,omitempty" jsonschema:"only return nodes scoring above this"`
	Count               *int     `json:"count,omitempty" jsonschema:"maximum number of results"`
	IncludeSameDocument bool     `json:"include_same_document,omitempty" jsonschema:"keep nodes from the target's document"`
}

// RecommendationOutput is one ranked node.
type RecommendationOutput struct {
	NodeID int64       `json:"node_id"`
	Score  float64     `json:"score"`
	Node   *NodeOutput `json:"node,omitempty"`
}

// RecommendOutput is the output schema for the recommend tool.
type RecommendOutput struct {
	Model  string                 `json:"model"`
	Target *NodeOutput            `json:"target,omitempty"`
	Items  []RecommendationOutput `json:"items"`
	Total  int                    `json:"total"`
}

// ListModelsInput is the (empty) input schema for the list_models tool.
type ListModelsInput struct{}

// ModelOutput describes one trained model.
type ModelOutput struct {
	Name      string `json:"name"`
	Version   string `json:"version,omitempty"`
	GitHash   string `json:"git_hash,omitempty"`
	ModTime   string `json:"mod_time"`
	SizeBytes int64  `json:"size_bytes"`
	Rows      int    `json:"rows"`
	Default   bool   `json:"default"`
}

// ListModelsOutput is the output schema for the list_models tool.
type ListModelsOutput struct {
	Models []ModelOutput `json:"models"`
	Count  int           `json:"count"`
}

// RecordJudgmentInput is the input schema for the record_judgment tool.
type RecordJudgmentInput struct {
	Node1ID    int64    `json:"node1_id" jsonschema:"first node of the pair"`
	Node2ID    int64    `json:"node2_id" jsonschema:"second node of the pair"`
	Rating     float64  `json:"rating" jsonschema:"relevance between 0 and 1 (0 unrelated, 0.5 partial, 1 related)"`
	Confidence *float64 `json:"confidence,omitempty" jsonschema:"annotator confidence between 0 and 1"`
	UserID     string   `json:"user_id,omitempty" jsonschema:"annotator identifier"`
	Mode       string   `json:"mode,omitempty" jsonschema:"manual or rapid (default manual)"`
}

// RecordJudgmentOutput is the output schema for the record_judgment tool.
type RecordJudgmentOutput struct {
	ID         string `json:"id"`
	IsTestData bool   `json:"is_test_data"`
	CreatedAt  string `json:"created_at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "next_pair",
		Description: "Draw the next pair of curriculum nodes for a human to judge",
	}, s.handleNextPair)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_models",
		Description: "List the trained relevance models",
	}, s.handleListModels)

	if s.ports.Recommend != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "recommend",
			Description: "Rank curriculum nodes related to a target node",
		}, s.handleRecommend)
	}

	if s.ports.Judgments != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "record_judgment",
			Description: "Record a human relevance judgment between two nodes",
		}, s.handleRecordJudgment)
	}
}

// handleNextPair handles the next_pair tool invocation.
func (s *Server) handleNextPair(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input NextPairInput,
) (*mcp.CallToolResult, NextPairOutput, error) {
	sampling := s.ports.settings().Sampling

	req := domain.PairRequest{
		Model:             input.Model,
		Policy:            domain.SchedulerPolicy(input.Policy),
		Gamma:             sampling.Gamma,
		LeftRootID:        input.LeftRootID,
		RightRootID:       input.RightRootID,
		AllowSameDocument: sampling.AllowSameDocument,
		IncludeNonLeaf:    sampling.IncludeNonLeaf,
		PublishedOnly:     input.PublishedOnly,
		Seed:              input.Seed,
	}
	if req.Policy == "" {
		req.Policy = sampling.Policy
	}
	if input.Gamma != nil {
		req.Gamma = *input.Gamma
	}
	if input.AllowSameDocument != nil {
		req.AllowSameDocument = *input.AllowSameDocument
	}
	if input.IncludeNonLeaf != nil {
		req.IncludeNonLeaf = *input.IncludeNonLeaf
	}

	pair, err := s.ports.Pairs.NextPair(ctx, req)
	if err != nil {
		return nil, NextPairOutput{}, toolError(err)
	}

	return nil, NextPairOutput{
		Model:        pair.Model,
		Policy:       string(pair.Policy),
		Left:         pair.Left,
		Right:        pair.Right,
		LeftNode:     nodeOutput(pair.LeftNode),
		RightNode:    nodeOutput(pair.RightNode),
		Score:        pair.Score,
		Probability:  pair.Probability,
		TopWeights:   pair.TopWeights,
		UsedFallback: pair.UsedFallback,
	}, nil
}

// handleRecommend handles the recommend tool invocation.
func (s *Server) handleRecommend(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecommendInput,
) (*mcp.CallToolResult, RecommendOutput, error) {
	req := domain.RecommendRequest{
		Model:               input.Model,
		TargetID:            input.NodeID,
		Threshold:           input.Threshold,
		Count:               input.Count,
		IncludeSameDocument: input.IncludeSameDocument,
	}
	req.ApplyDefaultCount(s.ports.settings().Recommend.Count)

	result, err := s.ports.Recommend.Recommend(ctx, req)
	if err != nil {
		return nil, RecommendOutput{}, toolError(err)
	}

	output := RecommendOutput{
		Model:  result.Model,
		Target: nodeOutput(result.Target),
		Items:  make([]RecommendationOutput, len(result.Items)),
		Total:  result.Total,
	}
	for i, item := range result.Items {
		output.Items[i] = RecommendationOutput{
			NodeID: item.NodeID,
			Score:  item.Score,
			Node:   nodeOutput(item.Node),
		}
	}
	return nil, output, nil
}

// handleListModels handles the list_models tool invocation.
func (s *Server) handleListModels(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListModelsInput,
) (*mcp.CallToolResult, ListModelsOutput, error) {
	infos, err := s.ports.Models.List(ctx)
	if err != nil {
		return nil, ListModelsOutput{}, err
	}
	return nil, listModelsOutput(infos, s.ports.Models.DefaultModel()), nil
}

// handleRecordJudgment handles the record_judgment tool invocation.
func (s *Server) handleRecordJudgment(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecordJudgmentInput,
) (*mcp.CallToolResult, RecordJudgmentOutput, error) {
	if input.Node1ID == 0 || input.Node2ID == 0 {
		return nil, RecordJudgmentOutput{}, toolError(
			errors.Join(domain.ErrInvalidInput, errors.New("node1_id and node2_id are required")))
	}

	j, err := s.ports.Judgments.Record(ctx, domain.Judgment{
		Node1ID:       input.Node1ID,
		Node2ID:       input.Node2ID,
		Rating:        input.Rating,
		Confidence:    input.Confidence,
		Mode:          domain.JudgmentMode(input.Mode),
		UserID:        input.UserID,
		UIName:        uiName,
		UIVersionHash: Version,
	})
	if err != nil {
		return nil, RecordJudgmentOutput{}, toolError(err)
	}

	return nil, RecordJudgmentOutput{
		ID:         j.ID,
		IsTestData: j.IsTest(),
		CreatedAt:  j.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

func nodeOutput(n *domain.Node) *NodeOutput {
	if n == nil {
		return nil
	}
	return &NodeOutput{
		ID:         n.ID,
		DocumentID: n.DocumentID,
		Identifier: n.Identifier,
		Title:      n.Title,
		Kind:       string(n.Kind),
		Depth:      n.Depth,
	}
}

func listModelsOutput(infos []domain.ModelInfo, defaultModel string) ListModelsOutput {
	output := ListModelsOutput{
		Models: make([]ModelOutput, len(infos)),
		Count:  len(infos),
	}
	for i, info := range infos {
		output.Models[i] = ModelOutput{
			Name:      info.Name,
			Version:   info.Version,
			GitHash:   info.GitHash,
			ModTime:   info.ModTime.UTC().Format("2006-01-02T15:04:05Z07:00"),
			SizeBytes: info.SizeBytes,
			Rows:      info.Rows,
			Default:   info.Name == defaultModel,
		}
	}
	return output
}
