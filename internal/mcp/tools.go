package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/healthassist-server/internal/domain"
	"github.com/healthassist-server/internal/service"
)

// CheckSymptomsInput is the argument of the check_symptoms tool.
type CheckSymptomsInput struct {
	Symptoms []string `json:"symptoms" jsonschema:"reported symptom labels, for example fever or runny nose"`
}

// CheckSymptomsOutput is the ranked match list.
type CheckSymptomsOutput struct {
	Results []domain.MatchResult `json:"results"`
}

// ListConditionsInput takes no arguments.
type ListConditionsInput struct{}

// ListConditionsOutput is the knowledge base plus its symptom vocabulary.
type ListConditionsOutput struct {
	Conditions []domain.Condition `json:"conditions"`
	Vocabulary []string           `json:"vocabulary"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "check_symptoms",
		Description: "Match reported symptoms against the built-in condition table. " +
			"Returns conditions ranked by matched symptom count, or a single no-match entry. Not a diagnosis.",
	}, s.handleCheckSymptoms)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_conditions",
		Description: "List every known condition with its indicator symptoms and advice.",
	}, s.handleListConditions)

	s.logger.WithField("tool_count", 2).Debug("Registered MCP tools")
}

func (s *Server) handleCheckSymptoms(ctx context.Context, req *mcp.CallToolRequest, in CheckSymptomsInput) (*mcp.CallToolResult, CheckSymptomsOutput, error) {
	results := service.CheckSymptoms(in.Symptoms)

	s.logger.WithFields(logrus.Fields{
		"tool":          "check_symptoms",
		"symptom_count": len(in.Symptoms),
		"result_count":  len(results),
	}).Info("Tool invoked")

	out := CheckSymptomsOutput{Results: results}
	res, err := textResult(out)
	return res, out, err
}

func (s *Server) handleListConditions(ctx context.Context, req *mcp.CallToolRequest, _ ListConditionsInput) (*mcp.CallToolResult, ListConditionsOutput, error) {
	s.logger.WithField("tool", "list_conditions").Info("Tool invoked")

	out := ListConditionsOutput{
		Conditions: service.Conditions(),
		Vocabulary: service.Vocabulary(),
	}
	res, err := textResult(out)
	return res, out, err
}

// textResult renders v as the JSON text content of a tool result.
func textResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}
