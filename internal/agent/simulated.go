package agent

import (
	"context"
	"fmt"
	"time"
)

// SimulatedLLM waits for Latency and answers with a canned response.
type SimulatedLLM struct {
	Model   string
	Latency time.Duration
}

func (s *SimulatedLLM) Generate(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(s.Latency):
	}

	return fmt.Sprintf("Agent (%s) response to: %s", s.Model, prompt), nil
}

// SearchTool pretends to query a search engine.
type SearchTool struct{}

func (SearchTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return "", fmt.Errorf("missing search query")
	}

	return "results for " + query, nil
}

var (
	_ LLM  = (*SimulatedLLM)(nil)
	_ Tool = SearchTool{}
)
