package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxIterations bounds IterativeAgent when no limit is configured.
const DefaultMaxIterations = 3

var ErrToolNotFound = errors.New("tool not found")

// LLM generates a completion for a prompt.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Tool is an external capability an agent may invoke.
type Tool interface {
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Runner is implemented by every agent flavour.
type Runner interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// RunnerFunc adapts a plain function, such as LLM.Generate, to Runner.
type RunnerFunc func(ctx context.Context, prompt string) (string, error)

func (f RunnerFunc) Run(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Agent asks the LLM once and hands "search:" responses to the search tool.
type Agent struct {
	llm   LLM
	tools map[string]Tool
}

func New(llm LLM, tools map[string]Tool) *Agent {
	return &Agent{llm: llm, tools: tools}
}

func (a *Agent) Run(ctx context.Context, prompt string) (string, error) {
	response, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	if !strings.Contains(response, "search:") {
		return response, nil
	}

	search, ok := a.tools["search"]
	if !ok {
		return "", fmt.Errorf("%w: search", ErrToolNotFound)
	}

	query := strings.TrimSpace(strings.ReplaceAll(response, "search:", ""))

	result, err := search.Execute(ctx, map[string]any{"query": query})
	if err != nil {
		return "", fmt.Errorf("tool search execution failed: %w", err)
	}

	return "Search result: " + result, nil
}

// IterativeAgent re-asks the LLM until it answers with "DONE:" or the
// iteration budget is used up.
type IterativeAgent struct {
	llm           LLM
	maxIterations int

	// Iteration is the number of LLM calls made by the last Run.
	Iteration int
}

func NewIterative(llm LLM, maxIterations int) *IterativeAgent {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	return &IterativeAgent{llm: llm, maxIterations: maxIterations}
}

func (a *IterativeAgent) Run(ctx context.Context, prompt string) (string, error) {
	a.Iteration = 0

	for range a.maxIterations {
		a.Iteration++

		response, err := a.llm.Generate(ctx, prompt)
		if err != nil {
			return "", err
		}

		if strings.HasPrefix(response, "DONE:") {
			return strings.TrimSpace(strings.ReplaceAll(response, "DONE:", "")), nil
		}
	}

	return fmt.Sprintf("Failed after %d iterations", a.maxIterations), nil
}

var (
	_ Runner = (*Agent)(nil)
	_ Runner = (*IterativeAgent)(nil)
	_ Runner = RunnerFunc(nil)
)
