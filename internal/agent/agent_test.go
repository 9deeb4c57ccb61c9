package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)

	return args.String(0), args.Error(1)
}

type mockTool struct {
	mock.Mock
}

func (m *mockTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	res := m.Called(ctx, args)

	return res.String(0), res.Error(1)
}

func TestAgentReturnsLLMResponse(t *testing.T) {
	llm := new(mockLLM)
	llm.On("Generate", mock.Anything, "What is AI?").Return("Hello, I'm an agent", nil).Once()

	search := new(mockTool)

	result, err := New(llm, map[string]Tool{"search": search}).Run(context.Background(), "What is AI?")
	require.NoError(t, err)
	assert.Equal(t, "Hello, I'm an agent", result)

	llm.AssertExpectations(t)
	search.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestAgentSearchesWhenAsked(t *testing.T) {
	llm := new(mockLLM)
	llm.On("Generate", mock.Anything, "How do I learn Python?").Return("search: python programming", nil)

	search := new(mockTool)
	search.On("Execute", mock.Anything, map[string]any{"query": "python programming"}).
		Return("Python is a programming language", nil).
		Once()

	result, err := New(llm, map[string]Tool{"search": search}).Run(context.Background(), "How do I learn Python?")
	require.NoError(t, err)
	assert.Equal(t, "Search result: Python is a programming language", result)

	search.AssertExpectations(t)
}

func TestAgentPropagatesLLMErrors(t *testing.T) {
	boom := errors.New("API timeout")

	llm := new(mockLLM)
	llm.On("Generate", mock.Anything, "prompt").Return("", boom)

	_, err := New(llm, nil).Run(context.Background(), "prompt")
	assert.ErrorIs(t, err, boom)
}

func TestAgentWithoutSearchTool(t *testing.T) {
	llm := new(mockLLM)
	llm.On("Generate", mock.Anything, "prompt").Return("search: anything", nil)

	_, err := New(llm, map[string]Tool{}).Run(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestAgentCallOrder(t *testing.T) {
	llm := new(mockLLM)
	llm.On("Generate", mock.Anything, mock.Anything).Return("ok", nil)

	a := New(llm, nil)
	for _, p := range []string{"prompt1", "prompt2", "prompt2"} {
		_, err := a.Run(context.Background(), p)
		require.NoError(t, err)
	}

	llm.AssertNumberOfCalls(t, "Generate", 3)
	llm.AssertCalled(t, "Generate", mock.Anything, "prompt1")

	prompts := make([]string, 0, len(llm.Calls))
	for _, c := range llm.Calls {
		prompts = append(prompts, c.Arguments.String(1))
	}
	assert.Equal(t, []string{"prompt1", "prompt2", "prompt2"}, prompts)
}

func TestIterativeAgent(t *testing.T) {
	llm := new(mockLLM)
	llm.On("Generate", mock.Anything, "Complex question").Return("Thinking...", nil).Once()
	llm.On("Generate", mock.Anything, "Complex question").Return("Still thinking...", nil).Once()
	llm.On("Generate", mock.Anything, "Complex question").Return("DONE: Final answer", nil).Once()

	a := NewIterative(llm, 5)

	result, err := a.Run(context.Background(), "Complex question")
	require.NoError(t, err)
	assert.Equal(t, "Final answer", result)
	assert.Equal(t, 3, a.Iteration)
	llm.AssertNumberOfCalls(t, "Generate", 3)
}

func TestIterativeAgentGivesUp(t *testing.T) {
	llm := new(mockLLM)
	llm.On("Generate", mock.Anything, mock.Anything).Return("Thinking...", nil)

	a := NewIterative(llm, 0)

	result, err := a.Run(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, "Failed after 3 iterations", result)
	assert.Equal(t, DefaultMaxIterations, a.Iteration)
}

func TestSimulatedLLM(t *testing.T) {
	llm := &SimulatedLLM{Model: "llama2", Latency: time.Millisecond}

	res, err := llm.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "Agent (llama2) response to: hi", res)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = (&SimulatedLLM{Latency: time.Hour}).Generate(ctx, "hi")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchTool(t *testing.T) {
	res, err := SearchTool{}.Execute(context.Background(), map[string]any{"query": "go"})
	require.NoError(t, err)
	assert.Equal(t, "results for go", res)

	_, err = SearchTool{}.Execute(context.Background(), map[string]any{})
	assert.Error(t, err)
}
