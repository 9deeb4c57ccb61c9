package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTaskCreate(t *testing.T) {
	long := strings.Repeat("x", 101)

	cases := []struct {
		name    string
		input   TaskCreate
		wantLoc []string
		wantMsg string
	}{
		{"valid", TaskCreate{Title: "write docs"}, nil, ""},
		{"missing title", TaskCreate{}, []string{"body", "title"}, "field required"},
		{"title too long", TaskCreate{Title: long}, []string{"body", "title"}, "ensure this value has at most 100 characters"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Validate(c.input)
			if c.wantLoc == nil {
				assert.NoError(t, err)
				return
			}

			details, ok := Details(err)
			require.True(t, ok, "expected field errors, got %v", err)
			require.Len(t, details, 1)
			assert.Equal(t, c.wantLoc, details[0].Loc)
			assert.Equal(t, c.wantMsg, details[0].Msg)
		})
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	desc := strings.Repeat("d", 501)

	err := Validate(TaskCreate{Description: &desc})

	details, ok := Details(err)
	require.True(t, ok)
	require.Len(t, details, 2)

	var fields []string
	for _, d := range details {
		fields = append(fields, d.Loc[1])
	}
	assert.ElementsMatch(t, []string{"title", "description"}, fields)
}

func TestDecodeItemCreate(t *testing.T) {
	t.Run("missing price", func(t *testing.T) {
		var in ItemCreate
		err := Decode(strings.NewReader(`{"name": "Widget"}`), &in)

		details, ok := Details(err)
		require.True(t, ok)
		assert.Equal(t, []string{"body", "price"}, details[0].Loc)
		assert.Equal(t, "value_error.missing", details[0].Type)
	})

	t.Run("wrong type", func(t *testing.T) {
		var in ItemCreate
		err := Decode(strings.NewReader(`{"name": "Widget", "price": "cheap"}`), &in)

		details, ok := Details(err)
		require.True(t, ok)
		assert.Equal(t, []string{"body", "price"}, details[0].Loc)
	})

	t.Run("empty body", func(t *testing.T) {
		var in ItemCreate
		err := Decode(strings.NewReader(""), &in)

		details, ok := Details(err)
		require.True(t, ok)
		assert.Equal(t, []string{"body"}, details[0].Loc)
	})

	t.Run("default tax", func(t *testing.T) {
		var in ItemCreate
		require.NoError(t, Decode(strings.NewReader(`{"name": "Widget", "price": 9.99}`), &in))

		item := in.Item()
		assert.Equal(t, "Widget", item.Name)
		assert.Equal(t, 9.99, item.Price)
		assert.Equal(t, DefaultTax, item.Tax)
	})
}

func TestTaskUpdateApply(t *testing.T) {
	desc := "old"
	task := Task{ID: 1, Title: "title", Description: &desc}

	done := true
	updated := TaskUpdate{Completed: &done}.Apply(task)

	assert.Equal(t, "title", updated.Title)
	assert.Equal(t, "old", *updated.Description)
	assert.True(t, updated.Completed)
	assert.False(t, task.Completed, "apply must not modify the original")
}

func TestDecodeAgentRequest(t *testing.T) {
	var req AgentRequest
	require.NoError(t, Decode(strings.NewReader(`{"prompt": "hi"}`), &req))
	assert.Equal(t, "hi", *req.Prompt)
	assert.Equal(t, DefaultAgentModel, req.ModelOr(DefaultAgentModel))
	assert.False(t, req.MaxIterations.IsDefined())

	req = AgentRequest{}
	require.NoError(t, Decode(strings.NewReader(`{"prompt": "", "model": "mistral", "max_iterations": 4}`), &req))
	assert.Equal(t, "mistral", req.ModelOr(DefaultAgentModel))
	assert.Equal(t, 4, req.MaxIterations.IntValue())

	req = AgentRequest{}
	err := Decode(strings.NewReader(`{"prompt": "hi", "max_iterations": 0}`), &req)
	details, ok := Details(err)
	require.True(t, ok)
	assert.Equal(t, []string{"body", "max_iterations"}, details[0].Loc)

	req = AgentRequest{}
	err = Decode(strings.NewReader(`{"model": "llama2"}`), &req)
	details, ok = Details(err)
	require.True(t, ok)
	assert.Equal(t, []string{"body", "prompt"}, details[0].Loc)
}
