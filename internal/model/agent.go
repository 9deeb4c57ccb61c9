package model

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DefaultAgentModel is used when a request does not name a model.
const DefaultAgentModel = "llama2"

type AgentRequest struct {
	Prompt *string `json:"prompt" validate:"required"`
	Model  string  `json:"model,omitempty"`

	// MaxIterations selects the iterative agent when defined.
	MaxIterations ldvalue.OptionalInt `json:"max_iterations"`
}

func (r *AgentRequest) check() []*FieldError {
	if r.MaxIterations.IsDefined() && r.MaxIterations.IntValue() < 1 {
		return []*FieldError{
			NewFieldError("ensure this value is greater than or equal to 1", "value_error.number.not_ge", "body", "max_iterations"),
		}
	}

	return nil
}

// ModelOr returns the requested model or def if none was given.
func (r *AgentRequest) ModelOr(def string) string {
	if r.Model == "" {
		return def
	}

	return r.Model
}

type AgentResponse struct {
	Result string `json:"result"`
}
