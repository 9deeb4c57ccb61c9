package rpc

import (
	"encoding/json"
	"fmt"
)

// Codec marshals plain Go structs as JSON. It replaces connect's default
// protojson codec so the service can be served without generated code.
type Codec struct{}

func (Codec) Name() string {
	return "json"
}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	// connect hands empty bodies to the codec for messages without fields
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", v, err)
	}

	return nil
}
