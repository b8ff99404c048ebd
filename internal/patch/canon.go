package patch

import (
	"encoding/json"
	"fmt"
)

// Canonicalize round-trips v through JSON so that struct values become the
// plain map[string]any / []any / scalar shapes diff and apply operate on.
func Canonicalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("patch: marshaling for canonicalization: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("patch: unmarshaling for canonicalization: %w", err)
	}
	return out, nil
}

// Decode unmarshals a canonical JSON value back into a typed value.
func Decode(v any, out any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("patch: marshaling canonical value: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("patch: decoding into target type: %w", err)
	}
	return nil
}

func deepCopy(v any) any {
	cp, _ := Canonicalize(v)
	return cp
}
