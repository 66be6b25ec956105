package adapter

import (
	"encoding/json"
	"fmt"
)

// sanitizeBody converts v to its JSON object form with every null-valued
// field recursively removed. The space store rejects explicit nulls, so each
// write passes through here before going on the wire. Optional struct fields
// already marshal away via omitempty; this catches typed nil pointers and
// any map payloads that slip through with explicit nulls.
func sanitizeBody(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode body for sanitize: %w", err)
	}

	var decoded any
	if err = json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode body for sanitize: %w", err)
	}

	return stripNulls(decoded), nil
}

func stripNulls(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, inner := range val {
			if inner == nil {
				delete(val, k)
				continue
			}
			val[k] = stripNulls(inner)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = stripNulls(inner)
		}
		return val
	default:
		return v
	}
}
