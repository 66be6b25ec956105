package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeBody_StripsNullsRecursively(t *testing.T) {
	body, err := sanitizeBody(map[string]any{
		"name":     "Milk",
		"expires":  nil,
		"metadata": map[string]any{"note": nil, "order": 2},
		"tags":     []any{map[string]any{"label": "dairy", "color": nil}},
	})
	require.NoError(t, err)

	m, ok := body.(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, m, "expires")

	metadata := m["metadata"].(map[string]any)
	assert.NotContains(t, metadata, "note")
	assert.Equal(t, float64(2), metadata["order"])

	tags := m["tags"].([]any)
	first := tags[0].(map[string]any)
	assert.NotContains(t, first, "color")
	assert.Equal(t, "dairy", first["label"])
}

func TestSanitizeBody_TypedNilPointer(t *testing.T) {
	type payload struct {
		Name string  `json:"name"`
		Note *string `json:"note"`
	}

	body, err := sanitizeBody(payload{Name: "Milk"})
	require.NoError(t, err)

	m := body.(map[string]any)
	assert.NotContains(t, m, "note", "a typed nil without omitempty still gets stripped")
}

func TestSanitizeBody_ScalarsPassThrough(t *testing.T) {
	body, err := sanitizeBody([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, body)
}
