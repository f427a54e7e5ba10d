package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFromStruct(t *testing.T) {
	type args struct {
		City    string  `json:"city" description:"City name"`
		Days    int     `json:"days,omitempty"`
		Verbose *bool   `json:"verbose"`
		Ratio   float64 `json:"ratio"`
		hidden  string //nolint:unused // exercises unexported skip
	}

	schema := SchemaFromStruct(args{})
	assert.Equal(t, "object", schema["type"])

	properties := schema["properties"].(map[string]any)
	require.Contains(t, properties, "city")
	assert.Equal(t, "string", properties["city"].(map[string]any)["type"])
	assert.Equal(t, "City name", properties["city"].(map[string]any)["description"])
	assert.Equal(t, "integer", properties["days"].(map[string]any)["type"])
	assert.Equal(t, "number", properties["ratio"].(map[string]any)["type"])
	assert.NotContains(t, properties, "hidden")

	required := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"city", "ratio"}, required)
}

func TestValidateArgs(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city": map[string]any{"type": "string"},
			"days": map[string]any{"type": "integer"},
		},
		"required": []string{"city"},
	}

	assert.NoError(t, ValidateArgs(map[string]any{"city": "kiel"}, schema))
	// JSON-decoded integers arrive as float64.
	assert.NoError(t, ValidateArgs(map[string]any{"city": "kiel", "days": float64(3)}, schema))
	// Extra fields pass through.
	assert.NoError(t, ValidateArgs(map[string]any{"city": "kiel", "unknown": 1}, schema))

	err := ValidateArgs(map[string]any{}, schema)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "city", vErr.Field)

	err = ValidateArgs(map[string]any{"city": 42}, schema)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "city", vErr.Field)

	err = ValidateArgs(map[string]any{"city": "kiel", "days": 1.5}, schema)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "days", vErr.Field)
}

func TestValidateArgs_RequiredAsAnySlice(t *testing.T) {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"q": map[string]any{"type": "string"}},
		"required":   []any{"q"},
	}

	assert.NoError(t, ValidateArgs(map[string]any{"q": "x"}, schema))
	assert.Error(t, ValidateArgs(map[string]any{}, schema))
}
