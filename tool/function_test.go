package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}
}

func TestFunctionTool_Invoke(t *testing.T) {
	sum := NewFunctionTool("calculate_sum", "Calculate the sum of two numbers", sumSchema(),
		func(_ context.Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		})

	assert.Equal(t, "calculate_sum", sum.Name())
	assert.Equal(t, sumSchema(), sum.InputSchema())

	result, err := sum.Invoke(context.Background(), map[string]any{"a": 1.5, "b": 2.5})
	require.NoError(t, err)
	assert.Equal(t, 4.0, result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	sum := NewFunctionTool("calculate_sum", "", sumSchema(),
		func(_ context.Context, _ map[string]any) (any, error) { return nil, nil })

	_, err := sum.Invoke(context.Background(), map[string]any{"a": 1.0})

	var toolErr *Error
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "calculate_sum", toolErr.Tool)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	failing := NewFunctionTool("broken", "", map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, errors.New("downstream unavailable")
		})

	_, err := failing.Invoke(context.Background(), map[string]any{})

	var toolErr *Error
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Contains(t, toolErr.Message, "downstream unavailable")
}

func TestFunctionTool_CustomErrorPreserved(t *testing.T) {
	custom := NewFunctionTool("quota", "", map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, NewError("quota", "limit exceeded", "QUOTA_EXCEEDED")
		})

	_, err := custom.Invoke(context.Background(), map[string]any{})

	var toolErr *Error
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "QUOTA_EXCEEDED", toolErr.Code)
}

func TestNewFunctionToolFromStruct(t *testing.T) {
	type weatherArgs struct {
		City string `json:"city" description:"City to look up"`
	}

	weather := NewFunctionToolFromStruct("weather", "Look up the weather", weatherArgs{},
		func(_ context.Context, args map[string]any) (any, error) {
			return "sunny in " + args["city"].(string), nil
		})

	schema := weather.InputSchema()
	properties := schema["properties"].(map[string]any)
	require.Contains(t, properties, "city")

	result, err := weather.Invoke(context.Background(), map[string]any{"city": "kiel"})
	require.NoError(t, err)
	assert.Equal(t, "sunny in kiel", result)
}

func TestByName(t *testing.T) {
	a := NewFunctionTool("a", "", map[string]any{}, nil)
	b := NewFunctionTool("b", "", map[string]any{}, nil)

	indexed := ByName([]Tool{a, b})
	require.Len(t, indexed, 2)
	assert.Same(t, Tool(a), indexed["a"])
	assert.Same(t, Tool(b), indexed["b"])
}
