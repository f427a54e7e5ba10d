package tool

import (
	"context"
	"fmt"

	"github.com/lumoai/lumo/internal/util"
)

// FunctionTool adapts a plain Go function into a Tool. It validates model
// supplied arguments against a minimal JSON-Schema-like specification before
// execution and normalizes failures into *Error values with consistent
// codes:
//
//	VALIDATION_ERROR -> schema / argument mismatch
//	EXECUTION_ERROR  -> underlying function returned an error (non-*Error)
//	(custom codes preserved if the function returns *Error directly)
//
// A FunctionTool has no mutable state after construction and is safe for
// concurrent use.
type FunctionTool struct {
	name        string
	description string
	schema      map[string]any
	fn          func(ctx context.Context, args map[string]any) (any, error)
}

// NewFunctionTool constructs a FunctionTool from an explicit schema and
// function.
//
// Example:
//
//	sumTool := NewFunctionTool(
//	  "calculate_sum",
//	  "Calculate the sum of two numbers",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "a": map[string]any{"type": "number"},
//	      "b": map[string]any{"type": "number"},
//	    },
//	    "required": []string{"a", "b"},
//	  },
//	  func(ctx context.Context, args map[string]any) (any, error) {
//	    return args["a"].(float64) + args["b"].(float64), nil
//	  },
//	)
func NewFunctionTool(
	name, description string,
	schema map[string]any,
	fn func(ctx context.Context, args map[string]any) (any, error),
) *FunctionTool {
	return &FunctionTool{
		name:        name,
		description: description,
		schema:      schema,
		fn:          fn,
	}
}

// NewFunctionToolFromStruct derives the argument schema from a struct via
// reflection; a convenience for simple argument containers.
func NewFunctionToolFromStruct(
	name, description string,
	structType any,
	fn func(ctx context.Context, args map[string]any) (any, error),
) *FunctionTool {
	return NewFunctionTool(name, description, util.SchemaFromStruct(structType), fn)
}

// Name returns the unique tool name used in tool call resolution.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// InputSchema returns the JSON schema describing expected arguments.
func (t *FunctionTool) InputSchema() map[string]any { return t.schema }

// Invoke validates args against the declared schema then calls the wrapped
// function. Failures surface as *Error for uniform downstream handling.
func (t *FunctionTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	if err := util.ValidateArgs(args, t.schema); err != nil {
		return nil, &Error{
			Tool:    t.name,
			Message: fmt.Sprintf("argument validation failed: %v", err),
			Code:    "VALIDATION_ERROR",
			Details: err,
		}
	}

	result, err := t.fn(ctx, args)
	if err != nil {
		if toolErr, ok := err.(*Error); ok {
			return nil, toolErr
		}
		return nil, &Error{
			Tool:    t.name,
			Message: err.Error(),
			Code:    "EXECUTION_ERROR",
		}
	}
	return result, nil
}
