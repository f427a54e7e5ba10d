// Package tool implements the uniform tool invocation layer: one invoke
// contract wrapping heterogeneous callables (builtin Go functions,
// HTTP operations described by a stored API schema, and knowledge-base
// retrieval). The run loop treats every result as opaque text after this
// layer serializes it.
package tool

import (
	"context"
	"fmt"
)

// DatasetRetrievalToolName is the reserved name of the knowledge-base
// retrieval tool. The run loop routes calls to this name as
// dataset_retrieval events instead of agent_action events.
const DatasetRetrievalToolName = "dataset_retrieval"

// Tool is the uniform capability exposed to the run loop and the workflow
// executor.
//
// Implementations should:
//   - Provide clear, descriptive names (snake_case recommended)
//   - Define a proper JSON schema for arguments
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description provided to the LLM
	// so it understands when and how to use the tool.
	Description() string

	// InputSchema returns a JSON schema describing the expected arguments.
	InputSchema() map[string]any

	// Invoke executes the tool with structured arguments. The returned value
	// must be JSON-serializable; the caller turns it into transport-safe
	// text.
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// Error represents a failure during tool execution with a code for
// categorization.
type Error struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewError creates a new Error with the specified details.
func NewError(tool, message, code string) *Error {
	return &Error{Tool: tool, Message: message, Code: code}
}

// ByName indexes tools by name for call resolution. Later duplicates win.
func ByName(tools []Tool) map[string]Tool {
	indexed := make(map[string]Tool, len(tools))
	for _, t := range tools {
		indexed[t.Name()] = t
	}
	return indexed
}
