package core

import "fmt"

// ConfigurationError reports a malformed run or graph configuration
// (unbalanced history, unresolvable node reference, cyclic workflow edges).
// It is fatal: the run aborts at the point of detection.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// NewConfigurationError formats a new ConfigurationError.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// ToolExecutionError reports a failed or unresolvable tool invocation. Fatal
// to the run; retry policies belong to the tool implementation itself so that
// event ordering guarantees are preserved.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %q execution failed: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }

// NewToolExecutionError wraps err as a ToolExecutionError for the named tool.
func NewToolExecutionError(tool string, err error) *ToolExecutionError {
	return &ToolExecutionError{Tool: tool, Err: err}
}

// UpstreamModelError reports a model stream failing mid-generation. Partial
// accumulated content up to the failure point is discarded by the run loop.
type UpstreamModelError struct {
	Err error
}

func (e *UpstreamModelError) Error() string {
	return fmt.Sprintf("upstream model error: %v", e.Err)
}

func (e *UpstreamModelError) Unwrap() error { return e.Err }

// NewUpstreamModelError wraps err as an UpstreamModelError.
func NewUpstreamModelError(err error) *UpstreamModelError {
	return &UpstreamModelError{Err: err}
}
