package code

import "context"

// Executor runs a user-supplied code snippet against a set of named inputs
// and returns its named outputs. Implementations decide what language the
// source is and how it is sandboxed; workflow code nodes only depend on this
// contract.
type Executor interface {
	// Execute runs source with the given inputs and returns the outputs.
	Execute(ctx context.Context, source string, inputs map[string]any) (map[string]any, error)
}

// FuncExecutor adapts a plain function to the Executor interface. Useful in
// tests and for embedding host-native transforms without a real sandbox.
type FuncExecutor func(ctx context.Context, source string, inputs map[string]any) (map[string]any, error)

// Execute implements Executor.
func (f FuncExecutor) Execute(ctx context.Context, source string, inputs map[string]any) (map[string]any, error) {
	return f(ctx, source, inputs)
}
