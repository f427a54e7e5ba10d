// Package model defines the language-model abstraction driven by the agent
// run loop: a streaming Generate contract plus static Info metadata carrying
// an explicit tool-binding capability flag. Provider adapters live in the
// openai and anthropic subpackages; MockModel provides deterministic scripted
// turns for tests and examples.
package model
