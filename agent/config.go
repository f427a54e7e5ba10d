package agent

import (
	"github.com/lumoai/lumo/core"
	"github.com/lumoai/lumo/model"
	"github.com/lumoai/lumo/tool"
)

// DefaultMaxIterations bounds the number of think/act rounds a single run
// may perform before it is aborted with an error event.
const DefaultMaxIterations = 10

// Config describes a function-calling agent. Model is the only required
// field; everything else has a sensible zero value.
type Config struct {
	// Model generates the agent's responses.
	Model model.Model

	// Tools the model may call. Tools are only bound to the request when
	// the model reports tool support.
	Tools []tool.Tool

	// PresetPrompt is the application-defined persona and instruction block
	// rendered into the system prompt.
	PresetPrompt string

	// EnableLongTermMemory controls whether recalled memory is rendered into
	// the system prompt and announced as a recall event.
	EnableLongTermMemory bool

	// MaxIterations caps the number of reasoning rounds. Zero selects
	// DefaultMaxIterations.
	MaxIterations int
}

func (c *Config) validate() error {
	if c.Model == nil {
		return core.NewConfigurationError("agent config requires a model")
	}
	if c.MaxIterations < 0 {
		return core.NewConfigurationError("agent max iterations must not be negative")
	}
	return nil
}

func (c *Config) maxIterations() int {
	if c.MaxIterations == 0 {
		return DefaultMaxIterations
	}
	return c.MaxIterations
}
