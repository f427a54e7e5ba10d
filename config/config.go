// Package config loads the YAML configuration used by hosting code to wire
// queues, models and stores. The core packages never read configuration
// themselves; they receive fully constructed values.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lumoai/lumo/core"
)

// Duration wraps time.Duration so YAML values may be written as "250ms"
// style strings or as plain numbers of seconds.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	case float64:
		*d = Duration(time.Duration(v * float64(time.Second)))
	default:
		return fmt.Errorf("invalid duration value %v", raw)
	}
	return nil
}

// Config is the root of the YAML configuration file.
type Config struct {
	Redis   RedisConfig   `yaml:"redis"`
	Model   ModelConfig   `yaml:"model"`
	Queue   QueueConfig   `yaml:"queue"`
	Agent   AgentConfig   `yaml:"agent"`
	Logging LoggingConfig `yaml:"logging"`
}

// RedisConfig describes the stop-flag store backend. An empty address
// selects the in-memory store.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ModelConfig selects and parameterizes the model provider.
type ModelConfig struct {
	// Provider is "openai", "anthropic" or "mock".
	Provider string `yaml:"provider"`
	Name     string `yaml:"name"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
}

// QueueConfig tunes the event queue.
type QueueConfig struct {
	Capacity      int      `yaml:"capacity"`
	PollInterval  Duration `yaml:"poll_interval"`
	PingInterval  Duration `yaml:"ping_interval"`
	ListenTimeout Duration `yaml:"listen_timeout"`
}

// AgentConfig tunes the run loop.
type AgentConfig struct {
	PresetPrompt         string `yaml:"preset_prompt"`
	EnableLongTermMemory bool   `yaml:"enable_long_term_memory"`
	MaxIterations        int    `yaml:"max_iterations"`
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load parses the YAML file at path and applies defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, core.NewConfigurationError("config file path is empty")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg, err := Parse(content)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes raw YAML and applies defaults.
func Parse(content []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, core.NewConfigurationError("parse config: %s", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Model.Provider == "" {
		c.Model.Provider = "openai"
	}
	if c.Queue.Capacity == 0 {
		c.Queue.Capacity = 512
	}
	if c.Queue.PollInterval == 0 {
		c.Queue.PollInterval = Duration(time.Second)
	}
	if c.Queue.PingInterval == 0 {
		c.Queue.PingInterval = Duration(10 * time.Second)
	}
	if c.Queue.ListenTimeout == 0 {
		c.Queue.ListenTimeout = Duration(600 * time.Second)
	}
	if c.Agent.MaxIterations == 0 {
		c.Agent.MaxIterations = 10
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}
