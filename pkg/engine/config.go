package engine

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the top-level engine configuration. Values come from an optional
// YAML file and are then overridden by environment variables.
type Config struct {
	BaseURL      string        `yaml:"base_url"      env:"GPTCHAT_BASE_URL"   validate:"omitempty,url"`
	DefaultModel string        `yaml:"default_model" env:"GPTCHAT_MODEL"`
	Models       []ModelConfig `yaml:"models"                                 validate:"dive"`
	ExportDir    string        `yaml:"export_dir"    env:"GPTCHAT_EXPORT_DIR"`
	LogFile      string        `yaml:"log_file"      env:"GPTCHAT_LOG_FILE"`
	LogLevel     string        `yaml:"log_level"     env:"GPTCHAT_LOG_LEVEL"  validate:"omitempty,oneof=debug info warn error"`

	// Headers are sent with every completion request, for example
	// OpenAI-Organization or a gateway routing key. An Authorization entry
	// is ignored; the session credential always wins.
	Headers map[string]string `yaml:"headers" env:"GPTCHAT_HEADERS"`

	// APIKey only prefills the credential prompt. It is never read from or
	// written to the config file.
	APIKey Credential `yaml:"-" env:"OPENAI_API_KEY"` //nolint:gosec // read from the environment, never persisted
}

// ModelConfig adds a model to the built-in table.
type ModelConfig struct {
	Key         string `yaml:"key"         validate:"required"`
	Name        string `yaml:"name"        validate:"required"`
	Description string `yaml:"description"`
}

var configValidator = validator.New()

// LoadConfig reads the YAML file at path (skipped when path is empty) and
// applies environment overrides. Environment variables referenced as ${VAR}
// or $VAR in the YAML are expanded before parsing.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
		if err != nil {
			return Config{}, fmt.Errorf("engine: load config: %w", err)
		}

		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return Config{}, fmt.Errorf("engine: parse config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse env: %w", err)
	}

	return cfg, nil
}

// Validate checks field formats. Model keys are checked against the registry
// when the engine is built.
func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("engine: config: %s: failed %q check", f.Namespace(), f.Tag())
		}
		return fmt.Errorf("engine: config: %w", err)
	}

	return nil
}
