// Package config holds the job configuration value object and the closed
// option tables (languages, genres, models) it is validated against.
//
// Values are resolved by viper in the usual order: bound command-line
// flags, BOOKTRAN_* environment variables, an optional YAML config file,
// then the defaults registered by SetDefaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalid marks every configuration error. Callers test for it with
// errors.Is before any network activity happens.
var ErrInvalid = errors.New("invalid configuration")

// FieldError names the offending setting.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalid }

type GoogleConfig struct {
	Credentials string `mapstructure:"credentials" yaml:"credentials,omitempty"`
	ProjectID   string `mapstructure:"project_id" yaml:"project_id,omitempty"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

type Config struct {
	TargetLanguage   string        `mapstructure:"target_language" yaml:"target_language"`
	Genre            string        `mapstructure:"genre" yaml:"genre"`
	Models           []string      `mapstructure:"models" yaml:"models"`
	StartModel       string        `mapstructure:"start_model" yaml:"start_model,omitempty"`
	MaxChunkLen      int           `mapstructure:"max_chunk_len" yaml:"max_chunk_len"`
	HardLimit        bool          `mapstructure:"hard_limit" yaml:"hard_limit"`
	ValidateLanguage bool          `mapstructure:"validate_language" yaml:"validate_language"`
	APIKey           string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL          string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout" yaml:"timeout"`
	DBPath           string        `mapstructure:"db" yaml:"db"`
	NoHistory        bool          `mapstructure:"no_history" yaml:"no_history"`
	Google           GoogleConfig  `mapstructure:"google" yaml:"google"`
	Log              LogConfig     `mapstructure:"log" yaml:"log"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("target_language", "Russian")
	v.SetDefault("genre", "Fantasy")
	v.SetDefault("models", DefaultModels)
	v.SetDefault("max_chunk_len", DefaultMaxChunkLen)
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("db", DefaultDBPath)
	v.SetDefault("log.level", "info")

	// Keys without a meaningful default still need registering, otherwise
	// Unmarshal never sees their environment variables.
	v.SetDefault("start_model", "")
	v.SetDefault("api_key", "")
	v.SetDefault("hard_limit", false)
	v.SetDefault("validate_language", false)
	v.SetDefault("no_history", false)
	v.SetDefault("google.credentials", "")
	v.SetDefault("google.project_id", "")
	v.SetDefault("log.development", false)
}

// bindEnvVars adds the aliases that do not follow the BOOKTRAN_ prefix.
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("api_key", "BOOKTRAN_API_KEY", "OPENROUTER_API_KEY")
	_ = v.BindEnv("google.credentials", "BOOKTRAN_GOOGLE_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS")
}

// Load reads configPath (if not empty) and the environment into v and
// unmarshals the result. It does not validate.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("BOOKTRAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Models = splitModels(cfg.Models)
	return cfg, nil
}

// splitModels accepts both list values and a single comma-separated string
// (the shape an environment variable arrives in).
func splitModels(models []string) []string {
	var out []string
	for _, m := range models {
		for _, part := range strings.Split(m, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks the settings every translation job needs. It also
// canonicalises the language and genre spelling.
func (c *Config) Validate() error {
	lang, ok := LookupLanguage(c.TargetLanguage)
	if !ok {
		return &FieldError{Field: "target_language", Reason: fmt.Sprintf("unsupported language %q", c.TargetLanguage)}
	}
	c.TargetLanguage = lang.Name

	genre, ok := LookupGenre(c.Genre)
	if !ok {
		return &FieldError{Field: "genre", Reason: fmt.Sprintf("unknown genre %q", c.Genre)}
	}
	c.Genre = genre

	if c.MaxChunkLen <= 0 {
		return &FieldError{Field: "max_chunk_len", Reason: fmt.Sprintf("must be a positive integer, got %d", c.MaxChunkLen)}
	}
	if c.Timeout <= 0 {
		return &FieldError{Field: "timeout", Reason: "must be positive"}
	}

	models := c.FallbackModels()
	if len(models) == 0 {
		return &FieldError{Field: "models", Reason: "at least one model is required"}
	}

	needsKey := false
	for _, m := range models {
		if m != GoogleModel {
			needsKey = true
			break
		}
	}
	if needsKey && strings.TrimSpace(c.APIKey) == "" {
		return &FieldError{Field: "api_key", Reason: "an OpenRouter API key is required"}
	}

	return nil
}

// Language returns the validated target language.
func (c *Config) Language() Language {
	lang, _ := LookupLanguage(c.TargetLanguage)
	return lang
}

// FallbackModels returns the configured models in priority order with
// StartModel moved to the front and duplicates removed.
func (c *Config) FallbackModels() []string {
	seen := make(map[string]bool, len(c.Models)+1)
	var out []string

	add := func(m string) {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			return
		}
		seen[m] = true
		out = append(out, m)
	}

	add(c.StartModel)
	for _, m := range c.Models {
		add(m)
	}
	return out
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = "********"
	}
	c.Models = append([]string(nil), c.Models...)
	return c
}
