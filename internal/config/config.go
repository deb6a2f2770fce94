// Package config provides configuration management for the publishing pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables recognized as configuration sources.
const (
	EnvCMSBaseURL  = "WP_URL"
	EnvCMSUsername = "WP_USER"
	EnvCMSPassword = "WP_PASSWORD"
	EnvAPIKey      = "OPENAI_API_KEY"
	EnvLogFile     = "SEOPRESS_LOG_FILE"
)

// Defaults.
const (
	DefaultMinTitleLength    = 10
	DefaultPlaceholderTitle  = "Sin título"
	DefaultModel             = "gpt-4"
	DefaultEndpoint          = "https://api.openai.com/v1/chat/completions"
	DefaultSystemPrompt      = "Eres un asistente experto en redacción de artículos SEO."
	DefaultPostStatus        = "publish"
	DefaultLogFile           = "automatizacion.log"
	DefaultReferenceMaxChars = 12000
)

// Credential errors.
var (
	ErrMissingCMSBaseURL  = errors.New("cms.base_url is required (or set " + EnvCMSBaseURL + ")")
	ErrMissingCMSUsername = errors.New("cms.username is required (or set " + EnvCMSUsername + ")")
	ErrMissingCMSPassword = errors.New("cms.password is required (or set " + EnvCMSPassword + ")")
	ErrMissingAPIKey      = errors.New("generator.api_key is required (or set " + EnvAPIKey + ")")
)

// Config represents the complete pipeline configuration.
type Config struct {
	CMS       CMSConfig       `yaml:"cms"`
	Generator GeneratorConfig `yaml:"generator"`
	Source    SourceConfig    `yaml:"source"`
	Title     TitleConfig     `yaml:"title"`
	Logging   LoggingConfig   `yaml:"logging"`
	Archive   ArchiveConfig   `yaml:"archive"`
}

// CMSConfig holds the WordPress endpoint and publishing options.
type CMSConfig struct {
	BaseURL    string `yaml:"base_url"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password,omitempty"`
	Status     string `yaml:"status"`
	Categories []int  `yaml:"categories"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// GeneratorConfig holds the chat-completion service settings.
type GeneratorConfig struct {
	APIKey            string  `yaml:"api_key,omitempty"`
	Endpoint          string  `yaml:"endpoint"`
	Model             string  `yaml:"model"`
	SystemPrompt      string  `yaml:"system_prompt"`
	PromptPath        string  `yaml:"prompt_path,omitempty"`
	Temperature       float64 `yaml:"temperature"`
	MaxTokens         int     `yaml:"max_tokens"`
	ReferenceMaxChars int     `yaml:"reference_max_chars"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// SourceConfig defines how source pages are fetched.
type SourceConfig struct {
	UserAgent  string `yaml:"user_agent"`
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxBodyKb  int    `yaml:"max_body_kb"`
}

// TitleConfig holds the title policy.
type TitleConfig struct {
	Placeholder               string `yaml:"placeholder"`
	MinLength                 int    `yaml:"min_length"`
	IncludeTitleHeadingInBody bool   `yaml:"include_title_heading_in_body"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ArchiveConfig enables the local Markdown archive when Dir is set.
type ArchiveConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CMS: CMSConfig{
			Status:     DefaultPostStatus,
			Categories: []int{1},
			TimeoutSec: 30,
		},
		Generator: GeneratorConfig{
			Endpoint:          DefaultEndpoint,
			Model:             DefaultModel,
			SystemPrompt:      DefaultSystemPrompt,
			Temperature:       0.7,
			ReferenceMaxChars: DefaultReferenceMaxChars,
			TimeoutSec:        120,
		},
		Source: SourceConfig{
			UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
			TimeoutSec: 30,
			MaxBodyKb:  4096,
		},
		Title: TitleConfig{
			Placeholder: DefaultPlaceholderTitle,
			MinLength:   DefaultMinTitleLength,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  DefaultLogFile,
		},
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// at path, the optional .env file and the process environment, in that order.
func LoadConfig(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	dotenv := map[string]string{}

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			dotenv, err = godotenv.Read(envFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
			}
		}
	}

	cfg.ApplyEnv(dotenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides values with the recognized environment variables.
// Process environment wins over dotenv, which wins over the file.
func (c *Config) ApplyEnv(dotenv map[string]string) {
	lookup := func(dst *string, key string) {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			v = strings.TrimSpace(dotenv[key])
		}

		if v != "" {
			*dst = v
		}
	}

	lookup(&c.CMS.BaseURL, EnvCMSBaseURL)
	lookup(&c.CMS.Username, EnvCMSUsername)
	lookup(&c.CMS.Password, EnvCMSPassword)
	lookup(&c.Generator.APIKey, EnvAPIKey)
	lookup(&c.Logging.File, EnvLogFile)

	c.CMS.BaseURL = strings.TrimRight(c.CMS.BaseURL, "/")
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the shape of the configuration. Credentials are checked
// separately by RequireCredentials because offline commands do not need them.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CMS),
		validation.Field(&c.Generator),
		validation.Field(&c.Source),
		validation.Field(&c.Title),
		validation.Field(&c.Logging),
	)
}

// Validate implements validation.Validatable.
func (c CMSConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, is.URL),
		validation.Field(&c.Status, validation.Required, validation.In("publish", "draft", "pending", "private")),
		validation.Field(&c.Categories, validation.Each(validation.Min(1))),
		validation.Field(&c.TimeoutSec, validation.Required, validation.Min(1)),
	)
}

// Validate implements validation.Validatable.
func (g GeneratorConfig) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Endpoint, validation.Required, is.URL),
		validation.Field(&g.Model, validation.Required),
		validation.Field(&g.SystemPrompt, validation.Required),
		validation.Field(&g.Temperature, validation.Min(0.0), validation.Max(2.0)),
		validation.Field(&g.MaxTokens, validation.Min(0)),
		validation.Field(&g.ReferenceMaxChars, validation.Min(0)),
		validation.Field(&g.TimeoutSec, validation.Required, validation.Min(1)),
	)
}

// Validate implements validation.Validatable.
func (s SourceConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.TimeoutSec, validation.Required, validation.Min(1)),
		validation.Field(&s.MaxBodyKb, validation.Required, validation.Min(1)),
	)
}

// Validate implements validation.Validatable.
func (t TitleConfig) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Placeholder, validation.Required),
		validation.Field(&t.MinLength, validation.Required, validation.Min(1)),
	)
}

// Validate implements validation.Validatable.
func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
	)
}

// RequireCredentials checks the values needed to generate and publish.
func (c *Config) RequireCredentials() error {
	var errs []error

	if c.CMS.BaseURL == "" {
		errs = append(errs, ErrMissingCMSBaseURL)
	}

	if c.CMS.Username == "" {
		errs = append(errs, ErrMissingCMSUsername)
	}

	if c.CMS.Password == "" {
		errs = append(errs, ErrMissingCMSPassword)
	}

	if c.Generator.APIKey == "" {
		errs = append(errs, ErrMissingAPIKey)
	}

	return errors.Join(errs...)
}

// GetTimeout returns the HTTP timeout for source fetches.
func (s *SourceConfig) GetTimeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// GetTimeout returns the HTTP timeout for generation calls.
func (g *GeneratorConfig) GetTimeout() time.Duration {
	return time.Duration(g.TimeoutSec) * time.Second
}

// GetTimeout returns the HTTP timeout for CMS calls.
func (c *CMSConfig) GetTimeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// APIBase returns the WordPress REST root, e.g. https://site/wp-json/wp/v2.
func (c *CMSConfig) APIBase() string {
	return c.BaseURL + "/wp-json/wp/v2"
}

// String returns a string representation of the config without secrets.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{CMS: %s, Model: %s, MinTitleLength: %d, Categories: %v, Archive: %q}",
		c.CMS.BaseURL,
		c.Generator.Model,
		c.Title.MinLength,
		c.CMS.Categories,
		c.Archive.Dir,
	)
}
