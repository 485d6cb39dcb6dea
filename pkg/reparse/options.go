// Package reparse provides the public API for recovering structured data
// from model output, including the generate-then-recover loop that drives
// a text-generation provider and feeds its output through the parser.
package reparse

// Config holds all engine configuration.
type Config struct {
	// Provider settings
	Provider string
	Model    string
	APIKey   string
	BaseURL  string

	// Recovery settings
	Strict     bool
	MaxRetries int // repair transforms per parse

	// Generation settings
	GenerationRetries int // fresh generation attempts after a failed recovery
	Temperature       float64
	MaxTokens         int
	MinConfidence     float64 // regenerate while below this (0 = only on failure)
	NativeSchema      bool    // pass the JSON schema to providers that enforce it
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:          "anthropic",
		MaxRetries:        2,
		GenerationRetries: 2,
		Temperature:       0.1,
		MaxTokens:         4096,
	}
}

// Option configures the engine.
type Option func(*Config)

// WithProvider sets the generation provider (anthropic, openai, ollama).
func WithProvider(provider string) Option {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(c *Config) {
		c.Model = model
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBaseURL sets a custom API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithStrict requires full schema conformance; partial coercion is
// disabled.
func WithStrict(strict bool) Option {
	return func(c *Config) {
		c.Strict = strict
	}
}

// WithMaxRetries bounds the repair transforms applied per parse.
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// WithGenerationRetries bounds how many times a fresh generation is
// requested after a failed or low-confidence recovery.
func WithGenerationRetries(n int) Option {
	return func(c *Config) {
		c.GenerationRetries = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Config) {
		c.Temperature = t
	}
}

// WithMaxTokens sets the maximum output tokens per generation.
func WithMaxTokens(n int) Option {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// WithMinConfidence regenerates while the recovered confidence is below
// the threshold. Zero keeps only failure-driven regeneration.
func WithMinConfidence(f float64) Option {
	return func(c *Config) {
		c.MinConfidence = f
	}
}

// WithNativeSchema passes the JSON schema to providers with native
// structured output support.
func WithNativeSchema(enabled bool) Option {
	return func(c *Config) {
		c.NativeSchema = enabled
	}
}
