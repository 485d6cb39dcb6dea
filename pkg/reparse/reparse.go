package reparse

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/jmylchreest/reparse/internal/logger"
	"github.com/jmylchreest/reparse/pkg/llm"
	"github.com/jmylchreest/reparse/pkg/parser"
	"github.com/jmylchreest/reparse/pkg/schema"
)

// systemPrompt is shared by all generation calls.
const systemPrompt = `You are an assistant that produces structured JSON output.

Respond with ONLY valid JSON matching the requested structure. No explanations.

Rules:
1. Required fields: use null if the value cannot be determined
2. Optional fields: omit if the value cannot be determined
3. Do not wrap the JSON in markdown code blocks`

// Version returns the module version of the reparse library.
// Returns "(devel)" when built from source without version info.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown)"
}

// Result wraps a recovery outcome with generation metadata.
type Result struct {
	// Outcome is the parser's verdict on the final generation.
	Outcome parser.Outcome

	// Raw is the last raw provider response.
	Raw string

	// Usage is the token usage accumulated across generation attempts.
	Usage llm.Usage

	// Model is the actual model used.
	Model string

	// Provider is the provider name.
	Provider string

	// Attempts is the number of generation calls made.
	Attempts int

	// Duration is the total time spent in generation calls.
	Duration time.Duration
}

// Engine is the main entry point: it drives a generation provider and
// recovers structured values from whatever text comes back.
type Engine struct {
	provider llm.Provider
	parser   *parser.Parser
	config   Config
}

// New creates an Engine. The provider is constructed from the config
// unless one is injected with NewWithProvider.
func New(opts ...Option) (*Engine, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	pcfg := llm.ProviderConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	}

	var provider llm.Provider
	var err error
	switch cfg.Provider {
	case "openai":
		provider, err = llm.NewOpenAIProvider(pcfg)
	case "ollama":
		provider, err = llm.NewOllamaProvider(pcfg)
	case "anthropic", "":
		provider, err = llm.NewAnthropicProvider(pcfg)
	default:
		return nil, fmt.Errorf("unknown provider: %s (use anthropic, openai, or ollama)", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	return NewWithProvider(provider, opts...), nil
}

// NewWithProvider creates an Engine around an existing provider. Useful for
// testing and for providers constructed elsewhere.
func NewWithProvider(provider llm.Provider, opts ...Option) *Engine {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Engine{
		provider: provider,
		parser: parser.New(
			parser.WithStrict(cfg.Strict),
			parser.WithMaxRetries(cfg.MaxRetries),
		),
		config: cfg,
	}
}

// Provider returns the underlying provider name.
func (e *Engine) Provider() string {
	return e.provider.Name()
}

// RecoverText parses already-generated text against the schema with the
// engine's configuration. No provider call is made.
func (e *Engine) RecoverText(raw string, s schema.Schema) parser.Outcome {
	return e.parser.ParseWithRetry(raw, s)
}

// Recover asks the provider to perform the task described by prompt and
// recovers a schema-conforming value from the response. When recovery
// fails (or scores below MinConfidence), a fresh generation is requested
// with the previous attempt's errors appended for self-correction, up to
// GenerationRetries extra attempts. The parse outcome of the final attempt
// is always returned inside the Result; Recover returns an error only for
// transport-level failures.
func (e *Engine) Recover(ctx context.Context, prompt string, s schema.Schema) (*Result, error) {
	result := &Result{Provider: e.provider.Name()}
	var previousErrors []string

	for attempt := 0; attempt <= e.config.GenerationRetries; attempt++ {
		logger.Debug("generation attempt",
			"provider", e.provider.Name(),
			"schema", s.Name,
			"attempt", attempt+1)

		req := llm.Request{
			Messages: []llm.Message{
				{Role: llm.RoleSystem, Content: systemPrompt},
				{Role: llm.RoleUser, Content: buildPrompt(prompt, s, previousErrors)},
			},
			MaxTokens:   e.config.MaxTokens,
			Temperature: e.config.Temperature,
		}
		if e.config.NativeSchema {
			req.JSONSchema = s.ToJSONSchema()
			req.StrictMode = e.config.Strict
		}

		resp, err := e.provider.Execute(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("generation failed: %w", err)
		}

		result.Attempts = attempt + 1
		result.Raw = resp.Content
		result.Model = resp.Model
		result.Usage.InputTokens += resp.Usage.InputTokens
		result.Usage.OutputTokens += resp.Usage.OutputTokens
		result.Duration += resp.Duration

		result.Outcome = e.parser.ParseWithRetry(resp.Content, s)
		if result.Outcome.Success && result.Outcome.Confidence >= e.config.MinConfidence {
			logger.Debug("recovery succeeded",
				"schema", s.Name,
				"attempts", result.Attempts,
				"confidence", result.Outcome.Confidence)
			return result, nil
		}

		previousErrors = append([]string{}, result.Outcome.ParsingErrors...)
		previousErrors = append(previousErrors, result.Outcome.ValidationErrors...)
		logger.Debug("recovery unsatisfied, regenerating",
			"schema", s.Name,
			"success", result.Outcome.Success,
			"confidence", result.Outcome.Confidence,
			"errors", len(previousErrors))
	}

	// Out of generation attempts; the last outcome carries the diagnostics.
	return result, nil
}

// buildPrompt assembles the user message: format instructions, any errors
// from the previous attempt, then the task itself.
func buildPrompt(task string, s schema.Schema, previousErrors []string) string {
	var sb strings.Builder

	sb.WriteString(schema.Instructions(s))

	if len(previousErrors) > 0 {
		sb.WriteString("\nThe previous response had these problems; correct them:\n")
		for _, e := range previousErrors {
			sb.WriteString("- ")
			sb.WriteString(e)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nTask:\n")
	sb.WriteString(task)

	return sb.String()
}
