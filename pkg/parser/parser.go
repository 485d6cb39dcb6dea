package parser

import (
	"github.com/jmylchreest/reparse/internal/logger"
	"github.com/jmylchreest/reparse/pkg/schema"
)

// DefaultMaxRetries bounds the repair loop when no override is given.
const DefaultMaxRetries = 2

// Parser recovers schema-conforming values from raw model output. A Parser
// holds only configuration, so it is safe for concurrent use across
// goroutines and across schemas.
type Parser struct {
	strict     bool
	maxRetries int
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithStrict requires full schema conformance. When disabled (the default),
// a candidate that fails validation may still be accepted through partial
// coercion at reduced confidence.
func WithStrict(strict bool) ParserOption {
	return func(p *Parser) {
		p.strict = strict
	}
}

// WithMaxRetries bounds the number of repair transforms ParseWithRetry may
// apply (default 2).
func WithMaxRetries(n int) ParserOption {
	return func(p *Parser) {
		if n >= 0 {
			p.maxRetries = n
		}
	}
}

// New creates a Parser.
func New(opts ...ParserOption) *Parser {
	p := &Parser{
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse runs a single extraction and validation pass over raw. It never
// returns an error: failures are encoded in the Outcome.
func (p *Parser) Parse(raw string, s schema.Schema) Outcome {
	candidates := extract(raw)
	logger.Debug("extraction pass complete",
		"schema", s.Name,
		"input_size", len(raw),
		"candidates", len(candidates))
	return p.evaluate(raw, candidates, s)
}

// ParseWithRetry runs Parse and, on failure, applies the ordered repair
// transforms to the original text, re-parsing after each one and stopping
// at the first success. When every attempt fails the first pass's Outcome
// is returned, so the most useful diagnostics are never discarded in favor
// of a worse repaired attempt.
func (p *Parser) ParseWithRetry(raw string, s schema.Schema) Outcome {
	first := p.Parse(raw, s)
	if first.Success {
		return first
	}

	for _, attempt := range plan(raw, p.maxRetries) {
		logger.Debug("repair attempt",
			"schema", s.Name,
			"attempt", attempt.Number,
			"transform", attempt.Transform)

		outcome := p.Parse(attempt.Text, s)
		if outcome.Success {
			// The outcome reports the caller's original input, not the
			// transformed text it was recovered from.
			outcome.Raw = raw
			return outcome
		}
	}

	return first
}

// Parse is a convenience wrapper over a throwaway Parser for callers that
// have no configuration to carry.
func Parse(raw string, s schema.Schema, strict bool) Outcome {
	return New(WithStrict(strict)).Parse(raw, s)
}

// ParseWithRetry is the package-level counterpart of
// Parser.ParseWithRetry with an explicit retry bound.
func ParseWithRetry(raw string, s schema.Schema, strict bool, maxRetries int) Outcome {
	return New(WithStrict(strict), WithMaxRetries(maxRetries)).ParseWithRetry(raw, s)
}
