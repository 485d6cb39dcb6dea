package parser

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/jmylchreest/reparse/internal/logger"
	"github.com/jmylchreest/reparse/pkg/schema"
)

// maxRecordedValidationErrors caps the per-parse validation error volume.
const maxRecordedValidationErrors = 5

const noCandidateError = "no valid structured content found"

// evaluate checks the ordered candidate list against the schema and builds
// the final Outcome. The first fully validating candidate wins; later
// candidates are never reached once one validates, which intentionally
// biases toward earlier occurrences as the canonical answer. Partial
// coercion runs only after every candidate has failed full validation.
func (p *Parser) evaluate(raw string, candidates []Candidate, s schema.Schema) Outcome {
	if len(candidates) == 0 {
		return failure(raw, []string{noCandidateError}, nil)
	}

	validationErrors := make([]string, 0, len(candidates))

	for i, c := range candidates {
		errs := s.ValidateMap(c.Value)

		var value any
		if len(errs) == 0 {
			value = materialize(s, c.Value)
			// Candidates that materialized into the schema's struct type
			// also go through its validator tags.
			if _, stillMap := value.(map[string]any); !stillMap {
				errs = s.Validate(value)
			}
		}

		if len(errs) == 0 {
			logger.Debug("candidate validated",
				"strategy", c.Strategy,
				"pos", c.Pos,
				"candidates_tried", i+1)
			return Outcome{
				Success:          true,
				Value:            value,
				Raw:              raw,
				ValidationErrors: []string{},
				ParsingErrors:    []string{},
				Confidence:       requiredCoverage(s, c.Value),
			}
		}
		if len(validationErrors) < maxRecordedValidationErrors {
			validationErrors = append(validationErrors, describeFailure(c, errs))
		}
	}

	if !p.strict {
		for _, c := range candidates {
			coerced, ok := coerce(s, c.Value)
			if !ok {
				continue
			}
			logger.Debug("candidate partially coerced",
				"strategy", c.Strategy,
				"pos", c.Pos)
			// Fixed confidence signals "structurally plausible but
			// incomplete", distinct from a fully confident parse.
			return Outcome{
				Success:          true,
				Value:            materialize(s, coerced),
				Raw:              raw,
				ValidationErrors: validationErrors,
				ParsingErrors:    []string{},
				Confidence:       partialConfidence,
			}
		}
	}

	return failure(raw, nil, validationErrors)
}

// coerce attempts a best-effort partial recovery: keep only keys the schema
// knows, require present values to type-check, and insert an explicit null
// for any required field the candidate is missing. Reports false when a
// present value has the wrong type, since that makes the candidate
// structurally implausible rather than merely incomplete.
func coerce(s schema.Schema, value map[string]any) (map[string]any, bool) {
	coerced := make(map[string]any, len(s.Fields))

	for _, field := range s.Fields {
		v, exists := value[field.Name]
		if !exists {
			if field.Required {
				coerced[field.Name] = nil
			}
			continue
		}
		if err := field.Check(v); err != nil && v != nil {
			return nil, false
		}
		coerced[field.Name] = v
	}

	return coerced, true
}

// materialize converts a validated candidate map into the schema's target
// struct when one exists. Falls back to the map itself if the round trip
// fails, so a successful validation never turns into a nil value.
func materialize(s schema.Schema, value map[string]any) any {
	data, err := json.Marshal(value)
	if err != nil {
		return value
	}
	typed, err := s.Unmarshal(data)
	if err != nil {
		return value
	}
	return typed
}

// describeFailure renders one human-readable validation error for a
// candidate that failed full validation.
func describeFailure(c Candidate, errs []schema.ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return fmt.Sprintf("candidate from %s at offset %d: %s",
		c.Strategy, c.Pos, strings.Join(parts, "; "))
}
