package parser

// Outcome is the universal return value of every parse entry point. It is
// always fully populated: the error slices are empty rather than nil, and
// Confidence is always within [0,1]. An Outcome is immutable once returned.
type Outcome struct {
	// Success reports whether a schema-conforming value was recovered.
	Success bool `json:"success"`

	// Value is the recovered value: the schema's target struct when the
	// schema was built from a struct type, otherwise a map[string]any.
	// Nil when Success is false.
	Value any `json:"value,omitempty"`

	// Raw is the input text the outcome was computed from.
	Raw string `json:"raw"`

	// ValidationErrors lists candidates that were syntactically valid JSON
	// but failed schema conformance, in the order they were tried.
	ValidationErrors []string `json:"validation_errors"`

	// ParsingErrors is non-empty only when no syntactically valid candidate
	// could be found at all.
	ParsingErrors []string `json:"parsing_errors"`

	// Confidence scores how completely the recovered value satisfies the
	// schema's required fields: 1.0 for a full parse, 0.5 for a partial
	// coercion, 0.0 whenever Success is false.
	Confidence float64 `json:"confidence"`
}

// Candidate is a syntactically valid JSON object found in raw text by one
// extraction strategy, before any schema checking.
type Candidate struct {
	// Value is the decoded object.
	Value map[string]any

	// Strategy names the extraction strategy that produced the candidate.
	Strategy string

	// Pos is the byte offset where the candidate was discovered, used for
	// stable earliest-first ordering.
	Pos int
}

// RepairAttempt records one deterministic text transform applied during
// ParseWithRetry.
type RepairAttempt struct {
	// Number is the 1-based attempt number, matching the transform order.
	Number int

	// Transform names the transform that was applied.
	Transform string

	// Text is the transformed input the attempt re-parsed.
	Text string
}

// failure builds a failed Outcome with the given diagnostics. Slices are
// normalized so callers never observe nil.
func failure(raw string, parsingErrors, validationErrors []string) Outcome {
	if parsingErrors == nil {
		parsingErrors = []string{}
	}
	if validationErrors == nil {
		validationErrors = []string{}
	}
	return Outcome{
		Success:          false,
		Raw:              raw,
		ValidationErrors: validationErrors,
		ParsingErrors:    parsingErrors,
		Confidence:       0,
	}
}
