package parser

import (
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
)

// Extraction strategy names, in the fixed order they run. The order never
// depends on input content.
const (
	strategyDirect  = "direct"
	strategyFenced  = "fenced"
	strategyBraces  = "braces"
	strategyCleaned = "cleaned"
)

// fencedBlockRe matches ```json ... ``` and bare ``` ... ``` regions.
var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// extract scans raw text with every strategy in order and returns the
// candidates each one found, earliest-discovered first within a strategy.
// Strategies append; they never replace earlier findings. Syntax failures
// are skipped per candidate, so extraction itself cannot fail.
func extract(raw string) []Candidate {
	var candidates []Candidate

	// 1. Direct parse of the whole trimmed text.
	if obj, ok := decodeObject(strings.TrimSpace(raw)); ok {
		candidates = append(candidates, Candidate{Value: obj, Strategy: strategyDirect, Pos: 0})
	}

	// 2. Every fenced block, in order of appearance.
	for _, m := range fencedBlockRe.FindAllStringSubmatchIndex(raw, -1) {
		body := raw[m[2]:m[3]]
		if obj, ok := decodeObject(strings.TrimSpace(body)); ok {
			candidates = append(candidates, Candidate{Value: obj, Strategy: strategyFenced, Pos: m[0]})
		}
	}

	// 3. Balanced-brace scan for top-level {...} regions.
	for _, span := range scanObjects(raw) {
		if obj, ok := decodeObject(raw[span.start:span.end]); ok {
			candidates = append(candidates, Candidate{Value: obj, Strategy: strategyBraces, Pos: span.start})
		}
	}

	// 4. Brace-trim cleanup of the whole text, parsed once.
	if cleaned, ok := trimToBraces(raw); ok {
		if obj, ok := decodeObject(cleaned); ok {
			candidates = append(candidates, Candidate{Value: obj, Strategy: strategyCleaned, Pos: 0})
		}
	}

	return candidates
}

// decodeObject parses s as JSON and keeps the result only if it decodes to
// an object. Arrays and scalars are not candidates.
func decodeObject(s string) (map[string]any, bool) {
	if s == "" {
		return nil, false
	}
	var value any
	if err := json.Unmarshal([]byte(s), &value); err != nil {
		return nil, false
	}
	obj, ok := value.(map[string]any)
	return obj, ok
}

type span struct {
	start, end int
}

// scanObjects finds every top-level balanced {...} region using depth
// tracking. String contents and escapes are honored, so braces inside
// string values do not confuse the scan. An unmatched '{' (a stray brace
// in prose, say) is skipped and the scan resumes at the next '{', since a
// balanced object may still follow it.
func scanObjects(s string) []span {
	var spans []span

	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		end, ok := scanBalanced(s, i)
		if !ok {
			continue
		}
		spans = append(spans, span{start: i, end: end})
		i = end - 1
	}

	return spans
}

// scanBalanced scans forward from an opening brace at start and returns the
// index just past its matching close.
func scanBalanced(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}

	return 0, false
}

// trimToBraces cuts everything before the first '{' and after the last '}'.
// Reports false when the text contains no such region.
func trimToBraces(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
