package parser

import (
	"regexp"
	"strings"
)

// transform is one deterministic, pure text repair step. Same input text
// always yields the same output.
type transform struct {
	name  string
	apply func(string) string
}

// repairTransforms run in this fixed order during ParseWithRetry. Each is
// applied to the original raw text, never to a previous transform's output.
var repairTransforms = []transform{
	{name: "strip-fence-prefix", apply: stripFencePrefix},
	{name: "first-fenced-block", apply: firstFencedBlock},
	{name: "brace-trim-fix-commas", apply: braceTrimFixCommas},
}

// trailingCommaRe matches a comma, optional whitespace, then a closing
// brace or bracket.
var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// stripFencePrefix removes everything before an opening ```json marker and
// strips the fence markers themselves. Text without a fence is returned
// unchanged.
func stripFencePrefix(s string) string {
	idx := strings.Index(s, "```json")
	if idx >= 0 {
		s = s[idx+len("```json"):]
	} else if idx = strings.Index(s, "```"); idx >= 0 {
		s = s[idx+len("```"):]
	} else {
		return s
	}

	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// firstFencedBlock extracts the first fenced JSON block verbatim, ignoring
// all surrounding prose. Text without a fenced block is returned unchanged.
func firstFencedBlock(s string) string {
	m := fencedBlockRe.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	return strings.TrimSpace(m[1])
}

// braceTrimFixCommas trims everything before the first '{' and after the
// last '}', then removes trailing commas immediately before a closing
// brace or bracket.
func braceTrimFixCommas(s string) string {
	trimmed, ok := trimToBraces(s)
	if !ok {
		return s
	}
	return trailingCommaRe.ReplaceAllString(trimmed, "$1")
}

// plan enumerates the repair attempts for the given raw text, bounded by
// maxRetries. An attempt whose transformed text is identical to the input
// of the previous attempt is omitted since re-parsing it cannot change the
// result. Attempt numbers always track the transform order, so a skipped
// attempt leaves a gap rather than renumbering later ones.
func plan(raw string, maxRetries int) []RepairAttempt {
	if maxRetries > len(repairTransforms) {
		maxRetries = len(repairTransforms)
	}

	attempts := make([]RepairAttempt, 0, maxRetries)
	previous := raw

	for i := 0; i < maxRetries; i++ {
		tr := repairTransforms[i]
		transformed := tr.apply(raw)
		if transformed == previous {
			continue
		}
		attempts = append(attempts, RepairAttempt{
			Number:    i + 1,
			Transform: tr.name,
			Text:      transformed,
		})
		previous = transformed
	}

	return attempts
}
