package parser

import (
	"reflect"
	"testing"
)

func strategies(candidates []Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Strategy
	}
	return out
}

func TestExtract_DirectObject(t *testing.T) {
	candidates := extract(`{"a": 1}`)

	// Pure JSON satisfies the direct, brace and cleaned strategies; the
	// direct hit must come first.
	want := []string{strategyDirect, strategyBraces, strategyCleaned}
	if got := strategies(candidates); !reflect.DeepEqual(got, want) {
		t.Errorf("expected strategies %v, got %v", want, got)
	}
	for _, c := range candidates {
		if !reflect.DeepEqual(c.Value, map[string]any{"a": float64(1)}) {
			t.Errorf("strategy %s decoded %v", c.Strategy, c.Value)
		}
	}
}

func TestExtract_WhitespaceAroundDirect(t *testing.T) {
	candidates := extract("  \n\t{\"a\": 1}\n  ")
	if len(candidates) == 0 || candidates[0].Strategy != strategyDirect {
		t.Errorf("surrounding whitespace must not defeat the direct parse, got %v", strategies(candidates))
	}
}

func TestExtract_FencedBlocksInOrder(t *testing.T) {
	raw := "one\n```json\n{\"n\": 1}\n```\ntwo\n```json\n{\"n\": 2}\n```"

	candidates := extract(raw)

	var fenced []Candidate
	for _, c := range candidates {
		if c.Strategy == strategyFenced {
			fenced = append(fenced, c)
		}
	}
	if len(fenced) != 2 {
		t.Fatalf("expected 2 fenced candidates, got %d", len(fenced))
	}
	if fenced[0].Value["n"] != float64(1) || fenced[1].Value["n"] != float64(2) {
		t.Errorf("fenced candidates out of order: %v, %v", fenced[0].Value, fenced[1].Value)
	}
	if fenced[0].Pos >= fenced[1].Pos {
		t.Errorf("positions must increase: %d, %d", fenced[0].Pos, fenced[1].Pos)
	}
}

func TestExtract_SkipsSyntacticallyInvalid(t *testing.T) {
	raw := "```json\n{not json at all}\n```\n```json\n{\"ok\": true}\n```"

	candidates := extract(raw)
	for _, c := range candidates {
		if c.Strategy == strategyFenced && !reflect.DeepEqual(c.Value, map[string]any{"ok": true}) {
			t.Errorf("invalid block should have been skipped, got %v", c.Value)
		}
	}
}

func TestExtract_NonObjectsAreNotCandidates(t *testing.T) {
	for _, raw := range []string{`[1, 2, 3]`, `"a string"`, `42`, `true`, `null`, ``} {
		if got := extract(raw); len(got) != 0 {
			t.Errorf("input %q: expected no candidates, got %v", raw, strategies(got))
		}
	}
}

func TestExtract_NestedObjectIsOneCandidate(t *testing.T) {
	raw := `prefix {"outer": {"inner": 1}} suffix`

	candidates := extract(raw)
	var braced []Candidate
	for _, c := range candidates {
		if c.Strategy == strategyBraces {
			braced = append(braced, c)
		}
	}
	if len(braced) != 1 {
		t.Fatalf("a nested object must scan as one top-level candidate, got %d", len(braced))
	}
	inner, ok := braced[0].Value["outer"].(map[string]any)
	if !ok || inner["inner"] != float64(1) {
		t.Errorf("unexpected decode: %v", braced[0].Value)
	}
}

func TestScanObjects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", `x {"a":1} y`, []string{`{"a":1}`}},
		{"two top-level", `{"a":1} and {"b":2}`, []string{`{"a":1}`, `{"b":2}`}},
		{"nested", `{"a":{"b":2}}`, []string{`{"a":{"b":2}}`}},
		{"brace in string", `{"a":"}"}`, []string{`{"a":"}"}`}},
		{"stray open before object", "note { stray\n{\"a\":1}", []string{`{"a":1}`}},
		{"stray open after object", `{"a":1} tail {`, []string{`{"a":1}`}},
		{"escaped quote", `{"a":"\"}\""}`, []string{`{"a":"\"}\""}`}},
		{"unbalanced open", `{"a":1`, nil},
		{"no braces", `plain text`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, sp := range scanObjects(tt.input) {
				got = append(got, tt.input[sp.start:sp.end])
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("scanObjects(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTrimToBraces(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{`junk {"a":1} junk`, `{"a":1}`, true},
		{`{"a":1}`, `{"a":1}`, true},
		{`{"a":1} then {"b":2}`, `{"a":1} then {"b":2}`, true},
		{`no braces`, ``, false},
		{`} reversed {`, ``, false},
	}

	for _, tt := range tests {
		got, ok := trimToBraces(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("trimToBraces(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}
