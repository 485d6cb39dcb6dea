package schema

import (
	"strings"
	"testing"
)

func TestInstructions_Rendering(t *testing.T) {
	s, err := New[SimpleStruct](WithDescription("A person record"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	text := Instructions(s)

	if !strings.HasPrefix(text, "Respond with a single JSON object") {
		t.Errorf("unexpected preamble: %q", text)
	}
	if !strings.Contains(text, "A person record") {
		t.Error("schema description missing")
	}
	if !strings.Contains(text, "- name (string, REQUIRED): The name") {
		t.Errorf("name field line missing:\n%s", text)
	}
	if !strings.Contains(text, "- age (integer, REQUIRED)") {
		t.Errorf("age field line missing:\n%s", text)
	}
	if !strings.Contains(text, "- email (string, OPTIONAL)") {
		t.Errorf("email field line missing:\n%s", text)
	}
}

func TestInstructions_FieldOrderFollowsSchema(t *testing.T) {
	s, err := New[SimpleStruct]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	text := Instructions(s)
	if strings.Index(text, "- name ") > strings.Index(text, "- age ") {
		t.Error("fields must render in declaration order")
	}
}

func TestInstructions_Examples(t *testing.T) {
	s, err := New[StructWithExamples]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if text := Instructions(s); !strings.Contains(text, "(e.g. active, pending, completed)") {
		t.Errorf("examples missing:\n%s", text)
	}
}

func TestInstructions_NestedObject(t *testing.T) {
	s, err := New[NestedStruct]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	text := Instructions(s)
	if !strings.Contains(text, "- address (object, REQUIRED)") {
		t.Errorf("object field line missing:\n%s", text)
	}
	// Nested properties indent under their parent.
	if !strings.Contains(text, "\n  - street (string, REQUIRED)") {
		t.Errorf("nested street line missing:\n%s", text)
	}
}

func TestInstructions_ArrayOfObjects(t *testing.T) {
	s, err := New[StructWithSlice]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	text := Instructions(s)
	if !strings.Contains(text, "- steps (array, REQUIRED)") {
		t.Errorf("array field line missing:\n%s", text)
	}
	if !strings.Contains(text, "Each item:") {
		t.Errorf("item header missing:\n%s", text)
	}
	if !strings.Contains(text, "- action (string, REQUIRED)") {
		t.Errorf("item property missing:\n%s", text)
	}
}

func TestInstructions_Idempotent(t *testing.T) {
	s, err := New[SimpleStruct]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	first := Instructions(s)
	second := Instructions(s)
	if first != second {
		t.Error("repeated rendering must produce identical text")
	}

	// An equivalent schema built separately hits the same cache entry and
	// still renders identically.
	other, err := New[SimpleStruct]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if Instructions(other) != first {
		t.Error("equivalent schemas must render identical instructions")
	}
}

func TestInstructions_DescriptionsAreNotSharedAcrossSchemas(t *testing.T) {
	// Same name and field shape, different descriptions: each schema must
	// render its own text, not a cached copy of the other's.
	first, err := FromJSON([]byte(`{"name": "place", "fields": [{"name": "a", "type": "string", "description": "City of residence"}]}`))
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	second, err := FromJSON([]byte(`{"name": "place", "fields": [{"name": "a", "type": "string", "description": "Country of residence"}]}`))
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}

	if !strings.Contains(Instructions(first), "City of residence") {
		t.Error("first schema's description missing from its instructions")
	}
	out := Instructions(second)
	if !strings.Contains(out, "Country of residence") {
		t.Errorf("second schema's description missing:\n%s", out)
	}
	if strings.Contains(out, "City of residence") {
		t.Error("second schema rendered the first schema's description")
	}
}

func TestInstructions_CachePopulated(t *testing.T) {
	s, err := New[StructWithAllTypes]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rendered := Instructions(s)

	cached, ok := instructionCache.Load(s.Fingerprint())
	if !ok {
		t.Fatal("instructions were not cached")
	}
	if cached.(string) != rendered {
		t.Error("cached text diverges from the rendered text")
	}
}
