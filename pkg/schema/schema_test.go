package schema

import (
	"os"
	"path/filepath"
	"testing"
)

// Test structs for New

type SimpleStruct struct {
	Name  string `json:"name" description:"The name"`
	Age   int    `json:"age" description:"The age in years"`
	Email string `json:"email,omitempty" description:"Optional email"`
}

type NestedStruct struct {
	Title   string `json:"title" description:"Title"`
	Address struct {
		Street string `json:"street" description:"Street address"`
		City   string `json:"city" description:"City name"`
	} `json:"address" description:"Address details"`
}

type StructWithPointer struct {
	Name     string  `json:"name" description:"Required name"`
	Nickname *string `json:"nickname" description:"Optional nickname"`
}

type StructWithSlice struct {
	Title string   `json:"title" description:"Title"`
	Tags  []string `json:"tags" description:"List of tags"`
	Steps []struct {
		Action string `json:"action" description:"What to do"`
		Order  int    `json:"order" description:"Position"`
	} `json:"steps" description:"Ordered steps"`
}

type StructWithAllTypes struct {
	StringField  string  `json:"string_field"`
	IntField     int     `json:"int_field"`
	Int64Field   int64   `json:"int64_field"`
	Float32Field float32 `json:"float32_field"`
	Float64Field float64 `json:"float64_field"`
	BoolField    bool    `json:"bool_field"`
}

type StructWithExamples struct {
	Status string `json:"status" examples:"active,pending,completed"`
}

func fieldByName(t *testing.T, s Schema, name string) Field {
	t.Helper()
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %q not found in schema %q", name, s.Name)
	return Field{}
}

func TestNew_BasicStruct(t *testing.T) {
	s, err := New[SimpleStruct]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if s.Name != "SimpleStruct" {
		t.Errorf("expected Name 'SimpleStruct', got %q", s.Name)
	}
	if len(s.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(s.Fields))
	}

	name := fieldByName(t, s, "name")
	if name.Type != TypeString {
		t.Errorf("expected name type 'string', got %q", name.Type)
	}
	if !name.Required {
		t.Error("expected name to be required")
	}
	if name.Description != "The name" {
		t.Errorf("expected description 'The name', got %q", name.Description)
	}

	age := fieldByName(t, s, "age")
	if age.Type != TypeInteger {
		t.Errorf("expected age type 'integer', got %q", age.Type)
	}

	email := fieldByName(t, s, "email")
	if email.Required {
		t.Error("omitempty field must be optional")
	}
}

func TestNew_PointerFieldIsOptional(t *testing.T) {
	s, err := New[StructWithPointer]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if fieldByName(t, s, "nickname").Required {
		t.Error("pointer field must be optional")
	}
	if !fieldByName(t, s, "name").Required {
		t.Error("plain field must be required")
	}
}

func TestNew_NestedStruct(t *testing.T) {
	s, err := New[NestedStruct]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	address := fieldByName(t, s, "address")
	if address.Type != TypeObject {
		t.Fatalf("expected object type, got %q", address.Type)
	}
	if len(address.Properties) != 2 {
		t.Fatalf("expected 2 nested properties, got %d", len(address.Properties))
	}
	if address.Properties[0].Name != "street" || address.Properties[1].Name != "city" {
		t.Errorf("unexpected nested property order: %+v", address.Properties)
	}
}

func TestNew_SliceFields(t *testing.T) {
	s, err := New[StructWithSlice]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tags := fieldByName(t, s, "tags")
	if tags.Type != TypeArray || tags.Items == nil || tags.Items.Type != TypeString {
		t.Errorf("unexpected tags field: %+v", tags)
	}

	steps := fieldByName(t, s, "steps")
	if steps.Type != TypeArray || steps.Items == nil || steps.Items.Type != TypeObject {
		t.Fatalf("unexpected steps field: %+v", steps)
	}
	if len(steps.Items.Properties) != 2 {
		t.Errorf("expected 2 item properties, got %d", len(steps.Items.Properties))
	}
}

func TestNew_AllScalarTypes(t *testing.T) {
	s, err := New[StructWithAllTypes]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	expected := map[string]FieldType{
		"string_field":  TypeString,
		"int_field":     TypeInteger,
		"int64_field":   TypeInteger,
		"float32_field": TypeNumber,
		"float64_field": TypeNumber,
		"bool_field":    TypeBoolean,
	}
	for name, want := range expected {
		if got := fieldByName(t, s, name).Type; got != want {
			t.Errorf("field %s: expected type %q, got %q", name, want, got)
		}
	}
}

func TestNew_Examples(t *testing.T) {
	s, err := New[StructWithExamples]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	status := fieldByName(t, s, "status")
	if len(status.Examples) != 3 || status.Examples[0] != "active" {
		t.Errorf("unexpected examples: %v", status.Examples)
	}
}

func TestNew_NonStructFails(t *testing.T) {
	if _, err := New[string](); err == nil {
		t.Error("expected error for non-struct type")
	}
}

func TestFromJSON_ArrayProperties(t *testing.T) {
	data := []byte(`{
		"name": "article",
		"fields": [
			{"name": "title", "type": "string", "required": true},
			{"name": "author", "type": "object", "properties": [
				{"name": "name", "type": "string", "required": true},
				{"name": "email", "type": "string"}
			]}
		]
	}`)

	s, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}

	author := fieldByName(t, s, "author")
	if len(author.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(author.Properties))
	}
	if author.Properties[0].Name != "name" || !author.Properties[0].Required {
		t.Errorf("unexpected property: %+v", author.Properties[0])
	}
}

func TestFromJSON_MapProperties(t *testing.T) {
	data := []byte(`{
		"name": "article",
		"fields": [
			{"name": "author", "type": "object", "properties": {
				"name": {"type": "string", "required": true}
			}}
		]
	}`)

	s, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}

	author := fieldByName(t, s, "author")
	if len(author.Properties) != 1 || author.Properties[0].Name != "name" {
		t.Errorf("map-style properties not parsed: %+v", author.Properties)
	}
}

func TestFromYAML(t *testing.T) {
	data := []byte(`
name: article
description: A news article
fields:
  - name: title
    type: string
    required: true
    description: Article headline
  - name: tags
    type: array
    items:
      type: string
  - name: author
    type: object
    properties:
      name:
        type: string
        required: true
`)

	s, err := FromYAML(data)
	if err != nil {
		t.Fatalf("FromYAML failed: %v", err)
	}

	if s.Name != "article" || s.Description != "A news article" {
		t.Errorf("unexpected schema header: %q / %q", s.Name, s.Description)
	}
	if len(s.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(s.Fields))
	}

	tags := fieldByName(t, s, "tags")
	if tags.Items == nil || tags.Items.Type != TypeString {
		t.Errorf("unexpected tags items: %+v", tags.Items)
	}

	author := fieldByName(t, s, "author")
	if len(author.Properties) != 1 || author.Properties[0].Name != "name" {
		t.Errorf("unexpected author properties: %+v", author.Properties)
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "schema.yaml")
	content := "name: thing\nfields:\n  - name: id\n    type: integer\n    required: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile failed: %v", err)
	}
	if s.Name != "thing" || len(s.Fields) != 1 {
		t.Errorf("unexpected schema: %+v", s)
	}

	if _, err := FromFile(filepath.Join(dir, "schema.txt")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := FromFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateMap(t *testing.T) {
	s, err := FromJSON([]byte(`{
		"name": "record",
		"fields": [
			{"name": "id", "type": "integer", "required": true},
			{"name": "label", "type": "string"},
			{"name": "tags", "type": "array", "items": {"type": "string"}},
			{"name": "meta", "type": "object", "properties": [
				{"name": "source", "type": "string", "required": true}
			]}
		]
	}`))
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}

	tests := []struct {
		name      string
		data      map[string]any
		wantErrs  int
		wantField string
	}{
		{
			name:     "valid complete",
			data:     map[string]any{"id": float64(1), "label": "x", "tags": []any{"a"}, "meta": map[string]any{"source": "web"}},
			wantErrs: 0,
		},
		{
			name:     "valid minimal",
			data:     map[string]any{"id": float64(1)},
			wantErrs: 0,
		},
		{
			name:      "missing required",
			data:      map[string]any{"label": "x"},
			wantErrs:  1,
			wantField: "id",
		},
		{
			name:      "null required",
			data:      map[string]any{"id": nil},
			wantErrs:  1,
			wantField: "id",
		},
		{
			name:     "null optional ok",
			data:     map[string]any{"id": float64(1), "label": nil},
			wantErrs: 0,
		},
		{
			name:      "wrong scalar type",
			data:      map[string]any{"id": "one"},
			wantErrs:  1,
			wantField: "id",
		},
		{
			name:      "wrong array item type",
			data:      map[string]any{"id": float64(1), "tags": []any{"a", float64(2)}},
			wantErrs:  1,
			wantField: "tags",
		},
		{
			name:      "nested required missing",
			data:      map[string]any{"id": float64(1), "meta": map[string]any{}},
			wantErrs:  1,
			wantField: "meta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := s.ValidateMap(tt.data)
			if len(errs) != tt.wantErrs {
				t.Fatalf("expected %d errors, got %d: %v", tt.wantErrs, len(errs), errs)
			}
			if tt.wantErrs > 0 && errs[0].Field != tt.wantField {
				t.Errorf("expected error on field %q, got %q", tt.wantField, errs[0].Field)
			}
		})
	}
}

func TestValidateMap_FieldValidators(t *testing.T) {
	s, err := FromJSON([]byte(`{
		"name": "signup",
		"fields": [
			{"name": "email", "type": "string", "required": true, "validators": ["email"]},
			{"name": "homepage", "type": "string", "validators": ["url"]}
		]
	}`))
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}

	if errs := s.ValidateMap(map[string]any{"email": "a@example.com", "homepage": "https://example.com"}); len(errs) != 0 {
		t.Errorf("valid values should pass, got %v", errs)
	}

	errs := s.ValidateMap(map[string]any{"email": "not-an-email"})
	if len(errs) != 1 || errs[0].Field != "email" {
		t.Fatalf("expected one email error, got %v", errs)
	}

	// Null optional values skip validator tags; presence is the required
	// flag's concern.
	if errs := s.ValidateMap(map[string]any{"email": "a@example.com", "homepage": nil}); len(errs) != 0 {
		t.Errorf("null optional value should not hit validators, got %v", errs)
	}
}

func TestValidate_StructTags(t *testing.T) {
	type contact struct {
		Email string `json:"email" validate:"required,email"`
	}

	s, err := New[contact]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if errs := s.Validate(&contact{Email: "a@example.com"}); len(errs) != 0 {
		t.Errorf("valid struct should pass, got %v", errs)
	}
	if errs := s.Validate(&contact{Email: "not-an-email"}); len(errs) == 0 {
		t.Error("invalid email should fail tag validation")
	}
}

func TestUnmarshal_StructTarget(t *testing.T) {
	s, err := New[SimpleStruct]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	v, err := s.Unmarshal([]byte(`{"name": "ada", "age": 36}`))
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	typed, ok := v.(*SimpleStruct)
	if !ok {
		t.Fatalf("expected *SimpleStruct, got %T", v)
	}
	if typed.Name != "ada" || typed.Age != 36 {
		t.Errorf("unexpected value: %+v", typed)
	}
}

func TestUnmarshal_MapTargetWithoutStruct(t *testing.T) {
	s, err := FromJSON([]byte(`{"name": "loose", "fields": [{"name": "a", "type": "string"}]}`))
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}

	v, err := s.Unmarshal([]byte(`{"a": "x"}`))
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if m, ok := v.(map[string]any); !ok || m["a"] != "x" {
		t.Errorf("expected map value, got %T: %v", v, v)
	}
}

func TestFingerprint(t *testing.T) {
	a, _ := New[SimpleStruct]()
	b, _ := New[SimpleStruct]()
	c, _ := New[StructWithPointer]()

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical schemas must share a fingerprint")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different schemas must not share a fingerprint")
	}

	// Requiredness is part of the identity.
	req, _ := FromJSON([]byte(`{"name": "x", "fields": [{"name": "a", "type": "string", "required": true}]}`))
	opt, _ := FromJSON([]byte(`{"name": "x", "fields": [{"name": "a", "type": "string"}]}`))
	if req.Fingerprint() == opt.Fingerprint() {
		t.Error("required flag must change the fingerprint")
	}

	// So is everything else the instructions render.
	city, _ := FromJSON([]byte(`{"name": "x", "fields": [{"name": "a", "type": "string", "description": "City of residence"}]}`))
	country, _ := FromJSON([]byte(`{"name": "x", "fields": [{"name": "a", "type": "string", "description": "Country of residence"}]}`))
	if city.Fingerprint() == country.Fingerprint() {
		t.Error("field description must change the fingerprint")
	}

	plain, _ := FromJSON([]byte(`{"name": "x", "fields": [{"name": "a", "type": "string"}]}`))
	described, _ := FromJSON([]byte(`{"name": "x", "description": "With a header", "fields": [{"name": "a", "type": "string"}]}`))
	if plain.Fingerprint() == described.Fingerprint() {
		t.Error("schema description must change the fingerprint")
	}
}

func TestRequiredFields(t *testing.T) {
	s, err := New[SimpleStruct]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	required := s.RequiredFields()
	if len(required) != 2 || required[0] != "name" || required[1] != "age" {
		t.Errorf("unexpected required fields: %v", required)
	}

	names := s.FieldNames()
	if len(names) != 3 {
		t.Errorf("unexpected field names: %v", names)
	}
}

func TestToJSONSchema(t *testing.T) {
	s, err := New[SimpleStruct]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	js := s.ToJSONSchema()
	if js["type"] != "object" {
		t.Errorf("expected type object, got %v", js["type"])
	}
	if js["additionalProperties"] != false {
		t.Error("expected additionalProperties false")
	}

	required, ok := js["required"].([]string)
	if !ok || len(required) != 2 {
		t.Fatalf("unexpected required list: %v", js["required"])
	}

	props := js["properties"].(map[string]any)
	name := props["name"].(map[string]any)
	if name["type"] != "string" || name["description"] != "The name" {
		t.Errorf("unexpected name property: %v", name)
	}
}
