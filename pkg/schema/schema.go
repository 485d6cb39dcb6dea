package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Schema describes the structure a model response must be recovered into.
// A Schema is immutable once constructed and is intended to be built once
// per shape and reused across many parse calls.
type Schema struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`

	target   reflect.Type // Original struct type for unmarshaling
	validate *validator.Validate
}

// Option configures schema creation.
type Option func(*builder)

type builder struct {
	description string
}

// WithDescription sets the schema description used in format instructions.
func WithDescription(desc string) Option {
	return func(b *builder) {
		b.description = desc
	}
}

// New creates a Schema from a struct type using reflection. Field names come
// from json tags, a field is optional when its tag carries omitempty or its
// type is a pointer, and the description/examples struct tags are carried
// through to the format instructions.
func New[T any](opts ...Option) (Schema, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return Schema{}, fmt.Errorf("schema must be created from a struct type, got %v", t.Kind())
	}

	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}

	fields, err := reflectFields(t)
	if err != nil {
		return Schema{}, err
	}

	return Schema{
		Name:        t.Name(),
		Description: b.description,
		Fields:      fields,
		target:      t,
		validate:    validator.New(),
	}, nil
}

// FromFile loads a schema from a JSON or YAML file.
func FromFile(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("failed to read schema file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FromJSON(data)
	case ".yaml", ".yml":
		return FromYAML(data)
	default:
		return Schema{}, fmt.Errorf("unsupported schema file format: %s", filepath.Ext(path))
	}
}

// FromJSON creates a schema from JSON data.
func FromJSON(data []byte) (Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return Schema{}, fmt.Errorf("failed to parse JSON schema: %w", err)
	}
	s.validate = validator.New()
	return s, nil
}

// FromYAML creates a schema from YAML data.
func FromYAML(data []byte) (Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schema{}, fmt.Errorf("failed to parse YAML schema: %w", err)
	}
	s.validate = validator.New()
	return s, nil
}

// Fingerprint returns a stable identity string for the schema: the name,
// the description and every field signature, including everything the
// format instructions render. Two schemas with the same fingerprint render
// identical instructions, so the fingerprint doubles as the instruction
// cache key.
func (s Schema) Fingerprint() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	if s.Description != "" {
		sb.WriteByte('#')
		sb.WriteString(s.Description)
	}
	for _, f := range s.Fields {
		writeFieldSignature(&sb, f)
	}
	return sb.String()
}

func writeFieldSignature(sb *strings.Builder, f Field) {
	sb.WriteByte('|')
	sb.WriteString(f.Name)
	sb.WriteByte(':')
	sb.WriteString(string(f.Type))
	if f.Required {
		sb.WriteByte('!')
	}
	if f.Description != "" {
		sb.WriteByte('#')
		sb.WriteString(f.Description)
	}
	if len(f.Examples) > 0 {
		sb.WriteByte('(')
		sb.WriteString(strings.Join(f.Examples, ","))
		sb.WriteByte(')')
	}
	if f.Items != nil {
		sb.WriteByte('[')
		writeFieldSignature(sb, *f.Items)
		sb.WriteByte(']')
	}
	if len(f.Properties) > 0 {
		sb.WriteByte('{')
		for _, p := range f.Properties {
			writeFieldSignature(sb, p)
		}
		sb.WriteByte('}')
	}
}

// RequiredFields returns the names of all top-level required fields.
func (s Schema) RequiredFields() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// FieldNames returns all top-level field names in declaration order.
func (s Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

// reflectFields recursively extracts field definitions from a struct type.
func reflectFields(t reflect.Type) ([]Field, error) {
	fields := make([]Field, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		field := Field{
			Name:        jsonName(sf),
			Description: sf.Tag.Get("description"),
			Required:    !hasOmitempty(sf),
			Validators:  splitValidators(sf.Tag.Get("validate")),
		}

		if examples := sf.Tag.Get("examples"); examples != "" {
			field.Examples = strings.Split(examples, ",")
		}

		fieldType := sf.Type
		if fieldType.Kind() == reflect.Ptr {
			fieldType = fieldType.Elem()
			field.Required = false
		}

		switch fieldType.Kind() {
		case reflect.String:
			field.Type = TypeString
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			field.Type = TypeInteger
		case reflect.Float32, reflect.Float64:
			field.Type = TypeNumber
		case reflect.Bool:
			field.Type = TypeBoolean
		case reflect.Slice:
			field.Type = TypeArray
			item, err := reflectField(fieldType.Elem())
			if err != nil {
				return nil, err
			}
			field.Items = &item
		case reflect.Struct:
			field.Type = TypeObject
			props, err := reflectFields(fieldType)
			if err != nil {
				return nil, err
			}
			field.Properties = props
		case reflect.Map:
			field.Type = TypeObject
		default:
			return nil, fmt.Errorf("unsupported field type: %v for field %s", fieldType.Kind(), sf.Name)
		}

		fields = append(fields, field)
	}

	return fields, nil
}

// reflectField extracts a Field definition from a reflect.Type.
func reflectField(t reflect.Type) (Field, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	field := Field{}

	switch t.Kind() {
	case reflect.String:
		field.Type = TypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		field.Type = TypeInteger
	case reflect.Float32, reflect.Float64:
		field.Type = TypeNumber
	case reflect.Bool:
		field.Type = TypeBoolean
	case reflect.Slice:
		field.Type = TypeArray
		item, err := reflectField(t.Elem())
		if err != nil {
			return Field{}, err
		}
		field.Items = &item
	case reflect.Struct:
		field.Type = TypeObject
		props, err := reflectFields(t)
		if err != nil {
			return Field{}, err
		}
		field.Properties = props
	default:
		return Field{}, fmt.Errorf("unsupported type: %v", t.Kind())
	}

	return field, nil
}

// jsonName returns the JSON field name from struct tags.
func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" || tag == "-" {
		return sf.Name
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		return parts[0]
	}
	return sf.Name
}

// hasOmitempty checks if the json tag contains omitempty.
func hasOmitempty(sf reflect.StructField) bool {
	return strings.Contains(sf.Tag.Get("json"), "omitempty")
}

func splitValidators(tag string) []string {
	if tag == "" {
		return nil
	}
	return strings.Split(tag, ",")
}

// Unmarshal parses JSON into the target struct type. Schemas loaded from a
// file have no target type and decode to a map instead.
func (s Schema) Unmarshal(data []byte) (any, error) {
	if s.target == nil {
		var result map[string]any
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal: %w", err)
		}
		return result, nil
	}

	v := reflect.New(s.target).Interface()
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal: %w", err)
	}
	return v, nil
}

// Validate checks the data against the schema. Struct values go through
// go-playground/validator tags; map values are walked field by field.
func (s Schema) Validate(data any) []ValidationError {
	if s.validate == nil {
		return nil
	}

	if m, ok := data.(map[string]any); ok {
		return s.ValidateMap(m)
	}

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	err := s.validate.Struct(data)
	if err == nil {
		return nil
	}

	var errors []ValidationError
	for _, e := range err.(validator.ValidationErrors) {
		errors = append(errors, ValidationError{
			Field:   e.Field(),
			Message: describeTagFailure(e),
			Value:   e.Value(),
		})
	}
	return errors
}

// ValidateMap checks a decoded JSON object against the schema fields:
// required presence, recursive type conformance, then any validator tags
// the field carries.
func (s Schema) ValidateMap(data map[string]any) []ValidationError {
	var errors []ValidationError

	for _, field := range s.Fields {
		val, exists := data[field.Name]
		if field.Required && !exists {
			errors = append(errors, ValidationError{
				Field:   field.Name,
				Message: "required field is missing",
			})
			continue
		}
		if !exists {
			continue
		}

		if err := checkFieldType(field, val); err != nil {
			errors = append(errors, ValidationError{
				Field:   field.Name,
				Message: err.Error(),
				Value:   val,
			})
			continue
		}

		if err := s.checkValidators(field, val); err != nil {
			errors = append(errors, *err)
		}
	}

	return errors
}

// checkValidators applies a field's validator tags to a present value.
// Presence is already handled by the required flag, so the required tag is
// not re-checked here.
func (s Schema) checkValidators(field Field, val any) *ValidationError {
	if val == nil || len(field.Validators) == 0 || s.validate == nil {
		return nil
	}

	tags := make([]string, 0, len(field.Validators))
	for _, tag := range field.Validators {
		if tag != "required" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return nil
	}

	err := s.validate.Var(val, strings.Join(tags, ","))
	if err == nil {
		return nil
	}

	message := err.Error()
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		message = describeTagFailure(verrs[0])
	}
	return &ValidationError{
		Field:   field.Name,
		Message: message,
		Value:   val,
	}
}

// Check validates a single value against this field's type, recursing into
// array items and object properties.
func (f Field) Check(val any) error {
	return checkFieldType(f, val)
}

// checkFieldType checks if a value matches the expected field type.
func checkFieldType(field Field, val any) error {
	if val == nil {
		if field.Required {
			return fmt.Errorf("value is null but field is required")
		}
		return nil
	}

	switch field.Type {
	case TypeString:
		if _, ok := val.(string); !ok {
			return fmt.Errorf("expected string, got %T", val)
		}
	case TypeInteger, TypeNumber:
		switch val.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float64:
			// float64 covers all JSON numbers
		default:
			return fmt.Errorf("expected %s, got %T", field.Type, val)
		}
	case TypeBoolean:
		if _, ok := val.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", val)
		}
	case TypeArray:
		arr, ok := val.([]any)
		if !ok {
			return fmt.Errorf("expected array, got %T", val)
		}
		if field.Items != nil {
			for i, item := range arr {
				if err := checkFieldType(*field.Items, item); err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
			}
		}
	case TypeObject:
		obj, ok := val.(map[string]any)
		if !ok {
			return fmt.Errorf("expected object, got %T", val)
		}
		for _, prop := range field.Properties {
			pv, exists := obj[prop.Name]
			if prop.Required && !exists {
				return fmt.Errorf("%s: required field is missing", prop.Name)
			}
			if !exists {
				continue
			}
			if err := checkFieldType(prop, pv); err != nil {
				return fmt.Errorf("%s: %w", prop.Name, err)
			}
		}
	}

	return nil
}

// describeTagFailure creates a human-readable message for a validator tag.
func describeTagFailure(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
