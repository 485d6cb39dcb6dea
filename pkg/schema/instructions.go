package schema

import (
	"strings"
	"sync"
)

// instructionCache holds rendered format instructions keyed by schema
// fingerprint. Rendering is deterministic, so a racing recompute overwrites
// the entry with an identical value and no locking is needed beyond the map.
var instructionCache sync.Map

// Instructions renders the schema as a natural-language block suitable for
// embedding in a prompt: a preamble asking for a single JSON object, then
// one line per field with its type, REQUIRED/OPTIONAL marker and
// description. The same schema always renders identical text.
func Instructions(s Schema) string {
	key := s.Fingerprint()
	if cached, ok := instructionCache.Load(key); ok {
		return cached.(string)
	}

	rendered := render(s)
	instructionCache.Store(key, rendered)
	return rendered
}

func render(s Schema) string {
	var sb strings.Builder

	sb.WriteString("Respond with a single JSON object matching this structure.\n")
	if s.Description != "" {
		sb.WriteString(s.Description)
		sb.WriteString("\n")
	}
	sb.WriteString("\nFields:\n")

	for _, field := range s.Fields {
		writeFieldLine(&sb, field, 0)
	}

	return sb.String()
}

// writeFieldLine writes one field description line, recursing into array
// items and nested objects.
func writeFieldLine(sb *strings.Builder, f Field, indent int) {
	prefix := strings.Repeat("  ", indent)

	sb.WriteString(prefix)
	sb.WriteString("- ")
	sb.WriteString(f.Name)
	sb.WriteString(" (")
	sb.WriteString(string(f.Type))
	if f.Required {
		sb.WriteString(", REQUIRED")
	} else {
		sb.WriteString(", OPTIONAL")
	}
	sb.WriteString(")")

	if f.Description != "" {
		sb.WriteString(": ")
		sb.WriteString(f.Description)
	}
	if len(f.Examples) > 0 {
		sb.WriteString(" (e.g. ")
		sb.WriteString(strings.Join(f.Examples, ", "))
		sb.WriteString(")")
	}

	sb.WriteString("\n")

	if f.Type == TypeArray && f.Items != nil && f.Items.Type == TypeObject {
		sb.WriteString(prefix)
		sb.WriteString("  Each item:\n")
		for _, prop := range f.Items.Properties {
			writeFieldLine(sb, prop, indent+2)
		}
	}

	if f.Type == TypeObject && len(f.Properties) > 0 {
		for _, prop := range f.Properties {
			writeFieldLine(sb, prop, indent+1)
		}
	}
}
