// Package output serializes recovery outcomes for the CLI: JSON, JSONL or
// YAML, to stdout or a file.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Format names a supported output encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// ParseFormat resolves a format name from a CLI flag, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatJSON, FormatJSONL, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", name)
	}
}

// Writer emits recovery outcomes in one encoding. Document-oriented
// encodings (JSON, YAML) buffer until Flush; line-oriented ones emit as
// they go.
type Writer interface {
	// Write outputs a single outcome.
	Write(data any) error

	// WriteAll outputs multiple outcomes.
	WriteAll(data []any) error

	// Flush ensures all data is written.
	Flush() error

	// Close flushes and releases resources.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
	indent string
}

// WithPretty enables pretty-printing.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the indentation string.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// NewWriter creates a writer for the given format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatJSON:
		return NewJSONWriter(w, cfg.pretty, cfg.indent), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// batch accumulates outcomes for the document-oriented writers and decides
// what the document holds: a lone outcome is emitted bare, several become
// a list.
type batch struct {
	items []any
}

func (b *batch) add(item any) {
	b.items = append(b.items, item)
}

func (b *batch) addAll(items []any) {
	b.items = append(b.items, items...)
}

func (b *batch) payload() any {
	switch len(b.items) {
	case 0:
		return []any{}
	case 1:
		return b.items[0]
	default:
		return b.items
	}
}
