package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter emits outcomes as a single YAML document on Flush.
type YAMLWriter struct {
	batch
	w *bufio.Writer
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{w: bufio.NewWriter(w)}
}

// Write buffers a single outcome.
func (w *YAMLWriter) Write(data any) error {
	w.add(data)
	return nil
}

// WriteAll buffers multiple outcomes.
func (w *YAMLWriter) WriteAll(data []any) error {
	w.addAll(data)
	return nil
}

// Flush encodes the batch as one document.
func (w *YAMLWriter) Flush() error {
	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)

	if err := encoder.Encode(w.payload()); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}

	return w.w.Flush()
}

// Close flushes and closes the writer.
func (w *YAMLWriter) Close() error {
	return w.Flush()
}
