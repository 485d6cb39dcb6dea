package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter emits outcomes as a single JSON document on Flush.
type JSONWriter struct {
	batch
	w      *bufio.Writer
	pretty bool
	indent string
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
		indent: indent,
	}
}

// Write buffers a single outcome.
func (w *JSONWriter) Write(data any) error {
	w.add(data)
	return nil
}

// WriteAll buffers multiple outcomes.
func (w *JSONWriter) WriteAll(data []any) error {
	w.addAll(data)
	return nil
}

// Flush encodes the batch as one document.
func (w *JSONWriter) Flush() error {
	var out []byte
	var err error
	if w.pretty {
		out, err = json.MarshalIndent(w.payload(), "", w.indent)
	} else {
		out, err = json.Marshal(w.payload())
	}
	if err != nil {
		return err
	}

	if _, err := w.w.Write(out); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}

	return w.w.Flush()
}

// Close flushes and closes the writer.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

// JSONLWriter emits newline-delimited JSON, one outcome per line, as the
// outcomes arrive.
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{w: bufio.NewWriter(w)}
}

// Write emits a single outcome as one line.
func (w *JSONLWriter) Write(data any) error {
	out, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(out); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// WriteAll emits multiple outcomes, one line each.
func (w *JSONLWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered lines.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes and closes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}
