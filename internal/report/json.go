package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/brochure/internal/model"
)

// JSONWriter outputs run reports as JSON for tool integration.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
	version      string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables two-space indented output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// WithVersion records the generator version in the report.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport wraps a run with output metadata.
type JSONReport struct {
	// Version is the generator version that produced the report.
	Version string `json:"version,omitempty"`

	// Status is "complete", "failed" or "cancelled".
	Status string `json:"status"`

	// ErrorKind names the failing stage of a failed run.
	ErrorKind string `json:"error_kind,omitempty"`

	// DurationMS is the run duration in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// Run is the full run record.
	Run *model.Run `json:"run"`
}

// Write outputs the run in JSON format.
func (w *JSONWriter) Write(run *model.Run) (int, error) {
	wrapped := &JSONReport{
		Version:    w.version,
		Status:     run.Status(),
		DurationMS: run.Duration().Milliseconds(),
		Run:        run,
	}
	if run.Err != nil {
		wrapped.ErrorKind = model.KindOf(run.Err).String()
	}

	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(wrapped, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(wrapped)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
