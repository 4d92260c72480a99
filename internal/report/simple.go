package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/brochure/internal/model"
)

// SimpleWriter outputs a short plain-text run summary for the terminal.
type SimpleWriter struct {
	baseWriter

	// verbose adds the per-page summaries.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose includes each page summary in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the run summary.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Website:   %s\n", run.URL)
	if run.Page != nil {
		fmt.Fprintf(&sb, "Title:     %s\n", run.Page.Title)
	}
	fmt.Fprintf(&sb, "Duration:  %s\n", run.Duration().Round(time.Millisecond))

	switch {
	case run.Cancelled:
		sb.WriteString("Status:    CANCELLED\n")
	case run.Err != nil:
		fmt.Fprintf(&sb, "Status:    ERROR - %s\n", model.UserMessage(run.Err))
	default:
		sb.WriteString("Status:    Complete\n")
	}
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")

	if len(run.Selected) == 0 {
		sb.WriteString("  No links selected\n")
	}
	for i, link := range run.Selected {
		fmt.Fprintf(&sb, "  [%d] %s  %s\n", i+1, link.Type, link.URL)
		if w.verbose && i < len(run.Summaries) {
			fmt.Fprintf(&sb, "      %s: %s\n", run.Summaries[i].Title, run.Summaries[i].Summary)
		}
	}

	if run.Brochure != nil && run.Brochure.Path != "" {
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "Brochure written to %s\n", run.Brochure.Path)
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}
