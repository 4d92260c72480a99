package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Run is the record of one pipeline invocation.
// Steps fill it in as they execute. A Run is owned by a single invocation
// and is never shared between runs.
type Run struct {
	// === Identity ===

	// ID uniquely identifies the run in logs and reports.
	ID string `json:"id"`

	// URL is the website the brochure is generated for.
	URL string `json:"url"`

	// StartedAt is when the run was created.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last step returned. Zero while running.
	FinishedAt time.Time `json:"finished_at,omitempty"`

	// === Stage results ===

	// Page is the fetched landing page.
	Page *Page `json:"page,omitempty"`

	// Selected holds the normalized link candidates to summarize,
	// in selector order.
	Selected []LinkCandidate `json:"selected,omitempty"`

	// Summaries holds one summary per summarized link, in Selected order.
	Summaries []PageSummary `json:"summaries,omitempty"`

	// Brochure is the composed document.
	Brochure *Brochure `json:"brochure,omitempty"`

	// === Execution state ===

	// PerformedSteps lists the names of the steps that completed.
	PerformedSteps []string `json:"performed_steps"`

	// Cancelled is true when the context ended before all steps ran.
	Cancelled bool `json:"cancelled"`

	// Err is the failure that aborted the run.
	Err error `json:"-"`

	// ErrorMessage is Err rendered for reports.
	ErrorMessage string `json:"error,omitempty"`
}

// NewRun creates a Run for the given website URL.
func NewRun(url string) *Run {
	return &Run{
		ID:             uuid.NewString(),
		URL:            url,
		StartedAt:      time.Now(),
		PerformedSteps: make([]string, 0),
	}
}

// Fail records err as the reason the run stopped.
func (r *Run) Fail(err error) {
	r.Err = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// Finish stamps the completion time.
func (r *Run) Finish() {
	r.FinishedAt = time.Now()
}

// Succeeded reports whether the run produced a brochure without error.
func (r *Run) Succeeded() bool {
	return r.Err == nil && !r.Cancelled && r.Brochure != nil
}

// Duration returns how long the run took, or how long it has been running.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// AllSummaries concatenates the raw summaries in selector order.
func (r *Run) AllSummaries() string {
	var b strings.Builder
	for _, s := range r.Summaries {
		b.WriteString(s.Raw)
	}
	return b.String()
}

// Status returns a short human-readable state.
func (r *Run) Status() string {
	switch {
	case r.Cancelled:
		return "cancelled"
	case r.Err != nil:
		return "failed"
	case r.Brochure != nil:
		return "complete"
	default:
		return "running"
	}
}
