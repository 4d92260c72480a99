package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/nao1215/brochure/internal/llm"
	"github.com/nao1215/brochure/internal/model"
)

// ErrNoSummary is wrapped when the response lacks a usable "summary".
var ErrNoSummary = errors.New(`response has no "summary" text`)

const systemPrompt = `You are an assistant that analyzes the contents of a webpage
and provides a short summary, ignoring text that might be navigation related.
Create a section title that matches the contents of the webpage.
Respond in JSON with the keys "title" and "summary", for example:
{"title": "About Us", "summary": "A short summary of the page."}`

const userInstruction = "Create a summary of this page's contents and a fitting section title. Respond in JSON."

// titleKeys are the response keys accepted for the section title, in
// order of preference.
var titleKeys = []string{"title", "section_title", "segment_title"}

// Summarizer produces a structured summary of one page.
type Summarizer struct {
	client   llm.Client
	maxChars int
	logger   *slog.Logger
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithMaxChars truncates page text to n runes before sending it.
// Zero means no truncation.
func WithMaxChars(n int) Option {
	return func(s *Summarizer) {
		s.maxChars = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Summarizer) {
		s.logger = logger
	}
}

// New creates a Summarizer using client.
func New(client llm.Client, opts ...Option) *Summarizer {
	s := &Summarizer{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize returns a title and summary for page.
// The returned Raw field holds the response text, fences removed, exactly
// as the service produced it. Failures are model.ErrSummarization errors.
func (s *Summarizer) Summarize(ctx context.Context, page *model.Page) (*model.PageSummary, error) {
	raw, err := s.client.Complete(ctx, llm.Request{
		System: systemPrompt,
		User:   "Here is the content of the page:\n" + page.TruncatedContents(s.maxChars) + "\n" + userInstruction,
		Format: llm.FormatJSON,
	})
	if err != nil {
		return nil, model.NewSummarizationError(page.URL, err)
	}

	summary, err := decode(raw)
	if err != nil {
		s.logger.Debug("unusable page summary", "url", page.URL, "response", raw)
		return nil, model.NewSummarizationError(page.URL, err)
	}

	if summary.Title == "" {
		summary.Title = page.Title
	}
	summary.Link.URL = page.URL

	return summary, nil
}

func decode(raw string) (*model.PageSummary, error) {
	cleaned, fields, err := llm.DecodeObject(raw)
	if err != nil {
		return nil, err
	}

	text := stringField(fields, "summary")
	if text == "" {
		return nil, ErrNoSummary
	}

	summary := &model.PageSummary{
		Summary: text,
		Raw:     cleaned,
	}
	for _, key := range titleKeys {
		if title := stringField(fields, key); title != "" {
			summary.Title = title
			break
		}
	}
	return summary, nil
}

// stringField returns fields[key] when it is a JSON string, trimmed.
func stringField(fields map[string]json.RawMessage, key string) string {
	v, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
