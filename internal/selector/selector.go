package selector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/brochure/internal/llm"
	"github.com/nao1215/brochure/internal/model"
)

// ErrMissingLinks is wrapped when the response has no "links" array.
var ErrMissingLinks = errors.New(`response has no "links" array`)

// Selector asks the text-generation service which links of a landing page
// belong in a brochure.
type Selector struct {
	client   llm.Client
	maxLinks int
	logger   *slog.Logger
}

// Option configures a Selector.
type Option func(*Selector)

// WithMaxLinks caps the number of returned candidates. Zero means no cap.
func WithMaxLinks(n int) Option {
	return func(s *Selector) {
		s.maxLinks = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		s.logger = logger
	}
}

// New creates a Selector using client.
func New(client llm.Client, opts ...Option) *Selector {
	s := &Selector{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectRelevantLinks returns the brochure-relevant links of page, in the
// order the service listed them. URLs are returned as the service wrote
// them; callers resolve and filter them.
//
// An explicit empty "links" array is a valid empty selection. A response
// that is not an object with a "links" array, or a failed call, is a
// model.ErrSelection error. It never returns an empty list in place of an
// error.
func (s *Selector) SelectRelevantLinks(ctx context.Context, page *model.Page) ([]model.LinkCandidate, error) {
	raw, err := s.client.Complete(ctx, llm.Request{
		System: systemPrompt,
		User:   userPrompt(page),
		Format: llm.FormatJSON,
	})
	if err != nil {
		return nil, model.NewSelectionError(page.URL, err)
	}

	candidates, err := decode(raw)
	if err != nil {
		s.logger.Debug("unusable link selection", "url", page.URL, "response", raw)
		return nil, model.NewSelectionError(page.URL, err)
	}

	if s.maxLinks > 0 && len(candidates) > s.maxLinks {
		s.logger.Info("truncating link selection", "selected", len(candidates), "max", s.maxLinks)
		candidates = candidates[:s.maxLinks]
	}

	return candidates, nil
}

// decode parses a link selection response.
func decode(raw string) ([]model.LinkCandidate, error) {
	_, fields, err := llm.DecodeObject(raw)
	if err != nil {
		return nil, err
	}

	linksRaw, ok := fields["links"]
	if !ok || strings.TrimSpace(string(linksRaw)) == "null" {
		return nil, ErrMissingLinks
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(linksRaw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingLinks, err)
	}

	candidates := make([]model.LinkCandidate, 0, len(entries))
	dropped := 0
	for _, entry := range entries {
		var c model.LinkCandidate
		if err := json.Unmarshal(entry, &c); err != nil {
			// Entries that are not objects carry no URL.
			dropped++
			continue
		}
		c.URL = strings.TrimSpace(c.URL)
		if c.URL == "" {
			dropped++
			continue
		}
		c.Type = strings.TrimSpace(c.Type)
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 && dropped > 0 {
		return nil, fmt.Errorf("%w: none of %d entries has a url", ErrMissingLinks, dropped)
	}
	return candidates, nil
}
