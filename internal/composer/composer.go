package composer

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/brochure/internal/llm"
	"github.com/nao1215/brochure/internal/model"
)

const systemPrompt = `You are an assistant that creates a brochure for a company from the summarized contents of the important pages of its website.
First identify the type of the website.
If it is a product or services company, describe the products and services it offers in summarized form, with reference links to specific products or services where available.
If it is an educational website or a blog, summarize the posts, each under its own title or a meaningful similar title, with a link to the post where available. If information about the authors is available, summarize it as well.
Use proper titles, headings and section headers.
The brochure is read by potential investors, existing investors, existing customers, potential customers, potential job candidates, board members and the CEO of the company. Include the important information so that every one of these readers finds something of interest.
Respond in Markdown only. Use proper Markdown headings, lists and formatting.`

// Composer writes the final brochure from page summaries.
type Composer struct {
	client llm.Client
	model  string
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Composer.
type Option func(*Composer)

// WithModel records the model identifier on produced brochures.
func WithModel(name string) Option {
	return func(c *Composer) {
		c.model = name
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) {
		c.logger = logger
	}
}

// New creates a Composer using client.
func New(client llm.Client, opts ...Option) *Composer {
	c := &Composer{
		client: client,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose asks the service for a Markdown brochure built from allSummaries,
// the concatenated page summaries. The returned Markdown is the service's
// text, unmodified. An empty allSummaries is sent as is.
// A failed call is a model.ErrComposition error.
func (c *Composer) Compose(ctx context.Context, allSummaries, sourceURL string) (*model.Brochure, error) {
	text, err := c.client.Complete(ctx, llm.Request{
		System: systemPrompt,
		User:   userPrompt(allSummaries),
		Format: llm.FormatText,
	})
	if err != nil {
		return nil, model.NewCompositionError(sourceURL, err)
	}

	c.logger.Debug("brochure composed", "url", sourceURL, "bytes", len(text))

	return &model.Brochure{
		SourceURL:   sourceURL,
		Markdown:    text,
		Model:       c.model,
		GeneratedAt: c.now(),
	}, nil
}

func userPrompt(allSummaries string) string {
	return "Here is the summary of the contents of the important pages of a website:\n" +
		allSummaries + "\nCreate a brochure for this website."
}
