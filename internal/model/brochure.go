package model

import "time"

// Brochure is the final Markdown document produced for a website.
type Brochure struct {
	// SourceURL is the website the brochure describes.
	SourceURL string `json:"source_url"`

	// Markdown is the document text returned by the text-generation service,
	// unchanged.
	Markdown string `json:"markdown"`

	// Model is the text-generation model that wrote the document.
	Model string `json:"model,omitempty"`

	// GeneratedAt is when composition finished.
	GeneratedAt time.Time `json:"generated_at"`

	// Path is the file the brochure was persisted to. Empty until persisted.
	Path string `json:"path,omitempty"`
}
