package crawler

import (
	"testing"

	"github.com/nao1215/brochure/internal/model"
)

func TestMatchPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{pattern: "/legal/*", path: "/legal/terms", want: true},
		{pattern: "/legal/*", path: "/legal", want: true},
		{pattern: "/legal/*", path: "/legalese", want: false},
		{pattern: "*.pdf", path: "/docs/report.pdf", want: true},
		{pattern: "/blog/?", path: "/blog/1", want: true},
		{pattern: "privacy*", path: "/company/privacy-policy", want: true},
		{pattern: "/about", path: "/careers", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			if got := matchPattern(tt.pattern, tt.path); got != tt.want {
				t.Errorf("matchPattern(%q, %q) = %v, expected %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}

func TestFilterIgnored(t *testing.T) {
	t.Parallel()

	candidates := []model.LinkCandidate{
		{Type: "About page", URL: "https://example.com/about"},
		{Type: "Terms", URL: "https://example.com/legal/terms"},
		{Type: "Careers page", URL: "https://example.com/careers"},
	}

	t.Run("no patterns keeps everything", func(t *testing.T) {
		t.Parallel()

		kept, ignored := FilterIgnored(candidates, nil)
		if len(kept) != 3 || len(ignored) != 0 {
			t.Errorf("got %v and %v", kept, ignored)
		}
	})

	t.Run("matching candidates are removed in order", func(t *testing.T) {
		t.Parallel()

		kept, ignored := FilterIgnored(candidates, []string{"/legal/*"})
		if len(kept) != 2 || kept[0].Type != "About page" || kept[1].Type != "Careers page" {
			t.Errorf("unexpected kept %v", kept)
		}
		if len(ignored) != 1 || ignored[0].Type != "Terms" {
			t.Errorf("unexpected ignored %v", ignored)
		}
	})
}
