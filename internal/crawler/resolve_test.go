package crawler

import (
	"errors"
	"testing"

	"github.com/nao1215/brochure/internal/model"
)

func TestNormalizeInputURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "adds https", in: "example.com", want: "https://example.com"},
		{name: "keeps http", in: "http://example.com/x", want: "http://example.com/x"},
		{name: "trims space", in: "  https://example.com ", want: "https://example.com"},
		{name: "empty", in: "", wantErr: true},
		{name: "ftp scheme", in: "ftp://example.com", wantErr: true},
		{name: "no host", in: "https://", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeInputURL(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("got error %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestResolveLinks(t *testing.T) {
	t.Parallel()

	candidates := []model.LinkCandidate{
		{Type: "About page", URL: "/about"},
		{Type: "Careers page", URL: "https://example.com/careers#top"},
		{Type: "Duplicate about", URL: "https://EXAMPLE.com/about"},
		{Type: "Email", URL: "mailto:hello@example.com"},
		{Type: "Broken", URL: "http://[::1"},
		{Type: "Company page", URL: "https://other.example.org"},
	}

	kept, dropped, err := ResolveLinks("https://example.com/", candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []model.LinkCandidate{
		{Type: "About page", URL: "https://example.com/about"},
		{Type: "Careers page", URL: "https://example.com/careers"},
		{Type: "Company page", URL: "https://other.example.org"},
	}
	if len(kept) != len(want) {
		t.Fatalf("got %v, expected %v", kept, want)
	}
	for i := range want {
		if kept[i] != want[i] {
			t.Errorf("candidate %d: got %+v, expected %+v", i, kept[i], want[i])
		}
	}
	if len(dropped) != 3 {
		t.Errorf("expected 3 dropped candidates, got %v", dropped)
	}
}

func TestResolveLinksEmpty(t *testing.T) {
	t.Parallel()

	kept, dropped, err := ResolveLinks("https://example.com", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kept) != 0 || len(dropped) != 0 {
		t.Errorf("expected nothing, got %v and %v", kept, dropped)
	}
}

func TestCheckHTTPURLErrors(t *testing.T) {
	t.Parallel()

	_, err := NormalizeInputURL("javascript://alert")
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("expected ErrUnsupportedScheme, got %v", err)
	}
}
