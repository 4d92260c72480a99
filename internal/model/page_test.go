package model

import (
	"strings"
	"testing"
)

// TestPageComputeHash tests the ComputeHash method.
func TestPageComputeHash(t *testing.T) {
	t.Parallel()

	t.Run("computes SHA256 hash of raw content", func(t *testing.T) {
		t.Parallel()

		page := &Page{}
		page.ComputeHash([]byte("Hello, World!"))

		// Expected SHA256 of "Hello, World!"
		expected := "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f"
		if page.Hash != expected {
			t.Errorf("got %q, expected %q", page.Hash, expected)
		}
	})

	t.Run("empty content produces empty hash", func(t *testing.T) {
		t.Parallel()

		page := &Page{Hash: "stale"}
		page.ComputeHash(nil)

		if page.Hash != "" {
			t.Errorf("expected empty hash, got %q", page.Hash)
		}
	})
}

func TestPageContents(t *testing.T) {
	t.Parallel()

	t.Run("frames title and text", func(t *testing.T) {
		t.Parallel()

		page := &Page{Title: "Example", Text: "Hello\nWorld"}
		want := "Webpage title: Example\nWebpage contents:\nHello\nWorld\n"
		if got := page.Contents(); got != want {
			t.Errorf("got %q, expected %q", got, want)
		}
	})

	t.Run("empty body still has framing", func(t *testing.T) {
		t.Parallel()

		page := &Page{Title: NoTitle}
		want := "Webpage title: No title found\nWebpage contents:\n\n"
		if got := page.Contents(); got != want {
			t.Errorf("got %q, expected %q", got, want)
		}
	})
}

func TestPageTruncatedContents(t *testing.T) {
	t.Parallel()

	page := &Page{Title: "T", Text: "héllo world"}

	tests := []struct {
		name     string
		maxRunes int
		wantText string
	}{
		{name: "no limit", maxRunes: 0, wantText: "héllo world"},
		{name: "limit above length", maxRunes: 100, wantText: "héllo world"},
		{name: "limit cuts on runes", maxRunes: 2, wantText: "hé"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := page.TruncatedContents(tt.maxRunes)
			if !strings.HasSuffix(got, "Webpage contents:\n"+tt.wantText+"\n") {
				t.Errorf("got %q, expected text %q", got, tt.wantText)
			}
		})
	}
}

func TestPageHasTitle(t *testing.T) {
	t.Parallel()

	if (&Page{Title: NoTitle}).HasTitle() {
		t.Error("expected sentinel title to report no title")
	}
	if !(&Page{Title: "Acme"}).HasTitle() {
		t.Error("expected real title to be reported")
	}
}
