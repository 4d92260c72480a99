package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nao1215/brochure/internal/config"
	"github.com/nao1215/brochure/internal/model"
)

func TestFetcherFetch(t *testing.T) {
	t.Parallel()

	t.Run("fetches and extracts a page", func(t *testing.T) {
		t.Parallel()

		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><head><title>Example</title></head><body><a href="/about">About</a><a href="/privacy">Privacy</a></body></html>`))
		}))
		defer server.Close()

		fetcher := NewFetcher(server.Client(), WithUserAgent("brochure-test"))
		page, err := fetcher.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if page.Title != "Example" {
			t.Errorf("got title %q, expected Example", page.Title)
		}
		if len(page.Links) != 2 || page.Links[0] != "/about" || page.Links[1] != "/privacy" {
			t.Errorf("unexpected links %v", page.Links)
		}
		if page.Text != "About\nPrivacy" {
			t.Errorf("unexpected text %q", page.Text)
		}
		if page.StatusCode != http.StatusOK || page.Hash == "" {
			t.Errorf("unexpected page metadata %+v", page)
		}
		if gotUA != "brochure-test" {
			t.Errorf("got User-Agent %q", gotUA)
		}
	})

	t.Run("decodes declared charset", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			// "Café" in Latin-1.
			_, _ = w.Write([]byte("<html><head><title>Caf\xe9</title></head><body></body></html>"))
		}))
		defer server.Close()

		page, err := NewFetcher(server.Client()).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Title != "Café" {
			t.Errorf("got title %q, expected Café", page.Title)
		}
	})

	t.Run("status 404 is a fetch error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		_, err := NewFetcher(server.Client()).Fetch(context.Background(), server.URL)
		if !errors.Is(err, model.ErrFetch) {
			t.Errorf("expected ErrFetch, got %v", err)
		}
		if !errors.Is(err, ErrHTTPStatus) {
			t.Errorf("expected ErrHTTPStatus, got %v", err)
		}
	})

	t.Run("unreachable host is a fetch error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := NewFetcher(server.Client()).Fetch(context.Background(), url)
		if !errors.Is(err, model.ErrFetch) {
			t.Errorf("expected ErrFetch, got %v", err)
		}
	})

	t.Run("site cookie and headers are sent", func(t *testing.T) {
		t.Parallel()

		var cookie, custom string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie = r.Header.Get("Cookie")
			custom = r.Header.Get("X-Test")
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer server.Close()

		lookup := func(string) config.SiteConfig {
			return config.SiteConfig{Cookie: "consent=yes", Headers: map[string]string{"X-Test": "1"}}
		}
		if _, err := NewFetcher(server.Client(), WithSiteLookup(lookup)).Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cookie != "consent=yes" || custom != "1" {
			t.Errorf("got cookie %q and header %q", cookie, custom)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewFetcher(server.Client()).Fetch(ctx, server.URL)
		if !errors.Is(err, model.ErrFetch) || !errors.Is(err, context.Canceled) {
			t.Errorf("expected cancelled fetch error, got %v", err)
		}
	})
}
