package composer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/brochure/internal/llm"
	"github.com/nao1215/brochure/internal/llm/llmtest"
	"github.com/nao1215/brochure/internal/model"
)

func TestCompose(t *testing.T) {
	t.Parallel()

	t.Run("returns the service text unchanged", func(t *testing.T) {
		t.Parallel()

		const markdown = "# Example Co Brochure\n\n  Trailing spaces stay.  \n"
		client := llmtest.NewScriptedClient().On("Create a brochure", llmtest.Reply{Content: markdown})

		b, err := New(client, WithModel("gpt-4o-mini")).Compose(context.Background(), `{"title":"About Us"}`, "https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if b.Markdown != markdown {
			t.Errorf("got %q, expected %q", b.Markdown, markdown)
		}
		if b.SourceURL != "https://example.com" || b.Model != "gpt-4o-mini" || b.GeneratedAt.IsZero() {
			t.Errorf("unexpected brochure metadata %+v", b)
		}

		req := client.Requests()[0]
		if req.Format != llm.FormatText {
			t.Error("expected a free-text request")
		}
		if !strings.Contains(req.User, `{"title":"About Us"}`) {
			t.Errorf("summaries missing from prompt:\n%s", req.User)
		}
		for _, audience := range []string{"investors", "customers", "job candidates", "board members", "CEO", "Markdown"} {
			if !strings.Contains(req.System, audience) {
				t.Errorf("system prompt does not mention %q", audience)
			}
		}
	})

	t.Run("empty summaries are still composed", func(t *testing.T) {
		t.Parallel()

		client := llmtest.NewScriptedClient().On("Create a brochure", llmtest.Reply{Content: "# Minimal"})
		b, err := New(client).Compose(context.Background(), "", "https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.Markdown != "# Minimal" {
			t.Errorf("got %q", b.Markdown)
		}
	})

	t.Run("service failure is a composition error", func(t *testing.T) {
		t.Parallel()

		client := llmtest.NewScriptedClient().On("Create a brochure", llmtest.Reply{Err: llm.ErrEmptyResponse})
		_, err := New(client).Compose(context.Background(), "x", "https://example.com")
		if !errors.Is(err, model.ErrComposition) || !errors.Is(err, llm.ErrEmptyResponse) {
			t.Errorf("expected composition error wrapping the cause, got %v", err)
		}
	})
}
