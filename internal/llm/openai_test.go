package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewOpenAIClient("sk-test-1234567890", "gpt-4o-mini",
		WithHTTPClient(server.Client()),
		WithBaseURL(server.URL+"/v1/"),
	)
}

func TestOpenAIClientComplete(t *testing.T) {
	t.Parallel()

	t.Run("sends the chat request and returns the first choice", func(t *testing.T) {
		t.Parallel()

		var (
			gotPath string
			gotAuth string
			gotBody chatRequest
		)
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"links\":[]}"}},{"message":{"content":"second"}}]}`))
		})

		got, err := client.Complete(context.Background(), Request{
			System: "system prompt",
			User:   "user prompt",
			Format: FormatJSON,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got != `{"links":[]}` {
			t.Errorf("got %q", got)
		}
		if gotPath != "/v1/chat/completions" {
			t.Errorf("got path %q", gotPath)
		}
		if gotAuth != "Bearer sk-test-1234567890" {
			t.Errorf("got Authorization %q", gotAuth)
		}
		if gotBody.Model != "gpt-4o-mini" {
			t.Errorf("got model %q", gotBody.Model)
		}
		if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != RoleSystem || gotBody.Messages[1].Content != "user prompt" {
			t.Errorf("unexpected messages %+v", gotBody.Messages)
		}
		if gotBody.ResponseFormat == nil || gotBody.ResponseFormat.Type != "json_object" {
			t.Errorf("expected json_object response format, got %+v", gotBody.ResponseFormat)
		}
	})

	t.Run("free text omits response format", func(t *testing.T) {
		t.Parallel()

		var raw map[string]any
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&raw)
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"# Brochure"}}]}`))
		})

		got, err := client.Complete(context.Background(), Request{User: "write"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "# Brochure" {
			t.Errorf("got %q", got)
		}
		if _, ok := raw["response_format"]; ok {
			t.Error("response_format must be omitted for free text")
		}
	})

	t.Run("unauthorized", func(t *testing.T) {
		t.Parallel()

		client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
		})

		_, err := client.Complete(context.Background(), Request{User: "x"})
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()

		client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		})

		_, err := client.Complete(context.Background(), Request{User: "x"})
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected StatusError, got %v", err)
		}
		if statusErr.Code != http.StatusServiceUnavailable || statusErr.Body != "overloaded" {
			t.Errorf("unexpected status error %+v", statusErr)
		}
	})

	t.Run("no choices", func(t *testing.T) {
		t.Parallel()

		client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})

		_, err := client.Complete(context.Background(), Request{User: "x"})
		if !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("expected ErrEmptyResponse, got %v", err)
		}
	})
}
