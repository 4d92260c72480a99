package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/nao1215/brochure/internal/config"
	"github.com/nao1215/brochure/internal/llm/llmtest"
	"github.com/nao1215/brochure/internal/web"
)

func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()

	listen := cmd.Flags().Lookup("listen")
	if listen == nil {
		t.Fatal("expected listen flag")
	}
	if listen.DefValue != config.DefaultListenAddr {
		t.Errorf("expected default %q, got %q", config.DefaultListenAddr, listen.DefValue)
	}
	if cmd.Flags().Lookup("log-file") == nil {
		t.Error("expected log-file flag")
	}
}

func TestServe(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	cfg := config.NewConfig()
	cfg.OutputFile = t.TempDir() + "/brochure.md"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, ln, cfg, llmtest.NewScriptedClient(), setupLogger(false))
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz") //nolint:noctx // test request
	if err != nil {
		cancel()
		t.Fatalf("GET /healthz error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK || string(body) != "ok\n" {
		t.Errorf("unexpected health response: %d %q", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not shut down")
	}
}

func TestRequestTimeout(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	if got := requestTimeout(cfg); got < web.DefaultRequestTimeout {
		t.Errorf("expected at least %v, got %v", web.DefaultRequestTimeout, got)
	}
}
