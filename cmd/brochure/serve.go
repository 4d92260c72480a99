package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/brochure/internal/config"
	"github.com/nao1215/brochure/internal/llm"
	applog "github.com/nao1215/brochure/internal/log"
	"github.com/nao1215/brochure/internal/model"
	"github.com/nao1215/brochure/internal/pipeline"
	"github.com/nao1215/brochure/internal/web"
)

// shutdownTimeout bounds the graceful shutdown of the web UI.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the brochure generator web UI",
		Long: `Serve starts a single-page web UI with a URL field and a button.

Each submission runs the generator and shows the brochure rendered as HTML.
Failures are shown on the page. Every run also writes the brochure file,
so concurrent submissions replace each other's file; the last one wins.

Examples:
  # Listen on the default address (:7860)
  brochure serve

  # Listen on localhost only and write JSON logs to a rotating file
  brochure serve --listen 127.0.0.1:8080 --log-file ~/.local/state/brochure/serve.log`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	addServiceFlags(cmd)

	cmd.Flags().StringP("listen", "l", config.DefaultListenAddr,
		"Address to listen on")
	cmd.Flags().String("log-file", "",
		"Write JSON logs to this file with rotation instead of stderr")

	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)
	if cfg.LogFile != "" {
		fileLogger, closer := applog.NewFileLogger(cfg.LogFile, cfg.Verbose)
		defer closer.Close()
		logger = fileLogger
	}
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", model.NewConfigError(err))
	}
	checkAPIKey(cmd, cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddr, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving brochure UI on http://%s\n", ln.Addr())
	return serve(ctx, ln, cfg, newLLMClient(cfg, logger), logger)
}

// serve runs the web UI on ln until ctx is cancelled.
func serve(ctx context.Context, ln net.Listener, cfg *config.Config, client llm.Client, logger *slog.Logger) error {
	gen := pipeline.NewGenerator(cfg, client, pipeline.WithGeneratorLogger(logger))

	srv, err := web.NewServer(gen,
		web.WithLogger(logger),
		web.WithRequestTimeout(requestTimeout(cfg)),
	)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logger.Info("web UI started", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down web UI")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// requestTimeout leaves room for the landing fetch and the selection,
// summary and composition calls of one run.
func requestTimeout(cfg *config.Config) time.Duration {
	return max(web.DefaultRequestTimeout, cfg.Timeout+3*cfg.LLMTimeout)
}
