package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/brochure/internal/config"
	"github.com/nao1215/brochure/internal/llm"
	"github.com/nao1215/brochure/internal/model"
	"github.com/nao1215/brochure/internal/pipeline"
	"github.com/nao1215/brochure/internal/report"
)

// runError is a failed run as shown to the user.
type runError struct {
	err error
}

func (e *runError) Error() string { return model.UserMessage(e.err) }

func (e *runError) Unwrap() error { return e.err }

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <url>",
		Short: "Generate a brochure for a company website",
		Long: `Generate builds a marketing brochure for the website at <url>.

The landing page is fetched, the text-generation service picks the links
that matter for a brochure (about, careers, products, ...), each of those
pages is summarized, and the summaries are turned into a Markdown brochure.
The brochure is written to brochure.md unless --output says otherwise.

A URL without a scheme is fetched over https.

Examples:
  # Write brochure.md for a company
  brochure generate https://example.com

  # Write to a different file and also export a PDF
  brochure generate example.com -o out/example.md --pdf out/example.pdf

  # Summarize pages one at a time, at most five of them
  brochure generate example.com --concurrency 1 --max-links 5

  # Save a Markdown run report next to the brochure
  brochure generate example.com --report run.md

  # Print the run as JSON
  brochure generate example.com --json`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerateCmd,
	}

	addServiceFlags(cmd)

	cmd.Flags().String("pdf", "",
		"Also render the brochure as PDF to this path")
	cmd.Flags().StringP("report", "r", "",
		"Write a run report to this path (Markdown, or JSON with --json)")
	cmd.Flags().BoolP("json", "j", false,
		"Use JSON for the run report, or print the run as JSON when --report is not set")

	return cmd
}

func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", model.NewConfigError(err))
	}
	checkAPIKey(cmd, cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runGenerate(ctx, cmd, cfg, newLLMClient(cfg, logger), args[0], logger)
}

// runGenerate executes one brochure run and reports it.
func runGenerate(ctx context.Context, cmd *cobra.Command, cfg *config.Config, client llm.Client, target string, logger *slog.Logger) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	gen := pipeline.NewGenerator(cfg, client,
		pipeline.WithGeneratorLogger(logger),
		pipeline.WithProgressFunc(func(done, total int, link model.LinkCandidate) {
			fmt.Fprintf(errOut, "[%d/%d] Summarized %s\n", done, total, link.URL)
		}),
	)

	fmt.Fprintf(errOut, "Generating brochure for %s...\n", target)

	run, runErr := gen.RunWithReport(ctx, target)

	if err := outputReport(cfg, run, out); err != nil {
		logger.Error("report failed", "error", err)
		fmt.Fprintf(errOut, "Report error: %v\n", err)
	}

	if runErr != nil {
		return &runError{err: runErr}
	}
	return nil
}

// outputReport writes the terminal summary, and the run report file when
// one is configured.
func outputReport(cfg *config.Config, run *model.Run, out io.Writer) error {
	var terminal report.Writer = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	if cfg.JSONReport && cfg.ReportFile == "" {
		terminal = report.NewJSONWriter(out, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	}
	writers := []report.Writer{terminal}

	var buf bytes.Buffer
	if cfg.ReportFile != "" {
		if cfg.JSONReport {
			writers = append(writers, report.NewJSONWriter(&buf, report.WithPrettyPrint(), report.WithVersion(getVersion())))
		} else {
			writers = append(writers, report.NewMarkdownWriter(&buf))
		}
	}

	if _, err := report.NewMultiWriter(writers...).Write(run); err != nil {
		return err
	}

	if cfg.ReportFile == "" {
		return nil
	}
	if err := report.WriteFileAtomic(cfg.ReportFile, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
