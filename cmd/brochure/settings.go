package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/brochure/internal/config"
	"github.com/nao1215/brochure/internal/llm"
	"github.com/nao1215/brochure/internal/model"
	applog "github.com/nao1215/brochure/internal/log"
)

// addServiceFlags registers the flags shared by generate and serve.
func addServiceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", config.DefaultModel,
		"Text-generation model (env: "+config.EnvModel+")")
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"OpenAI-compatible API base URL (env: "+config.EnvBaseURL+")")
	cmd.Flags().String("api-key", "",
		"API key (prefer the "+config.EnvAPIKey+" environment variable)")
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"Brochure output file (overwritten on every run)")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of selected pages summarized at once")
	cmd.Flags().Bool("first-link-only", false,
		"Summarize only the first selected page")
	cmd.Flags().Int("max-links", 0,
		"Maximum number of selected pages (0 = no limit)")
	cmd.Flags().Int("max-page-chars", 0,
		"Truncate page text sent for summarization (0 = no limit)")
	cmd.Flags().Bool("respect-robots", false,
		"Skip selected pages disallowed by robots.txt")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each website request")
	cmd.Flags().Duration("llm-timeout", config.DefaultLLMTimeout,
		"Timeout for each text-generation request")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the configuration file, the
// environment and the command flags, each overriding the previous one.
// Only flags set on the command line override earlier sources.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.EnvFile, err = cmd.Flags().GetString("env-file")
	if err != nil {
		return nil, err
	}

	// An explicit config file must exist; the default search may find nothing.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.Sites = &config.File{Sites: make(map[string]config.SiteConfig)}
	}

	if err := config.LoadEnvFile(cfg.EnvFile); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	config.ApplyEnv(cfg)

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFlags copies explicitly set flags onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	var err error
	if changed("model") {
		if cfg.Model, err = flags.GetString("model"); err != nil {
			return err
		}
	}
	if changed("base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return err
		}
	}
	if changed("api-key") {
		if cfg.APIKey, err = flags.GetString("api-key"); err != nil {
			return err
		}
	}
	if changed("output") {
		if cfg.OutputFile, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return err
		}
	}
	if changed("first-link-only") {
		if cfg.FirstLinkOnly, err = flags.GetBool("first-link-only"); err != nil {
			return err
		}
	}
	if changed("max-links") {
		if cfg.MaxLinks, err = flags.GetInt("max-links"); err != nil {
			return err
		}
	}
	if changed("max-page-chars") {
		if cfg.MaxPageChars, err = flags.GetInt("max-page-chars"); err != nil {
			return err
		}
	}
	if changed("respect-robots") {
		if cfg.RespectRobots, err = flags.GetBool("respect-robots"); err != nil {
			return err
		}
	}
	if changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if changed("llm-timeout") {
		if cfg.LLMTimeout, err = flags.GetDuration("llm-timeout"); err != nil {
			return err
		}
	}

	// Command-specific flags.
	if changed("pdf") {
		if cfg.PDFFile, err = flags.GetString("pdf"); err != nil {
			return err
		}
	}
	if changed("report") {
		if cfg.ReportFile, err = flags.GetString("report"); err != nil {
			return err
		}
	}
	if changed("json") {
		if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
			return err
		}
	}
	if changed("listen") {
		if cfg.ListenAddr, err = flags.GetString("listen"); err != nil {
			return err
		}
	}
	if changed("log-file") {
		if cfg.LogFile, err = flags.GetString("log-file"); err != nil {
			return err
		}
	}

	return nil
}

// setupLogger creates a structured logger on stderr that masks credentials.
func setupLogger(verbose bool) *slog.Logger {
	return applog.NewSecureLogger(os.Stderr, verbose)
}

// checkAPIKey warns about a key that does not look valid. The run goes on;
// the service rejects a bad key on the first call.
func checkAPIKey(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) {
	err := config.CheckAPIKey(cfg.APIKey)
	if err == nil {
		return
	}

	logger.Warn("API key check failed", "error", model.NewConfigError(err))
	switch {
	case errors.Is(err, config.ErrMissingAPIKey):
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: no API key found. Set %s in your environment or .env file.\n", config.EnvAPIKey)
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: the API key does not look valid (expected an %q prefix and no surrounding spaces).\n", "sk-")
	}
}

// newLLMClient creates the text-generation client from cfg.
func newLLMClient(cfg *config.Config, logger *slog.Logger) *llm.OpenAIClient {
	return llm.NewOpenAIClient(cfg.APIKey, cfg.Model,
		llm.WithBaseURL(cfg.BaseURL),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.LLMTimeout}),
		llm.WithLogger(logger),
	)
}
