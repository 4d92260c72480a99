package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/brochure/internal/config"
)

// parseSubcommand returns the named subcommand with args parsed, including
// the root's persistent flags.
func parseSubcommand(t *testing.T, name string, args ...string) *cobra.Command {
	t.Helper()

	root := NewRootCmd()
	cmd, _, err := root.Find([]string{name})
	if err != nil {
		t.Fatalf("subcommand %s not found: %v", name, err)
	}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	return cmd
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "brochure.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestBuildConfigPrecedence(t *testing.T) {
	path := writeConfigFile(t, `
model: file-model
base_url: https://file.example/v1
output: from-file.md
concurrency: 2
max_links: 7
sites:
  example.com:
    cookie: "session=1"
`)

	t.Run("file overrides defaults", func(t *testing.T) {
		t.Setenv(config.EnvModel, "")
		t.Setenv(config.EnvBaseURL, "")

		cfg, err := buildConfig(parseSubcommand(t, "generate", "--config", path))
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if cfg.Model != "file-model" {
			t.Errorf("expected model from file, got %q", cfg.Model)
		}
		if cfg.OutputFile != "from-file.md" {
			t.Errorf("expected output from file, got %q", cfg.OutputFile)
		}
		if cfg.Concurrency != 2 || cfg.MaxLinks != 7 {
			t.Errorf("unexpected limits: concurrency=%d max_links=%d", cfg.Concurrency, cfg.MaxLinks)
		}
		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("expected default timeout, got %v", cfg.Timeout)
		}
		if cfg.SiteConfig("example.com").Cookie != "session=1" {
			t.Error("expected site settings from file")
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv(config.EnvModel, "env-model")
		t.Setenv(config.EnvAPIKey, "sk-environment-key")

		cfg, err := buildConfig(parseSubcommand(t, "generate", "--config", path))
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if cfg.Model != "env-model" {
			t.Errorf("expected model from env, got %q", cfg.Model)
		}
		if cfg.APIKey != "sk-environment-key" {
			t.Errorf("expected API key from env, got %q", cfg.APIKey)
		}
	})

	t.Run("flags override environment", func(t *testing.T) {
		t.Setenv(config.EnvModel, "env-model")

		cfg, err := buildConfig(parseSubcommand(t, "generate",
			"--config", path,
			"--model", "flag-model",
			"-o", "flag.md",
			"--concurrency", "1",
			"--first-link-only",
			"--timeout", "5s",
			"--pdf", "out.pdf",
			"--report", "run.json",
			"--json",
			"-v",
		))
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if cfg.Model != "flag-model" {
			t.Errorf("expected model from flag, got %q", cfg.Model)
		}
		if cfg.OutputFile != "flag.md" || cfg.PDFFile != "out.pdf" || cfg.ReportFile != "run.json" {
			t.Errorf("unexpected output paths: %q %q %q", cfg.OutputFile, cfg.PDFFile, cfg.ReportFile)
		}
		if cfg.Concurrency != 1 || !cfg.FirstLinkOnly || !cfg.JSONReport || !cfg.Verbose {
			t.Errorf("unexpected flag values: %+v", cfg)
		}
		if cfg.Timeout != 5*time.Second {
			t.Errorf("expected timeout 5s, got %v", cfg.Timeout)
		}
		if cfg.MaxLinks != 7 {
			t.Errorf("unset flag should keep file value, got %d", cfg.MaxLinks)
		}
	})
}

func TestBuildConfigEnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envPath, []byte("BROCHURE_MODEL=dotenv-model\n"), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	// Restored after the test; godotenv does not override set variables.
	t.Setenv(config.EnvModel, "")
	if err := os.Unsetenv(config.EnvModel); err != nil {
		t.Fatalf("Unsetenv() error = %v", err)
	}

	cfg, err := buildConfig(parseSubcommand(t, "generate",
		"--config", writeConfigFile(t, "model: file-model\n"),
		"--env-file", envPath,
	))
	if err != nil {
		t.Fatalf("buildConfig() error = %v", err)
	}
	if cfg.Model != "dotenv-model" {
		t.Errorf("expected model from env file, got %q", cfg.Model)
	}
}

func TestBuildConfigErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "nope.yaml")
		_, err := buildConfig(parseSubcommand(t, "generate", "--config", missing))
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := writeConfigFile(t, "model: [unterminated\n")
		_, err := buildConfig(parseSubcommand(t, "generate", "--config", path))
		if err == nil || !strings.Contains(err.Error(), "failed to load config file") {
			t.Errorf("expected load error, got %v", err)
		}
	})

	t.Run("missing explicit env file", func(t *testing.T) {
		t.Parallel()

		path := writeConfigFile(t, "model: m\n")
		_, err := buildConfig(parseSubcommand(t, "generate",
			"--config", path,
			"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		))
		if err == nil {
			t.Error("expected error for missing env file")
		}
	})
}

func TestCheckAPIKeyWarning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "missing", key: "", want: "no API key found"},
		{name: "malformed", key: " sk-abcdefghijk", want: "does not look valid"},
		{name: "valid", key: "sk-abcdefghijk", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stderr bytes.Buffer
			cmd := NewGenerateCmd()
			cmd.SetErr(&stderr)

			cfg := config.NewConfig()
			cfg.APIKey = tt.key
			checkAPIKey(cmd, cfg, setupLogger(false))

			if tt.want == "" {
				if stderr.Len() != 0 {
					t.Errorf("expected no warning, got %q", stderr.String())
				}
				return
			}
			if !strings.Contains(stderr.String(), tt.want) {
				t.Errorf("expected warning containing %q, got %q", tt.want, stderr.String())
			}
			if strings.Contains(stderr.String(), tt.key) && tt.key != "" {
				t.Error("warning must not echo the key")
			}
		})
	}
}
