package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for brochure.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brochure",
		Short: "Generate a marketing brochure from a company website",
		Long: `brochure builds a marketing brochure for a company from its website.

It fetches the landing page, asks an OpenAI-compatible text-generation
service which linked pages belong in a brochure, summarizes each of them,
and composes a Markdown brochure aimed at investors, customers, recruits
and board members.

The service credential is read from OPENAI_API_KEY, which may also be set
in a .env file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .brochure.yaml in current, XDG config or home directory)")
	cmd.PersistentFlags().String("env-file", "",
		"dotenv file to load before reading the environment (default: .env if present)")

	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
