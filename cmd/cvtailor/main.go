package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cvtailor/internal/config"
	"cvtailor/internal/logging"
)

var verbose bool

var configFile string

var rootCmd = &cobra.Command{
	Use:   "cvtailor",
	Short: "Tailor CVs and cover letters to job descriptions",
	Long: `cvtailor rewrites a CV to target one job description and drafts the
matching cover letter. The CV comes back as a complete LaTeX document,
optionally compiled to PDF with a local LaTeX toolchain.

The heavy lifting is done by a hosted LLM; configure the provider and API
key in configs/config.yaml or via GEMINI_API_KEY / ANTHROPIC_API_KEY.`,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is configs/config.yaml)")
}

// loadCLIConfig loads configuration and tones logging down for terminal
// use: structured JSON belongs to the server, not an interactive run.
func loadCLIConfig() (*config.Config, error) {
	path := configFile
	if path == "" {
		path = "configs/config.yaml"
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.Logging.Format = "text"
	if !verbose {
		cfg.Logging.Level = "warn"
	}
	if err := logging.InitializeLogging(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return cfg, nil
}

func main() {
	Execute()
}
