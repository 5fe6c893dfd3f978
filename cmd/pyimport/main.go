// Package main provides the pyimport CLI entry point.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jasonmyers/PythonAutoImport/internal/config"
	"github.com/jasonmyers/PythonAutoImport/internal/logging"
	"github.com/jasonmyers/PythonAutoImport/pkg/version"
)

var (
	cfgFile string //nolint:gochecknoglobals // CLI flag variable
	verbose bool   //nolint:gochecknoglobals // CLI flag variable
	quiet   bool   //nolint:gochecknoglobals // CLI flag variable
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pyimport",
		Short: "Python import statement builder and inserter",
		Long: `pyimport builds Python import statements for a symbol defined in a file
and inserts them into source documents, merging with existing imports
where possible.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pyimport.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(lspCmd())
	rootCmd.AddCommand(mcpCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(completionCmd())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "pyimport %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}

	return cmd
}

// loadConfig loads the configuration honoring the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}

	if quiet {
		cfg.Logging.Level = "error"
	}

	return cfg, nil
}

// newLogger builds a structured logger from the loaded configuration.
func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(cfg.Logging)
}
