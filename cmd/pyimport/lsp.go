package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jasonmyers/PythonAutoImport/internal/lsp"
)

func lspCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start a language server for import insertion (LSP)",
		Long: `Start a language server (LSP) offering import insertion as code
actions and workspace commands (stdio mode).`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			err = lsp.NewServer(cfg, newLogger(cfg)).Run()
			if err != nil {
				return fmt.Errorf("lsp server: %w", err)
			}

			return nil
		},
	}

	return cmd
}
