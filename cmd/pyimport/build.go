package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jasonmyers/PythonAutoImport/pkg/pyimport"
)

func buildCmd() *cobra.Command {
	var root, style string

	var explain bool

	cmd := &cobra.Command{
		Use:   "build <file> <symbol>",
		Short: "Build a Python import statement for a symbol",
		Long: `Build a Python import statement for a symbol defined in a file.

The module path is derived from the file path relative to the project
root. The statement is printed without modifying anything.

Examples:
  pyimport build src/pkg/mod.py frobnicate
  pyimport build --style dotted src/pkg/mod.py frobnicate
  pyimport build --root /home/me/proj src/pkg/mod.py frobnicate
  pyimport build --explain src/pkg/mod.py frobnicate`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0], args[1], root, style, explain, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "project root for relative module paths (default: configured root)")
	cmd.Flags().StringVarP(&style, "style", "s", "", "import form: from or dotted (default: configured style)")
	cmd.Flags().BoolVar(&explain, "explain", false, "show how the module path was derived")

	return cmd
}

func runBuild(filePath, symbol, root, styleName string, explain bool, writer io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if root == "" {
		root = cfg.RootPath
	}

	if styleName == "" {
		styleName = cfg.Style
	}

	style, err := pyimport.ParseStyle(styleName)
	if err != nil {
		return err
	}

	loc := pyimport.SourceLocation{FilePath: filePath, Selection: symbol}

	target, err := pyimport.Resolve("", loc, root, style)
	if err != nil {
		return err
	}

	if explain {
		printExplanation(writer, filePath, root, target)

		return nil
	}

	fmt.Fprintln(writer, target.Statement())

	return nil
}

// printExplanation renders the resolution steps as a table.
func printExplanation(writer io.Writer, filePath, root string, target pyimport.Target) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(writer)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false

	if root == "" {
		root = "(none)"
	}

	tbl.AppendRow(table.Row{"file", filePath})
	tbl.AppendRow(table.Row{"normalized", pyimport.NormalizePath(filePath)})
	tbl.AppendRow(table.Row{"root", root})
	tbl.AppendRow(table.Row{"module", target.Module})
	tbl.AppendRow(table.Row{"symbol", target.Symbol})
	tbl.AppendRow(table.Row{"style", string(target.Style)})
	tbl.AppendRow(table.Row{"statement", target.Statement()})
	tbl.Render()
}
