package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/jasonmyers/PythonAutoImport/pkg/pyimport"
	"github.com/jasonmyers/PythonAutoImport/pkg/textutil"
)

// ErrNoCursor is returned when neither a symbol nor a cursor position is given.
var ErrNoCursor = errors.New("either --symbol or both --line and --col are required")

// ErrBinaryDocument is returned when the document is not a text file.
var ErrBinaryDocument = errors.New("document is not a text file")

// ErrLineOutOfRange is returned when the cursor line is past the end of the document.
var ErrLineOutOfRange = errors.New("cursor line is past the end of the document")

func addCmd() *cobra.Command {
	var symbol, root, style string

	var line, col int

	var dryRun, colorize, nocolor bool

	cmd := &cobra.Command{
		Use:   "add <document> <defining-file>",
		Short: "Insert an import statement into a Python file",
		Long: `Insert an import statement into a Python source file.

The symbol is taken from --symbol, or extracted from the document at the
cursor position given by --line and --col. The module path is derived
from the defining file relative to the project root. The statement is
merged into an existing from-import of the same module when possible.

Examples:
  pyimport add app.py src/pkg/mod.py --symbol frobnicate
  pyimport add app.py src/pkg/mod.py --line 3 --col 10
  pyimport add app.py src/pkg/mod.py --symbol frobnicate --dry-run
  pyimport add app.py src/pkg/mod.py --symbol frobnicate --style dotted`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := addOptions{
				document:  args[0],
				defining:  args[1],
				symbol:    symbol,
				line:      line,
				col:       col,
				root:      root,
				styleName: style,
				dryRun:    dryRun,
				colorize:  colorize,
				nocolor:   nocolor,
			}

			return runAdd(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "identifier to import")
	cmd.Flags().IntVar(&line, "line", -1, "zero-based cursor line in the document")
	cmd.Flags().IntVar(&col, "col", -1, "zero-based cursor column in the document")
	cmd.Flags().StringVarP(&root, "root", "r", "", "project root for relative module paths (default: configured root)")
	cmd.Flags().StringVarP(&style, "style", "s", "", "import form: from or dotted (default: configured style)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the change as a diff without writing the file")
	cmd.Flags().BoolVar(&colorize, "color", false, "force colored output")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")

	return cmd
}

type addOptions struct {
	document  string
	defining  string
	symbol    string
	line      int
	col       int
	root      string
	styleName string
	dryRun    bool
	colorize  bool
	nocolor   bool
}

func runAdd(opts addOptions, writer io.Writer) error {
	if opts.nocolor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	} else if opts.colorize {
		color.NoColor = false //nolint:reassign // intentional override of library global
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if opts.root == "" {
		opts.root = cfg.RootPath
	}

	if opts.styleName == "" {
		opts.styleName = cfg.Style
	}

	style, err := pyimport.ParseStyle(opts.styleName)
	if err != nil {
		return err
	}

	if opts.symbol == "" && (opts.line < 0 || opts.col < 0) {
		return ErrNoCursor
	}

	info, err := os.Stat(opts.document)
	if err != nil {
		return fmt.Errorf("stat document: %w", err)
	}

	raw, err := os.ReadFile(opts.document)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	if textutil.IsBinary(raw) {
		return fmt.Errorf("%w: %s", ErrBinaryDocument, opts.document)
	}

	if opts.symbol == "" && opts.line >= textutil.CountLines(raw) {
		return fmt.Errorf("%w: line %d of %d", ErrLineOutOfRange, opts.line, textutil.CountLines(raw))
	}

	doc := string(raw)

	loc := pyimport.SourceLocation{
		FilePath:  opts.defining,
		Selection: opts.symbol,
		Line:      opts.line,
		Column:    opts.col,
	}

	target, err := pyimport.Resolve(doc, loc, opts.root, style)
	if err != nil {
		return err
	}

	newDoc, edit, err := pyimport.ApplyToDocument(doc, target, cfg.WriteOptions())
	if err != nil {
		if errors.Is(err, pyimport.ErrAlreadyImported) {
			if !quiet {
				color.New(color.FgYellow).Fprintf(writer, "already imported: %s\n", target.Statement())
			}

			return nil
		}

		return err
	}

	if opts.dryRun {
		renderDiff(writer, doc, newDoc)

		return nil
	}

	err = os.WriteFile(opts.document, []byte(newDoc), info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	if !quiet {
		color.New(color.FgGreen).Fprintf(writer, "added %q at line %d of %s\n",
			strings.TrimSuffix(edit.Text, "\n"), edit.ImportLine+1, opts.document)
	}

	return nil
}

// renderDiff prints a line-oriented diff between the old and new document.
func renderDiff(writer io.Writer, oldDoc, newDoc string) {
	dmp := diffmatchpatch.New()

	oldChars, newChars, lineArray := dmp.DiffLinesToChars(oldDoc, newDoc)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lineArray)

	for _, diff := range diffs {
		for _, textLine := range splitDiffLines(diff.Text) {
			switch diff.Type {
			case diffmatchpatch.DiffInsert:
				color.New(color.FgGreen).Fprintf(writer, "+ %s\n", textLine)
			case diffmatchpatch.DiffDelete:
				color.New(color.FgRed).Fprintf(writer, "- %s\n", textLine)
			case diffmatchpatch.DiffEqual:
				fmt.Fprintf(writer, "  %s\n", textLine)
			}
		}
	}
}

func splitDiffLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
