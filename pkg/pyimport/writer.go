package pyimport

import (
	"errors"
	"regexp"
	"slices"
	"strings"
)

// ErrAlreadyImported signals that the document already contains the
// requested import. It is a benign no-op, not a failure: callers surface
// it as a notice and leave the document untouched.
var ErrAlreadyImported = errors.New("import statement already present")

// Lines an import may be inserted below: other imports and __dunder__
// assignments. Leading comments and docstrings qualify only at the very
// top of the file.
var validInsertRE = regexp.MustCompile(`^(?:__|import|from)`)

// Lines that may separate the import block from the first real statement:
// whitespace, comments, string delimiters, dunders, imports, and
// try/except ImportError guards.
var skipLineRE = regexp.MustCompile(`^(?:\s|[#'"]|__|import|from|try|except|$)`)

// indentRE matches continuation lines of a multi-line import statement.
var indentRE = regexp.MustCompile(`^[ \t]`)

// WriteOptions tunes statement insertion.
type WriteOptions struct {
	// MaxLineWidth is the wrap threshold for merged statements.
	// Zero uses DefaultLineWidth.
	MaxLineWidth int
}

// Edit describes a single buffer mutation: the half-open line range
// [StartLine, EndLine) is replaced by Text. An insertion has
// StartLine == EndLine. ImportLine is the line the import lands on,
// for view repositioning.
type Edit struct {
	Text       string
	StartLine  int
	EndLine    int
	ImportLine int
}

// Apply decides how to add target's import to the document text and
// returns the edit to perform. It merges into an existing from-import of
// the same module when possible, otherwise inserts a new statement below
// the leading import block. ErrAlreadyImported is returned when the
// document needs no change.
func Apply(doc string, target Target, opts WriteOptions) (*Edit, error) {
	width := opts.MaxLineWidth
	if width <= 0 {
		width = DefaultLineWidth
	}

	lines := strings.Split(doc, "\n")
	statement := target.Statement()

	if hasExactStatement(lines, statement) {
		return nil, ErrAlreadyImported
	}

	if target.Style == StyleFrom && target.Module != "" {
		edit, err := mergeIntoExisting(lines, target, width)
		if edit != nil || err != nil {
			return edit, err
		}
	}

	at := insertionLine(lines)

	return &Edit{
		Text:       statement,
		StartLine:  at,
		EndLine:    at,
		ImportLine: at,
	}, nil
}

// ApplyToDocument runs Apply and splices the edit into the document,
// returning the full new text alongside the edit.
func ApplyToDocument(doc string, target Target, opts WriteOptions) (string, *Edit, error) {
	edit, err := Apply(doc, target, opts)
	if err != nil {
		return doc, nil, err
	}

	lines := strings.Split(doc, "\n")
	replacement := strings.Split(edit.Text, "\n")

	out := make([]string, 0, len(lines)+len(replacement))
	out = append(out, lines[:edit.StartLine]...)
	out = append(out, replacement...)
	out = append(out, lines[edit.EndLine:]...)

	return strings.Join(out, "\n"), edit, nil
}

// hasExactStatement reports whether any line of the document is exactly
// the given statement, modulo surrounding whitespace.
func hasExactStatement(lines []string, statement string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) == statement {
			return true
		}
	}

	return false
}

// mergeIntoExisting looks for a top-level "from <module> import ..."
// statement and appends the target symbol to it. Continuation lines
// (indented followers of the opening line) are folded into the statement
// before splitting. Returns (nil, nil) when no statement matches.
func mergeIntoExisting(lines []string, target Target, width int) (*Edit, error) {
	prefix := "from " + target.Module + " import"
	inDocstring := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if isDocstringDelimiter(line) {
			inDocstring = !inDocstring

			continue
		}

		if inDocstring || !strings.HasPrefix(line, prefix) {
			continue
		}

		// Fold continuation lines into the statement.
		end := i + 1
		existing := line

		for end < len(lines) && indentRE.MatchString(lines[end]) {
			existing += lines[end]
			end++
		}

		base, components := SplitComponents(existing)
		if slices.Contains(components, target.Symbol) {
			return nil, ErrAlreadyImported
		}

		components = append(components, target.Symbol)

		wrapped := wrapStatement(buildFromStatement(base, components), width)
		text := renderWrapped(wrapped, strings.Contains(existing, `\`))

		return &Edit{
			Text:       text,
			StartLine:  i,
			EndLine:    end,
			ImportLine: i,
		}, nil
	}

	return nil, nil
}

// insertionLine returns the line a new import should be inserted at: just
// below the last line of the leading import block, or below the module's
// comment/docstring header when no imports exist yet, or line zero.
func insertionLine(lines []string) int {
	insertAfter := -1
	inDocstring := false
	fileTop := true

	for i, line := range lines {
		if isDocstringDelimiter(line) {
			wasOpening := !inDocstring
			inDocstring = !inDocstring

			if !wasOpening && fileTop {
				// Closing line of a leading docstring.
				insertAfter = i
			}

			continue
		}

		if inDocstring {
			continue
		}

		if fileTop && isOneLineDocstring(line) {
			insertAfter = i
			fileTop = false

			continue
		}

		if !strings.HasPrefix(line, "#") {
			fileTop = false
		}

		if !skipLineRE.MatchString(line) {
			// First real line of code.
			break
		}

		if validInsertRE.MatchString(line) {
			insertAfter = i

			continue
		}

		if fileTop && strings.HasPrefix(line, "#") {
			// Shebang or header comment at the very top.
			insertAfter = i
		}
	}

	return insertAfter + 1
}

// isOneLineDocstring reports whether the line is a complete triple-quoted
// string, such as a one-line module docstring.
func isOneLineDocstring(line string) bool {
	trimmed := strings.TrimSpace(line)

	for _, quote := range []string{`"""`, "'''"} {
		if len(trimmed) >= 2*len(quote) &&
			strings.HasPrefix(trimmed, quote) && strings.HasSuffix(trimmed, quote) {
			return true
		}
	}

	return false
}

// isDocstringDelimiter reports whether the line opens or closes a
// triple-quoted block without doing both.
func isDocstringDelimiter(line string) bool {
	trimmed := strings.TrimSpace(line)

	for _, quote := range []string{`"""`, "'''"} {
		if trimmed == quote {
			return true
		}

		if strings.HasPrefix(trimmed, quote) && !strings.HasSuffix(trimmed, quote) {
			return true
		}
	}

	return false
}
