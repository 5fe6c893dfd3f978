package pyimport

// SourceLocation identifies the cursor position inside the active document.
// Line and Column are zero-based. A non-empty Selection takes precedence
// over position-based symbol extraction.
type SourceLocation struct {
	FilePath  string
	Selection string
	Line      int
	Column    int
}

// Target is a resolved import: the dotted module path, the symbol to
// import, and the statement form to render.
type Target struct {
	Module string
	Symbol string
	Style  Style
}

// Statement renders the target as a Python import statement.
// An empty module path degrades to a plain "import <symbol>".
func (t Target) Statement() string {
	if t.Module == "" {
		return "import " + t.Symbol
	}

	if t.Style == StyleDotted {
		return "import " + t.Module + "." + t.Symbol
	}

	return "from " + t.Module + " import " + t.Symbol
}
