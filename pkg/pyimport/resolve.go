package pyimport

import (
	"regexp"
	"strings"
)

const (
	pyExtension  = ".py"
	initModule   = "__init__"
	pathSep      = "/"
	moduleDotSep = "."
)

// windowsDriveRE matches the drive letter prefix of a Windows path, in
// either backslash or URI-derived forward-slash form.
var windowsDriveRE = regexp.MustCompile(`^([A-Za-z]):[\\/]`)

// Resolve derives an import target from the cursor position in text and
// the document's file path. rootPath is the configured project root; empty
// means "no rewriting" and yields the bare module name. Pure function of
// its inputs, no I/O.
func Resolve(text string, loc SourceLocation, rootPath string, style Style) (Target, error) {
	if style != StyleFrom && style != StyleDotted {
		return Target{}, ErrUnsupportedStyle
	}

	symbol := loc.Selection
	if symbol == "" {
		extracted, err := SymbolAt(text, loc.Line, loc.Column)
		if err != nil {
			return Target{}, err
		}

		symbol = extracted
	} else if !validIdentifier(symbol) {
		return Target{}, ErrNoSymbol
	}

	return Target{
		Module: ModulePath(loc.FilePath, rootPath),
		Symbol: symbol,
		Style:  style,
	}, nil
}

// ModulePath converts a file path into a dotted Python module path.
//
// The ".py" extension is stripped and a trailing "__init__" component is
// dropped, so a package's __init__.py imports as the package itself.
// With an empty root the bare module name is returned, no directory
// prefix. A non-empty root may itself be given in dotted form ("x.y.z");
// it is normalized and stripped from the front of the path. A path that
// does not fall under the root falls back to the full path, dotted.
func ModulePath(filePath, rootPath string) string {
	path := NormalizePath(filePath)
	path = strings.TrimSuffix(path, pyExtension)

	if rootPath == "" {
		return bareModuleName(path)
	}

	if !strings.HasPrefix(path, pathSep) {
		path = pathSep + path
	}

	root := normalizeRoot(rootPath)
	if strings.HasPrefix(path, root) {
		path = path[len(root):]
	}

	path = strings.TrimSuffix(path, initModule)

	return strings.Trim(strings.ReplaceAll(path, pathSep, moduleDotSep), moduleDotSep)
}

// NormalizePath converts a Windows-style path ("C:\proj\mod.py") into the
// forward-slash form used throughout resolution ("/C/proj/mod.py").
// Forward-slash paths pass through unchanged.
func NormalizePath(path string) string {
	if m := windowsDriveRE.FindStringSubmatch(path); m != nil {
		path = pathSep + m[1] + pathSep + path[len(m[0]):]
	}

	return strings.ReplaceAll(path, `\`, pathSep)
}

// normalizeRoot converts a configured root into the slashed, leading- and
// trailing-separator form used for prefix matching. Dotted roots ("x.y.z")
// are supported as a convenience.
func normalizeRoot(root string) string {
	root = NormalizePath(strings.ReplaceAll(root, moduleDotSep, pathSep))

	if !strings.HasPrefix(root, pathSep) {
		root = pathSep + root
	}

	if !strings.HasSuffix(root, pathSep) {
		root += pathSep
	}

	return root
}

// bareModuleName returns the final module component of a slashed path with
// the extension already stripped. For an __init__ module the enclosing
// package name is used instead.
func bareModuleName(path string) string {
	path = strings.Trim(path, pathSep)

	segments := strings.Split(path, pathSep)
	last := segments[len(segments)-1]

	if last == initModule && len(segments) > 1 {
		return segments[len(segments)-2]
	}

	if last == initModule {
		return ""
	}

	return last
}
