package pyimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModulePath_UnderRoot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		root     string
		expected string
	}{
		{"root slash", "/a/b/c/test.py", "/", "a.b.c.test"},
		{"bare root", "/a/b/c/test.py", "a", "b.c.test"},
		{"bare root trailing slash", "/a/b/c/test.py", "a/", "b.c.test"},
		{"absolute root", "/a/b/c/test.py", "/a", "b.c.test"},
		{"absolute root trailing slash", "/a/b/c/test.py", "/a/", "b.c.test"},
		{"dotted root", "/x/y/z/mod.py", "x.y", "z.mod"},
		{"init module", "/a/b/c/__init__.py", "/", "a.b.c"},
		{"plain module", "/a/b/c.py", "/", "a.b.c"},
		{"spec scenario", "/proj/pkg/mod.py", "/proj/", "pkg.mod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, ModulePath(tt.path, tt.root))
		})
	}
}

func TestModulePath_EmptyRoot(t *testing.T) {
	t.Parallel()

	// No root configured: bare module name, no directory prefix.
	assert.Equal(t, "mod", ModulePath("/proj/pkg/mod.py", ""))
	assert.Equal(t, "test", ModulePath("/a/b/c/test.py", ""))

	// A package __init__ imports as the package itself.
	assert.Equal(t, "pkg", ModulePath("/proj/pkg/__init__.py", ""))
}

func TestModulePath_OutsideRoot(t *testing.T) {
	t.Parallel()

	// Falls back to the full path, dotted. Documented fallback, not an error.
	assert.Equal(t, "other.pkg.mod", ModulePath("/other/pkg/mod.py", "/proj/"))
}

func TestModulePath_RootNotSegmentBoundary(t *testing.T) {
	t.Parallel()

	// "/ab" does not fall under root "/a".
	assert.Equal(t, "ab.mod", ModulePath("/ab/mod.py", "/a"))
}

func TestModulePath_WindowsPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pkg.mod", ModulePath(`C:\proj\pkg\mod.py`, `/C/proj`))
	assert.Equal(t, "mod", ModulePath(`C:\proj\pkg\mod.py`, ""))
}

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/C/test/mod.py", NormalizePath(`C:\test\mod.py`))
	assert.Equal(t, "/c/test/mod.py", NormalizePath(`c:\test\mod.py`))
	assert.Equal(t, "/test/mod.py", NormalizePath("/test/mod.py"))
}

func TestResolve_CursorSymbol(t *testing.T) {
	t.Parallel()

	text := "result = bar + 1"
	loc := SourceLocation{FilePath: "/proj/pkg/mod.py", Line: 0, Column: 10}

	target, err := Resolve(text, loc, "/proj/", StyleFrom)
	require.NoError(t, err)

	assert.Equal(t, "pkg.mod", target.Module)
	assert.Equal(t, "bar", target.Symbol)
	assert.Equal(t, "from pkg.mod import bar", target.Statement())
}

func TestResolve_Selection(t *testing.T) {
	t.Parallel()

	loc := SourceLocation{FilePath: "/a/b/c/test.py", Selection: "helper"}

	target, err := Resolve("", loc, "/a", StyleDotted)
	require.NoError(t, err)

	assert.Equal(t, "b.c.test", target.Module)
	assert.Equal(t, "helper", target.Symbol)
	assert.Equal(t, "import b.c.test.helper", target.Statement())
}

func TestResolve_NoSymbol(t *testing.T) {
	t.Parallel()

	loc := SourceLocation{FilePath: "/a/mod.py", Line: 0, Column: 0}

	_, err := Resolve("   ", loc, "", StyleFrom)
	assert.ErrorIs(t, err, ErrNoSymbol)
}

func TestResolve_InvalidSelection(t *testing.T) {
	t.Parallel()

	loc := SourceLocation{FilePath: "/a/mod.py", Selection: "not a name"}

	_, err := Resolve("", loc, "", StyleFrom)
	assert.ErrorIs(t, err, ErrNoSymbol)
}

func TestResolve_UnsupportedStyle(t *testing.T) {
	t.Parallel()

	loc := SourceLocation{FilePath: "/a/mod.py", Selection: "x"}

	_, err := Resolve("", loc, "", StyleRelative)
	assert.ErrorIs(t, err, ErrUnsupportedStyle)
}
