package lsp

import (
	"errors"
	"testing"

	"github.com/jasonmyers/PythonAutoImport/internal/config"
	"github.com/jasonmyers/PythonAutoImport/internal/logging"
	"github.com/jasonmyers/PythonAutoImport/pkg/pyimport"
)

func newTestServer() *Server {
	cfg := config.Default()
	cfg.RootPath = "/proj"

	return NewServer(cfg, logging.New(cfg.Logging))
}

func TestNewDocumentStore(t *testing.T) {
	store := NewDocumentStore()

	if store == nil {
		t.Fatal("Expected non-nil DocumentStore")
	}

	if store.documents == nil {
		t.Error("Expected documents map to be initialized")
	}
}

func TestDocumentStore_SetAndGet(t *testing.T) {
	store := NewDocumentStore()

	uri := "file:///proj/pkg/mod.py"
	content := "value = 1"

	store.Set(uri, content)

	got, ok := store.Get(uri)
	if !ok {
		t.Errorf("Expected document to exist for URI %s", uri)
	}

	if got != content {
		t.Errorf("Expected content %q, got %q", content, got)
	}
}

func TestDocumentStore_Get_NotFound(t *testing.T) {
	store := NewDocumentStore()

	_, ok := store.Get("file:///proj/missing.py")
	if ok {
		t.Error("Expected document to not exist")
	}
}

func TestDocumentStore_Delete(t *testing.T) {
	store := NewDocumentStore()

	uri := "file:///proj/pkg/mod.py"

	store.Set(uri, "content")
	store.Delete(uri)

	_, ok := store.Get(uri)
	if ok {
		t.Error("Expected document to be deleted")
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer()

	if srv == nil {
		t.Fatal("Expected non-nil Server")
	}

	if srv.store == nil {
		t.Error("Expected store to be initialized")
	}
}

func TestURIToPath(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "unix path",
			uri:      "file:///proj/pkg/mod.py",
			expected: "/proj/pkg/mod.py",
		},
		{
			name:     "windows drive",
			uri:      "file:///C:/proj/mod.py",
			expected: "C:/proj/mod.py",
		},
		{
			name:     "escaped space",
			uri:      "file:///proj/my%20pkg/mod.py",
			expected: "/proj/my pkg/mod.py",
		},
		{
			name:     "not a file uri",
			uri:      "/already/a/path.py",
			expected: "/already/a/path.py",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := uriToPath(tt.uri)
			if got != tt.expected {
				t.Errorf("uriToPath(%q) = %q, expected %q", tt.uri, got, tt.expected)
			}
		})
	}
}

func TestDecodeCursorArgs(t *testing.T) {
	uri, line, character, err := decodeCursorArgs([]any{"file:///x.py", float64(3), float64(7)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if uri != "file:///x.py" || line != 3 || character != 7 {
		t.Errorf("Unexpected args: %q %d %d", uri, line, character)
	}
}

func TestDecodeCursorArgs_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []any
	}{
		{"too few", []any{"file:///x.py"}},
		{"wrong uri type", []any{7, float64(0), float64(0)}},
		{"wrong line type", []any{"file:///x.py", "0", float64(0)}},
		{"nil args", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := decodeCursorArgs(tt.args)
			if !errors.Is(err, ErrBadArguments) {
				t.Errorf("Expected ErrBadArguments, got %v", err)
			}
		})
	}
}

func TestToTextEdit_Insertion(t *testing.T) {
	doc := "import a\nimport b\nprint(a)\n"
	edit := &pyimport.Edit{Text: "from x.y import foo", StartLine: 2, EndLine: 2, ImportLine: 2}

	textEdit := toTextEdit(doc, edit)

	if textEdit.Range.Start.Line != 2 || textEdit.Range.End.Line != 2 {
		t.Errorf("Expected zero-width range at line 2, got %v", textEdit.Range)
	}

	if textEdit.NewText != "from x.y import foo\n" {
		t.Errorf("Expected trailing newline, got %q", textEdit.NewText)
	}
}

func TestToTextEdit_Replacement(t *testing.T) {
	doc := "from a.b import c\nprint(c)\n"
	edit := &pyimport.Edit{Text: "from a.b import c, d", StartLine: 0, EndLine: 1, ImportLine: 0}

	textEdit := toTextEdit(doc, edit)

	if textEdit.Range.Start.Line != 0 || textEdit.Range.End.Line != 1 {
		t.Errorf("Expected whole-line range [0,1), got %v", textEdit.Range)
	}
}

func TestToTextEdit_InsertionWithoutTrailingNewline(t *testing.T) {
	// "import a" has one line but the statement goes after it, line 1.
	// Anchoring at line 1 column 0 would land past the end of the file
	// and get clamped by editors, so the edit must attach to the end of
	// the last line instead.
	doc := "import a"
	edit := &pyimport.Edit{Text: "import b", StartLine: 1, EndLine: 1, ImportLine: 1}

	textEdit := toTextEdit(doc, edit)

	if textEdit.Range.Start.Line != 0 || textEdit.Range.End.Line != 0 {
		t.Errorf("Expected anchor on last line 0, got %v", textEdit.Range)
	}

	if textEdit.Range.Start.Character != 8 || textEdit.Range.End.Character != 8 {
		t.Errorf("Expected anchor at end of last line, got %v", textEdit.Range)
	}

	if textEdit.NewText != "\nimport b" {
		t.Errorf("Expected leading newline, got %q", textEdit.NewText)
	}
}

func TestDocumentStore_ConcurrentAccess(t *testing.T) {
	store := NewDocumentStore()
	done := make(chan bool)

	go func() {
		for i := 0; i < 100; i++ {
			store.Set("file:///a.py", "a")
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			store.Set("file:///b.py", "b")
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			store.Get("file:///a.py")
		}
		done <- true
	}()

	for i := 0; i < 3; i++ {
		<-done
	}

	if content, ok := store.Get("file:///a.py"); !ok || content != "a" {
		t.Error("Expected a.py to have content a")
	}
}
