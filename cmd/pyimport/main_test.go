package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func buildTestRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pyimport",
		Short: "Python import statement builder and inserter",
	}

	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(completionCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rootCmd := buildTestRootCmd()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return buf.String(), err
}

func TestCLI_HelpAndSubcommands(t *testing.T) {
	tests := []struct {
		wantOut string
		args    []string
		wantErr bool
	}{
		{wantOut: "Python import statement builder", args: []string{"--help"}},
		{wantOut: "Build a Python import statement", args: []string{"build", "--help"}},
		{wantOut: "Insert an import statement", args: []string{"add", "--help"}},
		{wantOut: "Inspect and generate configuration", args: []string{"config", "--help"}},
		{wantOut: "unknown command", args: []string{"unknown"}, wantErr: true},
	}

	for _, currentTest := range tests {
		output, err := runCLI(t, currentTest.args...)

		if currentTest.wantErr && err == nil {
			t.Errorf("args %v: expected error, got nil", currentTest.args)
		}

		if !currentTest.wantErr && err != nil {
			t.Errorf("args %v: unexpected error: %v", currentTest.args, err)
		}

		if !strings.Contains(output, currentTest.wantOut) {
			t.Errorf("args %v: output missing %q\ngot: %s", currentTest.args, currentTest.wantOut, output)
		}
	}
}

func TestCLI_BuildFromStatement(t *testing.T) {
	output, err := runCLI(t, "build", "--root", "/proj", "/proj/pkg/mod.py", "frobnicate")
	if err != nil {
		t.Fatalf("build command failed: %v", err)
	}

	want := "from pkg.mod import frobnicate\n"
	if output != want {
		t.Errorf("got %q, want %q", output, want)
	}
}

func TestCLI_BuildDottedStatement(t *testing.T) {
	output, err := runCLI(t, "build", "--root", "/proj", "--style", "dotted", "/proj/pkg/mod.py", "frobnicate")
	if err != nil {
		t.Fatalf("build command failed: %v", err)
	}

	want := "import pkg.mod.frobnicate\n"
	if output != want {
		t.Errorf("got %q, want %q", output, want)
	}
}

func TestCLI_BuildExplain(t *testing.T) {
	output, err := runCLI(t, "build", "--root", "/proj", "--explain", "/proj/pkg/mod.py", "frobnicate")
	if err != nil {
		t.Fatalf("build command failed: %v", err)
	}

	for _, want := range []string{"pkg.mod", "frobnicate", "from pkg.mod import frobnicate"} {
		if !strings.Contains(output, want) {
			t.Errorf("explain output missing %q\ngot: %s", want, output)
		}
	}
}

func TestCLI_BuildRejectsBadStyle(t *testing.T) {
	_, err := runCLI(t, "build", "--style", "star", "/proj/pkg/mod.py", "frobnicate")
	if err == nil {
		t.Fatal("expected error for unsupported style")
	}
}

func TestCLI_AddWritesFile(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "app.py")

	writeErr := os.WriteFile(doc, []byte("value = frobnicate(1)\n"), 0o644)
	if writeErr != nil {
		t.Fatalf("failed to write temp file: %v", writeErr)
	}

	_, err := runCLI(t, "add", "--root", "/proj", "--symbol", "frobnicate", doc, "/proj/pkg/mod.py")
	if err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	got, readErr := os.ReadFile(doc)
	if readErr != nil {
		t.Fatalf("failed to read temp file: %v", readErr)
	}

	want := "from pkg.mod import frobnicate\nvalue = frobnicate(1)\n"
	if string(got) != want {
		t.Errorf("got %q, want %q", string(got), want)
	}
}

func TestCLI_AddCursorPosition(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "app.py")

	writeErr := os.WriteFile(doc, []byte("result = frobnicate(x)\n"), 0o644)
	if writeErr != nil {
		t.Fatalf("failed to write temp file: %v", writeErr)
	}

	_, err := runCLI(t, "add", "--root", "/proj", "--line", "0", "--col", "10", doc, "/proj/pkg/mod.py")
	if err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	got, readErr := os.ReadFile(doc)
	if readErr != nil {
		t.Fatalf("failed to read temp file: %v", readErr)
	}

	if !strings.HasPrefix(string(got), "from pkg.mod import frobnicate\n") {
		t.Errorf("import not inserted, got: %q", string(got))
	}
}

func TestCLI_AddDryRunLeavesFileUntouched(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "app.py")
	original := "value = frobnicate(1)\n"

	writeErr := os.WriteFile(doc, []byte(original), 0o644)
	if writeErr != nil {
		t.Fatalf("failed to write temp file: %v", writeErr)
	}

	output, err := runCLI(t, "add", "--root", "/proj", "--symbol", "frobnicate", "--dry-run", doc, "/proj/pkg/mod.py")
	if err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	if !strings.Contains(output, "+ from pkg.mod import frobnicate") {
		t.Errorf("diff output missing insertion line, got: %s", output)
	}

	got, readErr := os.ReadFile(doc)
	if readErr != nil {
		t.Fatalf("failed to read temp file: %v", readErr)
	}

	if string(got) != original {
		t.Errorf("dry run modified the file: %q", string(got))
	}
}

func TestCLI_AddAlreadyImported(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "app.py")
	original := "from pkg.mod import frobnicate\n\nfrobnicate()\n"

	writeErr := os.WriteFile(doc, []byte(original), 0o644)
	if writeErr != nil {
		t.Fatalf("failed to write temp file: %v", writeErr)
	}

	output, err := runCLI(t, "add", "--root", "/proj", "--symbol", "frobnicate", doc, "/proj/pkg/mod.py")
	if err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	if !strings.Contains(output, "already imported") {
		t.Errorf("expected already-imported notice, got: %s", output)
	}

	got, readErr := os.ReadFile(doc)
	if readErr != nil {
		t.Fatalf("failed to read temp file: %v", readErr)
	}

	if string(got) != original {
		t.Errorf("file changed unexpectedly: %q", string(got))
	}
}

func TestCLI_AddRequiresCursorOrSymbol(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "app.py")

	writeErr := os.WriteFile(doc, []byte("x = 1\n"), 0o644)
	if writeErr != nil {
		t.Fatalf("failed to write temp file: %v", writeErr)
	}

	_, err := runCLI(t, "add", doc, "/proj/pkg/mod.py")
	if err == nil {
		t.Fatal("expected error without symbol or cursor")
	}
}

func TestCLI_ConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyimport.yaml")

	output, err := runCLI(t, "config", "init", "--path", path)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}

	if !strings.Contains(output, "wrote") {
		t.Errorf("expected confirmation, got: %s", output)
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("failed to read config file: %v", readErr)
	}

	for _, want := range []string{"root_path:", "style: from", "max_line_width: 76"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("config file missing %q\ngot: %s", want, string(data))
		}
	}

	// A second init without --force refuses to overwrite.
	_, err = runCLI(t, "config", "init", "--path", path)
	if err == nil {
		t.Fatal("expected error when config already exists")
	}

	showOut, err := runCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}

	if !strings.Contains(showOut, "max_line_width") {
		t.Errorf("config show missing settings, got: %s", showOut)
	}
}

func TestCLI_CompletionRejectsUnknownShell(t *testing.T) {
	_, err := runCLI(t, "completion", "tcsh")
	if err == nil {
		t.Fatal("expected error for unsupported shell")
	}
}
