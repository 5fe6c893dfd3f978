package lsp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jasonmyers/PythonAutoImport/pkg/pyimport"
)

// Workspace commands offered to clients. Each takes [uri, line, character]
// arguments describing the cursor position.
const (
	CommandAddFromImport   = "pyimport.addFromImport"
	CommandAddDottedImport = "pyimport.addDottedImport"
)

// Argument decoding errors.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArguments   = errors.New("command requires [uri, line, character] arguments")
	ErrUnknownURI     = errors.New("document not open")
)

func (srv *Server) codeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	uri := params.TextDocument.URI

	text, ok := srv.store.Get(uri)
	if !ok {
		return nil, nil
	}

	line := int(params.Range.Start.Line)
	character := int(params.Range.Start.Character)

	symbol, err := pyimport.SymbolAt(text, line, byteColumn(text, line, character))
	if err != nil {
		return nil, nil // No identifier under the cursor: nothing to offer.
	}

	kind := protocol.CodeActionKindQuickFix
	arguments := []any{uri, float64(line), float64(character)}

	return []protocol.CodeAction{
		{
			Title: fmt.Sprintf("Import %s (from form)", symbol),
			Kind:  &kind,
			Command: &protocol.Command{
				Title:     fmt.Sprintf("Import %s (from form)", symbol),
				Command:   CommandAddFromImport,
				Arguments: arguments,
			},
		},
		{
			Title: fmt.Sprintf("Import %s (dotted form)", symbol),
			Kind:  &kind,
			Command: &protocol.Command{
				Title:     fmt.Sprintf("Import %s (dotted form)", symbol),
				Command:   CommandAddDottedImport,
				Arguments: arguments,
			},
		},
	}, nil
}

func (srv *Server) executeCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	var style pyimport.Style

	switch params.Command {
	case CommandAddFromImport:
		style = pyimport.StyleFrom
	case CommandAddDottedImport:
		style = pyimport.StyleDotted
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, params.Command)
	}

	uri, line, character, err := decodeCursorArgs(params.Arguments)
	if err != nil {
		return nil, err
	}

	text, ok := srv.store.Get(uri)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownURI, uri)
	}

	loc := pyimport.SourceLocation{
		FilePath: uriToPath(uri),
		Line:     line,
		Column:   byteColumn(text, line, character),
	}

	target, err := pyimport.Resolve(text, loc, srv.cfg.RootPath, style)
	if err != nil {
		srv.notice(ctx, err.Error())

		return nil, nil
	}

	edit, err := pyimport.Apply(text, target, srv.cfg.WriteOptions())
	if err != nil {
		if errors.Is(err, pyimport.ErrAlreadyImported) {
			srv.notice(ctx, "pyimport: this import statement already exists")

			return nil, nil
		}

		return nil, err
	}

	srv.applyEdit(ctx, uri, text, edit)

	if srv.cfg.ScrollToImport {
		srv.showImportLine(ctx, uri, edit.ImportLine)
	}

	srv.logger.Info("import inserted",
		"uri", uri, "statement", target.Statement(), "line", edit.ImportLine)

	return nil, nil
}

// applyEdit requests the client to perform the buffer mutation.
func (srv *Server) applyEdit(ctx *glsp.Context, uri, text string, edit *pyimport.Edit) {
	textEdit := toTextEdit(text, edit)

	params := protocol.ApplyWorkspaceEditParams{
		Edit: protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentUri][]protocol.TextEdit{
				uri: {textEdit},
			},
		},
	}

	var result struct {
		Applied bool `json:"applied"`
	}

	ctx.Call("workspace/applyEdit", params, &result)

	if !result.Applied {
		srv.logger.Warn("client rejected workspace edit", "uri", uri)
	}
}

// showImportLine moves the client view to the inserted import.
func (srv *Server) showImportLine(ctx *glsp.Context, uri string, line int) {
	takeFocus := true
	selection := lineRange(line)

	var result struct {
		Success bool `json:"success"`
	}

	ctx.Call("window/showDocument", protocol.ShowDocumentParams{
		URI:       uri,
		TakeFocus: &takeFocus,
		Selection: &selection,
	}, &result)
}

// notice reports a benign condition to the user without failing the
// request. Mirrors a status-bar message.
func (srv *Server) notice(ctx *glsp.Context, message string) {
	ctx.Notify("window/showMessage", protocol.ShowMessageParams{
		Type:    protocol.MessageTypeInfo,
		Message: message,
	})
}

// toTextEdit maps a line-range edit onto an LSP text edit. The replaced
// range covers whole lines, so the trailing newline belongs to the edit.
// When the document lacks a trailing newline the insertion line can sit
// past the last line; anchoring there at line start would be clamped by
// clients onto the last line, so the edit instead appends a fresh line
// at the end of the existing one.
func toTextEdit(text string, edit *pyimport.Edit) protocol.TextEdit {
	lineCount := strings.Count(text, "\n") + 1

	if edit.StartLine >= lineCount {
		lastLine := lineCount - 1
		lastText := text[strings.LastIndexByte(text, '\n')+1:]
		anchor := protocol.Position{
			Line:      protocol.UInteger(lastLine),
			Character: protocol.UInteger(utf16Len(lastText)),
		}

		return protocol.TextEdit{
			Range:   protocol.Range{Start: anchor, End: anchor},
			NewText: "\n" + edit.Text,
		}
	}

	return protocol.TextEdit{
		Range: protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(edit.StartLine), Character: 0},
			End:   protocol.Position{Line: protocol.UInteger(edit.EndLine), Character: 0},
		},
		NewText: edit.Text + "\n",
	}
}

func lineRange(line int) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line), Character: 0},
		End:   protocol.Position{Line: protocol.UInteger(line), Character: 0},
	}
}

// decodeCursorArgs unpacks the [uri, line, character] command arguments.
// JSON numbers arrive as float64.
func decodeCursorArgs(arguments []any) (string, int, int, error) {
	if len(arguments) != 3 {
		return "", 0, 0, ErrBadArguments
	}

	uri, uriOK := arguments[0].(string)
	line, lineOK := arguments[1].(float64)
	character, charOK := arguments[2].(float64)

	if !uriOK || !lineOK || !charOK {
		return "", 0, 0, ErrBadArguments
	}

	return uri, int(line), int(character), nil
}

// uriToPath converts a file:// URI into a filesystem path. Windows URIs
// like file:///C:/proj keep their drive letter; resolution normalizes
// them later.
func uriToPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return uri
	}

	path := parsed.Path
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}

	return path
}
