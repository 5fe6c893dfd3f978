package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jasonmyers/PythonAutoImport/pkg/pyimport"
	"github.com/jasonmyers/PythonAutoImport/pkg/textutil"
)

// Tool name constants.
const (
	ToolNameBuild  = "pyimport_build"
	ToolNameInsert = "pyimport_insert"
)

// MaxCodeInputBytes is the maximum allowed size for inline document text (1 MB).
const MaxCodeInputBytes = 1 << 20

// Sentinel errors for tool input validation.
var (
	// ErrEmptyFilePath indicates the file_path parameter is empty.
	ErrEmptyFilePath = errors.New("file_path parameter is required and must not be empty")
	// ErrEmptySymbol indicates neither a symbol nor a cursor position was given.
	ErrEmptySymbol = errors.New("either symbol or line/column parameters are required")
	// ErrCodeTooLarge indicates the document text exceeds the size limit.
	ErrCodeTooLarge = errors.New("code input exceeds maximum size")
	// ErrBinaryCode indicates the document text contains binary data.
	ErrBinaryCode = errors.New("code input is not text")
)

// BuildInput is the input schema for the pyimport_build tool.
type BuildInput struct {
	FilePath string `json:"file_path"           jsonschema:"path of the file defining the symbol"`
	Symbol   string `json:"symbol"              jsonschema:"identifier to import"`
	RootPath string `json:"root_path,omitempty" jsonschema:"project root for relative module paths (default: configured root)"`
	Style    string `json:"style,omitempty"     jsonschema:"import form: from or dotted (default: configured style)"`
}

// InsertInput is the input schema for the pyimport_insert tool.
type InsertInput struct {
	Code     string `json:"code"                jsonschema:"document text to insert the import into"`
	FilePath string `json:"file_path"           jsonschema:"path of the file defining the symbol"`
	Symbol   string `json:"symbol,omitempty"    jsonschema:"identifier to import (alternative to line/column)"`
	Line     *int   `json:"line,omitempty"      jsonschema:"zero-based cursor line inside code"`
	Column   *int   `json:"column,omitempty"    jsonschema:"zero-based cursor column inside code"`
	RootPath string `json:"root_path,omitempty" jsonschema:"project root for relative module paths (default: configured root)"`
	Style    string `json:"style,omitempty"     jsonschema:"import form: from or dotted (default: configured style)"`
}

// BuildOutput is the structured result of pyimport_build.
type BuildOutput struct {
	Module    string `json:"module"`
	Symbol    string `json:"symbol"`
	Style     string `json:"style"`
	Statement string `json:"statement"`
}

// InsertOutput is the structured result of pyimport_insert.
type InsertOutput struct {
	Code            string `json:"code"`
	Statement       string `json:"statement"`
	ImportLine      int    `json:"import_line"`
	AlreadyImported bool   `json:"already_imported"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

func (s *Server) handleBuild(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input BuildInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.FilePath == "" {
		return errorResult(ErrEmptyFilePath)
	}

	if input.Symbol == "" {
		return errorResult(ErrEmptySymbol)
	}

	style, err := s.styleFor(input.Style)
	if err != nil {
		return errorResult(err)
	}

	loc := pyimport.SourceLocation{FilePath: input.FilePath, Selection: input.Symbol}

	target, err := pyimport.Resolve("", loc, s.rootFor(input.RootPath), style)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(BuildOutput{
		Module:    target.Module,
		Symbol:    target.Symbol,
		Style:     string(target.Style),
		Statement: target.Statement(),
	})
}

func (s *Server) handleInsert(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input InsertInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.FilePath == "" {
		return errorResult(ErrEmptyFilePath)
	}

	if len(input.Code) > MaxCodeInputBytes {
		return errorResult(fmt.Errorf("%w: %d bytes (max %d)",
			ErrCodeTooLarge, len(input.Code), MaxCodeInputBytes))
	}

	if textutil.IsBinary([]byte(input.Code)) {
		return errorResult(ErrBinaryCode)
	}

	style, err := s.styleFor(input.Style)
	if err != nil {
		return errorResult(err)
	}

	loc := pyimport.SourceLocation{FilePath: input.FilePath, Selection: input.Symbol}

	if input.Symbol == "" {
		if input.Line == nil || input.Column == nil {
			return errorResult(ErrEmptySymbol)
		}

		loc.Line = *input.Line
		loc.Column = *input.Column
	}

	target, err := pyimport.Resolve(input.Code, loc, s.rootFor(input.RootPath), style)
	if err != nil {
		return errorResult(err)
	}

	newCode, edit, err := pyimport.ApplyToDocument(input.Code, target, s.cfg.WriteOptions())
	if err != nil {
		if errors.Is(err, pyimport.ErrAlreadyImported) {
			return jsonResult(InsertOutput{
				Code:            input.Code,
				Statement:       target.Statement(),
				AlreadyImported: true,
			})
		}

		return errorResult(err)
	}

	return jsonResult(InsertOutput{
		Code:       newCode,
		Statement:  target.Statement(),
		ImportLine: edit.ImportLine,
	})
}

// styleFor resolves the requested style, falling back to configuration.
func (s *Server) styleFor(requested string) (pyimport.Style, error) {
	if requested == "" {
		return s.cfg.ImportStyle()
	}

	style, err := pyimport.ParseStyle(requested)
	if err != nil {
		return "", err
	}

	return style, nil
}

// rootFor resolves the requested root path, falling back to configuration.
func (s *Server) rootFor(requested string) string {
	if requested != "" {
		return requested
	}

	return s.cfg.RootPath
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
