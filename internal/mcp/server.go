// Package mcp implements a Model Context Protocol server exposing the
// auto-import resolver and writer as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jasonmyers/PythonAutoImport/internal/config"
	"github.com/jasonmyers/PythonAutoImport/internal/observability"
	"github.com/jasonmyers/PythonAutoImport/pkg/version"
)

// serverName is the MCP server implementation name.
const serverName = "pyimport"

// toolCount is the expected number of registered tools.
const toolCount = 2

// ServerDeps holds injectable dependencies for the MCP server.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Config supplies the default root path and writer options.
	// Nil uses built-in defaults.
	Config *config.Config

	// Metrics is an optional RED metrics recorder. Nil disables
	// per-tool metrics.
	Metrics *observability.REDMetrics

	// Tracer is an optional OTel tracer for per-tool-call spans.
	// Nil disables tracing.
	Tracer trace.Tracer
}

// Server wraps the MCP SDK server with pyimport tool registrations.
type Server struct {
	inner   *mcpsdk.Server
	cfg     *config.Config
	mu      sync.RWMutex
	tools   []string
	metrics *observability.REDMetrics
	tracer  trace.Tracer
}

// NewServer creates a new MCP server with all pyimport tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		opts,
	)

	srv := &Server{
		inner:   inner,
		cfg:     cfg,
		tools:   make([]string, 0, toolCount),
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the
// context is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	err := s.inner.Run(ctx, &mcpsdk.StdioTransport{})
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// RunWithTransport starts the MCP server on the given transport.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// registerTools adds all pyimport MCP tools to the server. Every
// handler runs inside the metrics and tracing wrappers.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameBuild,
		Description: buildToolDescription,
	}, withMetrics(s.metrics, ToolNameBuild, withTracing(s.tracer, ToolNameBuild, s.handleBuild)))

	s.trackTool(ToolNameBuild)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameInsert,
		Description: insertToolDescription,
	}, withMetrics(s.metrics, ToolNameInsert, withTracing(s.tracer, ToolNameInsert, s.handleInsert)))

	s.trackTool(ToolNameInsert)
}

// mcpSpanPrefix is the prefix for MCP tool span and operation names.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey is the metadata key for trace_id in tool responses.
const traceIDMetaKey = "trace_id"

// withTracing wraps an MCP tool handler to create an OTel span per
// invocation and include trace_id in the response content when sampled.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			traceContent := &mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())}
			result.Content = append(result.Content, traceContent)
		}

		return result, output, err
	}
}

// withMetrics wraps an MCP tool handler to record RED metrics per
// invocation.
func withMetrics[Input any](
	metrics *observability.REDMetrics,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		decInflight := metrics.TrackInflight(ctx, mcpSpanPrefix+toolName)
		defer decInflight()

		result, output, err := handler(ctx, req, input)

		status := observability.StatusOK
		if err != nil || (result != nil && result.IsError) {
			status = observability.StatusError
		}

		metrics.RecordRequest(ctx, mcpSpanPrefix+toolName, status, time.Since(start))

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Tool description constants.
const (
	buildToolDescription = "Build a Python import statement for a symbol defined in a file. " +
		"The module path is derived from the file path relative to the project root. " +
		"Returns the statement without modifying anything."

	insertToolDescription = "Insert a Python import statement into document text. " +
		"Merges into an existing from-import of the same module when possible, " +
		"otherwise adds the statement below the leading import block. " +
		"Returns the new document text, or reports that the import already exists."
)
