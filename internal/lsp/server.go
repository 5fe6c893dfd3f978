// Package lsp provides a Language Server Protocol (LSP) server exposing
// the auto-import actions to editors over stdio. Buffer mutation happens
// on the client side via workspace/applyEdit; the server never touches
// files directly.
package lsp

import (
	"log/slog"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/jasonmyers/PythonAutoImport/internal/config"
	"github.com/jasonmyers/PythonAutoImport/pkg/version"
)

// serverName identifies the server in the initialize handshake.
const serverName = "pyimport"

// DocumentStore is a thread-safe store for document contents keyed by URI.
type DocumentStore struct {
	documents map[string]string // URI -> content.
	mu        sync.RWMutex
}

// NewDocumentStore creates a new empty DocumentStore.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]string),
	}
}

// Set stores document content for the given URI.
func (ds *DocumentStore) Set(uri, content string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents[uri] = content
}

// Get retrieves document content by URI.
func (ds *DocumentStore) Get(uri string) (string, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	content, ok := ds.documents[uri]

	return content, ok
}

// Delete removes document content by URI.
func (ds *DocumentStore) Delete(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	delete(ds.documents, uri)
}

// Server implements the pyimport LSP server.
type Server struct {
	store   *DocumentStore
	cfg     *config.Config
	logger  *slog.Logger
	handler protocol.Handler
}

// NewServer creates a new LSP server with default handlers.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	srv := &Server{
		store:  NewDocumentStore(),
		cfg:    cfg,
		logger: logger,
	}

	srv.handler = protocol.Handler{
		Initialize:              srv.initialize,
		Initialized:             srv.initialized,
		Shutdown:                srv.shutdown,
		SetTrace:                srv.setTrace,
		TextDocumentDidOpen:     srv.didOpen,
		TextDocumentDidChange:   srv.didChange,
		TextDocumentDidSave:     srv.didSave,
		TextDocumentDidClose:    srv.didClose,
		TextDocumentCodeAction:  srv.codeAction,
		WorkspaceExecuteCommand: srv.executeCommand,
	}

	return srv
}

// Run starts the LSP server on stdio. It blocks until the connection
// closes.
func (srv *Server) Run() error {
	lspServer := server.NewServer(&srv.handler, serverName, false)

	err := lspServer.RunStdio()
	if err != nil {
		srv.logger.Error("lsp server error", "error", err)
	}

	return err
}

func (srv *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{CommandAddFromImport, CommandAddDottedImport},
	}

	binaryVersion := version.Version

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &binaryVersion,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(_ *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	srv.store.Set(params.TextDocument.URI, params.TextDocument.Text)

	return nil
}

func (srv *Server) didChange(_ *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	if len(params.ContentChanges) > 0 {
		if change, changeOK := params.ContentChanges[0].(map[string]any); changeOK {
			if text, textOK := change["text"].(string); textOK {
				srv.store.Set(uri, text)
			}
		}
	}

	return nil
}

func (srv *Server) didSave(_ *glsp.Context, _ *protocol.DidSaveTextDocumentParams) error {
	return nil
}

func (srv *Server) didClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	srv.store.Delete(params.TextDocument.URI)

	return nil
}
