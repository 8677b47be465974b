package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/chriserin/specoutline/internal/outline"
	"github.com/chriserin/specoutline/internal/parser"
)

const (
	MethodDidChangeTree = "specOutline/didChangeTree"
	MethodRefresh       = "specOutline/refresh"
)

// TreeParams is the payload of MethodDidChangeTree.
type TreeParams struct {
	URI   string             `json:"uri"`
	Items []outline.TreeItem `json:"items"`
}

type notifier interface {
	Notify(ctx context.Context, method string, params interface{}, opts ...jsonrpc2.CallOption) error
}

// Server answers document symbol requests for spec files and pushes outline
// trees to the client whenever the active spec document changes.
type Server struct {
	Name    string
	Version string

	isSpec func(path string) bool
	logger *slog.Logger
	events chan outline.Event

	mu      sync.Mutex
	docs    map[protocol.DocumentURI]string
	current protocol.DocumentURI
}

// NewServer builds a server. isSpec decides which documents get an outline.
func NewServer(isSpec func(path string) bool, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Name:   "specoutline",
		isSpec: isSpec,
		logger: logger,
		events: make(chan outline.Event, 64),
		docs:   make(map[protocol.DocumentURI]string),
	}
}

// Serve speaks JSON-RPC on rwc until the peer disconnects, exit is
// received, or ctx is done.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(s.handle))

	updater := &outline.Updater{IsSpec: s.isSpec, Logger: s.logger}
	loopDone := make(chan error, 1)
	go func() {
		loopDone <- updater.Run(ctx, s.events, func(snap outline.Snapshot) {
			s.publish(ctx, conn, snap)
		})
	}()

	select {
	case <-conn.DisconnectNotify():
	case <-ctx.Done():
		conn.Close()
	}
	cancel()

	if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	s.logger.Info("language server stopped")
	return nil
}

func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	s.logger.Debug("request", "method", req.Method, "notification", req.Notif)

	switch req.Method {
	case "initialize":
		return s.initialize(), nil

	case "initialized", "$/cancelRequest", "$/setTrace":
		return nil, nil

	case "shutdown":
		return nil, nil

	case "exit":
		return nil, conn.Close()

	case "textDocument/didOpen":
		var params protocol.DidOpenTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		s.didOpen(ctx, params)
		return nil, nil

	case "textDocument/didChange":
		var params protocol.DidChangeTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		s.didChange(ctx, params)
		return nil, nil

	case "textDocument/didClose":
		var params protocol.DidCloseTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		s.didClose(ctx, params)
		return nil, nil

	case "textDocument/documentSymbol":
		var params protocol.DocumentSymbolParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		return s.documentSymbols(params.TextDocument.URI), nil

	case MethodRefresh:
		s.emit(ctx, outline.Event{Type: outline.Refresh})
		return nil, nil
	}

	if req.Notif {
		return nil, nil
	}
	return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not handled: " + req.Method}
}

func (s *Server) initialize() protocol.InitializeResult {
	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			DocumentSymbolProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{Name: s.Name, Version: s.Version},
	}
}

func (s *Server) didOpen(ctx context.Context, params protocol.DidOpenTextDocumentParams) {
	uri := params.TextDocument.URI
	s.mu.Lock()
	s.docs[uri] = params.TextDocument.Text
	s.current = uri
	s.mu.Unlock()

	s.emit(ctx, outline.Event{Type: outline.EditorChanged, Path: uriToPath(string(uri)), Text: params.TextDocument.Text})
}

func (s *Server) didChange(ctx context.Context, params protocol.DidChangeTextDocumentParams) {
	if len(params.ContentChanges) == 0 {
		return
	}
	uri := params.TextDocument.URI
	// Full sync: the last change carries the whole document.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text

	s.mu.Lock()
	s.docs[uri] = text
	s.mu.Unlock()

	s.emit(ctx, outline.Event{Type: outline.DocumentChanged, Path: uriToPath(string(uri)), Text: text})
}

func (s *Server) didClose(ctx context.Context, params protocol.DidCloseTextDocumentParams) {
	uri := params.TextDocument.URI
	s.mu.Lock()
	delete(s.docs, uri)
	wasCurrent := s.current == uri
	if wasCurrent {
		s.current = ""
	}
	s.mu.Unlock()

	if wasCurrent {
		s.emit(ctx, outline.Event{Type: outline.EditorChanged})
	}
}

func (s *Server) documentSymbols(uri protocol.DocumentURI) []protocol.DocumentSymbol {
	path := uriToPath(string(uri))
	if !s.isSpec(path) {
		return []protocol.DocumentSymbol{}
	}

	s.mu.Lock()
	text, ok := s.docs[uri]
	s.mu.Unlock()
	if !ok {
		return []protocol.DocumentSymbol{}
	}

	res := parser.Parse(path, []byte(text))
	if !res.OK() {
		s.logger.Error("document symbols", "path", path, "error", res.Err)
		return []protocol.DocumentSymbol{}
	}
	return outline.DocumentSymbols(res.Nodes)
}

func (s *Server) emit(ctx context.Context, ev outline.Event) {
	select {
	case s.events <- ev:
	case <-ctx.Done():
	}
}

func (s *Server) publish(ctx context.Context, n notifier, snap outline.Snapshot) {
	params := TreeParams{Items: snap.Items()}
	if snap.File != "" {
		params.URI = pathToURI(snap.File)
	}
	if err := n.Notify(ctx, MethodDidChangeTree, params); err != nil {
		s.logger.Warn("publishing outline", "error", err)
		return
	}

	if snap.Err != "" {
		msg := protocol.ShowMessageParams{
			Type:    protocol.MessageTypeError,
			Message: "Failed to parse RSpec file: " + snap.Err,
		}
		if err := n.Notify(ctx, "window/showMessage", msg); err != nil {
			s.logger.Warn("showing parse error", "error", err)
		}
	}
}

func unmarshalParams(req *jsonrpc2.Request, v interface{}) error {
	if req.Params == nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "missing params"}
	}
	if err := json.Unmarshal(*req.Params, v); err != nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	return nil
}
