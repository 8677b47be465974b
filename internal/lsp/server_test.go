package lsp

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"github.com/chriserin/specoutline/internal/outline"
)

const userSpec = `describe "User" do
  before do
  end
  context "valid" do
    it "works" do
    end
  end
end
`

func isSpec(path string) bool { return strings.HasSuffix(path, "_spec.rb") }

type client struct {
	conn     *jsonrpc2.Conn
	trees    chan TreeParams
	messages chan protocol.ShowMessageParams
}

func startServer(t *testing.T) *client {
	t.Helper()
	serverSide, clientSide := net.Pipe()
	ctx, cancel := context.WithCancel(context.Background())

	srv := NewServer(isSpec, nil)
	srv.Version = "test"
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, serverSide) }()

	c := &client{
		trees:    make(chan TreeParams, 16),
		messages: make(chan protocol.ShowMessageParams, 16),
	}
	handler := jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
		switch req.Method {
		case MethodDidChangeTree:
			var p TreeParams
			if err := json.Unmarshal(*req.Params, &p); err != nil {
				return nil, err
			}
			c.trees <- p
		case "window/showMessage":
			var p protocol.ShowMessageParams
			if err := json.Unmarshal(*req.Params, &p); err != nil {
				return nil, err
			}
			c.messages <- p
		}
		return nil, nil
	})
	c.conn = jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.VSCodeObjectCodec{}), handler)

	t.Cleanup(func() {
		c.conn.Close()
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})
	return c
}

func (c *client) nextTree(t *testing.T) TreeParams {
	t.Helper()
	select {
	case p := <-c.trees:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("no tree notification")
		return TreeParams{}
	}
}

func (c *client) open(t *testing.T, uri, text string) {
	t.Helper()
	require.NoError(t, c.conn.Notify(context.Background(), "textDocument/didOpen", protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        protocol.DocumentURI(uri),
			LanguageID: "ruby",
			Version:    1,
			Text:       text,
		},
	}))
}

func TestServer_Initialize(t *testing.T) {
	c := startServer(t)

	var result protocol.InitializeResult
	require.NoError(t, c.conn.Call(context.Background(), "initialize", protocol.InitializeParams{}, &result))

	require.NotNil(t, result.ServerInfo)
	assert.Equal(t, "specoutline", result.ServerInfo.Name)
	assert.Equal(t, "test", result.ServerInfo.Version)
	assert.Equal(t, true, result.Capabilities.DocumentSymbolProvider)
}

func TestServer_DidOpenPublishesTree(t *testing.T) {
	c := startServer(t)
	c.open(t, "file:///proj/spec/user_spec.rb", userSpec)

	tree := c.nextTree(t)
	assert.Equal(t, "file:///proj/spec/user_spec.rb", tree.URI)
	require.Len(t, tree.Items, 1)
	assert.Equal(t, "User", tree.Items[0].Label)
	assert.Equal(t, "/proj/spec/user_spec.rb", tree.Items[0].FilePath)
	require.Len(t, tree.Items[0].Children, 2)
	assert.Equal(t, "before", tree.Items[0].Children[0].Label)
}

func TestServer_DidChangeRepublishes(t *testing.T) {
	c := startServer(t)
	uri := "file:///proj/spec/user_spec.rb"
	c.open(t, uri, userSpec)
	c.nextTree(t)

	require.NoError(t, c.conn.Notify(context.Background(), "textDocument/didChange", protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: "xdescribe \"Renamed\" do\nend\n"}},
	}))

	tree := c.nextTree(t)
	require.Len(t, tree.Items, 1)
	assert.Equal(t, "Renamed", tree.Items[0].Label)
	assert.Equal(t, "(skipped)", tree.Items[0].Description)
}

func TestServer_NonSpecFileClearsTree(t *testing.T) {
	c := startServer(t)
	c.open(t, "file:///proj/spec/user_spec.rb", userSpec)
	c.nextTree(t)

	c.open(t, "file:///proj/app/user.rb", "describe \"not a spec\" do\n")
	tree := c.nextTree(t)
	assert.Empty(t, tree.URI)
	assert.Empty(t, tree.Items)
}

func TestServer_DidCloseClearsTree(t *testing.T) {
	c := startServer(t)
	uri := "file:///proj/spec/user_spec.rb"
	c.open(t, uri, userSpec)
	c.nextTree(t)

	require.NoError(t, c.conn.Notify(context.Background(), "textDocument/didClose", protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
	}))
	tree := c.nextTree(t)
	assert.Empty(t, tree.Items)
}

func TestServer_Refresh(t *testing.T) {
	c := startServer(t)
	c.open(t, "file:///proj/spec/user_spec.rb", userSpec)
	first := c.nextTree(t)

	var out any
	require.NoError(t, c.conn.Call(context.Background(), MethodRefresh, nil, &out))
	second := c.nextTree(t)
	assert.Equal(t, first, second)
}

func TestServer_DocumentSymbols(t *testing.T) {
	c := startServer(t)
	uri := "file:///proj/spec/user_spec.rb"
	c.open(t, uri, userSpec)
	c.nextTree(t)

	var symbols []protocol.DocumentSymbol
	require.NoError(t, c.conn.Call(context.Background(), "textDocument/documentSymbol", protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
	}, &symbols))

	require.Len(t, symbols, 1)
	assert.Equal(t, "User", symbols[0].Name)
	assert.Equal(t, protocol.SymbolKindModule, symbols[0].Kind)
	require.Len(t, symbols[0].Children, 2)
	assert.Equal(t, protocol.SymbolKindFunction, symbols[0].Children[0].Kind)
	assert.Equal(t, protocol.SymbolKindNamespace, symbols[0].Children[1].Kind)
}

func TestServer_DocumentSymbolsForNonSpecFile(t *testing.T) {
	c := startServer(t)
	uri := "file:///proj/app/user.rb"
	c.open(t, uri, userSpec)

	var symbols []protocol.DocumentSymbol
	require.NoError(t, c.conn.Call(context.Background(), "textDocument/documentSymbol", protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
	}, &symbols))
	assert.Empty(t, symbols)
}

func TestServer_UnknownMethod(t *testing.T) {
	c := startServer(t)

	var out any
	err := c.conn.Call(context.Background(), "textDocument/hover", map[string]any{}, &out)
	var rpcErr *jsonrpc2.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, int64(jsonrpc2.CodeMethodNotFound), rpcErr.Code)
}

type recordingNotifier struct {
	methods []string
	params  []interface{}
}

func (r *recordingNotifier) Notify(_ context.Context, method string, params interface{}, _ ...jsonrpc2.CallOption) error {
	r.methods = append(r.methods, method)
	r.params = append(r.params, params)
	return nil
}

func TestPublish_FailureShowsMessage(t *testing.T) {
	srv := NewServer(isSpec, nil)
	n := &recordingNotifier{}

	srv.publish(context.Background(), n, outline.Snapshot{File: "/proj/spec/bad_spec.rb", Err: "boom"})

	require.Equal(t, []string{MethodDidChangeTree, "window/showMessage"}, n.methods)
	tree := n.params[0].(TreeParams)
	assert.Equal(t, "file:///proj/spec/bad_spec.rb", tree.URI)
	assert.Empty(t, tree.Items)
	msg := n.params[1].(protocol.ShowMessageParams)
	assert.Equal(t, protocol.MessageTypeError, msg.Type)
	assert.Equal(t, "Failed to parse RSpec file: boom", msg.Message)
}

func TestURIRoundTrip(t *testing.T) {
	uri := pathToURI("/proj/spec/my file_spec.rb")
	assert.Equal(t, "file:///proj/spec/my%20file_spec.rb", uri)
	assert.Equal(t, "/proj/spec/my file_spec.rb", uriToPath(uri))
	assert.Equal(t, "untitled:1", uriToPath("untitled:1"))
}
