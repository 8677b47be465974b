package cmd

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

func TestServe_AnswersInitializeWithoutProject(t *testing.T) {
	inTempDir(t)
	serverSide, clientSide := net.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- RunServe(ctx, serverSide) }()

	conn := jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (interface{}, error) {
			return nil, nil
		}))

	var res protocol.InitializeResult
	require.NoError(t, conn.Call(ctx, "initialize", protocol.InitializeParams{}, &res))
	require.NotNil(t, res.ServerInfo)
	assert.Equal(t, "specoutline", res.ServerInfo.Name)
	assert.Equal(t, version, res.ServerInfo.Version)

	conn.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
