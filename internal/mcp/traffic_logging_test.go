package mcp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func debugLogger(buf io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level}))
}

func TestTrafficLoggingRequestAndResponse(t *testing.T) {
	var buf bytes.Buffer
	handler := trafficLoggingMiddleware(debugLogger(&buf, slog.LevelDebug), "inbound")(
		func(context.Context, string, sdkmcp.Request) (sdkmcp.Result, error) {
			return nil, errors.New("boom")
		},
	)

	_, err := handler(context.Background(), "tools/list", nil)
	require.EqualError(t, err, "boom")

	out := buf.String()
	require.Contains(t, out, "msg=\"mcp traffic\"")
	require.Contains(t, out, "direction=inbound")
	require.Contains(t, out, "method=tools/list")
	require.Contains(t, out, "stage=request")
	require.Contains(t, out, "stage=response")
	require.Contains(t, out, "error=boom")
	require.Contains(t, out, "params=<nil>")
}

func TestTrafficLoggingSkipsNotificationResponse(t *testing.T) {
	var buf bytes.Buffer
	handler := trafficLoggingMiddleware(debugLogger(&buf, slog.LevelDebug), "outbound")(
		func(context.Context, string, sdkmcp.Request) (sdkmcp.Result, error) {
			return nil, nil
		},
	)

	_, err := handler(context.Background(), "notifications/initialized", nil)
	require.NoError(t, err)

	out := buf.String()
	require.Equal(t, 1, strings.Count(out, "stage=request"))
	require.NotContains(t, out, "stage=response")
}

func TestTrafficLoggingQuietAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	called := false
	handler := trafficLoggingMiddleware(debugLogger(&buf, slog.LevelInfo), "inbound")(
		func(context.Context, string, sdkmcp.Request) (sdkmcp.Result, error) {
			called = true
			return nil, nil
		},
	)

	_, err := handler(context.Background(), "tools/list", nil)
	require.NoError(t, err)
	require.True(t, called)
	require.Empty(t, buf.String())

	handler = trafficLoggingMiddleware(nil, "inbound")(
		func(context.Context, string, sdkmcp.Request) (sdkmcp.Result, error) {
			return nil, nil
		},
	)
	_, err = handler(context.Background(), "tools/list", nil)
	require.NoError(t, err)
}

func TestServerLogsToolTraffic(t *testing.T) {
	var buf lockedBuffer
	ctx := context.Background()

	server := NewServer(Config{Logger: debugLogger(&buf, slog.LevelDebug)})
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	_, err = session.ListTools(ctx, nil)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "method=tools/list")
	require.Contains(t, out, "direction=inbound")
}
