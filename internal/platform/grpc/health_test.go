package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitForHealthRequiresConn(t *testing.T) {
	require.Error(t, WaitForHealth(context.Background(), nil, "", nil))
}

func TestDialRequiresAddress(t *testing.T) {
	_, err := Dial("  ")
	require.Error(t, err)
}

func TestWaitForHealthReportsServing(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server, _ := NewHealthServer("crmdesk.v1.CRM")
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	conn, err := Dial(listener.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, WaitForHealth(ctx, conn, "crmdesk.v1.CRM", nil))
}

func TestWaitForHealthHonorsContext(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server, _ := NewHealthServer()
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	conn, err := Dial(listener.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	require.Error(t, WaitForHealth(ctx, conn, "unknown.Service", nil))
}
