package httpapi

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/keijiban-app/keijiban/internal/logging"
	"github.com/keijiban-app/keijiban/internal/server/boards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPServer_ServeAndShutdown(t *testing.T) {
	svc := boards.NewService(boards.NewMemoryRepository(boards.SeedBoards()), 0)
	s := NewHTTPServer("127.0.0.1:0", logging.NewNop(), svc)

	listen, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, listen) }()

	resp, err := http.Get("http://" + listen.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHTTPServer_RunBadAddress(t *testing.T) {
	s := NewHTTPServer("not-an-address", logging.NewNop(), nil)
	require.Error(t, s.Run(context.Background()))
}
