package main

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tkoskim/breachpoint/internal/e2etest"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "BREACHPOINT_ADDR":
		return "localhost:0", true
	case "BREACHPOINT_SQLITE_URL":
		return ":memory:", true
	default:
		return "", false
	}
}

// startTestServer starts the server on a free port with an in-memory database and
// returns a client pointed at it. The server shuts down when the test finishes.
func startTestServer(t *testing.T) *e2etest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	srv, err := e2etest.StartServer(ctx, io.Discard, testLookupEnv, run)
	require.NoError(t, err)
	return srv
}
