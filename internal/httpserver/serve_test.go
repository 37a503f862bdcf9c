package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/andrebq/gatepass/internal/logutil"
	"github.com/rs/zerolog"
	"github.com/steinfletcher/apitest"
	"github.com/stretchr/testify/require"
)

func TestRequestLog(t *testing.T) {
	var buf bytes.Buffer
	ctx := logutil.WithLogger(context.Background(), zerolog.New(&buf))
	var sawLogger bool
	handler := WithRequestLog(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := logutil.GetOrDefault(r.Context())
		l.Debug().Msg("inside")
		sawLogger = true
		w.WriteHeader(http.StatusTeapot)
	}))

	apitest.Handler(handler).Get("/some/path").Expect(t).Status(http.StatusTeapot).End()
	require.True(t, sawLogger)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	last := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &last))
	require.Equal(t, "/some/path", last["req.path"])
	require.Equal(t, "GET", last["req.method"])
	require.EqualValues(t, http.StatusTeapot, last["res.status"])
	require.NotEmpty(t, last["req.id"])
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler())
	}()
	cancel()
	require.NoError(t, <-errc)
}
