package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtfdocs/rtfd/internal/api"
	"github.com/rtfdocs/rtfd/internal/db"
	"github.com/rtfdocs/rtfd/internal/project"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	if cfg.API.DocsDir == "" {
		cfg.API = api.Options{DocsDir: t.TempDir()}
	}
	return New(cfg, database, logr.Discard())
}

func serve(srv *Server, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestHealthCheck(t *testing.T) {
	w := serve(newTestServer(t, Config{Port: 0}), http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0, AllowAll: true})

	req := httptest.NewRequest(http.MethodOptions, "/rtfd/api", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestDescribeThroughServer(t *testing.T) {
	srv := newTestServer(t, Config{})
	p, err := project.New("demo", "https://github.com/acme/demo", "main")
	require.NoError(t, err)
	require.NoError(t, srv.Store().Create(context.Background(), p))

	w := serve(srv, http.MethodGet, "/rtfd/api?Action=describeProject&name=demo")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"defaultBranch":"main"`)
}

func TestLoaderHead(t *testing.T) {
	w := serve(newTestServer(t, Config{}), http.MethodHead, "/rtfd/assets/rtfd.js")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t, Config{})
	serve(srv, http.MethodGet, "/rtfd/demo/badge")

	w := serve(srv, http.MethodGet, "/metrics")
	assert.Contains(t, w.Body.String(), "rtfd_api_requests_total")
}

func TestAddr(t *testing.T) {
	srv := newTestServer(t, Config{Host: "127.0.0.1", Port: 5000})
	assert.Equal(t, "127.0.0.1:5000", srv.Addr())
}
