package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/colorscheme"
	"github.com/Zachkp/portfolio/internal/devlog"
	"github.com/Zachkp/portfolio/internal/portfolio"
	"github.com/Zachkp/portfolio/internal/storage"
	"github.com/Zachkp/portfolio/internal/theme"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeStatus struct {
	resp devlog.Response
	err  error
}

func (f *fakeStatus) Status(ctx context.Context) (devlog.Response, error) {
	return f.resp, f.err
}

type testEnv struct {
	srv    *server
	db     *storage.Store
	os     *colorscheme.Static
	status *fakeStatus
	router *gin.Engine
}

func newTestEnv(t *testing.T, adminToken string) *testEnv {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	osSignal := colorscheme.NewStatic(true)
	status := &fakeStatus{resp: devlog.Response{Summary: "I shipped things.", LastUpdate: "2026-01-01 10:00:00", Source: devlog.SourceLive}}

	s := &server{
		theme:      theme.New(ctx, theme.Options{Storage: db.Preferences(), OS: osSignal, Logger: quiet}),
		status:     status,
		visits:     db,
		adminToken: adminToken,
		salt:       "test-salt",
		logger:     quiet,
	}
	// Registered after db.Close, so background writes finish first.
	t.Cleanup(s.bg.Wait)
	return &testEnv{srv: s, db: db, os: osSignal, status: status, router: s.router()}
}

func (e *testEnv) do(t *testing.T, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeTheme(t *testing.T, w *httptest.ResponseRecorder) themeState {
	t.Helper()
	var st themeState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	return st
}

func TestRoot(t *testing.T) {
	e := newTestEnv(t, "")
	w := e.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Portfolio API is online", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	e := newTestEnv(t, "")
	w := e.do(t, http.MethodGet, "/", "", "X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCORS(t *testing.T) {
	e := newTestEnv(t, "")
	w := e.do(t, http.MethodGet, "/api/portfolio", "", "Origin", "https://example.com")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPortfolioEndpoint(t *testing.T) {
	e := newTestEnv(t, "")
	w := e.do(t, http.MethodGet, "/api/portfolio", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got portfolio.Data
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, portfolio.Get(), got)
}

func TestThemeEndpoints(t *testing.T) {
	e := newTestEnv(t, "")

	st := decodeTheme(t, e.do(t, http.MethodGet, "/api/theme", ""))
	assert.Equal(t, themeState{Theme: theme.Dark, Explicit: false}, st)

	st = decodeTheme(t, e.do(t, http.MethodPost, "/api/theme/toggle", ""))
	assert.Equal(t, themeState{Theme: theme.Light, Explicit: true}, st)

	v, err := e.db.GetPreference(theme.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, "light", v)

	st = decodeTheme(t, e.do(t, http.MethodPut, "/api/theme", `{"theme":"dark"}`))
	assert.Equal(t, theme.Dark, st.Theme)

	e.os.Change(false)
	st = decodeTheme(t, e.do(t, http.MethodGet, "/api/theme", ""))
	assert.Equal(t, theme.Dark, st.Theme, "explicit choice wins over OS change")

	st = decodeTheme(t, e.do(t, http.MethodDelete, "/api/theme", ""))
	assert.Equal(t, themeState{Theme: theme.Light, Explicit: false}, st)
	_, err = e.db.GetPreference(theme.StorageKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSetTheme_Invalid(t *testing.T) {
	e := newTestEnv(t, "")

	w := e.do(t, http.MethodPut, "/api/theme", `{"theme":"sepia"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid theme preference")

	w = e.do(t, http.MethodPut, "/api/theme", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, theme.Dark, e.srv.theme.Value())
	assert.False(t, e.srv.theme.Explicit())
}

func TestStatusEndpoint(t *testing.T) {
	e := newTestEnv(t, "")

	w := e.do(t, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp devlog.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, e.status.resp, resp)

	e.status.err = errors.New("github down")
	w = e.do(t, http.MethodGet, "/api/status", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), devlog.OfflineSummary)
	assert.Contains(t, w.Body.String(), "github down")
}

func TestThemeEvents(t *testing.T) {
	e := newTestEnv(t, "")
	ts := httptest.NewServer(e.router)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/theme/events", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	lines := bufio.NewScanner(resp.Body)
	nextData := func() string {
		for lines.Scan() {
			if line := lines.Text(); strings.HasPrefix(line, "data:") {
				return line
			}
		}
		return ""
	}

	assert.Contains(t, nextData(), `"dark"`)

	e.srv.theme.Toggle()
	assert.Contains(t, nextData(), `"light"`)
}
