package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valaphee/flowgo/internal/domain/executor/builtin"
	"github.com/valaphee/flowgo/internal/infrastructure/catalog"
	"github.com/valaphee/flowgo/internal/infrastructure/httpapi"
	"github.com/valaphee/flowgo/internal/infrastructure/httpapi/dto"
	"github.com/valaphee/flowgo/internal/pkg/eventbus"
	"github.com/valaphee/flowgo/internal/runtime/host"
	"github.com/valaphee/flowgo/internal/runtime/scope"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	store := catalog.NewStore(t.TempDir())

	return httpapi.New(context.Background(), httpapi.Config{
		Store:     store,
		Executors: builtin.NewDefaultRegistry(),
		Host:      host.Inline{},
		Bus:       eventbus.New(),
		Table:     scope.NewTable(),
	})
}

func TestRouter_SaveListGetGraph(t *testing.T) {
	srv := newTestServer(t)

	body := `{"nodes":[{"id":"entry","kind":"Entry","ports":{"out":1}},{"id":"sink","kind":"Sink","ports":{"in":1}}]}`
	req := httptest.NewRequest(http.MethodPut, "/graphs/demo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/graphs", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []dto.GraphSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "demo", summaries[0].Name)

	req = httptest.NewRequest(http.MethodGet, "/graphs/demo", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_GetUnknownGraphIs404(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/graphs/nonexistent", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "not_found", errResp.Error)
}

func TestRouter_RunAndStopGraph(t *testing.T) {
	srv := newTestServer(t)

	save := `{"nodes":[{"id":"entry","kind":"Entry","ports":{"out":1}},{"id":"sink","kind":"Sink","ports":{"in":1}}]}`
	req := httptest.NewRequest(http.MethodPut, "/graphs/runnable", strings.NewReader(save))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/graphs/runnable/run", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var runResp dto.RunGraphResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runResp))
	require.NotEmpty(t, runResp.ScopeID)

	req = httptest.NewRequest(http.MethodGet, "/scopes/"+runResp.ScopeID, nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/scopes/"+runResp.ScopeID, nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RunUnknownGraphIs404(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/graphs/nonexistent/run", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Spec(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/spec", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var spec dto.SpecResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	assert.Contains(t, spec.Kinds, "Entry")
	assert.Contains(t, spec.Kinds, "Mul")
}

func TestRouter_ScopeEventsRespondsWithEventStream(t *testing.T) {
	store := catalog.NewStore(t.TempDir())
	bus := eventbus.New()
	srv := httptest.NewServer(httpapi.New(context.Background(), httpapi.Config{
		Store:     store,
		Executors: builtin.NewDefaultRegistry(),
		Host:      host.Goroutine{},
		Bus:       bus,
		Table:     scope.NewTable(),
	}))
	defer srv.Close()

	save := `{"nodes":[{"id":"entry","kind":"Entry","ports":{"out":1}},{"id":"sink","kind":"Sink","ports":{"in":1}}]}`
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/graphs/streamed", strings.NewReader(save))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = srv.Client().Post(srv.URL+"/graphs/streamed/run", "", nil)
	require.NoError(t, err)
	var runResp dto.RunGraphResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runResp))
	resp.Body.Close()
	require.NotEmpty(t, runResp.ScopeID)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/scopes/"+runResp.ScopeID+"/events", nil)
	require.NoError(t, err)
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
}

func TestRouter_Healthz(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
