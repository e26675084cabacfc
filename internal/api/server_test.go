package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanadelino-stack/compiler-api/internal/api/handler"
	"github.com/ryanadelino-stack/compiler-api/internal/api/respond"
	"github.com/ryanadelino-stack/compiler-api/internal/cache"
	"github.com/ryanadelino-stack/compiler-api/internal/compiler"
	"github.com/ryanadelino-stack/compiler-api/internal/config"
	"github.com/ryanadelino-stack/compiler-api/internal/history"
	"github.com/ryanadelino-stack/compiler-api/internal/metrics"
	"github.com/ryanadelino-stack/compiler-api/internal/schema"
	"github.com/ryanadelino-stack/compiler-api/internal/serial"
)

const santos = `{"team":"Santos","roster":[
	{"name":"Pelé","age":17,"position":{"primary":"Centroavante"}},
	{"name":"Gilmar","position":{"primary":"Goleiro"}}
]}`

type fixture struct {
	router  http.Handler
	history *history.SQLStore
}

func newFixture(t *testing.T, mutate func(*config.Config)) *fixture {
	t.Helper()
	cfg := &config.Config{
		CORSAllowOrigins: []string{"*"},
		CacheEnabled:     true,
		CacheTTL:         time.Minute,
		MaxUploadMB:      1,
		MetricsEnabled:   true,
	}
	if mutate != nil {
		mutate(cfg)
	}
	store, err := history.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	deps := handler.Deps{
		Compiler: compiler.New(compiler.Options{}),
		Cache:    cache.New(cfg.CacheEnabled, cfg.CacheTTL),
		History:  store,
		Metrics:  metrics.New(),
	}
	return &fixture{router: NewRouter(deps, cfg), history: store}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func jsonCompile(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, path string, files map[string][]byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		fw, err := mw.CreateFormFile(name, name+".bin")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) respond.ErrorBody {
	t.Helper()
	var body respond.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return errorBody(t, rec).Code
}

func TestCompileJSONBody(t *testing.T) {
	f := newFixture(t, nil)

	first := f.do(jsonCompile(santos))
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Equal(t, "application/octet-stream", first.Header().Get("Content-Type"))
	assert.Equal(t, "Santos", first.Header().Get("X-Team-Name"))
	assert.Equal(t, "2", first.Header().Get("X-Player-Count"))
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Contains(t, first.Header().Get("Content-Disposition"), `filename="santos.ban"`)
	assert.NotEmpty(t, first.Header().Get("X-Process-Time"))
	require.True(t, bytes.HasPrefix(first.Body.Bytes(), []byte{0xAC, 0xED, 0x00, 0x05}))

	second := f.do(jsonCompile(santos))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, "Santos", second.Header().Get("X-Team-Name"))
	assert.Equal(t, first.Header().Get("ETag"), second.Header().Get("ETag"))
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())

	// Cache hits are not recorded as runs.
	runs, err := f.history.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "Santos", runs[0].TeamName)
	assert.Equal(t, "ok", runs[0].Status)
	assert.Equal(t, metrics.SourceAPI, runs[0].Source)
}

func TestCompileMultipartWithTemplate(t *testing.T) {
	f := newFixture(t, nil)

	base := f.do(jsonCompile(santos))
	require.Equal(t, http.StatusOK, base.Code)

	req := multipartRequest(t, "/api/v1/compile",
		map[string][]byte{
			"roster":   []byte(`[{"name":"Coutinho","position":{"primary":"Ponta Esquerda"}}]`),
			"template": base.Body.Bytes(),
		},
		map[string]string{"teamId": "5", "countryId": "29"},
	)
	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Santos", rec.Header().Get("X-Team-Name"))
	assert.Equal(t, "1", rec.Header().Get("X-Player-Count"))

	inspect := f.do(multipartRequest(t, "/api/v1/inspect", map[string][]byte{"save": rec.Body.Bytes()}, nil))
	require.Equal(t, http.StatusOK, inspect.Code, inspect.Body.String())

	var report compiler.Report
	require.NoError(t, json.Unmarshal(inspect.Body.Bytes(), &report))
	assert.Equal(t, "e.t", report.Class)
	assert.Equal(t, "5", report.ID)
	assert.Equal(t, "Santos", report.Name)
	assert.Equal(t, "29", report.Country)
	require.Len(t, report.Players, 1)
	assert.Equal(t, "Coutinho", report.Players[0].Name)
}

func TestCompileErrors(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name   string
		req    *http.Request
		status int
		code   string
	}{
		{"empty body", jsonCompile(""), http.StatusBadRequest, "INVALID_INPUT"},
		{"not a roster", jsonCompile(`"hello"`), http.StatusBadRequest, "INVALID_INPUT"},
		{"bad team id", func() *http.Request {
			r := jsonCompile(santos)
			r.URL.RawQuery = "teamId=abc"
			return r
		}(), http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing roster part", multipartRequest(t, "/api/v1/compile", nil, map[string]string{"teamId": "1"}),
			http.StatusBadRequest, "INVALID_REQUEST"},
		{"garbage template", multipartRequest(t, "/api/v1/compile",
			map[string][]byte{"roster": []byte(santos), "template": []byte("not a save")}, nil),
			http.StatusBadRequest, "INVALID_TEMPLATE"},
		{"too large", jsonCompile(`{"roster":[],"pad":"` + strings.Repeat("x", 2<<20) + `"}`),
			http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(tt.req)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}

	runs, err := f.history.List(context.Background(), 50)
	require.NoError(t, err)
	statuses := map[string]int{}
	for _, r := range runs {
		statuses[r.ErrorCode]++
	}
	assert.Equal(t, 2, statuses["INVALID_INPUT"])
	assert.Equal(t, 1, statuses["INVALID_TEMPLATE"])
}

func TestInspectRequiresSave(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(multipartRequest(t, "/api/v1/inspect", nil, map[string]string{"x": "y"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCode(t, rec))
}

func TestListRuns(t *testing.T) {
	f := newFixture(t, nil)
	require.Equal(t, http.StatusOK, f.do(jsonCompile(santos)).Code)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/runs?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Runs  []history.Run `json:"runs"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, 2, body.Runs[0].Players)

	bad := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/runs?limit=zero", nil))
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Equal(t, "INVALID_LIMIT", errorCode(t, bad))
}

func TestLookupsETag(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/lookups", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	var body map[string][]struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body["positions"], 5)
	assert.Len(t, body["sides"], 2)
	assert.Len(t, body["characteristics"], 14)
	assert.NotEmpty(t, body["countries"])

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lookups", nil)
	req.Header.Set("If-None-Match", etag)
	again := f.do(req)
	assert.Equal(t, http.StatusNotModified, again.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t, nil)

	for _, path := range []string{"/", "/health", "/health/history", "/health/cache"} {
		rec := f.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	require.Equal(t, http.StatusOK, f.do(jsonCompile(santos)).Code)
	rec := f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `roster_compile_total{source="api",status="ok"} 1`)
	assert.Contains(t, string(body), `roster_compile_players_total 2`)
}

func TestMetricsDisabled(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.MetricsEnabled = false })
	rec := f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t, func(c *config.Config) {
		c.RateLimitEnabled = true
		c.RateLimitRequests = 2
		c.RateLimitWindow = time.Hour
	})

	for i := 0; i < 2; i++ {
		rec := f.do(jsonCompile(santos))
		require.Equal(t, http.StatusOK, rec.Code, "compile %d", i)
	}

	limited := f.do(jsonCompile(santos))
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1800", limited.Header().Get("Retry-After"))
	body := errorBody(t, limited)
	assert.Equal(t, "RATE_LIMITED", body.Code)
	assert.Equal(t, "limit is 2 compiles per 1h0m0s", body.Detail)

	inspect := f.do(multipartRequest(t, "/api/v1/inspect", map[string][]byte{"save": []byte("x")}, nil))
	assert.Equal(t, http.StatusTooManyRequests, inspect.Code)

	// Another client has its own allowance.
	other := jsonCompile(santos)
	other.RemoteAddr = "198.51.100.7:4000"
	assert.Equal(t, http.StatusOK, f.do(other).Code)

	// Read-only routes are never limited.
	for _, path := range []string{"/health", "/api/v1/lookups", "/api/v1/runs"} {
		rec := f.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestCompileBlockedTemplateClass(t *testing.T) {
	f := newFixture(t, nil)

	team := serial.NewObject(schema.TeamDesc(schema.DefaultTeamSUID))
	gadget := serial.NewObject(&serial.ClassDesc{
		Name:   "com.evil.Gadget",
		SUID:   1,
		Flags:  serial.ScSerializable,
		Fields: []serial.Field{{Type: 'I', Name: "x"}},
	})
	list, err := serial.NewArrayList(schema.ArrayListDesc(), []any{gadget})
	require.NoError(t, err)
	require.NoError(t, team.SetSlot("l", list))
	var tpl bytes.Buffer
	require.NoError(t, serial.Encode(&tpl, team))

	rec := f.do(multipartRequest(t, "/api/v1/compile",
		map[string][]byte{"roster": []byte(santos), "template": tpl.Bytes()}, nil))
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	body := errorBody(t, rec)
	assert.Equal(t, "BLOCKED_CLASS", body.Code)
	assert.Equal(t, "com.evil.Gadget", body.Class)

	inspect := f.do(multipartRequest(t, "/api/v1/inspect", map[string][]byte{"save": tpl.Bytes()}, nil))
	require.Equal(t, http.StatusBadRequest, inspect.Code)
	assert.Equal(t, "com.evil.Gadget", errorBody(t, inspect).Class)
}
