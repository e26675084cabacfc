// Package handler provides HTTP handlers for all API endpoints.
// Handlers call the compiler directly; there is no service layer.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ryanadelino-stack/compiler-api/internal/api/respond"
	"github.com/ryanadelino-stack/compiler-api/internal/cache"
	"github.com/ryanadelino-stack/compiler-api/internal/compiler"
	"github.com/ryanadelino-stack/compiler-api/internal/config"
	"github.com/ryanadelino-stack/compiler-api/internal/history"
	"github.com/ryanadelino-stack/compiler-api/internal/lookup"
	"github.com/ryanadelino-stack/compiler-api/internal/metrics"
)

// Deps are the shared dependencies of every handler. Nil History and
// Logger fall back to no-op values; a nil Metrics records nothing.
type Deps struct {
	Compiler *compiler.Compiler
	Cache    *cache.Cache
	History  history.Store
	Metrics  *metrics.Recorder
	Tables   *lookup.Tables
	Config   *config.Config
	Logger   *slog.Logger
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	compiler *compiler.Compiler
	cache    *cache.Cache
	history  history.Store
	metrics  *metrics.Recorder
	tables   *lookup.Tables
	cfg      *config.Config
	log      *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	h := &Handler{
		compiler: d.Compiler,
		cache:    d.Cache,
		history:  d.History,
		metrics:  d.Metrics,
		tables:   d.Tables,
		cfg:      d.Config,
		log:      d.Logger,
	}
	if h.log == nil {
		h.log = slog.Default()
	}
	if h.history == nil {
		h.history = history.Nop{}
	}
	if h.tables == nil {
		h.tables = lookup.Default()
	}
	if h.cfg == nil {
		h.cfg = &config.Config{MaxUploadMB: 10, CacheTTL: cache.DefaultTTL}
	}
	if h.cache == nil {
		h.cache = cache.New(false, 0)
	}
	if h.compiler == nil {
		h.compiler = compiler.New(compiler.Options{Logger: h.log, Tables: h.tables})
	}
	return h
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and the documentation path.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Roster Compiler API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"endpoints": []string{
			"POST /api/v1/compile",
			"POST /api/v1/inspect",
			"GET /api/v1/runs",
			"GET /api/v1/lookups",
		},
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckHistory verifies the compile history store.
// @Summary History store health check
// @Description Pings the configured compile history store.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/history [get]
func (h *Handler) HealthCheckHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.history.Ping(r.Context()); err != nil {
		h.log.Warn("History health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"history":   "disconnected",
			"error":     "History store check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"history":   "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns output cache statistics (active keys, expired keys, hits).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
