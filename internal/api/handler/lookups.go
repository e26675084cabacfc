package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ryanadelino-stack/compiler-api/internal/api/respond"
	"github.com/ryanadelino-stack/compiler-api/internal/cache"
	"github.com/ryanadelino-stack/compiler-api/internal/normalize"
	"github.com/ryanadelino-stack/compiler-api/internal/traits"
)

type lookupRow struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GetLookups returns the code tables the compiler writes into saves.
// The payload only changes with the process, so it is served from cache.
// @Summary Get lookup tables
// @Description Returns the position, side, characteristic and country codes used in compiled saves, for frontend pickers.
// @Tags lookups
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Success 304 "Not modified"
// @Router /lookups [get]
func (h *Handler) GetLookups(w http.ResponseWriter, r *http.Request) {
	const cacheKey = "lookups"
	ttl := h.cfg.CacheTTL

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	raw, err := json.Marshal(h.lookupTables())
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, respond.CodeInternal, "Failed to render lookups")
		return
	}

	etag := h.cache.Set(cacheKey, raw)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, raw, etag, ttl, false)
}

func (h *Handler) lookupTables() map[string][]lookupRow {
	positions := []lookupRow{}
	for p := normalize.Goalkeeper; p <= normalize.Forward; p++ {
		positions = append(positions, lookupRow{ID: int(p), Name: h.name(h.tables.PositionName(int(p)), p.String())})
	}
	sides := []lookupRow{}
	for s := normalize.Right; s <= normalize.Left; s++ {
		sides = append(sides, lookupRow{ID: int(s), Name: h.name(h.tables.SideName(int(s)), s.String())})
	}
	chars := []lookupRow{}
	for t := traits.Positioning; t <= traits.Pace; t++ {
		chars = append(chars, lookupRow{ID: int(t), Name: h.name(h.tables.TraitName(int(t)), t.String())})
	}
	countries := []lookupRow{}
	for _, e := range h.tables.Countries() {
		countries = append(countries, lookupRow{ID: e.ID, Name: e.Name})
	}
	return map[string][]lookupRow{
		"positions":       positions,
		"sides":           sides,
		"characteristics": chars,
		"countries":       countries,
	}
}

func (h *Handler) name(table, fallback string) string {
	if table != "" {
		return table
	}
	return fallback
}
