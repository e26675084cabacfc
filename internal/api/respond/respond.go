// Package respond writes the API's JSON envelopes and compiled save
// downloads.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ryanadelino-stack/compiler-api/internal/identity"
)

// Error codes raised by the HTTP layer itself. Compile failures carry the
// compiler's own codes.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInvalidLimit       = "INVALID_LIMIT"
	CodeHistoryUnavailable = "HISTORY_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrorResponse is the standard error shape for all API errors.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes one failure. Class is set when a template was
// refused because of the class it references.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Class   string `json:"class,omitempty"`
}

// Save is a compiled team save ready for download.
type Save struct {
	Data     []byte
	TeamName string
	Players  int
	Juniors  int
	ETag     string
	CacheHit bool
}

// Filename is the download name: the team slug plus the save extension.
func (s Save) Filename() string {
	if s.TeamName == "" {
		return "team.ban"
	}
	return identity.Slug(s.TeamName) + ".ban"
}

// WriteSave sends a compiled save as an attachment with the roster counts
// in headers. Compiles are POSTs, so shared caches never store the body.
func WriteSave(w http.ResponseWriter, s Save) {
	h := w.Header()
	if s.TeamName != "" {
		h.Set("X-Team-Name", s.TeamName)
	}
	h.Set("X-Player-Count", strconv.Itoa(s.Players))
	h.Set("X-Junior-Count", strconv.Itoa(s.Juniors))
	h.Set("Content-Type", "application/octet-stream")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.Filename()))
	h.Set("Content-Length", strconv.Itoa(len(s.Data)))
	h.Set("ETag", s.ETag)
	h.Set("Cache-Control", "no-store")
	setCacheStatus(w, s.CacheHit)
	w.WriteHeader(http.StatusOK)
	w.Write(s.Data)
}

// WriteJSON writes cached JSON bytes with ETag and max-age headers.
func WriteJSON(w http.ResponseWriter, data []byte, etag string, ttl time.Duration, cacheHit bool) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(ttl.Seconds())))
	setCacheStatus(w, cacheHit)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// WriteNotModified sends a 304 with the matching ETag.
func WriteNotModified(w http.ResponseWriter, etag string) {
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
}

// WriteError sends a structured JSON error response.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteErrorBody(w, status, ErrorBody{Code: code, Message: message})
}

// WriteErrorDetail sends a structured error with additional detail.
func WriteErrorDetail(w http.ResponseWriter, status int, code, message, detail string) {
	WriteErrorBody(w, status, ErrorBody{Code: code, Message: message, Detail: detail})
}

// WriteErrorBody sends a fully populated error.
func WriteErrorBody(w http.ResponseWriter, status int, body ErrorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: body})
}

// WriteJSONObject marshals a Go value to JSON and writes it.
func WriteJSONObject(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func setCacheStatus(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "HIT")
		return
	}
	w.Header().Set("X-Cache", "MISS")
}
