package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ryanadelino-stack/compiler-api/internal/api/respond"
	"github.com/ryanadelino-stack/compiler-api/internal/cache"
	"github.com/ryanadelino-stack/compiler-api/internal/compiler"
	"github.com/ryanadelino-stack/compiler-api/internal/history"
	"github.com/ryanadelino-stack/compiler-api/internal/metrics"
)

// multipartMemory is the in-memory share of a parsed upload; the rest
// spills to temp files.
const multipartMemory = 8 << 20

// compileMeta rides alongside cached save bytes so a cache hit can
// reproduce the response headers.
type compileMeta struct {
	TeamName string `json:"teamName"`
	Players  int    `json:"players"`
	Juniors  int    `json:"juniors"`
}

func (m compileMeta) save(data []byte, etag string, hit bool) respond.Save {
	return respond.Save{
		Data:     data,
		TeamName: m.TeamName,
		Players:  m.Players,
		Juniors:  m.Juniors,
		ETag:     etag,
		CacheHit: hit,
	}
}

// errBadRequest marks malformed uploads that never reach the compiler.
type errBadRequest struct{ msg string }

func (e errBadRequest) Error() string { return e.msg }

// Compile builds a team save from an uploaded roster.
// @Summary Compile a roster
// @Description Accepts a multipart upload with a JSON roster ("roster") and an optional team save template ("template"), or a bare JSON body. Returns the compiled team save.
// @Tags compile
// @Accept multipart/form-data
// @Accept json
// @Produce application/octet-stream
// @Param roster formData file true "Roster JSON"
// @Param template formData file false "Team save used as template"
// @Param teamId formData int false "Team id override"
// @Param countryId formData int false "Team country override"
// @Success 200 {file} binary
// @Failure 400 {object} respond.ErrorResponse
// @Failure 413 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /compile [post]
func (h *Handler) Compile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	run := history.NewRun(metrics.SourceAPI)

	req, err := h.readCompileRequest(w, r)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	key := cache.Key([]byte("compile"), req.Input, req.Template, intPart(req.TeamID), intPart(req.CountryID))
	if data, etag, ok := h.cache.Get(key); ok {
		var meta compileMeta
		if raw, _, ok := h.cache.Get(key + ":meta"); ok {
			_ = json.Unmarshal(raw, &meta)
		}
		h.metrics.ObserveCacheHit()
		respond.WriteSave(w, meta.save(data, etag, true))
		return
	}

	out, err := h.compiler.Compile(r.Context(), req)
	elapsed := time.Since(start)
	run.Duration = elapsed.Milliseconds()
	if err != nil {
		h.metrics.ObserveCompile(metrics.SourceAPI, 0, elapsed, err)
		run.Status = metrics.Status(err)
		run.ErrorCode = string(compiler.CodeOf(err))
		h.record(r, run)
		h.writeCompileError(w, err)
		return
	}

	h.metrics.ObserveCompile(metrics.SourceAPI, len(out.Players), elapsed, nil)
	run.Status = "ok"
	run.TeamName = out.TeamName
	run.Players = len(out.Players)
	run.Juniors = out.Juniors
	h.record(r, run)

	meta := compileMeta{TeamName: out.TeamName, Players: len(out.Players), Juniors: out.Juniors}
	etag := h.cache.Set(key, out.Data)
	if raw, err := json.Marshal(meta); err == nil {
		h.cache.Set(key+":meta", raw)
	}
	h.log.Info("Roster compiled",
		"request_id", middleware.GetReqID(r.Context()),
		"team", out.TeamName,
		"players", len(out.Players),
		"juniors", out.Juniors,
		"skipped", out.Skipped,
		"misses", out.Misses,
		"duration", elapsed)
	respond.WriteSave(w, meta.save(out.Data, etag, false))
}

// Inspect reports the team fields and player collections of a save.
// @Summary Inspect a team save
// @Description Loads an uploaded save under the class guard and returns its team fields and players.
// @Tags compile
// @Accept multipart/form-data
// @Produce json
// @Param save formData file true "Team save"
// @Success 200 {object} compiler.Report
// @Failure 400 {object} respond.ErrorResponse
// @Failure 413 {object} respond.ErrorResponse
// @Router /inspect [post]
func (h *Handler) Inspect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.writeUploadError(w, classifyUpload(err))
		return
	}
	data, ok, err := formPart(r.MultipartForm, "save")
	if err != nil {
		h.writeUploadError(w, err)
		return
	}
	if !ok {
		h.writeUploadError(w, errBadRequest{"save part is required"})
		return
	}

	report, err := h.compiler.Inspect(data)
	if err != nil {
		h.writeCompileError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, report)
}

func (h *Handler) readCompileRequest(w http.ResponseWriter, r *http.Request) (compiler.Request, error) {
	var req compiler.Request
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes())

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return req, classifyUpload(err)
		}
		req.Input = body
		var perr error
		if req.TeamID, perr = optionalInt(r.URL.Query().Get("teamId"), "teamId"); perr != nil {
			return req, perr
		}
		if req.CountryID, perr = optionalInt(r.URL.Query().Get("countryId"), "countryId"); perr != nil {
			return req, perr
		}
		return req, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return req, classifyUpload(err)
	}
	form := r.MultipartForm

	input, ok, err := formPart(form, "roster")
	if err != nil {
		return req, err
	}
	if !ok {
		return req, errBadRequest{"roster part is required"}
	}
	req.Input = input

	if req.Template, _, err = formPart(form, "template"); err != nil {
		return req, err
	}
	if req.TeamID, err = optionalInt(formValue(form, "teamId"), "teamId"); err != nil {
		return req, err
	}
	if req.CountryID, err = optionalInt(formValue(form, "countryId"), "countryId"); err != nil {
		return req, err
	}
	return req, nil
}

func (h *Handler) record(r *http.Request, run history.Run) {
	if err := h.history.Record(r.Context(), run); err != nil {
		h.log.Warn("Failed to record compile run", "run_id", run.ID, "error", err)
	}
}

// writeCompileError maps compiler codes to 400 and anything else to 500.
func (h *Handler) writeCompileError(w http.ResponseWriter, err error) {
	var ce *compiler.Error
	if errors.As(err, &ce) {
		body := respond.ErrorBody{Code: string(ce.Code), Message: ce.Message, Class: ce.Class}
		if body.Message == "" {
			body.Message = string(ce.Code)
		}
		if ce.Err != nil {
			body.Detail = ce.Err.Error()
		}
		respond.WriteErrorBody(w, http.StatusBadRequest, body)
		return
	}
	h.log.Error("Compile failed", "error", err)
	respond.WriteError(w, http.StatusInternalServerError, respond.CodeInternal, "Compile failed")
}

func (h *Handler) writeUploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respond.WriteErrorDetail(w, http.StatusRequestEntityTooLarge, respond.CodePayloadTooLarge,
			"Upload exceeds the size limit", fmt.Sprintf("limit is %d bytes", tooLarge.Limit))
		return
	}
	respond.WriteErrorDetail(w, http.StatusBadRequest, respond.CodeInvalidRequest, "Malformed upload", err.Error())
}

func classifyUpload(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return errBadRequest{err.Error()}
}

// formPart returns the named file part, or a plain value of that name.
func formPart(form *multipart.Form, name string) ([]byte, bool, error) {
	if files := form.File[name]; len(files) > 0 {
		f, err := files[0].Open()
		if err != nil {
			return nil, false, errBadRequest{fmt.Sprintf("read %s: %v", name, err)}
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, false, errBadRequest{fmt.Sprintf("read %s: %v", name, err)}
		}
		return data, true, nil
	}
	if v := formValue(form, name); v != "" {
		return []byte(v), true, nil
	}
	return nil, false, nil
}

func formValue(form *multipart.Form, name string) string {
	if vs := form.Value[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func optionalInt(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errBadRequest{fmt.Sprintf("%s must be an integer", name)}
	}
	return &n, nil
}

func intPart(p *int) []byte {
	if p == nil {
		return nil
	}
	return []byte(strconv.Itoa(*p))
}
