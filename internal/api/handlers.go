package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/supportdir/internal/apperr"
	"github.com/starford/supportdir/internal/checksum"
	"github.com/starford/supportdir/internal/directory"
	"github.com/starford/supportdir/internal/filter"
	"github.com/starford/supportdir/internal/session"
)

const maxBodyBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *directory.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *directory.Service) *Handler {
	return &Handler{svc: svc}
}

// Options handles GET /api/options.
//
//	@Summary		List the option set of every filter dimension
//	@Tags			directory
//	@Produce		json
//	@Success		200	{object}	OptionsResponse
//	@Failure		503	{object}	errResponse
//	@Router			/options [get]
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	opts, err := h.svc.Options(r.Context())
	if err != nil {
		writeError(w, "options", err)
		return
	}
	// Option sets only change with the dataset.
	etag := checksum.ETag(h.svc.Checksum())
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, newOptionsResponse(opts))
}

// Status handles GET /api/status.
//
//	@Summary		Report the dataset state
//	@Tags			directory
//	@Produce		json
//	@Success		200	{object}	directory.StatusInfo
//	@Router			/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status(r.Context()))
}

// ListServices handles GET /api/services.
//
//	@Summary		Filter the directory and return one window of results
//	@Tags			directory
//	@Produce		json
//	@Param			who_died		query		[]string	false	"Who has died"
//	@Param			circumstances	query		[]string	false	"Circumstances of death"
//	@Param			age				query		[]string	false	"Age of person needing support"
//	@Param			support_type	query		[]string	false	"Type of support"
//	@Param			location		query		[]string	false	"Location"
//	@Param			page			query		int			false	"Page number (paged mode)"
//	@Param			shown			query		int			false	"Records shown (incremental mode)"
//	@Success		200				{object}	ViewResponse
//	@Failure		400				{object}	errResponse
//	@Failure		503				{object}	errResponse
//	@Router			/services [get]
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	st, err := stateFromQuery(r)
	if err != nil {
		writeError(w, "list services", err)
		return
	}
	st, view, err := h.svc.Query(r.Context(), st)
	if err != nil {
		writeError(w, "list services", err)
		return
	}
	writeJSON(w, http.StatusOK, ViewResponse{State: st, View: view})
}

// GetService handles GET /api/services/{id}.
//
//	@Summary		Get one directory record
//	@Tags			directory
//	@Produce		json
//	@Param			id	path		int	true	"Record id"
//	@Success		200	{object}	models.ServiceRecord
//	@Failure		404	{object}	errResponse
//	@Router			/services/{id} [get]
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("id must be an integer"))
		return
	}
	rec, err := h.svc.Record(r.Context(), id)
	if err != nil {
		writeError(w, "get service", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// SessionStart handles POST /api/session/start.
//
//	@Summary		Start a visit with no filters
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	ViewResponse
//	@Failure		503	{object}	errResponse
//	@Router			/session/start [post]
func (h *Handler) SessionStart(w http.ResponseWriter, r *http.Request) {
	st, view, err := h.svc.Start(r.Context())
	h.respond(w, "session start", st, view, err)
}

// SessionFilter handles POST /api/session/filter.
//
//	@Summary		Replace the selection and reset the cursor
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SessionRequest	true	"State and new selection"
//	@Success		200		{object}	ViewResponse
//	@Failure		400		{object}	errResponse
//	@Router			/session/filter [post]
func (h *Handler) SessionFilter(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSession(r)
	if err != nil {
		writeError(w, "session filter", err)
		return
	}
	st, view, err := h.svc.Filter(r.Context(), req.State, req.Selection)
	h.respond(w, "session filter", st, view, err)
}

// SessionPage handles POST /api/session/page.
//
//	@Summary		Move to a page, or to a shown count in incremental mode
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SessionRequest	true	"State and cursor"
//	@Success		200		{object}	ViewResponse
//	@Failure		400		{object}	errResponse
//	@Router			/session/page [post]
func (h *Handler) SessionPage(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSession(r)
	if err != nil {
		writeError(w, "session page", err)
		return
	}
	if req.Cursor == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("cursor is required"))
		return
	}
	st, view, err := h.svc.Page(r.Context(), req.State, *req.Cursor)
	h.respond(w, "session page", st, view, err)
}

// SessionMore handles POST /api/session/more.
//
//	@Summary		Reveal the next batch
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SessionRequest	true	"Current state"
//	@Success		200		{object}	ViewResponse
//	@Router			/session/more [post]
func (h *Handler) SessionMore(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSession(r)
	if err != nil {
		writeError(w, "session more", err)
		return
	}
	st, view, err := h.svc.More(r.Context(), req.State)
	h.respond(w, "session more", st, view, err)
}

// SessionClear handles POST /api/session/clear.
//
//	@Summary		Clear every filter
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SessionRequest	false	"Current state"
//	@Success		200		{object}	ViewResponse
//	@Router			/session/clear [post]
func (h *Handler) SessionClear(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSession(r)
	if err != nil {
		writeError(w, "session clear", err)
		return
	}
	st, view, err := h.svc.Clear(r.Context(), req.State)
	h.respond(w, "session clear", st, view, err)
}

func (h *Handler) respond(w http.ResponseWriter, op string, st session.State, view session.View, err error) {
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ViewResponse{State: st, View: view})
}

// decodeSession reads a SessionRequest. An empty body is a zero request.
func decodeSession(r *http.Request) (SessionRequest, error) {
	var req SessionRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return req, fmt.Errorf("%w: read body: %w", apperr.ErrInvalidInput, err)
	}
	if len(body) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("%w: invalid JSON: %w", apperr.ErrInvalidInput, err)
	}
	return req, nil
}

// stateFromQuery reads a selection and cursor from URL query parameters.
// Each dimension may repeat, e.g. ?who_died=Parent&who_died=Sibling.
func stateFromQuery(r *http.Request) (session.State, error) {
	q := r.URL.Query()
	st := session.State{Selection: filter.FromValues(q)}
	var err error
	if st.Page, err = intParam(q.Get("page")); err != nil {
		return st, fmt.Errorf("%w: page: %w", apperr.ErrInvalidInput, err)
	}
	if st.Shown, err = intParam(q.Get("shown")); err != nil {
		return st, fmt.Errorf("%w: shown: %w", apperr.ErrInvalidInput, err)
	}
	return st, nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
