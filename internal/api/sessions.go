package api

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/noteservice"
	"github.com/starford/ansuz/internal/search"
	"github.com/starford/ansuz/internal/segment"
)

// SessionHandler serves the find/replace session API. Sessions live in
// memory, keyed by ULID, and die with the process.
type SessionHandler struct {
	svc *noteservice.Service

	mu       sync.Mutex
	sessions map[string]*search.Session
}

// NewSessionHandler creates a handler with an empty session registry.
func NewSessionHandler(svc *noteservice.Service) *SessionHandler {
	return &SessionHandler{svc: svc, sessions: make(map[string]*search.Session)}
}

// newSessionID generates a new ULID.
func newSessionID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

func (h *SessionHandler) add(s *search.Session) string {
	id := newSessionID()
	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()
	return id
}

func (h *SessionHandler) lookup(r *http.Request) (string, *search.Session, bool) {
	id := chi.URLParam(r, "id")
	h.mu.Lock()
	s, ok := h.sessions[id]
	h.mu.Unlock()
	return id, s, ok
}

// state snapshots a session into its API representation.
func (h *SessionHandler) state(id string, s *search.Session) SessionState {
	return SessionState{
		ID:           id,
		Path:         s.NoteID(),
		Query:        s.Query(),
		Options:      s.Options(),
		Matches:      s.Matches(),
		CurrentIndex: s.CurrentIndex(),
	}
}

// Create handles POST /api/sessions.
//
//	@Summary		Open a find/replace session on a note
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateSessionRequest	true	"Note to open"
//	@Success		201		{object}	SessionState
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions [post]
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	note, err := h.svc.GetNote(r.Context(), req.Path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("open session failed", slog.String("path", req.Path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	sess := search.NewSession(req.Path, note.Content, h.svc)
	id := h.add(sess)
	writeJSON(w, http.StatusCreated, h.state(id, sess))
}

// Get handles GET /api/sessions/{id}.
//
//	@Summary		Get the state of a find/replace session
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session id"
//	@Success		200	{object}	SessionState
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id} [get]
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.lookup(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("session not found"))
		return
	}
	writeJSON(w, http.StatusOK, h.state(id, sess))
}

// Delete handles DELETE /api/sessions/{id}. Destroying an unknown session is
// a no-op so clients can close unconditionally.
//
//	@Summary		Close a find/replace session
//	@Tags			sessions
//	@Param			id	path	string	true	"Session id"
//	@Success		204	"Session closed"
//	@Security		BearerAuth
//	@Router			/sessions/{id} [delete]
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// Find handles POST /api/sessions/{id}/find.
//
//	@Summary		Run a literal search in the session
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Session id"
//	@Param			body	body		FindRequest	true	"Query and options"
//	@Success		200		{object}	SessionState
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/find [post]
func (h *SessionHandler) Find(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.lookup(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("session not found"))
		return
	}
	var req FindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	sess.Find(req.Query, search.Options{CaseSensitive: req.CaseSensitive, WholeWord: req.WholeWord})
	writeJSON(w, http.StatusOK, h.state(id, sess))
}

// Next handles POST /api/sessions/{id}/next.
//
//	@Summary		Advance to the next match, wrapping at the end
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session id"
//	@Success		200	{object}	SessionState
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/next [post]
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.lookup(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("session not found"))
		return
	}
	sess.Next()
	writeJSON(w, http.StatusOK, h.state(id, sess))
}

// Previous handles POST /api/sessions/{id}/previous.
//
//	@Summary		Step back to the previous match, wrapping at the start
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session id"
//	@Success		200	{object}	SessionState
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/previous [post]
func (h *SessionHandler) Previous(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.lookup(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("session not found"))
		return
	}
	sess.Previous()
	writeJSON(w, http.StatusOK, h.state(id, sess))
}

// Replace handles POST /api/sessions/{id}/replace. When persisting the new
// content fails the session keeps its pre-replace state and the storage
// error is returned to the client as-is.
//
//	@Summary		Replace the current match and persist the note
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Session id"
//	@Param			body	body		ReplaceRequest	true	"Replacement text"
//	@Success		200		{object}	ReplaceResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		500		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/replace [post]
func (h *SessionHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.lookup(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("session not found"))
		return
	}
	var req ReplaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	replaced, err := sess.Replace(r.Context(), req.Text)
	if err != nil {
		h.writeReplaceError(w, sess, err)
		return
	}
	writeJSON(w, http.StatusOK, ReplaceResponse{Replaced: replaced, Session: h.state(id, sess)})
}

// ReplaceAll handles POST /api/sessions/{id}/replace-all.
//
//	@Summary		Replace every match in one pass and persist the note
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Session id"
//	@Param			body	body		ReplaceRequest	true	"Replacement text"
//	@Success		200		{object}	ReplaceAllResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		500		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/replace-all [post]
func (h *SessionHandler) ReplaceAll(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.lookup(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("session not found"))
		return
	}
	var req ReplaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	n, err := sess.ReplaceAll(r.Context(), req.Text)
	if err != nil {
		h.writeReplaceError(w, sess, err)
		return
	}
	writeJSON(w, http.StatusOK, ReplaceAllResponse{Replaced: n, Session: h.state(id, sess)})
}

func (h *SessionHandler) writeReplaceError(w http.ResponseWriter, sess *search.Session, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	slog.Error("replace failed", slog.String("path", sess.NoteID()), slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
}

// Segments handles GET /api/sessions/{id}/segments.
//
//	@Summary		Split session content into match-highlight segments
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session id"
//	@Success		200	{object}	SegmentsResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/segments [get]
func (h *SessionHandler) Segments(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := h.lookup(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("session not found"))
		return
	}
	segs := segment.Matches(sess.Content(), sess.Matches(), sess.CurrentIndex())
	if segs == nil {
		segs = []segment.Segment{}
	}
	writeJSON(w, http.StatusOK, SegmentsResponse{Segments: segs})
}
