package session

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cliplearn/cliplearn/internal/httputil"
	"github.com/cliplearn/cliplearn/internal/languages"
	"github.com/cliplearn/cliplearn/internal/validate"
)

type Handler struct {
	mgr            *Manager
	maxUploadBytes int64
}

func NewHandler(mgr *Manager, maxUploadBytes int64) *Handler {
	return &Handler{mgr: mgr, maxUploadBytes: maxUploadBytes}
}

// Upload accepts a multipart video upload and starts a new analysis session.
// Language hints come from the form fields when present, else from the
// stored preferences.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	if msg := validate.Filename(header.Filename); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	prefs := languages.PreferencesFromRequest(r)
	videoLanguage := r.FormValue("language")
	if videoLanguage == "" {
		videoLanguage = prefs.VideoLanguage
	}
	uiLanguage := r.FormValue("ui_language")
	if uiLanguage == "" {
		uiLanguage = prefs.UILanguage
	}

	contentType := header.Header.Get("Content-Type")

	snap, err := h.mgr.Start(r.Context(), header.Filename, contentType, file, videoLanguage, uiLanguage)
	if err != nil {
		if errors.Is(err, ErrNotVideo) {
			httputil.WriteError(w, http.StatusBadRequest, ErrNotVideo.Error())
			return
		}
		slog.Error("upload failed", "filename", header.Filename, "error", err)
		httputil.WriteBackendError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, snap)
}

// Current reports the active session's progress; the console polls this
// endpoint to drive the progress indicator and reveal results.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.mgr.Snapshot()
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "no active session")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.mgr.Reset()
	w.WriteHeader(http.StatusNoContent)
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := validate.Question(req.Question); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	uiLanguage := r.URL.Query().Get("ui_language")
	if uiLanguage == "" {
		uiLanguage = languages.PreferencesFromRequest(r).UILanguage
	}

	entry, err := h.mgr.Ask(r.Context(), req.Question, uiLanguage)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyQuestion):
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNoActiveSession), errors.Is(err, ErrNotReady):
			httputil.WriteError(w, http.StatusConflict, err.Error())
		default:
			httputil.WriteBackendError(w, err)
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.mgr.Snapshot()
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "no active session")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap.Chat)
}

func (h *Handler) ClearChat(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.ClearChat(); err != nil {
		httputil.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AudioSummary streams the generated narration for the completed video. The
// path names a video id so stale players stop working once a new upload
// replaces the session.
func (h *Handler) AudioSummary(w http.ResponseWriter, r *http.Request) {
	if id := chi.URLParam(r, "videoID"); id != "" {
		snap, ok := h.mgr.Snapshot()
		if !ok || strconv.FormatInt(snap.VideoID, 10) != id {
			httputil.WriteError(w, http.StatusNotFound, "no such video in the active session")
			return
		}
	}

	body, contentType, err := h.mgr.AudioSummary(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, ErrNoActiveSession), errors.Is(err, ErrNoAudioSummary):
			httputil.WriteError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrNotReady):
			httputil.WriteError(w, http.StatusConflict, err.Error())
		default:
			httputil.WriteBackendError(w, err)
		}
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "audio/mpeg"
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, body); err != nil {
		slog.Error("audio summary stream interrupted", "error", err)
	}
}
