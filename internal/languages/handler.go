package languages

import (
	"encoding/json"
	"net/http"

	"github.com/cliplearn/cliplearn/internal/httputil"
)

type Handler struct {
	cache         *Cache
	secureCookies bool
}

func NewHandler(cache *Cache, secureCookies bool) *Handler {
	return &Handler{cache: cache, secureCookies: secureCookies}
}

// List serves the supported-language catalog for the language pickers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	set, err := h.cache.Get(r.Context())
	if err != nil {
		httputil.WriteBackendError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, set)
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, PreferencesFromRequest(r))
}

// PutPreferences validates the requested languages against the backend
// catalog before persisting them.
func (h *Handler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if prefs.UILanguage == "" {
		prefs.UILanguage = h.cache.Default(r.Context())
	}
	if prefs.VideoLanguage == "" {
		prefs.VideoLanguage = AutoDetect
	}

	if !h.cache.IsEnabled(r.Context(), prefs.UILanguage) {
		httputil.WriteError(w, http.StatusBadRequest, "unsupported interface language")
		return
	}
	if !h.cache.IsValidHint(r.Context(), prefs.VideoLanguage) {
		httputil.WriteError(w, http.StatusBadRequest, "unsupported video language")
		return
	}

	WritePreferences(w, prefs, h.secureCookies)
	httputil.WriteJSON(w, http.StatusOK, prefs)
}
