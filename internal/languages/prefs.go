package languages

import (
	"net/http"
	"time"
)

// Preference cookies mirror what the original console kept in browser-local
// storage: the interface language and the preferred video-language hint.
const (
	uiLanguageCookie    = "cliplearn_ui_lang"
	videoLanguageCookie = "cliplearn_video_lang"

	prefCookieMaxAge = 365 * 24 * time.Hour
)

type Preferences struct {
	UILanguage    string `json:"ui_language"`
	VideoLanguage string `json:"video_language"`
}

// PreferencesFromRequest reads the stored preferences, applying defaults for
// first-time visitors.
func PreferencesFromRequest(r *http.Request) Preferences {
	prefs := Preferences{UILanguage: "en", VideoLanguage: AutoDetect}
	if c, err := r.Cookie(uiLanguageCookie); err == nil && c.Value != "" {
		prefs.UILanguage = c.Value
	}
	if c, err := r.Cookie(videoLanguageCookie); err == nil && c.Value != "" {
		prefs.VideoLanguage = c.Value
	}
	return prefs
}

// WritePreferences persists the preferences as long-lived cookies.
func WritePreferences(w http.ResponseWriter, prefs Preferences, secure bool) {
	writePrefCookie(w, uiLanguageCookie, prefs.UILanguage, secure)
	writePrefCookie(w, videoLanguageCookie, prefs.VideoLanguage, secure)
}

func writePrefCookie(w http.ResponseWriter, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(prefCookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}
