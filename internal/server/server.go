// Package server wires the gateway's HTTP surface: the JSON facade the
// console calls, the embedded console assets, and operational endpoints.
package server

import (
	"context"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cliplearn/cliplearn/internal/backend"
	"github.com/cliplearn/cliplearn/internal/courses"
	"github.com/cliplearn/cliplearn/internal/docs"
	"github.com/cliplearn/cliplearn/internal/languages"
	"github.com/cliplearn/cliplearn/internal/metrics"
	"github.com/cliplearn/cliplearn/internal/ratelimit"
	"github.com/cliplearn/cliplearn/internal/session"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Backend        *backend.Client
	Sessions       *session.Manager
	Pinger         Pinger
	WebFS          fs.FS
	BaseURL        string
	MaxUploadBytes int64
	LanguageTTL    time.Duration
	EnableDocs     bool
}

type Server struct {
	router          chi.Router
	pinger          Pinger
	enableDocs      bool
	sessionHandler  *session.Handler
	courseHandler   *courses.Handler
	languageHandler *languages.Handler
	webFS           fs.FS
}

func New(cfg Config) *Server {
	r := chi.NewRouter()
	r.Use(slogMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders(SecurityConfig{BaseURL: cfg.BaseURL}))

	s := &Server{router: r, pinger: cfg.Pinger, enableDocs: cfg.EnableDocs, webFS: cfg.WebFS}

	if cfg.Backend != nil {
		ttl := cfg.LanguageTTL
		if ttl == 0 {
			ttl = time.Hour
		}
		secureCookies := strings.HasPrefix(cfg.BaseURL, "https://")

		s.sessionHandler = session.NewHandler(cfg.Sessions, cfg.MaxUploadBytes)
		s.courseHandler = courses.NewHandler(cfg.Backend)
		s.languageHandler = languages.NewHandler(languages.NewCache(cfg.Backend, ttl), secureCookies)
	}

	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", metrics.Handler())

	if s.enableDocs {
		s.router.Get("/api/docs", docs.HandleDocs)
		s.router.Get("/api/docs/openapi.yaml", docs.HandleSpec)
	}

	if s.sessionHandler != nil {
		uploadLimiter := ratelimit.NewLimiter(0.2, 3)
		uploadLimiter.StartSweeper(context.Background(), 5*time.Minute, 10*time.Minute)
		s.router.Route("/api/videos", func(r chi.Router) {
			r.With(uploadLimiter.Middleware).Post("/", s.sessionHandler.Upload)
			r.Get("/", s.courseHandler.CompletedVideos)
			r.Get("/current", s.sessionHandler.Current)
			r.Delete("/current", s.sessionHandler.Reset)
			r.Get("/{videoID}", s.courseHandler.VideoDetail)
			r.Get("/{videoID}/chat", s.courseHandler.VideoChat)
			r.Get("/{videoID}/audio-summary", s.sessionHandler.AudioSummary)
		})

		chatLimiter := ratelimit.NewLimiter(1, 5)
		chatLimiter.StartSweeper(context.Background(), 5*time.Minute, 10*time.Minute)
		s.router.Route("/api/chat", func(r chi.Router) {
			r.With(chatLimiter.Middleware).Post("/", s.sessionHandler.Ask)
			r.Get("/", s.sessionHandler.ChatHistory)
			r.Delete("/", s.sessionHandler.ClearChat)
		})

		s.router.Route("/api/courses", func(r chi.Router) {
			r.Get("/", s.courseHandler.List)
			r.Post("/generate", s.courseHandler.Generate)
			r.Post("/cleanup", s.courseHandler.Cleanup)
			r.Get("/storage-stats", s.courseHandler.StorageStats)
			r.Delete("/{courseID}", s.courseHandler.Delete)
			r.Get("/{courseID}/export", s.courseHandler.Export)
		})

		// Generated course pages open in their own tab, addressed the same
		// way the backend serves them.
		s.router.Get("/course-files/{courseID}/{filename}", s.courseHandler.File)

		s.router.Get("/api/languages", s.languageHandler.List)
		s.router.Get("/api/preferences", s.languageHandler.GetPreferences)
		s.router.Put("/api/preferences", s.languageHandler.PutPreferences)
	}

	if s.webFS != nil {
		spa := newSPAFileServer(s.webFS)
		s.router.NotFound(spa.ServeHTTP)
	}
}

// handleHealth reports whether the analysis backend is reachable; the
// console shows a banner when it is not.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy","error":"analysis backend unreachable"}`))
			return
		}
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
