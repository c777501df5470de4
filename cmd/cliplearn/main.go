package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cliplearn/cliplearn/internal/backend"
	"github.com/cliplearn/cliplearn/internal/server"
	"github.com/cliplearn/cliplearn/internal/session"
	"github.com/cliplearn/cliplearn/web"
)

func main() {
	// Missing .env is fine in containerized deployments.
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")

	backendURL := os.Getenv("BACKEND_URL")
	if backendURL == "" {
		log.Fatal("BACKEND_URL is required")
	}

	client := backend.New(backendURL, getEnvDuration("BACKEND_TIMEOUT", 120*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := client.Ping(ctx); err != nil {
		log.Printf("analysis backend not reachable yet: %v", err)
	} else {
		log.Println("analysis backend reachable")
	}
	cancel()

	sessions := session.NewManager(client,
		getEnvDuration("POLL_INTERVAL", 5*time.Second),
		getEnvDuration("SETTLE_DELAY", 1500*time.Millisecond),
	)

	var webFS fs.FS
	if sub, err := fs.Sub(web.DistFS, "dist"); err == nil {
		webFS = sub
		log.Println("embedded console loaded")
	} else {
		log.Println("no embedded console found, SPA serving disabled")
	}

	baseURL := getEnv("BASE_URL", "http://localhost:8080")

	srv := server.New(server.Config{
		Backend:        client,
		Sessions:       sessions,
		Pinger:         client,
		WebFS:          webFS,
		BaseURL:        baseURL,
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 2*1024*1024*1024),
		LanguageTTL:    getEnvDuration("LANGUAGE_CACHE_TTL", time.Hour),
		EnableDocs:     getEnv("API_DOCS_ENABLED", "false") == "true",
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Minute,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("cliplearn listening on :%s", port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-shutdownCh
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}
	log.Println("shutdown complete")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
