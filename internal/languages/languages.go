// Package languages caches the backend's supported-language catalog and
// persists the user's interface and video language preferences.
package languages

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cliplearn/cliplearn/internal/backend"
)

// AutoDetect is the video-language hint asking the backend to detect the
// spoken language itself. It is valid as a hint but never as a UI language.
const AutoDetect = "auto"

type Source interface {
	SupportedLanguages(ctx context.Context) (*backend.LanguageSet, error)
}

// Cache front-loads the supported-language catalog so preference validation
// does not hit the backend on every request.
type Cache struct {
	source Source
	ttl    time.Duration

	mu        sync.Mutex
	set       *backend.LanguageSet
	fetchedAt time.Time
}

func NewCache(source Source, ttl time.Duration) *Cache {
	return &Cache{source: source, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context) (*backend.LanguageSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.set != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.set, nil
	}

	set, err := c.source.SupportedLanguages(ctx)
	if err != nil {
		// Serve a stale catalog over an error if we have one.
		if c.set != nil {
			return c.set, nil
		}
		return nil, fmt.Errorf("fetch supported languages: %w", err)
	}

	c.set = set
	c.fetchedAt = time.Now()
	return set, nil
}

// IsEnabled reports whether code is an enabled UI language.
func (c *Cache) IsEnabled(ctx context.Context, code string) bool {
	set, err := c.Get(ctx)
	if err != nil {
		return false
	}
	lang, ok := set.Languages[code]
	return ok && lang.Enabled
}

// IsValidHint reports whether code is usable as a video-language hint.
func (c *Cache) IsValidHint(ctx context.Context, code string) bool {
	if code == AutoDetect {
		return true
	}
	return c.IsEnabled(ctx, code)
}

// Default returns the backend's default UI language, falling back to "en"
// when the catalog is unavailable.
func (c *Cache) Default(ctx context.Context) string {
	set, err := c.Get(ctx)
	if err != nil {
		return "en"
	}
	return set.Default
}
