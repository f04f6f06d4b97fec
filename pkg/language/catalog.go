package language

import (
	"context"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// FetchFunc asks the service for its supported languages.
type FetchFunc func(ctx context.Context) ([]string, error)

// Catalog caches the service's supported-language set per auth token.
// The set is fetched lazily on first use once a token is available and kept
// until the token changes; a cleared token falls back to Default. Refresh
// failures and empty responses also fall back to Default and are never
// surfaced to the caller.
type Catalog struct {
	fetch  FetchFunc
	cache  *lru.Cache[string, []string]
	logger *slog.Logger
}

// NewCatalog builds a Catalog around fetch. fetch may be nil, in which case
// Supported always returns Default.
func NewCatalog(fetch FetchFunc, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	// A handful of tokens at most ever coexist (token rotation mid-session).
	cache, _ := lru.New[string, []string](4)
	return &Catalog{fetch: fetch, cache: cache, logger: logger}
}

// Supported returns the supported-language set for the given auth token.
func (c *Catalog) Supported(ctx context.Context, token string) []string {
	if token == "" || c.fetch == nil {
		return Default
	}
	if langs, ok := c.cache.Get(token); ok {
		return langs
	}

	langs, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("supported-language refresh failed, using defaults", slog.Any("error", err))
		return Default
	}
	if len(langs) == 0 {
		return Default
	}
	c.cache.Add(token, langs)
	return langs
}
