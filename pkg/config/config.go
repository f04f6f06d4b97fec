// Package config holds the lookup configuration snapshot.
//
// A Config is loaded once (file + environment) and treated as immutable by
// everything downstream: the scanner and the API client are built from a
// snapshot and never observe later changes.
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Language modes. Any single supported language code is also a valid mode
// and pins lookups to that language.
const (
	ModeAuto  = "auto"
	ModeMixed = "mixed"
)

// Config is the root lookup configuration.
type Config struct {
	// Enabled gates all lookups. When false, FindTerms returns empty
	// results without touching the network.
	Enabled bool `yaml:"enabled" env:"POPDICT_ENABLED" env-default:"true"`

	// AuthToken is the bearer token obtained from sign-in.
	AuthToken string `yaml:"auth_token" env:"POPDICT_AUTH_TOKEN"`

	// APIBaseURL is the root of the remote dictionary service.
	APIBaseURL string `yaml:"api_base_url" env:"POPDICT_API_BASE_URL" env-default:"https://api.popdict.app"`

	// CookieDomain is the domain the service scopes its session cookies to.
	CookieDomain string `yaml:"cookie_domain" env:"POPDICT_COOKIE_DOMAIN"`

	// LanguageMode is "auto", "mixed", or a single language code.
	LanguageMode string `yaml:"language_mode" env:"POPDICT_LANGUAGE_MODE" env-default:"auto"`

	// PreferredLanguages is the ordered list used by "mixed" mode and as
	// the detection fallback. Unsupported codes are dropped at resolve time.
	PreferredLanguages []string `yaml:"preferred_languages" env:"POPDICT_PREFERRED_LANGUAGES" env-separator:","`

	// DefaultLanguage is used when detection fails and no preferred
	// language applies.
	DefaultLanguage string `yaml:"default_language" env:"POPDICT_DEFAULT_LANGUAGE" env-default:"ja"`

	// MaxResults caps the merged result list.
	MaxResults int `yaml:"max_results" env:"POPDICT_MAX_RESULTS" env-default:"10"`

	// TimeoutSeconds bounds each HTTP request issued by the gateway.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"POPDICT_TIMEOUT_SECONDS" env-default:"30"`

	// HistoryPath is the sqlite file lookups are recorded to.
	// Empty disables history.
	HistoryPath string `yaml:"history_path" env:"POPDICT_HISTORY_PATH" env-default:"popdict.db"`

	Log LogConfig `yaml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"POPDICT_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"POPDICT_LOG_FORMAT" env-default:"text"`
}

// Validate normalizes and checks the snapshot. It is called by Load but is
// exported so hand-built configs (tests, embedders) can use it too.
func (c *Config) Validate() error {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: api_base_url %q is not an absolute URL", c.APIBaseURL)
	}

	c.LanguageMode = strings.ToLower(strings.TrimSpace(c.LanguageMode))
	if c.LanguageMode == "" {
		c.LanguageMode = ModeAuto
	}

	c.DefaultLanguage = strings.ToLower(strings.TrimSpace(c.DefaultLanguage))
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = "ja"
	}

	cleaned := c.PreferredLanguages[:0]
	for _, lang := range c.PreferredLanguages {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang != "" {
			cleaned = append(cleaned, lang)
		}
	}
	c.PreferredLanguages = cleaned

	c.CookieDomain = strings.TrimPrefix(strings.TrimSpace(c.CookieDomain), ".")

	if c.MaxResults <= 0 {
		return fmt.Errorf("config: max_results must be positive, got %d", c.MaxResults)
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// Origin returns the scheme://host part of the API base URL. Relative audio
// paths in scan results are resolved against it.
func (c *Config) Origin() string {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return c.APIBaseURL
	}
	return u.Scheme + "://" + u.Host
}
