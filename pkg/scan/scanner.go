// Package scan is the lookup orchestrator: it resolves languages, builds
// deinflection variants, fetches each language with fallback, enriches
// results with flashcard membership, and interleaves everything into one
// ranked list.
package scan

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ajito/popdict/pkg/api"
	"github.com/ajito/popdict/pkg/config"
	"github.com/ajito/popdict/pkg/deinflect"
	"github.com/ajito/popdict/pkg/entry"
	"github.com/ajito/popdict/pkg/language"
)

var (
	// ErrNotConfigured means FindTerms was called before configuration
	// was supplied.
	ErrNotConfigured = errors.New("popdict: lookup is not configured")

	// ErrAuthRequired means lookups are enabled but no token is set.
	ErrAuthRequired = errors.New("popdict: sign in to look up words")

	// ErrUpgradeRequired means the service rejected the lookup because
	// the account's plan does not cover it.
	ErrUpgradeRequired = errors.New("popdict: this lookup requires a Pro subscription")
)

// Result is the outcome of one lookup.
type Result struct {
	Entries []entry.DictionaryEntry `json:"entries"`
	// OriginalTextLength is how many leading runes of the input the
	// lookup accounts for; the UI highlights that span.
	OriginalTextLength int `json:"originalTextLength"`
}

// Scanner runs lookups against one configuration snapshot. Languages are
// fetched sequentially, so a Scanner issues at most one request at a time;
// concurrent FindTerms calls are independent and safe.
type Scanner struct {
	cfg      *config.Config
	client   *api.Client
	provider deinflect.Provider
	catalog  *language.Catalog
	logger   *slog.Logger
}

// New builds a Scanner. cfg may be nil (lookups then fail with
// ErrNotConfigured); provider may be nil (raw-text variants only).
func New(cfg *config.Config, client *api.Client, provider deinflect.Provider, catalog *language.Catalog, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	if catalog == nil {
		catalog = language.NewCatalog(nil, logger)
	}
	return &Scanner{
		cfg:      cfg,
		client:   client,
		provider: provider,
		catalog:  catalog,
		logger:   logger,
	}
}

// FindTerms resolves text into a ranked, merged list of dictionary entries.
func (s *Scanner) FindTerms(ctx context.Context, text string) (*Result, error) {
	if s.cfg == nil || s.client == nil {
		return nil, ErrNotConfigured
	}
	if !s.cfg.Enabled {
		return &Result{
			Entries:            []entry.DictionaryEntry{},
			OriginalTextLength: utf8.RuneCountInString(text),
		}, nil
	}
	if s.cfg.AuthToken == "" {
		return nil, ErrAuthRequired
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &Result{Entries: []entry.DictionaryEntry{}}, nil
	}

	supported := s.catalog.Supported(ctx, s.cfg.AuthToken)
	langs := language.Policy{
		Mode:      s.cfg.LanguageMode,
		Preferred: s.cfg.PreferredLanguages,
		Fallback:  s.cfg.DefaultLanguage,
		Supported: supported,
	}.Resolve(trimmed)

	maxResults := s.cfg.MaxResults

	perLanguage := make([]languageResult, 0, len(langs))
	lists := make([][]entry.DictionaryEntry, 0, len(langs))
	for _, lang := range langs {
		variants := deinflect.Build(ctx, s.provider, trimmed, lang)
		lr, err := s.fetchLanguage(ctx, lang, variants, maxResults)
		if err != nil {
			return nil, err
		}
		s.annotateMembership(ctx, &lr)

		entries := make([]entry.DictionaryEntry, 0, len(lr.results))
		for i, raw := range lr.results {
			entries = append(entries, entry.New(raw, lang, s.client.Origin(), lr.variant.Query, i, lr.variant.SourceText))
		}
		perLanguage = append(perLanguage, lr)
		lists = append(lists, entries)

		s.logger.Debug("language fetched",
			slog.String("language", lang),
			slog.Int("results", len(entries)))
	}

	merged := interleave(lists, maxResults)

	return &Result{
		Entries:            merged,
		OriginalTextLength: reportedLength(perLanguage, merged, trimmed),
	}, nil
}

// reportedLength picks the originalTextLength for the merged result: the
// first nonzero of (max per-language reported length, max entry match
// length, max headword rune length, trimmed input rune length).
func reportedLength(perLanguage []languageResult, merged []entry.DictionaryEntry, trimmed string) int {
	best := 0
	for _, lr := range perLanguage {
		if lr.originalTextLength > best {
			best = lr.originalTextLength
		}
	}
	if best > 0 {
		return best
	}
	for _, e := range merged {
		if e.Metadata.MatchLength > best {
			best = e.Metadata.MatchLength
		}
	}
	if best > 0 {
		return best
	}
	for _, e := range merged {
		if n := utf8.RuneCountInString(e.Headword.Term); n > best {
			best = n
		}
	}
	if best > 0 {
		return best
	}
	return utf8.RuneCountInString(trimmed)
}
