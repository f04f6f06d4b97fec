package scan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ajito/popdict/pkg/api"
	"github.com/ajito/popdict/pkg/deinflect"
)

// languageResult is the per-language outcome of the fallback fetch. It is
// owned by one fetch cycle and discarded after interleaving.
type languageResult struct {
	lang               string
	variant            deinflect.Variant
	results            []api.RawScanResult
	originalTextLength int
}

// fetchLanguage tries each variant in order against the scan endpoint and
// keeps the first one that yields results. When every variant comes back
// empty, the FIRST attempt's (empty) result is returned so the reported
// originalTextLength stays deterministic. Entitlement rejections become
// ErrUpgradeRequired; any other gateway error aborts the language with no
// partial results.
func (s *Scanner) fetchLanguage(ctx context.Context, lang string, variants []deinflect.Variant, maxResults int) (languageResult, error) {
	var first languageResult
	for i, v := range variants {
		resp, err := s.client.Scan(ctx, v.Query, lang, maxResults)
		if err != nil {
			if api.IsEntitlement(err) {
				return languageResult{}, fmt.Errorf("%w: %v", ErrUpgradeRequired, err)
			}
			return languageResult{}, err
		}

		lr := languageResult{
			lang:               lang,
			variant:            v,
			results:            resp.Results,
			originalTextLength: v.OriginalTextLength,
		}
		if lr.originalTextLength == 0 {
			lr.originalTextLength = resp.OriginalTextLength
		}

		if len(resp.Results) > 0 {
			return lr, nil
		}
		if i == 0 {
			first = lr
		}
	}
	return first, nil
}

// annotateMembership stamps in_flashcards on each result via one batched
// membership request. It is best-effort: with no ids, no token, or any
// failure, every flag stays false and the lookup continues.
func (s *Scanner) annotateMembership(ctx context.Context, lr *languageResult) {
	if s.cfg.AuthToken == "" {
		return
	}

	ids := make([]int64, 0, len(lr.results))
	for i := range lr.results {
		if id := lr.results[i].ID(); id > 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return
	}

	saved, err := s.client.CheckFlashcards(ctx, ids, lr.lang)
	if err != nil {
		s.logger.Debug("flashcard membership check failed",
			slog.String("language", lr.lang), slog.Any("error", err))
		return
	}
	for i := range lr.results {
		if saved[lr.results[i].ID()] {
			lr.results[i].InFlashcards = true
		}
	}
}
