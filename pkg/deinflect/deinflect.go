// Package deinflect turns raw input text into an ordered list of query
// variants: candidate rewrites of the leading words into dictionary form.
package deinflect

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Variant is one candidate query. Query is what gets sent to the server;
// SourceText is the span of the input it rewrites, which the UI reports as
// the matched length.
type Variant struct {
	Query      string
	SourceText string
	// OriginalTextLength is the rune length of SourceText when known,
	// 0 otherwise (filled in later from the remote response).
	OriginalTextLength int
}

// Provider produces deinflection variants for text in a given language.
// Implementations may return (nil, nil) for languages they do not handle.
type Provider interface {
	Variants(ctx context.Context, text, lang string) ([]Variant, error)
}

// Build returns the variant list to try, in order: provider variants first
// (deduplicated by query text, provider order kept), then the raw trimmed
// input as a guaranteed fallback. Provider failures are swallowed — a broken
// analyzer degrades lookups, it must not break them. The result is never
// empty for non-empty trimmed text.
func Build(ctx context.Context, p Provider, text, lang string) []Variant {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	var variants []Variant
	if p != nil {
		variants, _ = p.Variants(ctx, trimmed, lang)
	}

	seen := make(map[string]struct{}, len(variants)+1)
	out := make([]Variant, 0, len(variants)+1)
	for _, v := range variants {
		v.Query = strings.TrimSpace(v.Query)
		if v.Query == "" {
			continue
		}
		if _, dup := seen[v.Query]; dup {
			continue
		}
		seen[v.Query] = struct{}{}
		if v.SourceText == "" {
			v.SourceText = trimmed
		}
		if v.OriginalTextLength == 0 {
			v.OriginalTextLength = utf8.RuneCountInString(v.SourceText)
		}
		out = append(out, v)
	}

	if _, dup := seen[trimmed]; !dup {
		out = append(out, Variant{
			Query:              trimmed,
			SourceText:         trimmed,
			OriginalTextLength: utf8.RuneCountInString(trimmed),
		})
	}
	return out
}
