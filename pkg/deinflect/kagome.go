package deinflect

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// maxSpanTokens bounds how many leading tokens a variant may cover. Popup
// lookups match a prefix of the selection, so long spans add noise without
// adding hits.
const maxSpanTokens = 6

// Kagome is a Japanese deinflection provider backed by the kagome
// morphological analyzer with the IPA dictionary.
type Kagome struct {
	t *tokenizer.Tokenizer
}

// NewKagome builds the analyzer. The IPA dictionary is embedded, so this
// only fails on tokenizer misconfiguration.
func NewKagome() (*Kagome, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Kagome{t: t}, nil
}

// Variants tokenizes the leading words of text and emits one variant per
// prefix span, replacing the span's last token with its dictionary form
// (e.g. 食べた → 食べる + た, span 食べ yields query 食べる). Longer spans
// come first so compound matches are tried before their prefixes. Languages
// other than "ja" yield no variants.
func (k *Kagome) Variants(ctx context.Context, text, lang string) ([]Variant, error) {
	if lang != "ja" {
		return nil, nil
	}

	tokens := k.t.Tokenize(text)
	spans := make([]span, 0, maxSpanTokens)
	var surface strings.Builder
	for _, tok := range tokens {
		if tok.Class == tokenizer.DUMMY || strings.TrimSpace(tok.Surface) == "" {
			continue
		}
		prefix := surface.String()
		surface.WriteString(tok.Surface)

		base := tok.Surface
		// IPA feature layout: base form (lemma) sits at index 6.
		if features := tok.Features(); len(features) > 6 && features[6] != "*" {
			base = features[6]
		}
		spans = append(spans, span{
			query:  prefix + base,
			source: surface.String(),
		})
		if len(spans) == maxSpanTokens {
			break
		}
	}

	// Longest span first.
	out := make([]Variant, 0, len(spans))
	for i := len(spans) - 1; i >= 0; i-- {
		out = append(out, Variant{
			Query:              spans[i].query,
			SourceText:         spans[i].source,
			OriginalTextLength: utf8.RuneCountInString(spans[i].source),
		})
	}
	return out, nil
}

type span struct {
	query  string
	source string
}
