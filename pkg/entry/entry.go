// Package entry normalizes raw scan results into canonical dictionary
// entries. This is the validated-input boundary: service-specific field
// names and loose types stop here, and everything downstream consumes the
// fixed DictionaryEntry shape.
package entry

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/ajito/popdict/pkg/api"
)

// NoDefinitionPlaceholder is the single glossary line emitted when a result
// has no translation, sentence, or usage notes yet.
const NoDefinitionPlaceholder = "No definition available yet."

// Metadata is the provenance side-record attached to each entry. Action
// surfaces (save-to-flashcards, request-definition buttons) read it to call
// back into the gateway, so its shape is a fixed contract rather than a
// property bag.
type Metadata struct {
	QuestionID          int64  `json:"questionId"`
	Language            string `json:"language"`
	InFlashcards        bool   `json:"inFlashcards"`
	HasDefinition       bool   `json:"hasDefinition"`
	AudioURL            string `json:"audioUrl,omitempty"`
	SentenceAudioURL    string `json:"sentenceAudioUrl,omitempty"`
	MatchLength         int    `json:"matchLength"`
	Translation         string `json:"translation,omitempty"`
	Sentence            string `json:"sentence,omitempty"`
	SentenceTranslation string `json:"sentenceTranslation,omitempty"`
	Usage               string `json:"usage,omitempty"`
}

// Headword is the displayed term with its reading and provenance.
type Headword struct {
	Term     string   `json:"term"`
	Reading  string   `json:"reading"`
	Sources  []string `json:"sources"`
	Metadata Metadata `json:"metadata"`
}

// Definition is one glossary block.
type Definition struct {
	Glossary []string `json:"glossary"`
	Score    int      `json:"score"`
	Sequence int64    `json:"sequence"`
}

// DictionaryEntry is the canonical output record. It is created once per
// raw result and immutable afterward.
type DictionaryEntry struct {
	Headword              Headword   `json:"headword"`
	Definition            Definition `json:"definition"`
	Score                 int        `json:"score"`
	FrequencyOrder        int        `json:"frequencyOrder"`
	MaxOriginalTextLength int        `json:"maxOriginalTextLength"`
	Metadata              Metadata   `json:"metadata"`
}

// New maps one raw scan result into a DictionaryEntry. rank is the result's
// zero-based position within its language's list; origin is the service
// scheme://host used to absolutize audio paths; query and sourceText come
// from the variant that produced the result. Output is deterministic for
// identical inputs.
func New(raw api.RawScanResult, lang, origin, query string, rank int, sourceText string) DictionaryEntry {
	term := raw.Kanji
	if term == "" {
		term = raw.Reading
	}
	if term == "" {
		term = query
	}
	reading := raw.Reading
	if reading == "" {
		reading = term
	}

	sentence := raw.SentenceText()

	var glossary []string
	if raw.Translation != "" {
		glossary = append(glossary, raw.Translation)
	}
	if sentence != "" {
		glossary = append(glossary, "Context: "+sentence)
	}
	if raw.SentenceTranslation != "" {
		glossary = append(glossary, "Translation: "+raw.SentenceTranslation)
	}
	if raw.Usage != "" {
		glossary = append(glossary, "Usage: "+raw.Usage)
	}
	if len(glossary) == 0 {
		glossary = []string{NoDefinitionPlaceholder}
	}

	hasDefinition := (raw.HasDefinition != nil && *raw.HasDefinition) ||
		raw.Translation != "" || sentence != ""

	matchLength := raw.MatchLength
	if matchLength <= 0 {
		matchLength = utf8.RuneCountInString(sourceText)
	}

	score := 100 - rank
	if score < 0 {
		score = 0
	}

	meta := Metadata{
		QuestionID:          raw.ID(),
		Language:            lang,
		InFlashcards:        raw.InFlashcards,
		HasDefinition:       hasDefinition,
		AudioURL:            resolveAudio(origin, raw.AudioPath),
		SentenceAudioURL:    resolveAudio(origin, raw.SentenceAudioPath),
		MatchLength:         matchLength,
		Translation:         raw.Translation,
		Sentence:            sentence,
		SentenceTranslation: raw.SentenceTranslation,
		Usage:               raw.Usage,
	}

	return DictionaryEntry{
		Headword: Headword{
			Term:     term,
			Reading:  reading,
			Sources:  []string{query},
			Metadata: meta,
		},
		Definition: Definition{
			Glossary: glossary,
			Score:    score,
			Sequence: meta.QuestionID,
		},
		Score:                 score,
		FrequencyOrder:        rank,
		MaxOriginalTextLength: matchLength,
		Metadata:              meta,
	}
}

// resolveAudio turns a possibly-relative audio path into an absolute URL
// against the service origin. Invalid values resolve to "" rather than
// failing the entry.
func resolveAudio(origin, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	ref, err := url.Parse(path)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	base, err := url.Parse(origin)
	if err != nil || base.Host == "" {
		return ""
	}
	if !strings.HasPrefix(ref.Path, "/") {
		ref.Path = "/" + ref.Path
	}
	return base.ResolveReference(ref).String()
}

// String renders the entry for logs and plain-text output.
func (e DictionaryEntry) String() string {
	return fmt.Sprintf("%s [%s] (%s)", e.Headword.Term, e.Headword.Reading, e.Metadata.Language)
}
