// Package language decides which languages a lookup should query.
package language

import (
	"regexp"
	"slices"
	"strings"
)

// Default is the static supported-language set used before the service has
// been asked (or when asking it fails).
var Default = []string{"ja", "ko"}

var (
	// Hangul syllables, jamo, and compatibility jamo.
	hangulRE = regexp.MustCompile(`[\x{AC00}-\x{D7AF}\x{1100}-\x{11FF}\x{3130}-\x{318F}]`)
	// Hiragana, katakana, and CJK ideographs (URO + extension A).
	japaneseRE = regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FFF}\x{3400}-\x{4DBF}]`)
)

// Detect inspects text for script signals. Hangul wins over Japanese script
// because CJK ideographs alone are ambiguous between the two. Returns ""
// when neither script is present.
func Detect(text string) string {
	if hangulRE.MatchString(text) {
		return "ko"
	}
	if japaneseRE.MatchString(text) {
		return "ja"
	}
	return ""
}

// Policy resolves the ordered language list for one lookup.
type Policy struct {
	// Mode is "auto", "mixed", or a single language code.
	Mode string
	// Preferred is the user-ordered language list used by mixed mode.
	Preferred []string
	// Fallback is the configured default language.
	Fallback string
	// Supported constrains every result; never empty in practice.
	Supported []string
}

// Resolve returns a non-empty ordered list of language codes to query.
func (p Policy) Resolve(text string) []string {
	supported := p.Supported
	if len(supported) == 0 {
		supported = Default
	}

	switch p.Mode {
	case "", "auto":
		// handled below
	case "mixed":
		return normalizePreferred(p.Preferred, supported, p.Fallback)
	default:
		return []string{p.Mode}
	}

	if lang := Detect(text); lang != "" {
		return []string{lang}
	}
	if langs := normalizePreferred(p.Preferred, supported, ""); len(langs) > 0 {
		return langs[:1]
	}
	if slices.Contains(supported, p.Fallback) {
		return []string{p.Fallback}
	}
	return []string{"ja"}
}

// normalizePreferred filters preferred down to the supported set, keeping
// the user's order and dropping duplicates. An empty result is seeded with
// the fallback language when supported, else the full supported set. When
// fallback is "" the empty result is returned as-is so callers can tell
// "nothing usable" apart from a seeded default.
func normalizePreferred(preferred, supported []string, fallback string) []string {
	out := make([]string, 0, len(preferred))
	for _, lang := range preferred {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == "" || slices.Contains(out, lang) {
			continue
		}
		if slices.Contains(supported, lang) {
			out = append(out, lang)
		}
	}
	if len(out) > 0 || fallback == "" {
		return out
	}
	if slices.Contains(supported, fallback) {
		return []string{fallback}
	}
	return slices.Clone(supported)
}
