package api

import (
	"encoding/json"
	"strings"
)

// NumericID is an id the service sends as either a JSON number or a quoted
// string. It keeps json.Number semantics but tolerates both encodings.
type NumericID string

func (n *NumericID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = ""
		return nil
	}
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		b = b[1 : len(b)-1]
	}
	*n = NumericID(b)
	return nil
}

// Int64 parses the id, mirroring json.Number.
func (n NumericID) Int64() (int64, error) {
	return json.Number(n).Int64()
}

func (n NumericID) String() string { return string(n) }

// RawScanResult is one candidate term as the service sends it. Field names
// and types follow the wire format; loose fields (numbers as strings, tokens
// as strings or objects) are absorbed here so nothing downstream touches raw
// JSON. The struct is never mutated after decoding except for InFlashcards,
// which the membership check stamps in place.
type RawScanResult struct {
	QuestionID          NumericID       `json:"question_id"`
	Kanji               string          `json:"kanji"`
	Reading             string          `json:"reading"`
	Translation         string          `json:"translation"`
	Sentence            string          `json:"sentence"`
	SentenceTokens      []SentenceToken `json:"sentence_tokens"`
	SentenceTranslation string          `json:"sentence_translation"`
	Usage               string          `json:"usage"`
	MatchLength         int             `json:"match_len"`
	HasDefinition       *bool           `json:"has_definition"`
	AudioPath           string          `json:"audio"`
	SentenceAudioPath   string          `json:"sentence_audio"`
	InFlashcards        bool            `json:"in_flashcards"`
}

// ID returns the numeric question id, or 0 when absent or unparsable.
func (r *RawScanResult) ID() int64 {
	id, err := r.QuestionID.Int64()
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// SentenceText joins the token array into one sentence, falling back to the
// flat sentence string when no tokens were sent.
func (r *RawScanResult) SentenceText() string {
	if len(r.SentenceTokens) == 0 {
		return r.Sentence
	}
	var b strings.Builder
	for _, t := range r.SentenceTokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// SentenceToken is one unit of a tokenized example sentence. The service
// sends either a bare string or an object with text/reading fields.
type SentenceToken struct {
	Text    string
	Reading string
}

func (t *SentenceToken) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &t.Text)
	}
	var obj struct {
		Text    string `json:"text"`
		Reading string `json:"reading"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	t.Text, t.Reading = obj.Text, obj.Reading
	return nil
}

// ScanResponse is the normalized scan payload. Results is never nil and
// OriginalTextLength is never zero for non-empty input text, even when the
// server omits either field.
type ScanResponse struct {
	Results            []RawScanResult `json:"results"`
	OriginalTextLength int             `json:"original_text_length"`
}

// Profile is the signed-in user record.
type Profile struct {
	ID    NumericID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Pro   bool      `json:"pro"`
}

// SignInResult carries the bearer token and profile returned by sign-in.
type SignInResult struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}
