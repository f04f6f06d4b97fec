package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// SignIn exchanges credentials for a bearer token. The session cookie the
// service sets alongside the token lands in the client's cookie jar.
func (c *Client) SignIn(ctx context.Context, login, password string) (*SignInResult, error) {
	payload, err := c.request(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/api/login",
		body: map[string]string{
			"email":    login,
			"password": password,
		},
	})
	if err != nil {
		return nil, err
	}
	var out SignInResult
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("api: decode sign-in response: %w", err)
	}
	if out.Token == "" {
		return nil, &Error{Message: "sign-in response is missing a token"}
	}
	return &out, nil
}

// Scan asks the service for candidate terms matching a prefix of text.
// The returned response always has a non-nil Results slice and an
// OriginalTextLength, defaulted to the rune length of text when omitted.
func (c *Client) Scan(ctx context.Context, text, lang string, maxResults int) (*ScanResponse, error) {
	body := map[string]any{
		"text":     text,
		"language": lang,
	}
	if maxResults > 0 {
		body["max_results"] = maxResults
	}
	payload, err := c.request(ctx, requestSpec{
		method:       http.MethodPost,
		path:         "/api/scan",
		body:         body,
		requiresAuth: true,
		language:     lang,
	})
	if err != nil {
		return nil, err
	}

	var out ScanResponse
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &out); err != nil {
			return nil, fmt.Errorf("api: decode scan response: %w", err)
		}
	}
	if out.Results == nil {
		out.Results = []RawScanResult{}
	}
	if out.OriginalTextLength <= 0 {
		out.OriginalTextLength = utf8.RuneCountInString(text)
	}
	return &out, nil
}

// CheckFlashcards reports, per question id, whether the term is already in
// the user's flashcards. Alignment between ids and answers follows the
// question_ids array echoed by the server.
func (c *Client) CheckFlashcards(ctx context.Context, questionIDs []int64, lang string) (map[int64]bool, error) {
	payload, err := c.request(ctx, requestSpec{
		method:       http.MethodPost,
		path:         "/api/flashcards/check",
		body:         map[string]any{"question_ids": questionIDs, "language": lang},
		requiresAuth: true,
		language:     lang,
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		QuestionIDs []int64 `json:"question_ids"`
		Exists      []bool  `json:"exists"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("api: decode membership response: %w", err)
	}

	saved := make(map[int64]bool, len(out.QuestionIDs))
	for i, id := range out.QuestionIDs {
		if i < len(out.Exists) {
			saved[id] = out.Exists[i]
		}
	}
	return saved, nil
}

// AddFlashcard saves a term to the user's flashcards.
func (c *Client) AddFlashcard(ctx context.Context, questionID int64, lang string) error {
	_, err := c.request(ctx, requestSpec{
		method:       http.MethodPost,
		path:         "/api/flashcards/add",
		body:         map[string]any{"question_id": questionID, "language": lang},
		requiresAuth: true,
		language:     lang,
	})
	return err
}

// RequestWord asks the service to prioritize writing a definition for a term
// that has none yet.
func (c *Client) RequestWord(ctx context.Context, questionID int64, lang string) error {
	_, err := c.request(ctx, requestSpec{
		method:       http.MethodPost,
		path:         "/api/word-requests",
		body:         map[string]any{"question_id": questionID, "language": lang},
		requiresAuth: true,
		language:     lang,
	})
	return err
}

// Profile fetches the signed-in user.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	payload, err := c.request(ctx, requestSpec{
		method:       http.MethodGet,
		path:         "/api/profile",
		requiresAuth: true,
	})
	if err != nil {
		return nil, err
	}

	// Some deployments wrap the profile in a user field.
	var wrapped struct {
		User *Profile `json:"user"`
	}
	if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}
	var out Profile
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("api: decode profile response: %w", err)
	}
	return &out, nil
}

// SupportedLanguages fetches the language codes the service can scan.
// The response shape has drifted across service versions, so both the old
// languages field and the newer supported_languages field are accepted.
// Admin-only languages are not offered to regular lookups.
func (c *Client) SupportedLanguages(ctx context.Context) ([]string, error) {
	payload, err := c.request(ctx, requestSpec{
		method:       http.MethodGet,
		path:         "/api/languages",
		requiresAuth: true,
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Languages          []string `json:"languages"`
		SupportedLanguages []string `json:"supported_languages"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("api: decode languages response: %w", err)
	}

	langs := out.Languages
	if len(langs) == 0 {
		langs = out.SupportedLanguages
	}

	cleaned := langs[:0]
	for _, l := range langs {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			cleaned = append(cleaned, l)
		}
	}
	return cleaned, nil
}
