package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajito/popdict/pkg/config"
)

func newTestClient(t *testing.T, baseURL, token string) *Client {
	t.Helper()
	cfg := &config.Config{
		Enabled:         true,
		AuthToken:       token,
		APIBaseURL:      baseURL,
		LanguageMode:    "auto",
		DefaultLanguage: "ja",
		MaxResults:      10,
		TimeoutSeconds:  5,
	}
	require.NoError(t, cfg.Validate())
	c, err := New(cfg, nil)
	require.NoError(t, err)
	return c
}

func TestScanSendsAuthAndLanguage(t *testing.T) {
	var gotAuth, gotAccept, gotLangParam string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotLangParam = r.URL.Query().Get("language")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"results":              []map[string]any{{"question_id": 1, "kanji": "犬"}},
			"original_text_length": 1,
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok-123")
	resp, err := c.Scan(context.Background(), "犬", "ja", 5)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "ja", gotLangParam)
	assert.Equal(t, "犬", gotBody["text"])
	assert.Equal(t, "ja", gotBody["language"])
	assert.Equal(t, float64(5), gotBody["max_results"])
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "犬", resp.Results[0].Kanji)
}

func TestScanUnwrapsDataEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"results":              []map[string]any{{"question_id": "77", "reading": "いぬ"}},
				"original_text_length": 2,
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok")
	resp, err := c.Scan(context.Background(), "いぬ", "ja", 0)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, int64(77), resp.Results[0].ID())
	assert.Equal(t, 2, resp.OriginalTextLength)
}

func TestScanDefaultsShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": null}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok")
	resp, err := c.Scan(context.Background(), "食べた", "ja", 0)
	require.NoError(t, err)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
	assert.Equal(t, 3, resp.OriginalTextLength, "rune length of input, not byte length")
}

func TestScanToleratesNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok")
	resp, err := c.Scan(context.Background(), "犬", "ja", 0)
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Equal(t, 1, resp.OriginalTextLength)
}

func TestRequestSuccessFalseIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "scan quota exceeded"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok")
	_, err := c.Scan(context.Background(), "犬", "ja", 0)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "scan quota exceeded", apiErr.Message)
}

func TestRequestNon2xxUsesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"message": "Pro subscription required"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok")
	_, err := c.Scan(context.Background(), "犬", "ja", 0)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 402, apiErr.Status)
	assert.Equal(t, "Pro subscription required", apiErr.Message)
	assert.True(t, IsEntitlement(err))
}

func TestRequestNon2xxWithoutBodyFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok")
	_, err := c.Scan(context.Background(), "犬", "ja", 0)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
	assert.False(t, IsEntitlement(err))
}

func TestCheckFlashcardsAlignment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Server echoes ids in its own order.
		w.Write([]byte(`{"question_ids": [3, 1, 2], "exists": [true, false, true]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok")
	saved, err := c.CheckFlashcards(context.Background(), []int64{1, 2, 3}, "ja")
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{3: true, 1: false, 2: true}, saved)
}

func TestSignInSkipsBearerAndReturnsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"data": {"token": "fresh-token", "user": {"email": "a@b.c"}}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "stale")
	res, err := c.SignIn(context.Background(), "a@b.c", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", res.Token)
	assert.Equal(t, "a@b.c", res.User.Email)
}

func TestSupportedLanguagesShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"legacy field", `{"languages": ["JA", "ko"]}`, []string{"ja", "ko"}},
		{"new field", `{"supported_languages": ["ja", "ko", "zh"], "admin_only_languages": ["yi"]}`, []string{"ja", "ko", "zh"}},
		{"empty", `{}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL, "tok")
			got, err := c.SupportedLanguages(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSentenceTokenAcceptsBothShapes(t *testing.T) {
	var r RawScanResult
	require.NoError(t, json.Unmarshal([]byte(
		`{"sentence_tokens": ["パン", {"text": "を", "reading": "ヲ"}, "食べる"]}`), &r))
	assert.Equal(t, "パンを食べる", r.SentenceText())
	assert.Equal(t, "ヲ", r.SentenceTokens[1].Reading)
}
