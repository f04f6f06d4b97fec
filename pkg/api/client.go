// Package api is the HTTP gateway to the remote dictionary service.
//
// A Client is constructed from one configuration snapshot and carries its
// base URL and bearer token for its whole lifetime; swapping configuration
// means building a new Client. Every request goes through the shared cookie
// jar so the cookie-based session path used by sign-in keeps working.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/ajito/popdict/pkg/config"
)

// Client talks to the dictionary service.
type Client struct {
	http         tls_client.HttpClient
	baseURL      *url.URL
	origin       string
	token        string
	cookieDomain string
	logger       *slog.Logger
}

// New builds a Client from a validated configuration snapshot.
func New(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	jar := tls_client.NewCookieJar()
	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(),
		tls_client.WithTimeoutSeconds(cfg.TimeoutSeconds),
		tls_client.WithClientProfile(profiles.DefaultClientProfile),
		tls_client.WithCookieJar(jar),
	)
	if err != nil {
		return nil, fmt.Errorf("api: build http client: %w", err)
	}

	return &Client{
		http:         httpClient,
		baseURL:      base,
		origin:       base.Scheme + "://" + base.Host,
		token:        cfg.AuthToken,
		cookieDomain: cfg.CookieDomain,
		logger:       logger,
	}, nil
}

// Origin returns scheme://host of the service, used to resolve relative
// audio paths into absolute URLs.
func (c *Client) Origin() string { return c.origin }

// Token returns the configured bearer token ("" when signed out).
func (c *Client) Token() string { return c.token }

type requestSpec struct {
	method       string
	path         string
	body         any
	requiresAuth bool
	language     string
}

// request performs one HTTP round trip and returns the decoded payload with
// the optional {data: ...} envelope removed. A nil payload with a nil error
// means the server sent no usable JSON body, which callers tolerate.
func (c *Client) request(ctx context.Context, spec requestSpec) (json.RawMessage, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + spec.path
	if spec.language != "" {
		q := u.Query()
		if q.Get("language") == "" {
			q.Set("language", spec.language)
			u.RawQuery = q.Encode()
		}
	}

	var body io.Reader
	if spec.body != nil {
		payload, err := json.Marshal(spec.body)
		if err != nil {
			return nil, fmt.Errorf("api: marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := fhttp.NewRequestWithContext(ctx, spec.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if spec.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if spec.requiresAuth && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.cookieDomain != "" {
		req.Header.Set("Origin", "https://"+c.cookieDomain)
	}

	c.logger.Debug("api request", slog.String("method", spec.method), slog.String("path", spec.path))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", spec.method, spec.path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var env struct {
		Success *bool           `json:"success"`
		Error   string          `json:"error"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	decoded := json.Unmarshal(raw, &env) == nil

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := resp.Status
		if decoded {
			if env.Error != "" {
				msg = env.Error
			} else if env.Message != "" {
				msg = env.Message
			}
		}
		return nil, &Error{Status: resp.StatusCode, Message: msg}
	}

	if !json.Valid(raw) {
		// Non-JSON bodies are tolerated, not fatal.
		return nil, nil
	}
	if decoded {
		if env.Success != nil && !*env.Success {
			msg := env.Error
			if msg == "" {
				msg = env.Message
			}
			if msg == "" {
				msg = resp.Status
			}
			return nil, &Error{Status: resp.StatusCode, Message: msg}
		}
		if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
			return env.Data, nil
		}
	}
	return raw, nil
}
