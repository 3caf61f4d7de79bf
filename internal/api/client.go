// Package api is the HTTP fetcher behind the dispatcher. It maps transport
// failures, non-2xx responses and undecodable bodies onto store.FetchError.
package api

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"

	"github.com/jask/regionhub/internal/dispatch"
	"github.com/jask/regionhub/internal/store"
)

// NetworkError is the message shown for any failure to reach the server.
const NetworkError = "Network Error"

const maxBodyBytes = 4 << 20

// TokenSource supplies the bearer token for authenticated resources.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client performs resource fetches against one base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient parses baseURL and builds a client.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch implements dispatch.Fetcher.
func (c *Client) Fetch(ctx context.Context, res dispatch.Resource) (any, error) {
	body, err := c.Do(ctx, res)
	if err != nil {
		return nil, err
	}
	if res.Decode == nil {
		return json.RawMessage(body), nil
	}
	payload, err := res.Decode(body)
	if err != nil {
		return nil, store.CauseOf(err)
	}
	return payload, nil
}

// Do sends the request described by res and returns the decompressed body of a
// 2xx response.
func (c *Client) Do(ctx context.Context, res dispatch.Resource) ([]byte, error) {
	req, err := c.newRequest(ctx, res)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", req.Method, "path", res.Path, "err", err)
		return nil, store.Wrap(store.KindTransport, NetworkError, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, store.Wrap(store.KindTransport, NetworkError, err)
	}
	c.logger.Debug("request done",
		"method", req.Method,
		"path", res.Path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get("X-Request-ID"),
		"elapsed", time.Since(start),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serverError(resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, res dispatch.Resource) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(res.Method))
	if method == "" {
		method = http.MethodGet
	}
	target := c.baseURL.JoinPath(res.Path)

	var reader io.Reader
	if res.Body != nil {
		raw, err := json.Marshal(res.Body)
		if err != nil {
			return nil, store.Wrap(store.KindValidation, "encode request body", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, store.Wrap(store.KindTransport, NetworkError, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br, gzip")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if res.Authenticated {
		token, err := c.token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", store.E(store.KindValidation, "Not signed in")
	}
	token, err := c.tokens.Token(ctx)
	if err != nil || strings.TrimSpace(token) == "" {
		return "", store.Wrap(store.KindValidation, "Not signed in", err)
	}
	return token, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		r = brotli.NewReader(resp.Body)
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip body: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(io.LimitReader(r, maxBodyBytes))
}

type errorBody struct {
	Message string `json:"message"`
}

func serverError(status int, body []byte) *store.FetchError {
	var eb errorBody
	msg := ""
	if err := json.Unmarshal(body, &eb); err == nil {
		msg = strings.TrimSpace(eb.Message)
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}
	return &store.FetchError{Kind: store.KindServer, Message: msg, Status: status}
}

// DecodeJSON returns a Resource.Decode function for T.
func DecodeJSON[T any]() func([]byte) (any, error) {
	return func(body []byte) (any, error) {
		var v T
		if len(bytes.TrimSpace(body)) == 0 {
			return v, nil
		}
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, store.Wrap(store.KindDecode, "Unexpected response from server", err)
		}
		return v, nil
	}
}

// Retryable reports whether a failed fetch is worth another attempt.
func Retryable(err error) bool {
	var fe *store.FetchError
	if !errors.As(err, &fe) || fe == nil {
		return false
	}
	switch fe.Kind {
	case store.KindTransport:
		return !errors.Is(fe.Err, context.Canceled)
	case store.KindServer:
		return fe.Status >= 500 || fe.Status == http.StatusTooManyRequests
	default:
		return false
	}
}
