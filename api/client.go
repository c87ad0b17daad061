package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/techjourney/folio/utils"
)

const maxBodyBytes = 10 << 20

// Meta is the pagination block of the envelope.
type Meta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Meta    *Meta           `json:"meta"`
}

// Client talks to the content API and unwraps its response envelope.
type Client struct {
	baseURL        string
	http           *http.Client
	token          func(context.Context) string
	onUnauthorized func(context.Context)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithTokenSource supplies the bearer token for the request carried by ctx.
func WithTokenSource(fn func(context.Context) string) Option {
	return func(c *Client) { c.token = fn }
}

// WithUnauthorizedHandler is called on every 401 before the error is returned.
func WithUnauthorizedHandler(fn func(context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New returns a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get decodes data into out and returns the pagination meta when present.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) (*Meta, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body as JSON and decodes data into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	_, err := c.do(ctx, http.MethodPost, path, nil, body, out)
	return err
}

// Put sends body as JSON and decodes data into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	_, err := c.do(ctx, http.MethodPut, path, nil, body, out)
	return err
}

// Delete removes the resource at path.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (meta *Meta, err error) {
	start := time.Now()
	defer func() { observe(method, path, start, err) }()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.clientFor(ctx).Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "read response", Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)
	if resp.StatusCode < 200 || resp.StatusCode > 299 || (decodeErr == nil && !env.Success) {
		apiErr := statusError(resp.StatusCode, env.Message)
		if apiErr.Kind == KindUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, &Error{Kind: KindServer, Status: resp.StatusCode, Message: "malformed response", Err: decodeErr}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, &Error{Kind: KindServer, Status: resp.StatusCode, Message: "unexpected response shape", Err: err}
		}
	}
	return env.Meta, nil
}

// clientFor attaches the caller's bearer token through an oauth2 transport.
func (c *Client) clientFor(ctx context.Context) *http.Client {
	if c.token == nil {
		return c.http
	}
	tok := c.token(ctx)
	if tok == "" {
		return c.http
	}
	return &http.Client{
		Timeout: c.http.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}),
			Base:   c.http.Transport,
		},
	}
}

func observe(method, path string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = KindOf(err).String()
	}
	elapsed := time.Since(start)
	requestDuration.WithLabelValues(method, routeOf(path), outcome).Observe(elapsed.Seconds())
	utils.Logger.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("outcome", outcome),
		zap.Duration("latency", elapsed),
	)
}

// routeOf keeps metric cardinality bounded: "/posts/id/42" -> "/posts".
func routeOf(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return "/" + trimmed
}
