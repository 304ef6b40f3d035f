// Package http provides the HTTP transport used by the FreshBooks resource
// drivers. It owns base-URL resolution, authorization and identification
// headers, JSON encoding of request bodies, and transport-level retries.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/freshbooks-community/freshbooks-go/pkg/freshbooks"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultRetryMax  = 3
	defaultRetryWait = 500 * time.Millisecond
	retryWaitCeiling = 4 * time.Second
)

// retryStatuses are the response codes the service documents as transient.
var retryStatuses = map[int]bool{
	http.StatusBadRequest:          true,
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// retryMethods are the verbs safe to replay. POST is deliberately absent:
// replaying a create can duplicate the resource.
var retryMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodHead:   true,
}

type contextKey string

// methodContextKey carries the request verb into CheckRetry, which cannot
// read it from the response when the transport failed before one arrived.
const methodContextKey contextKey = "request-method"

// TokenSource provides the bearer token for outgoing requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Request represents an API request. Path carries any query string already
// rendered by the builders. Body is JSON-encoded when set; RawBody is sent
// verbatim with ContentType and takes precedence over Body.
type Request struct {
	Method      string
	Path        string
	Body        interface{}
	RawBody     io.ReadSeeker
	ContentType string
	Headers     map[string]string
}

// Response represents an API response with the body fully read.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is the HTTP transport. It returns the Response for every status
// code; interpreting non-2xx bodies is the caller's concern because each
// resource family reports errors in its own shape.
type Client struct {
	baseURL     string
	tokenSource TokenSource
	httpClient  *retryablehttp.Client
	userAgent   string
	apiVersion  string
	logger      freshbooks.Logger
	debug       bool
	timeout     time.Duration
	autoRetry   bool
}

// Option configures the client.
type Option func(*Client)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithAPIVersion pins the X-API-VERSION header.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// WithLogger sets the logger.
func WithLogger(logger freshbooks.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithAutoRetry enables automatic retries of idempotent requests that fail
// with a transient status.
func WithAutoRetry(autoRetry bool) Option {
	return func(c *Client) {
		c.autoRetry = autoRetry
	}
}

// NewClient creates a new transport for the given API host.
func NewClient(baseURL string, tokenSource TokenSource, opts ...Option) *Client {
	client := &Client{
		baseURL:     baseURL,
		tokenSource: tokenSource,
		userAgent:   "freshbooks-go",
		timeout:     defaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{
		Transport: cleanhttp.DefaultPooledTransport(),
		Timeout:   client.timeout,
	}
	retryClient.Logger = nil
	retryClient.RetryWaitMin = defaultRetryWait
	retryClient.RetryWaitMax = retryWaitCeiling
	retryClient.CheckRetry = checkRetry

	if client.autoRetry {
		retryClient.RetryMax = defaultRetryMax
	} else {
		retryClient.RetryMax = 0
	}

	client.httpClient = retryClient

	return client
}

// checkRetry replays idempotent verbs on transient statuses and transport
// errors. Context cancellation always wins.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	method, _ := ctx.Value(methodContextKey).(string)
	if !retryMethods[method] {
		return false, nil
	}

	if err != nil {
		return true, nil
	}

	return retryStatuses[resp.StatusCode], nil
}

// Do executes the request and returns the response whatever its status.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	var (
		body        io.ReadSeeker
		contentType string
	)

	switch {
	case req.RawBody != nil:
		body = req.RawBody
		contentType = req.ContentType
	case req.Body != nil:
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}

		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	fullURL := c.baseURL + req.Path

	ctx = context.WithValue(ctx, methodContextKey, req.Method)

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if err := c.setHeaders(ctx, httpReq.Request, contentType, req.Headers); err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
			"status": httpResp.StatusCode,
		})
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}, nil
}

// DoRaw executes the request and hands back the raw response without
// reading its body, for callers that stream file content. The caller owns
// the body.
func (c *Client) DoRaw(ctx context.Context, req *Request) (*http.Response, error) {
	fullURL := c.baseURL + req.Path

	ctx = context.WithValue(ctx, methodContextKey, req.Method)

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, req.RawBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if err := c.setHeaders(ctx, httpReq.Request, req.ContentType, req.Headers); err != nil {
		return nil, err
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return httpResp, nil
}

func (c *Client) setHeaders(ctx context.Context, httpReq *http.Request, contentType string, extra map[string]string) error {
	if c.tokenSource != nil {
		token, err := c.tokenSource.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to get token: %w", err)
		}

		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if c.apiVersion != "" {
		httpReq.Header.Set("X-API-VERSION", c.apiVersion)
	}

	for key, value := range extra {
		httpReq.Header.Set(key, value)
	}

	return nil
}

// Get performs a GET request. The path carries any query string.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// Head performs a HEAD request.
func (c *Client) Head(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodHead, Path: path})
}
