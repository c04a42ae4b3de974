// Package transport is the HTTP client the task API is reached through.
//
// Requests carry JSON bodies, a request id, and, unless marked public, the
// bearer token supplied by an oauth2.TokenSource. Non-2xx responses and network
// failures come back as *TransportError. There are no retries.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// DefaultTimeout bounds a request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// RequestIDHeader carries a per-request uuid.
const RequestIDHeader = "X-Request-ID"

// Client sends requests to one API base URL.
type Client struct {
	baseURL string
	authed  *http.Client
	public  *http.Client
	timeout time.Duration
	log     zerolog.Logger
	metrics *Metrics
}

type options struct {
	httpClient  *http.Client
	tokenSource oauth2.TokenSource
	timeout     time.Duration
	log         zerolog.Logger
	metrics     *Metrics
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient sets the underlying HTTP client (for testing or custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithTokenSource attaches bearer tokens from ts to non-public requests.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(o *options) { o.tokenSource = ts }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithMetrics records request counts and latency.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url: %q", baseURL)
	}

	o := options{
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.timeout <= 0 {
		o.timeout = DefaultTimeout
	}

	authed := o.httpClient
	if o.tokenSource != nil {
		authed = &http.Client{
			Transport: &oauth2.Transport{Source: o.tokenSource, Base: o.httpClient.Transport},
			Timeout:   o.httpClient.Timeout,
		}
	}

	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		authed:  authed,
		public:  o.httpClient,
		timeout: o.timeout,
		log:     o.log,
		metrics: o.metrics,
	}, nil
}

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	// Public requests are sent without a bearer token.
	Public bool
}

// Response is a successful (2xx) API response.
type Response struct {
	Status int
	Data   []byte
}

// Decode unmarshals the JSON response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("invalid response body: %w", err)
	}
	return nil
}

// Get sends an authenticated GET.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path})
}

// Post sends an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Patch sends an authenticated PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete sends an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

// Do sends req and returns the response or a *TransportError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, requestID)

	hc := c.authed
	if req.Public {
		hc = c.public
	}

	start := time.Now()
	resp, err := hc.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(req.Method, 0, elapsed)
		c.log.Debug().
			Str("method", req.Method).
			Str("path", req.Path).
			Str("request_id", requestID).
			Dur("elapsed", elapsed).
			Err(err).
			Msg("request failed")
		return nil, &TransportError{Method: req.Method, Path: req.Path, Err: unwrapURLError(err)}
	}
	defer googleapi.CloseBody(resp)

	c.metrics.observe(req.Method, resp.StatusCode, elapsed)
	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("request")

	if err := googleapi.CheckResponse(resp); err != nil {
		te := &TransportError{Method: req.Method, Path: req.Path, Status: resp.StatusCode}
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			te.Message = gerr.Message
			te.Body = gerr.Body
		}
		return nil, te
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, Path: req.Path, Err: err}
	}
	return &Response{Status: resp.StatusCode, Data: data}, nil
}

// unwrapURLError drops the *url.Error layer, which repeats method and URL.
func unwrapURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
