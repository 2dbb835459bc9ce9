package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/samvad-hq/samvad-api-kit/pkg/httpclient"
)

// Client is the base for concrete API clients. It holds the configured URL
// prefix and the injected transport; both are set at construction and never
// mutated, so a Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    httpclient.Client
	headers map[string]string
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithHeaders sets headers sent with every request issued through the client.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) { c.headers = h }
}

// New builds a client for the service rooted at baseURL, delegating transport
// to hc.
func New(baseURL string, hc httpclient.Client, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
	for _, f := range opts {
		f(c)
	}
	return c
}

// BaseURL returns the configured URL prefix.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) url(endpoint string) string {
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// Call is a lazy single-shot exchange. Building one performs no work; Do
// issues the request and produces exactly one envelope or one error. Each
// invocation of Do is a fresh exchange.
type Call[T any] struct {
	run func(ctx context.Context) (Envelope[T], error)
}

// Do executes the exchange. Cancellation and timeouts are delegated to the
// underlying transport via ctx.
func (c *Call[T]) Do(ctx context.Context) (Envelope[T], error) {
	return c.run(ctx)
}

// Get prepares a GET against the configured prefix joined with endpoint.
// params may be nil.
func Get[T any](c *Client, endpoint string, params Params) *Call[T] {
	return newCall[T](c, http.MethodGet, c.url(endpoint), params, nil)
}

// GetExternal prepares a GET against a fully-qualified third-party URL,
// ignoring the configured prefix.
func GetExternal[T any](c *Client, rawURL string, params Params) *Call[T] {
	return newCall[T](c, http.MethodGet, rawURL, params, nil)
}

// Post prepares a POST with data serialized as a JSON body.
func Post[T any](c *Client, endpoint string, data any) *Call[T] {
	return newCall[T](c, http.MethodPost, c.url(endpoint), nil, data)
}

// Put prepares a PUT with data serialized as a JSON body.
func Put[T any](c *Client, endpoint string, data any) *Call[T] {
	return newCall[T](c, http.MethodPut, c.url(endpoint), nil, data)
}

// Delete prepares a DELETE against the configured prefix joined with
// endpoint. params may be nil.
func Delete[T any](c *Client, endpoint string, params Params) *Call[T] {
	return newCall[T](c, http.MethodDelete, c.url(endpoint), params, nil)
}

func newCall[T any](c *Client, method, u string, params Params, body any) *Call[T] {
	return &Call[T]{run: func(ctx context.Context) (Envelope[T], error) {
		var zero Envelope[T]

		resp, err := c.http.Do(ctx, httpclient.Request{
			Method:  method,
			URL:     u,
			Query:   params.Values(),
			Headers: c.headers,
			Body:    body,
		})
		if err != nil {
			return zero, fmt.Errorf("%s %s: %w", method, u, err)
		}
		if resp.IsError() {
			return zero, errorFromResponse(resp)
		}
		return decodeEnvelope[T](resp.Body()), nil
	}}
}

// errorFromResponse parses a failed response body as an envelope and returns
// it as a typed failure. The parse itself is not guarded: a non-JSON error
// body surfaces the decode error instead of an *Error.
func errorFromResponse(resp httpclient.Response) error {
	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("decode error response (status %d): %w", resp.StatusCode(), err)
	}
	return &Error{Envelope: env}
}
