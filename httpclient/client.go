package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gogpu/ggweb"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "ggweb"

// HTTP client errors.
var (
	// ErrNoClient is returned by FakeClient for every request.
	ErrNoClient = errors.New("httpclient: no HTTP client available")

	// ErrInvalidRequest is returned for requests without a method or URL.
	ErrInvalidRequest = errors.New("httpclient: invalid request")

	// ErrStatus is wrapped by StatusError.
	ErrStatus = errors.New("httpclient: unexpected status")

	// ErrBodyTooLarge is returned when a response body exceeds the
	// WithMaxBodySize limit.
	ErrBodyTooLarge = errors.New("httpclient: response body too large")
)

// StatusError reports a response whose status is not 2xx.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpclient: %s: status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error {
	return ErrStatus
}

// Request is an HTTP request with a fully buffered body.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is an HTTP response with a fully buffered body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// CheckStatus returns a StatusError for non-2xx responses.
func (r *Response) CheckStatus(url string) error {
	if r.OK() {
		return nil
	}
	return &StatusError{URL: url, StatusCode: r.StatusCode}
}

// Client is the request/response contract shared by the native client and
// the browser fetch stand-in.
type Client interface {
	UserAgent() string
	Send(ctx context.Context, req *Request) (*Response, error)
	Get(ctx context.Context, url string) (*Response, error)
}

// Option configures a FetchClient.
type Option func(*FetchClient)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *FetchClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *FetchClient) {
		c.http.Timeout = d
	}
}

// WithMaxBodySize limits the response body size. A larger body fails the
// request with ErrBodyTooLarge. Zero means unlimited.
func WithMaxBodySize(n int64) Option {
	return func(c *FetchClient) {
		c.maxBody = n
	}
}

// WithTransport replaces the round tripper, mainly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *FetchClient) {
		c.http.Transport = rt
	}
}

// FetchClient is a Client on net/http. Under GOOS=js the default
// transport of net/http issues requests through the browser fetch API.
type FetchClient struct {
	http      *http.Client
	userAgent string
	maxBody   int64
}

// NewFetchClient creates a client.
func NewFetchClient(opts ...Option) *FetchClient {
	c := &FetchClient{
		http:      &http.Client{},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserAgent returns the configured user agent.
func (c *FetchClient) UserAgent() string {
	return c.userAgent
}

// Send performs req and buffers the response body.
func (c *FetchClient) Send(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.URL == "" {
		return nil, ErrInvalidRequest
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	hreq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hreq.Header.Add(k, v)
		}
	}
	if hreq.Header.Get("User-Agent") == "" {
		hreq.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s %s: %w", method, req.URL, err)
	}
	defer resp.Body.Close()

	var r io.Reader = resp.Body
	if c.maxBody > 0 {
		r = io.LimitReader(resp.Body, c.maxBody+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read %s: %w", req.URL, err)
	}
	if c.maxBody > 0 && int64(len(data)) > c.maxBody {
		return nil, fmt.Errorf("%w: %s over %d bytes", ErrBodyTooLarge, req.URL, c.maxBody)
	}

	ggweb.Logger().Debug("httpclient: response",
		"method", method, "url", req.URL, "status", resp.StatusCode, "bytes", len(data))

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// Get is Send with a GET request.
func (c *FetchClient) Get(ctx context.Context, url string) (*Response, error) {
	return c.Send(ctx, &Request{Method: http.MethodGet, URL: url})
}

// FakeClient fails every request with ErrNoClient. It is the default for
// hosts without network access.
type FakeClient struct{}

// UserAgent returns DefaultUserAgent.
func (FakeClient) UserAgent() string { return DefaultUserAgent }

// Send returns ErrNoClient.
func (FakeClient) Send(context.Context, *Request) (*Response, error) { return nil, ErrNoClient }

// Get returns ErrNoClient.
func (FakeClient) Get(context.Context, string) (*Response, error) { return nil, ErrNoClient }

var (
	_ Client = (*FetchClient)(nil)
	_ Client = FakeClient{}
)
