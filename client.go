// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

package fritz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client issues calls against one router. The zero value is not usable; use
// New, NewWithHandler or NewTestingClient.
//
// A Client is safe for concurrent use. With returns a new Client layering a
// middleware on top; the original stays valid and unaffected.
type Client struct {
	HTTPClient *http.Client
	BaseURL    *url.URL

	// Logger, when set, receives warnings from the disposal path (a close
	// error that would otherwise shadow an earlier one). It never sees
	// request traffic; use NewLoggingMiddleware for that.
	Logger *slog.Logger

	handler Handler

	// composition bookkeeping: the middleware attached at this layer and
	// the client it was attached to. Both nil for a root client.
	mw     Middleware
	parent *Client

	closeOnce sync.Once
	closeErr  error
}

// New instantiates a root Client for the router reachable at baseURL.
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("malformed base URL: %w", err)
	}

	if !u.IsAbs() {
		return nil, fmt.Errorf("base URL is not absolute: %q", baseURL)
	}

	c := &Client{
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		BaseURL:    u,
	}
	c.handler = c.exchange

	return c, nil
}

// NewWithHandler creates a Client whose exchanges are served directly by h.
// No middleware applies and no network I/O happens; this is a hook for
// tests.
func NewWithHandler(h Handler) *Client {
	u, _ := url.Parse("http://fritz.box")

	return &Client{BaseURL: u, handler: h}
}

// SetHTTPClient replaces the underlying HTTP client, e.g. to install a TLS
// configuration for routers with a proper certificate.
func (c *Client) SetHTTPClient(hc *http.Client) error {
	if hc == nil {
		return errors.New("no HTTP client supplied")
	}
	c.HTTPClient = hc

	return nil
}

// SetLogger installs the logger used for disposal-path warnings.
func (c *Client) SetLogger(logger *slog.Logger) error {
	if logger == nil {
		return errors.New("no logger supplied")
	}
	c.Logger = logger

	return nil
}

// With returns a new Client whose exchanges pass through m before reaching
// the layers below. The most recently attached middleware wraps outermost:
// it sees requests first and responses last. Closing the returned client
// disposes m first, then delegates to this client's own Close.
func (c *Client) With(m Middleware) *Client {
	next := c.handler

	nc := &Client{
		HTTPClient: c.HTTPClient,
		BaseURL:    c.BaseURL,
		Logger:     c.Logger,
		mw:         m,
		parent:     c,
	}
	nc.handler = func(ctx context.Context, req *Request) (*Response, error) {
		return m.Exchange(ctx, req, next, c)
	}

	return nc
}

// Call builds a request from the endpoint descriptor and the optional
// payload, pushes it through the middleware chain and returns the response
// envelope. The caller owns the envelope and must Close it.
func (c *Client) Call(ctx context.Context, ep Endpoint, payload url.Values) (*Response, error) {
	req, err := newRequest(c.BaseURL, ep, payload)
	if err != nil {
		return nil, err
	}

	res, err := c.handler(ctx, req)
	if err != nil || res == nil {
		return nil, err
	}

	res.shape = ep.Shape
	res.op = ep.label()

	return res, nil
}

// exchange is the transport executor terminating every chain: one HTTP
// round-trip, no retries.
func (c *Client) exchange(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = strings.NewReader(req.Body.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s %q: building request: %w", req.Method, req.URL.Path, err)
	}

	for k, vs := range req.Header {
		httpReq.Header[k] = vs
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	res, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", req.Method, req.URL.Path, err)
	}

	return newResponse(res), nil
}

// Close releases the client's middleware state, most recently attached
// first. It is idempotent: each middleware is disposed at most once, and
// in-flight requests are not cancelled. The first disposal error wins;
// later ones go to the Logger rather than being dropped.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		if d, ok := c.mw.(Disposer); ok {
			c.closeErr = d.Dispose(c.parent)
		}

		if c.parent == nil {
			return
		}

		if err := c.parent.Close(); err != nil {
			if c.closeErr == nil {
				c.closeErr = err
			} else if c.Logger != nil {
				c.Logger.Warn("additional error while closing client", "error", err)
			}
		}
	})

	return c.closeErr
}
