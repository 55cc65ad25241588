// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

package fritz

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"

	"github.com/clbanning/mxj/v2"
	"github.com/moogar0880/problems"
)

func init() {
	// The router's XML leans heavily on attributes (identifier, product
	// name, bitmask all live there); fold them into plain map keys.
	mxj.SetAttrPrefix("")
}

// Response wraps exactly one raw HTTP reply. It owns the underlying body:
// the body is read at most once, the raw bytes are cached for repeated
// decoding, and Close cancels a body that was never read.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header

	mu     sync.Mutex
	body   io.ReadCloser
	raw    []byte
	read   bool
	closed bool

	shape func() interface{}
	op    string
}

func newResponse(res *http.Response) *Response {
	return &Response{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Header:     res.Header,
		body:       res.Body,
	}
}

// IsOK reports whether the status code is in the 2xx range.
func (r *Response) IsOK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// EnsureOK returns nil for a successful reply and a *RequestFailedError
// carrying the status and the best-effort decoded body otherwise.
func (r *Response) EnsureOK() error {
	if r.IsOK() {
		return nil
	}

	e := &RequestFailedError{StatusCode: r.StatusCode, Status: r.Status}

	data, err := r.readAll()
	if err != nil {
		// The failed status is the primary error; an unreadable body
		// must not mask it.
		return e
	}

	ct := contentType(r.Header)
	if ct == problems.ProblemMediaType {
		var prob problems.DefaultProblem
		if json.Unmarshal(data, &prob) == nil {
			e.Problem = &prob
		}
		e.Body = string(data)

		return e
	}

	if decoded, derr := decodeContent(ct, data); derr == nil {
		e.Body = decoded
	} else {
		e.Body = string(data)
	}

	return e
}

// RawData checks the status via EnsureOK and decodes the body according to
// the reply's Content-Type: JSON and XML become generic structures, anything
// else (including an absent content type) is returned as raw text.
func (r *Response) RawData() (interface{}, error) {
	if err := r.EnsureOK(); err != nil {
		return nil, err
	}

	data, err := r.readAll()
	if err != nil {
		return nil, err
	}

	return decodeContent(contentType(r.Header), data)
}

// Data decodes the body via RawData and coerces it into the endpoint's
// declared shape. A mismatch surfaces as a *SchemaError, never as a silent
// pass-through.
func (r *Response) Data() (interface{}, error) {
	raw, err := r.RawData()
	if err != nil {
		return nil, err
	}

	if r.shape == nil {
		return raw, nil
	}

	out := r.shape()
	if err := DecodeShape(raw, out); err != nil {
		return nil, &SchemaError{Op: r.op, Err: err}
	}

	return out, nil
}

// readAll consumes the body exactly once and caches the bytes; subsequent
// calls return the cache.
func (r *Response) readAll() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.read {
		return r.raw, nil
	}
	if r.closed {
		return nil, fmt.Errorf("response body already closed")
	}
	if r.body == nil {
		r.read = true
		return nil, nil
	}

	data, err := io.ReadAll(r.body)
	r.read = true
	closeErr := r.body.Close()

	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("closing response body: %w", closeErr)
	}

	r.raw = data

	return data, nil
}

// Close releases the response. An unread body is drained and closed so the
// connection can be reused; an already-read body is left alone. Close is
// idempotent and safe to call on every exit path.
func (r *Response) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if r.body == nil || r.read {
		return nil
	}

	_, copyErr := io.Copy(io.Discard, r.body)
	closeErr := r.body.Close()

	if copyErr != nil {
		return fmt.Errorf("draining response body: %w", copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing response body: %w", closeErr)
	}

	return nil
}

// contentType normalizes the Content-Type header: lowercase, parameters
// stripped, empty string when absent.
func contentType(h http.Header) string {
	ct := h.Get("Content-Type")
	if ct == "" {
		return ""
	}

	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}

	return strings.ToLower(strings.TrimSpace(strings.SplitN(ct, ";", 2)[0]))
}

func decodeContent(ct string, data []byte) (interface{}, error) {
	switch ct {
	case "application/json", "text/json":
		var v interface{}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decoding JSON body: %w", err)
		}
		return v, nil
	case "application/xml", "text/xml":
		m, err := mxj.NewMapXml(data)
		if err != nil {
			return nil, fmt.Errorf("decoding XML body: %w", err)
		}
		return map[string]interface{}(m), nil
	default:
		return string(data), nil
	}
}
