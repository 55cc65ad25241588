// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

package fritz

import (
	"fmt"
	"net/http"
	"net/url"
)

// Request is one outgoing exchange as seen by the middleware chain. Stages
// mutate it in place on the way to the transport.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header

	// Body holds the form payload of non-GET requests. GET payloads are
	// folded into the URL query at construction time and Body stays nil;
	// the router does not accept bodies on GET.
	Body url.Values
}

func newRequest(base *url.URL, ep Endpoint, payload url.Values) (*Request, error) {
	ref, err := url.Parse(ep.Path)
	if err != nil {
		return nil, fmt.Errorf("malformed endpoint path %q: %w", ep.Path, err)
	}
	u := base.ResolveReference(ref)

	// Copy the payload so that middleware mutations never leak back into
	// the caller's values.
	vals := url.Values{}
	for k, vs := range payload {
		vals[k] = append([]string(nil), vs...)
	}
	if ep.Command != "" {
		vals.Set("switchcmd", ep.Command)
	}

	method := ep.Method
	if method == "" {
		if len(vals) > 0 {
			method = http.MethodPost
		} else {
			method = http.MethodGet
		}
	}

	req := &Request{
		Method: method,
		URL:    u,
		Header: http.Header{},
	}
	req.Header.Set("Accept", "application/json")

	if len(vals) > 0 {
		if method == http.MethodGet {
			q := u.Query()
			for k, vs := range vals {
				for _, v := range vs {
					q.Add(k, v)
				}
			}
			u.RawQuery = q.Encode()
		} else {
			req.Body = vals
		}
	}

	return req, nil
}
