// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

package fritz

import (
	"net/http"
	"net/http/httptest"
)

// NewTestingClient creates an HTTP test server (with a configurable request
// handler) and a Client pointed at it. The server's shutdown switch is
// returned alongside the client.
func NewTestingClient(handler http.Handler) (cli *Client, closerFn func()) {
	srv := httptest.NewServer(handler)

	cli, err := New(srv.URL)
	if err != nil {
		srv.Close()
		panic(err) // srv.URL is always a valid absolute URL
	}

	return cli, srv.Close
}
