// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

package fritz

import "context"

// Handler advances an exchange to the next stage of the middleware chain.
// The innermost handler is the transport itself.
type Handler func(ctx context.Context, req *Request) (*Response, error)

// Middleware intercepts exchanges on their way through a Client. A stage may
// rewrite the request, call next (zero or more times) and observe or replace
// the response.
type Middleware interface {
	// Exchange processes one request. base is the client below this stage;
	// requests issued through it do not re-enter the stage, which lets
	// middleware talk to the router without recursing into itself.
	Exchange(ctx context.Context, req *Request, next Handler, base *Client) (*Response, error)
}

// Disposer is implemented by middleware that holds state which must be
// released when the owning client is closed. Dispose runs exactly once per
// middleware no matter how often the client is closed.
type Disposer interface {
	Dispose(base *Client) error
}
