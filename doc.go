// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

/*
Package fritz implements a client for the FRITZ!Box HTTP control API.

A Client is pointed at the router's base URL and issues calls described by
static Endpoint descriptors. Cross-cutting behavior is layered on through
middleware; the auth subpackage provides the session middleware that logs in
on first use and injects the session ID into every request:

	base, err := fritz.New("http://fritz.box")
	if err != nil { ... }

	strategy := &auth.UserPass{Username: "fritz1234", Password: "secret"}
	client := base.With(auth.NewSessionMiddleware(strategy))
	defer client.Close()

	ha, err := homeauto.NewService(client)
	if err != nil { ... }

	devices, err := ha.ListDevices(ctx)

Each call returns a Response envelope that owns the underlying body. The
envelope decodes the body according to the Content-Type of the reply (JSON,
XML or raw text) and validates it against the endpoint's declared shape:

	res, err := client.Call(ctx, someEndpoint, nil)
	if err != nil { ... }
	defer res.Close()

	data, err := res.Data()

Closing an unread envelope cancels the body; closing is idempotent and safe
on every exit path.
*/
package fritz
