// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

// Package auth implements the router's login protocol: the version-dispatched
// challenge-response computation, pluggable login strategies and the session
// middleware that injects the session ID into every request.
package auth

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	fritz "github.com/ShortDevelopment/fritz-go"
)

// Session is one authenticated router session.
type Session struct {
	SID string
}

// Strategy obtains and releases sessions. Implementations talk to the router
// through the client they are handed, which sits below the session
// middleware in the chain.
type Strategy interface {
	Login(ctx context.Context, c *fritz.Client) (*Session, error)
	Logout(ctx context.Context, c *fritz.Client, s *Session) error
}

// SessionMiddleware lazily logs in on the first request and injects the
// session ID into the URL query and, when a form body is present, into the
// body of every request. At most one session is alive per middleware
// instance: concurrent first requests share a single login via singleflight.
type SessionMiddleware struct {
	strategy Strategy

	group singleflight.Group

	mu      sync.Mutex
	session *Session
}

// NewSessionMiddleware wraps a login strategy into chain middleware.
func NewSessionMiddleware(s Strategy) *SessionMiddleware {
	return &SessionMiddleware{strategy: s}
}

// Exchange implements fritz.Middleware.
func (m *SessionMiddleware) Exchange(
	ctx context.Context,
	req *fritz.Request,
	next fritz.Handler,
	base *fritz.Client,
) (*fritz.Response, error) {
	sess, err := m.current(ctx, base)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("sid", sess.SID)
	req.URL.RawQuery = q.Encode()

	if req.Body != nil {
		req.Body.Set("sid", sess.SID)
	}

	return next(ctx, req)
}

// current returns the live session, logging in if none exists yet.
func (m *SessionMiddleware) current(ctx context.Context, base *fritz.Client) (*Session, error) {
	m.mu.Lock()
	sess := m.session
	m.mu.Unlock()

	if sess != nil {
		return sess, nil
	}

	v, err, _ := m.group.Do("login", func() (interface{}, error) {
		// A previous flight may have finished between the check above
		// and this one.
		m.mu.Lock()
		sess := m.session
		m.mu.Unlock()
		if sess != nil {
			return sess, nil
		}

		sess, err := m.strategy.Login(ctx, base)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.session = sess
		m.mu.Unlock()

		return sess, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Session), nil
}

// Dispose implements fritz.Disposer: it logs the session out and clears it,
// so a closed client cannot issue authenticated calls without a fresh login.
// Only the first call can trigger a logout.
func (m *SessionMiddleware) Dispose(base *fritz.Client) error {
	m.mu.Lock()
	sess := m.session
	m.session = nil
	m.mu.Unlock()

	if sess == nil {
		return nil
	}

	return m.strategy.Logout(context.Background(), base, sess)
}
