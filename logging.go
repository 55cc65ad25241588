// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

package fritz

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// NewLoggingMiddleware returns middleware that logs every exchange with slog
// and tags it with a correlation ID, carried on the X-Request-Id header.
// Only the path is logged, never the query string, which may hold the
// session ID.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return &loggingMiddleware{logger: logger}
}

type loggingMiddleware struct {
	logger *slog.Logger
}

func (m *loggingMiddleware) Exchange(
	ctx context.Context,
	req *Request,
	next Handler,
	base *Client,
) (*Response, error) {
	id := uuid.NewString()
	req.Header.Set("X-Request-Id", id)

	start := time.Now()

	res, err := next(ctx, req)
	if err != nil {
		m.logger.Error("request failed",
			"request_id", id,
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
		)
		return nil, err
	}

	m.logger.Info("request",
		"request_id", id,
		"method", req.Method,
		"path", req.URL.Path,
		"status", res.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return res, nil
}
