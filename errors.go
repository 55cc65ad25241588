// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

package fritz

import (
	"fmt"

	"github.com/moogar0880/problems"
)

// RequestFailedError reports a reply with a non-success HTTP status. The
// body, decoded on a best-effort basis, is carried along for diagnostics.
type RequestFailedError struct {
	StatusCode int
	Status     string

	// Body is the decoded response body, or the raw text when decoding
	// was not possible.
	Body interface{}

	// Problem is set when the reply carried an RFC 7807 problem document.
	Problem *problems.DefaultProblem
}

func (e *RequestFailedError) Error() string {
	if e.Problem != nil {
		return fmt.Sprintf("request failed: %d %s: %s",
			e.StatusCode, e.Problem.Title, e.Problem.Detail)
	}

	return fmt.Sprintf("request failed: %s", e.Status)
}

// SchemaError reports a response body that decoded fine but does not match
// the shape declared by the endpoint. It usually means a protocol version
// mismatch or a firmware change on the router.
type SchemaError struct {
	Op  string // endpoint label, e.g. the switchcmd name
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: response does not match expected shape: %v", e.Op, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }
