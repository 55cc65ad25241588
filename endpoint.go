// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

package fritz

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Endpoint pins one router operation: its HTTP verb, its path and the shape
// of the expected response. Endpoints are pure data, defined once per
// operation, and are the single source of truth for both request encoding
// and response validation.
type Endpoint struct {
	// Method is the HTTP method. When empty it is derived per call: POST
	// if a payload is supplied, GET otherwise.
	Method string

	// Path is resolved against the client's base URL. It may carry fixed
	// query parameters, e.g. "/login_sid.lua?version=2".
	Path string

	// Command is the switchcmd discriminant injected into the payload of
	// homeautoswitch operations. Empty for endpoints without one.
	Command string

	// Shape returns a fresh instance of the structure the response body is
	// expected to decode into. A nil Shape leaves the decoded body as-is.
	Shape func() interface{}
}

func (e Endpoint) label() string {
	if e.Command != "" {
		return e.Command
	}

	return e.Path
}

var shapeValidator = validator.New()

// DecodeShape coerces a decoded response body into shape and checks the
// shape's validation constraints. The shape itself is plain data; this
// function is the only place validation semantics live.
func DecodeShape(raw interface{}, shape interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           shape,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	if err := dec.Decode(raw); err != nil {
		return err
	}

	// Validation tags only make sense on structs; scalar shapes are done.
	v := reflect.ValueOf(shape)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	return shapeValidator.Struct(shape)
}
