// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package govinfo

import (
	"errors"
	"fmt"
)

// ErrNotImplemented marks endpoints that are known but not yet served.
var ErrNotImplemented = errors.New("not implemented")

// ConfigError reports a URI whose first path segment names no GovInfo
// endpoint. It is a caller error, not a "this URI is not mine" answer.
type ConfigError struct {
	Segment string
}

func (e *ConfigError) Error() string {
	if e.Segment == "" {
		return "govinfo: URI path names no endpoint (want one of collections, packages, published, related)"
	}
	return fmt.Sprintf("govinfo: unknown endpoint %q (want one of collections, packages, published, related)", e.Segment)
}

// IsConfigError returns true when err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// NotImplementedError reports a URI routed to an endpoint that has no
// acceptance rule yet.
type NotImplementedError struct {
	Endpoint Endpoint
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("govinfo: %s endpoint: %v", e.Endpoint, ErrNotImplemented)
}

func (e *NotImplementedError) Unwrap() error { return ErrNotImplemented }

// IsNotImplemented returns true when err is (or wraps) a NotImplementedError.
func IsNotImplemented(err error) bool {
	return errors.Is(err, ErrNotImplemented)
}

// ParseError reports a response record that could not be mapped to a row.
// One ParseError fails the whole fetch.
type ParseError struct {
	Index int    // position of the record in the packages array
	Field string // remote field name, e.g. "lastModified"
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("govinfo: package %d: field %s: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("govinfo: package %d: field %s %q: %v", e.Index, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
