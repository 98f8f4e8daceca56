// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package media

import (
	"errors"
	"fmt"
)

// ErrResourceUnavailable is returned when the extractor reports that the
// source cannot be fetched at all (removed, private, geo-blocked).
var ErrResourceUnavailable = errors.New("media resource unavailable")

// NotAvailableError reports a requested encoding that is absent from the
// freshly resolved catalog. It is correctable by the client.
type NotAvailableError struct {
	Format  Format
	Quality string
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("quality %q is not available for format %q", e.Quality, e.Format)
}

// ToolErrorKind classifies extractor failures.
type ToolErrorKind string

const (
	KindProcessFailure ToolErrorKind = "process_failure"
	KindTimeout        ToolErrorKind = "timeout"
	KindParseFailure   ToolErrorKind = "parse_failure"
	KindBufferOverflow ToolErrorKind = "buffer_overflow"
)

// ToolError is returned when the extractor subprocess misbehaves.
// Stderr may contain internal detail and must never reach a client.
type ToolError struct {
	Kind   ToolErrorKind
	Mode   string // "probe" or "fetch"
	Stderr string // bounded tail of the process stderr
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("extractor %s %s", e.Mode, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stderr != "" {
		msg += " (stderr: " + e.Stderr + ")"
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// IsToolError reports whether err is a ToolError of the given kind.
func IsToolError(err error, kind ToolErrorKind) bool {
	var te *ToolError
	if !errors.As(err, &te) {
		return false
	}
	return te.Kind == kind
}
