// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errdefs defines the error taxonomy shared by the signing and
// verification pipelines. Every fatal failure carries a Kind so callers can
// tell I/O problems apart from malformed input, key problems, cryptographic
// rejection and policy rejection.
package errdefs

import (
	"errors"
	"fmt"
)

// Kind represents the category of a pipeline error.
type Kind int

const (
	// KindUnknown indicates an unclassified error.
	KindUnknown Kind = iota

	// KindIO indicates a file is missing, unreadable or unwritable.
	KindIO

	// KindFormat indicates malformed structured input: bad JSON, a missing
	// bill-of-materials marker, a malformed sidecar or policy file.
	KindFormat

	// KindKey indicates a key file is missing or cannot be decoded.
	KindKey

	// KindCryptographic indicates the signature does not verify.
	KindCryptographic

	// KindPolicy indicates a cryptographically valid signature was rejected
	// by the configured trust policy.
	KindPolicy

	// KindDelivery indicates the remote mirror could not be reached.
	// It is logged and never returned from a pipeline.
	KindDelivery
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "IOError"
	case KindFormat:
		return "FormatError"
	case KindKey:
		return "KeyError"
	case KindCryptographic:
		return "CryptographicFailure"
	case KindPolicy:
		return "PolicyViolation"
	case KindDelivery:
		return "DeliveryWarning"
	default:
		return "UnknownError"
	}
}

// Error is the structured error returned by pipeline stages.
//
// Example usage:
//
//	var e *errdefs.Error
//	if errors.As(err, &e) && e.Kind == errdefs.KindPolicy {
//	    fmt.Println("rejected by policy:", e.Message)
//	}
type Error struct {
	// Kind categorizes the error for programmatic handling.
	Kind Kind

	// Path is the file involved in the failure, if any.
	Path string

	// Message is a human-readable, user-visible description.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (path: %s)", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for error chain unwrapping.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode maps the error kind to a process exit status. Policy rejections
// exit with 2 so scripts can tell them apart from every other failure.
func (e *Error) ExitCode() int {
	if e.Kind == KindPolicy {
		return 2
	}
	return 1
}

// New creates an error of the given kind without a path.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// NewWithPath creates an error of the given kind tied to a file path.
func NewWithPath(kind Kind, path, message string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Message: message, Cause: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
