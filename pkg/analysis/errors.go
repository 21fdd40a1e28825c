// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package analysis

import (
	"fmt"
)

// ErrorKind categorises the failures reported by an analysis.
type ErrorKind uint8

const (
	// InvalidNest indicates malformed hierarchy flags, inconsistent level or
	// dimension counts, or a zero fan-out spatial level.
	InvalidNest ErrorKind = iota
	// AnalysisNotReady indicates results were requested before the traversal
	// completed (or before Init).
	AnalysisNotReady
	// OutOfRange indicates an index transform producing a point outside the
	// declared bounds of the workload.
	OutOfRange
	// AccurateTooExpensive indicates accurate multicast analysis was requested
	// for a fan-out beyond the configured limit.
	AccurateTooExpensive
	// UnknownVersion indicates a serialised analysis of an unsupported version.
	UnknownVersion
	// AlreadyComputed indicates a second traversal without an intervening Init.
	AlreadyComputed
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidNest:
		return "invalid nest"
	case AnalysisNotReady:
		return "analysis not ready"
	case OutOfRange:
		return "out of range"
	case AccurateTooExpensive:
		return "accurate multicast too expensive"
	case UnknownVersion:
		return "unknown version"
	case AlreadyComputed:
		return "already computed"
	default:
		return "unknown"
	}
}

// Error is the structured error returned by every analysis operation.
type Error struct {
	Kind ErrorKind
	// Op names the operation which failed.
	Op string
	// Message gives a human-readable explanation.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// Sentinel errors for use with errors.Is.
var (
	ErrInvalidNest          = &Error{Kind: InvalidNest}
	ErrAnalysisNotReady     = &Error{Kind: AnalysisNotReady}
	ErrOutOfRange           = &Error{Kind: OutOfRange}
	ErrAccurateTooExpensive = &Error{Kind: AccurateTooExpensive}
	ErrUnknownVersion       = &Error{Kind: UnknownVersion}
	ErrAlreadyComputed      = &Error{Kind: AlreadyComputed}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s in %s: %s (caused by: %v)", e.Kind, e.Op, e.Message, e.Err)
	} else if e.Op == "" {
		return e.Kind.String()
	}
	//
	return fmt.Sprintf("%s in %s: %s", e.Kind, e.Op, e.Message)
}

// Unwrap allows error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any error of the same kind, so that errors.Is(err, ErrOutOfRange)
// holds for every out-of-range failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	//
	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

func invalidNest(op string, format string, args ...any) *Error {
	return newError(InvalidNest, op, format, args...)
}
