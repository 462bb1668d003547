// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package aggerr is this module's error type. It carries the one
// distinction the engine's callers actually branch on — configuration
// error versus runtime error — instead of the teacher's full moerr code
// space, which exists to match codes to a SQL error catalogue this module
// has no use for.
package aggerr

import "fmt"

// Kind is the closed set of ways the engine can fail.
type Kind uint8

const (
	// KindConfig marks a failure discovered while binding operators to a
	// schema: an unsupported aggregate/type pairing, a GROUP BY key list
	// that doesn't match the input schema, a sort key referencing an
	// unknown column. Always raised before the first row is consumed.
	KindConfig Kind = iota
	// KindRuntime marks a failure discovered while consuming rows: an
	// arithmetic overflow past the widened accumulator's range, a
	// malformed batch (mismatched column lengths), a resource limit.
	KindRuntime
	// KindOverflow marks a runtime failure specifically caused by a
	// SUM/AVG accumulator exceeding the range of its widened type and
	// having nowhere further to widen. It is a Kind of its own:
	// Is(err, KindRuntime) is false for an overflow error.
	KindOverflow
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindRuntime:
		return "runtime"
	case KindOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// Error is the engine's single error type. Every error the engine returns
// is fatal to the operator that raised it: there is no retry or partial
// result convention here.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *Error) Kind() Kind {
	return e.kind
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// NewConfigError reports a bind-time failure: an aggregate/type pairing,
// key list, or schema mismatch the engine cannot execute.
func NewConfigError(format string, args ...any) *Error {
	return newError(KindConfig, format, args...)
}

// NewRuntimeError reports a failure discovered while consuming a batch.
func NewRuntimeError(format string, args ...any) *Error {
	return newError(KindRuntime, format, args...)
}

// NewOverflowError reports a SUM/AVG accumulator that exceeded the range
// of its widened type with no further widening available.
func NewOverflowError(format string, args ...any) *Error {
	return newError(KindOverflow, format, args...)
}

// Is reports whether err is an *Error of the given Kind, so checks work
// against the Kind rather than a specific message. There are no sentinel
// error values.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.kind == kind
}
