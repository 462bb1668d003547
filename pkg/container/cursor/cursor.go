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

// Package cursor abstracts forward, null-aware iteration over one typed
// column (spec.md §4.1). It hides the physical layout of the underlying
// vector behind a uniform capability surface, the way the teacher's
// FunctionParameterWrapper hides scalar/const/null variants behind
// GetValue/GetStrValue.
package cursor

import (
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
)

// Cursor is the capability surface every column cursor provides,
// regardless of element type.
type Cursor interface {
	HasMore() bool
	Length() int
	NonNullCount() int
	IsNullAt(idx int) bool
	IsNullCurrent() bool
	Advance()
	// NextAsU64 consumes the current element, advances, and returns its
	// bit pattern widened to 64 bits — the hash/key token.
	NextAsU64() uint64
	Type() types.Type
}

// Bind picks the narrowest cursor implementation for v's element type:
// a typed numeric cursor for fixed-width columns, a byte-view cursor for
// strings/binaries, and the boxed scalar fallback for everything else
// (nested/union/dictionary columns the generic strategy alone reads).
func Bind(v *vector.Vector) (Cursor, error) {
	typ := *v.GetType()
	switch {
	case typ.IsVarlen():
		return NewBytesCursor(v)
	case typ.IsNumeric() || typ.Oid == types.T_decimal128:
		if typ.Oid == types.T_decimal128 {
			return NewScalarCursor(v), nil
		}
		return NewNumericCursor(v)
	default:
		return NewScalarCursor(v), nil
	}
}

// BindError describes a bind-time type mismatch between a column and the
// cursor kind requested, so it can be reported as a configuration error
// rather than discovered lazily.
type BindError struct {
	Type types.Type
	Want string
}

func (e *BindError) Error() string {
	return "cursor: type " + e.Type.String() + " is not a valid " + e.Want + " column"
}
