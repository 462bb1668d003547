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

// Package vector implements the columnar storage this module's engine
// consumes: a typed, null-aware, equal-length column. It plays the same
// role as the teacher's container/vector package, trimmed to the subset
// of physical layouts the aggregation engine actually reads: a fixed-width
// buffer for numeric/temporal/boolean columns, or a row-indexed byte-slice
// list for strings and binaries.
package vector

import (
	"unsafe"

	"github.com/streamql/colagg/pkg/container/nulls"
	"github.com/streamql/colagg/pkg/container/types"
)

// Vector is a single typed column.
type Vector struct {
	typ    types.Type
	nsp    *nulls.Nulls
	data   []byte   // backing buffer for fixed-width types
	bytes  [][]byte // backing rows for varlen types
	length int
}

func NewVec(typ types.Type) *Vector {
	return &Vector{typ: typ, nsp: nulls.New()}
}

func (v *Vector) GetType() *types.Type {
	return &v.typ
}

func (v *Vector) Length() int {
	return v.length
}

func (v *Vector) SetLength(n int) {
	v.length = n
}

func (v *Vector) GetNulls() *nulls.Nulls {
	return v.nsp
}

func (v *Vector) SetNulls(n *nulls.Nulls) {
	v.nsp = n
}

func (v *Vector) IsNull(row int) bool {
	return v.nsp.Contains(uint32(row))
}

func (v *Vector) SetData(data []byte, length int) {
	v.data = data
	v.length = length
}

func (v *Vector) SetBytes(rows [][]byte) {
	v.bytes = rows
	v.length = len(rows)
}

func (v *Vector) RawData() []byte {
	return v.data
}

func (v *Vector) RawBytes() [][]byte {
	return v.bytes
}

// FixedCol reinterprets a fixed-width column's backing buffer as a []T
// without copying, matching the teacher's MustFixedCol idiom.
func FixedCol[T types.FixedSizeT](v *Vector) []T {
	if v.length == 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	return unsafe.Slice((*T)(unsafe.Pointer(&v.data[0])), len(v.data)/size)
}

// NewFixedVec builds a Vector directly from a typed slice.
func NewFixedVec[T types.FixedSizeT](typ types.Type, col []T, nsp *nulls.Nulls) *Vector {
	v := &Vector{typ: typ, nsp: nsp, length: len(col)}
	if len(col) > 0 {
		var zero T
		size := int(unsafe.Sizeof(zero))
		v.data = unsafe.Slice((*byte)(unsafe.Pointer(&col[0])), len(col)*size)
	}
	return v
}

// NewBytesVec builds a varlen Vector from a list of row byte slices. A nil
// entry at position i combined with nsp marking i as null is how a NULL
// string row is represented; a non-nil, zero-length entry is an empty
// string, not NULL.
func NewBytesVec(typ types.Type, rows [][]byte, nsp *nulls.Nulls) *Vector {
	return &Vector{typ: typ, nsp: nsp, bytes: rows, length: len(rows)}
}

func (v *Vector) BytesAt(row int) []byte {
	return v.bytes[row]
}

// NewNullOnlyVec builds a Vector for a type with no fixed-width or
// varlen layout this package materializes (nested/union/dictionary):
// only its length and null bitmap carry meaning. FixedCol/BytesAt must
// not be called against the result.
func NewNullOnlyVec(typ types.Type, length int, nsp *nulls.Nulls) *Vector {
	return &Vector{typ: typ, nsp: nsp, length: length}
}
