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

package vector

import (
	"github.com/streamql/colagg/pkg/container/nulls"
	"github.com/streamql/colagg/pkg/container/types"
)

// FixedBuilder accumulates one output column of a fixed-width type,
// mirroring the teacher's FunctionResult[T].Append surface.
type FixedBuilder[T types.FixedSizeT] struct {
	typ types.Type
	col []T
	nsp []bool
}

func NewFixedBuilder[T types.FixedSizeT](typ types.Type) *FixedBuilder[T] {
	return &FixedBuilder[T]{typ: typ}
}

func (b *FixedBuilder[T]) Reserve(n int) {
	if cap(b.col) < len(b.col)+n {
		grown := make([]T, len(b.col), len(b.col)+n)
		copy(grown, b.col)
		b.col = grown
		grownNsp := make([]bool, len(b.nsp), len(b.nsp)+n)
		copy(grownNsp, b.nsp)
		b.nsp = grownNsp
	}
}

func (b *FixedBuilder[T]) Append(val T, isNull bool) {
	b.col = append(b.col, val)
	b.nsp = append(b.nsp, isNull)
}

func (b *FixedBuilder[T]) AppendNull() {
	var zero T
	b.Append(zero, true)
}

func (b *FixedBuilder[T]) Finish() *Vector {
	nsp := nulls.New()
	for i, isNull := range b.nsp {
		if isNull {
			nsp.Set(uint32(i))
		}
	}
	return NewFixedVec(b.typ, b.col, nsp)
}

// BytesBuilder accumulates one output column of a variable-width type.
type BytesBuilder struct {
	typ  types.Type
	rows [][]byte
	nsp  []bool
}

func NewBytesBuilder(typ types.Type) *BytesBuilder {
	return &BytesBuilder{typ: typ}
}

func (b *BytesBuilder) Reserve(n int) {
	if cap(b.rows) < len(b.rows)+n {
		grown := make([][]byte, len(b.rows), len(b.rows)+n)
		copy(grown, b.rows)
		b.rows = grown
	}
}

func (b *BytesBuilder) Append(val []byte, isNull bool) {
	if isNull {
		b.rows = append(b.rows, nil)
	} else {
		owned := make([]byte, len(val))
		copy(owned, val)
		b.rows = append(b.rows, owned)
	}
	b.nsp = append(b.nsp, isNull)
}

func (b *BytesBuilder) AppendNull() {
	b.Append(nil, true)
}

func (b *BytesBuilder) Finish() *Vector {
	nsp := nulls.New()
	for i, isNull := range b.nsp {
		if isNull {
			nsp.Set(uint32(i))
		}
	}
	return NewBytesVec(b.typ, b.rows, nsp)
}
