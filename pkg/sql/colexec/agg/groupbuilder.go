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

package agg

import (
	"github.com/streamql/colagg/pkg/common/aggerr"
	"github.com/streamql/colagg/pkg/container/cursor"
	"github.com/streamql/colagg/pkg/container/nulls"
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
)

type groupBuilderSlot[T types.FixedSizeT] struct {
	val    T
	isNull bool
}

// GroupBuilderFunc reconstructs a fixed-width grouping column's value in
// the output. It only ever initializes from the row that created a new
// group, and — because that row is not necessarily the next row in
// physical order relative to the last group it initialized — it reads by
// random access (value_at(row_idx)) rather than by sequential advance.
// UpdateRow/InitBatch/UpdateBatch are unreachable by construction (the
// base and one-group aggregators never call them on a GROUP_BUILDER) and
// panic if they are, since that would mean a dispatch bug upstream.
type GroupBuilderFunc[T types.FixedSizeT] struct {
	cur *cursor.NumericCursor[T]
	typ types.Type
	b   *vector.FixedBuilder[T]
}

func NewGroupBuilderFunc[T types.FixedSizeT](typ types.Type) *GroupBuilderFunc[T] {
	return &GroupBuilderFunc[T]{typ: typ, b: vector.NewFixedBuilder[T](typ)}
}

func (f *GroupBuilderFunc[T]) BindCursor(c cursor.Cursor) error {
	nc, ok := c.(*cursor.NumericCursor[T])
	if !ok {
		return aggerr.NewConfigError("GROUP_BUILDER: cursor type mismatch for column of type %s", f.typ)
	}
	f.cur = nc
	return nil
}

func (f *GroupBuilderFunc[T]) InitRow(rowIdx int) Slot {
	isNull := f.cur.IsNullAt(rowIdx)
	v := f.cur.ValueAt(rowIdx)
	return &groupBuilderSlot[T]{val: v, isNull: isNull}
}

func (f *GroupBuilderFunc[T]) UpdateRow(Slot) {
	panic(aggerr.NewConfigError("GROUP_BUILDER: UpdateRow is unreachable"))
}

func (f *GroupBuilderFunc[T]) InitBatch() Slot {
	panic(aggerr.NewConfigError("GROUP_BUILDER: InitBatch is unreachable"))
}

func (f *GroupBuilderFunc[T]) UpdateBatch(Slot) {
	panic(aggerr.NewConfigError("GROUP_BUILDER: UpdateBatch is unreachable"))
}

func (f *GroupBuilderFunc[T]) Reserve(n int) { f.b.Reserve(n) }

func (f *GroupBuilderFunc[T]) Summarize(slot Slot) {
	s := slot.(*groupBuilderSlot[T])
	f.b.Append(s.val, s.isNull)
}

func (f *GroupBuilderFunc[T]) Finish() *vector.Vector { return f.b.Finish() }

func (f *GroupBuilderFunc[T]) OutputType() types.Type { return f.typ }

type bytesGroupBuilderSlot struct {
	val    []byte
	isNull bool
}

// BytesGroupBuilderFunc is GroupBuilderFunc's counterpart for string and
// binary grouping columns: it owns a copy of the representative row's
// bytes, independent of the input batch's lifetime.
type BytesGroupBuilderFunc struct {
	cur *cursor.BytesCursor
	typ types.Type
	b   *vector.BytesBuilder
}

func NewBytesGroupBuilderFunc(typ types.Type) *BytesGroupBuilderFunc {
	return &BytesGroupBuilderFunc{typ: typ, b: vector.NewBytesBuilder(typ)}
}

func (f *BytesGroupBuilderFunc) BindCursor(c cursor.Cursor) error {
	bc, ok := c.(*cursor.BytesCursor)
	if !ok {
		return aggerr.NewConfigError("GROUP_BUILDER: cursor type mismatch for column of type %s", f.typ)
	}
	f.cur = bc
	return nil
}

func (f *BytesGroupBuilderFunc) InitRow(rowIdx int) Slot {
	isNull := f.cur.IsNullAt(rowIdx)
	v := f.cur.ByteViewAt(rowIdx)
	return &bytesGroupBuilderSlot{val: append([]byte(nil), v...), isNull: isNull}
}

func (f *BytesGroupBuilderFunc) UpdateRow(Slot) {
	panic(aggerr.NewConfigError("GROUP_BUILDER: UpdateRow is unreachable"))
}

func (f *BytesGroupBuilderFunc) InitBatch() Slot {
	panic(aggerr.NewConfigError("GROUP_BUILDER: InitBatch is unreachable"))
}

func (f *BytesGroupBuilderFunc) UpdateBatch(Slot) {
	panic(aggerr.NewConfigError("GROUP_BUILDER: UpdateBatch is unreachable"))
}

func (f *BytesGroupBuilderFunc) Reserve(n int) { f.b.Reserve(n) }

func (f *BytesGroupBuilderFunc) Summarize(slot Slot) {
	s := slot.(*bytesGroupBuilderSlot)
	f.b.Append(s.val, s.isNull)
}

func (f *BytesGroupBuilderFunc) Finish() *vector.Vector { return f.b.Finish() }

func (f *BytesGroupBuilderFunc) OutputType() types.Type { return f.typ }

// ScalarGroupBuilderFunc handles grouping columns that bind through
// ScalarCursor rather than NumericCursor/BytesCursor: decimal128 (not
// IsNumeric(), see cursor.Bind) and the nested/union/dictionary types
// with no scalar fixed-width or byte-view representation at all. It
// boxes the representative row's value through the same cursor the
// generic strategy reads its key through.
type ScalarGroupBuilderFunc struct {
	cur *cursor.ScalarCursor
	typ types.Type
	out []interface{}
	nsp []bool
}

func NewScalarGroupBuilderFunc(typ types.Type) *ScalarGroupBuilderFunc {
	return &ScalarGroupBuilderFunc{typ: typ}
}

func (f *ScalarGroupBuilderFunc) BindCursor(c cursor.Cursor) error {
	sc, ok := c.(*cursor.ScalarCursor)
	if !ok {
		return aggerr.NewConfigError("GROUP_BUILDER: cursor type mismatch for column of type %s", f.typ)
	}
	f.cur = sc
	return nil
}

type scalarGroupBuilderSlot struct {
	val    interface{}
	isNull bool
}

func (f *ScalarGroupBuilderFunc) InitRow(rowIdx int) Slot {
	isNull := f.cur.IsNullAt(rowIdx)
	v := f.cur.BoxedAt(rowIdx)
	return &scalarGroupBuilderSlot{val: v, isNull: isNull}
}

func (f *ScalarGroupBuilderFunc) UpdateRow(Slot) {
	panic(aggerr.NewConfigError("GROUP_BUILDER: UpdateRow is unreachable"))
}

func (f *ScalarGroupBuilderFunc) InitBatch() Slot {
	panic(aggerr.NewConfigError("GROUP_BUILDER: InitBatch is unreachable"))
}

func (f *ScalarGroupBuilderFunc) UpdateBatch(Slot) {
	panic(aggerr.NewConfigError("GROUP_BUILDER: UpdateBatch is unreachable"))
}

func (f *ScalarGroupBuilderFunc) Reserve(n int) {
	f.out = make([]interface{}, 0, n)
	f.nsp = make([]bool, 0, n)
}

func (f *ScalarGroupBuilderFunc) Summarize(slot Slot) {
	s := slot.(*scalarGroupBuilderSlot)
	f.out = append(f.out, s.val)
	f.nsp = append(f.nsp, s.isNull)
}

// Finish materializes this builder's captured rows into an output
// vector of the column's declared type. decimal128's boxed value is a
// real types.Int128 (cursor.NewScalarCursor's T_decimal128 case), so it
// re-lays into a proper fixed-width column; nested/union/dictionary
// types box to nil (scalar-probe only, per NewScalarCursor's default
// case), so their output vector records length and nullness only, via
// NewNullOnlyVec, rather than dropping the column altogether.
func (f *ScalarGroupBuilderFunc) Finish() *vector.Vector {
	nsp := nulls.New()
	for i, isNull := range f.nsp {
		if isNull {
			nsp.Add(uint32(i))
		}
	}
	if f.typ.Oid == types.T_decimal128 {
		col := make([]types.Int128, len(f.out))
		for i, v := range f.out {
			if iv, ok := v.(types.Int128); ok {
				col[i] = iv
			}
		}
		return vector.NewFixedVec(f.typ, col, nsp)
	}
	return vector.NewNullOnlyVec(f.typ, len(f.nsp), nsp)
}

func (f *ScalarGroupBuilderFunc) OutputType() types.Type { return f.typ }
