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
	"bytes"

	"github.com/streamql/colagg/pkg/common/aggerr"
	"github.com/streamql/colagg/pkg/container/cursor"
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
)

// ordered is the set of fixed-width types MIN/MAX compares with Go's
// native operators, which covers every FixedSizeT except Int128 and bool
// (bool has no natural order in SQL MIN/MAX, so it is excluded by the
// factory rather than here).
type ordered interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

type minmaxSlot[T ordered] struct {
	val   T
	unset bool
}

// MinMaxFunc implements MIN/MAX over a fixed-width ordered type.
type MinMaxFunc[T ordered] struct {
	typ   types.Type
	isMax bool
	cur   *cursor.NumericCursor[T]
	b     *vector.FixedBuilder[T]
}

func NewMinMaxFunc[T ordered](typ types.Type, isMax bool) *MinMaxFunc[T] {
	return &MinMaxFunc[T]{typ: typ, isMax: isMax, b: vector.NewFixedBuilder[T](typ)}
}

func (f *MinMaxFunc[T]) BindCursor(c cursor.Cursor) error {
	nc, ok := c.(*cursor.NumericCursor[T])
	if !ok {
		return aggerr.NewConfigError("MIN/MAX: cursor type mismatch for column of type %s", f.typ)
	}
	f.cur = nc
	return nil
}

func (f *MinMaxFunc[T]) better(a, b T) bool {
	if f.isMax {
		return a > b
	}
	return a < b
}

func (f *MinMaxFunc[T]) InitRow(rowIdx int) Slot {
	isNull := f.cur.IsNullCurrent()
	v := f.cur.NextValue()
	if isNull {
		return &minmaxSlot[T]{unset: true}
	}
	return &minmaxSlot[T]{val: v}
}

func (f *MinMaxFunc[T]) UpdateRow(slot Slot) {
	isNull := f.cur.IsNullCurrent()
	v := f.cur.NextValue()
	if isNull {
		return
	}
	s := slot.(*minmaxSlot[T])
	if s.unset || f.better(v, s.val) {
		s.val, s.unset = v, false
	}
}

func (f *MinMaxFunc[T]) InitBatch() Slot { return &minmaxSlot[T]{unset: true} }

func (f *MinMaxFunc[T]) UpdateBatch(slot Slot) {
	s := slot.(*minmaxSlot[T])
	for f.cur.HasMore() {
		isNull := f.cur.IsNullCurrent()
		v := f.cur.NextValue()
		if isNull {
			continue
		}
		if s.unset || f.better(v, s.val) {
			s.val, s.unset = v, false
		}
	}
}

func (f *MinMaxFunc[T]) Reserve(n int) { f.b.Reserve(n) }

func (f *MinMaxFunc[T]) Summarize(slot Slot) {
	s := slot.(*minmaxSlot[T])
	f.b.Append(s.val, s.unset)
}

func (f *MinMaxFunc[T]) Finish() *vector.Vector { return f.b.Finish() }

func (f *MinMaxFunc[T]) OutputType() types.Type { return f.typ }

type float16MinMaxSlot struct {
	val   uint16
	unset bool
}

// Float16MinMaxFunc implements MIN/MAX over T_float16 columns. The column
// is stored as a raw binary16 bit pattern (ordered's native uint16 `<`/`>`
// would compare bit patterns, not float values — wrong for negatives), so
// this follows BytesMinMaxFunc's shape instead: a dedicated struct with a
// decode-then-compare `better`, rather than the generic ordered type.
type Float16MinMaxFunc struct {
	typ   types.Type
	isMax bool
	cur   *cursor.NumericCursor[uint16]
	b     *vector.FixedBuilder[uint16]
}

func NewFloat16MinMaxFunc(typ types.Type, isMax bool) *Float16MinMaxFunc {
	return &Float16MinMaxFunc{typ: typ, isMax: isMax, b: vector.NewFixedBuilder[uint16](typ)}
}

func (f *Float16MinMaxFunc) BindCursor(c cursor.Cursor) error {
	nc, ok := c.(*cursor.NumericCursor[uint16])
	if !ok {
		return aggerr.NewConfigError("MIN/MAX: cursor type mismatch for column of type %s", f.typ)
	}
	f.cur = nc
	return nil
}

func (f *Float16MinMaxFunc) better(a, b uint16) bool {
	af, bf := types.Float16BitsToFloat32(a), types.Float16BitsToFloat32(b)
	if f.isMax {
		return af > bf
	}
	return af < bf
}

func (f *Float16MinMaxFunc) InitRow(rowIdx int) Slot {
	isNull := f.cur.IsNullCurrent()
	v := f.cur.NextValue()
	if isNull {
		return &float16MinMaxSlot{unset: true}
	}
	return &float16MinMaxSlot{val: v}
}

func (f *Float16MinMaxFunc) UpdateRow(slot Slot) {
	isNull := f.cur.IsNullCurrent()
	v := f.cur.NextValue()
	if isNull {
		return
	}
	s := slot.(*float16MinMaxSlot)
	if s.unset || f.better(v, s.val) {
		s.val, s.unset = v, false
	}
}

func (f *Float16MinMaxFunc) InitBatch() Slot { return &float16MinMaxSlot{unset: true} }

func (f *Float16MinMaxFunc) UpdateBatch(slot Slot) {
	s := slot.(*float16MinMaxSlot)
	for f.cur.HasMore() {
		isNull := f.cur.IsNullCurrent()
		v := f.cur.NextValue()
		if isNull {
			continue
		}
		if s.unset || f.better(v, s.val) {
			s.val, s.unset = v, false
		}
	}
}

func (f *Float16MinMaxFunc) Reserve(n int) { f.b.Reserve(n) }

func (f *Float16MinMaxFunc) Summarize(slot Slot) {
	s := slot.(*float16MinMaxSlot)
	f.b.Append(s.val, s.unset)
}

func (f *Float16MinMaxFunc) Finish() *vector.Vector { return f.b.Finish() }

func (f *Float16MinMaxFunc) OutputType() types.Type { return f.typ }

type bytesMinMaxSlot struct {
	val   []byte
	unset bool
}

// BytesMinMaxFunc implements MIN/MAX over strings/binaries, compared
// lexicographically by unsigned byte value.
type BytesMinMaxFunc struct {
	typ   types.Type
	isMax bool
	cur   *cursor.BytesCursor
	b     *vector.BytesBuilder
}

func NewBytesMinMaxFunc(typ types.Type, isMax bool) *BytesMinMaxFunc {
	return &BytesMinMaxFunc{typ: typ, isMax: isMax, b: vector.NewBytesBuilder(typ)}
}

func (f *BytesMinMaxFunc) BindCursor(c cursor.Cursor) error {
	bc, ok := c.(*cursor.BytesCursor)
	if !ok {
		return aggerr.NewConfigError("MIN/MAX: cursor type mismatch for column of type %s", f.typ)
	}
	f.cur = bc
	return nil
}

func (f *BytesMinMaxFunc) better(a, b []byte) bool {
	c := bytes.Compare(a, b)
	if f.isMax {
		return c > 0
	}
	return c < 0
}

func (f *BytesMinMaxFunc) InitRow(rowIdx int) Slot {
	isNull := f.cur.IsNullCurrent()
	v := f.cur.NextView()
	if isNull {
		return &bytesMinMaxSlot{unset: true}
	}
	return &bytesMinMaxSlot{val: append([]byte(nil), v...)}
}

func (f *BytesMinMaxFunc) UpdateRow(slot Slot) {
	isNull := f.cur.IsNullCurrent()
	v := f.cur.NextView()
	if isNull {
		return
	}
	s := slot.(*bytesMinMaxSlot)
	if s.unset || f.better(v, s.val) {
		s.val = append([]byte(nil), v...)
		s.unset = false
	}
}

func (f *BytesMinMaxFunc) InitBatch() Slot { return &bytesMinMaxSlot{unset: true} }

func (f *BytesMinMaxFunc) UpdateBatch(slot Slot) {
	s := slot.(*bytesMinMaxSlot)
	for f.cur.HasMore() {
		isNull := f.cur.IsNullCurrent()
		v := f.cur.NextView()
		if isNull {
			continue
		}
		if s.unset || f.better(v, s.val) {
			s.val = append([]byte(nil), v...)
			s.unset = false
		}
	}
}

func (f *BytesMinMaxFunc) Reserve(n int) { f.b.Reserve(n) }

func (f *BytesMinMaxFunc) Summarize(slot Slot) {
	s := slot.(*bytesMinMaxSlot)
	f.b.Append(s.val, s.unset)
}

func (f *BytesMinMaxFunc) Finish() *vector.Vector { return f.b.Finish() }

func (f *BytesMinMaxFunc) OutputType() types.Type { return f.typ }
