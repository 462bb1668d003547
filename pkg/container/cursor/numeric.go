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

package cursor

import (
	"math"

	"github.com/streamql/colagg/pkg/container/nulls"
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
)

// NumericCursor walks a fixed-width numeric, boolean, or temporal column,
// exposing both the native-typed value and its 64-bit hash token.
type NumericCursor[T types.FixedSizeT] struct {
	col   []T
	nsp   *nulls.Nulls
	typ   types.Type
	pos   int
	widen func(T) uint64
}

func BindNumeric[T types.FixedSizeT](v *vector.Vector, widen func(T) uint64) *NumericCursor[T] {
	return &NumericCursor[T]{
		col:   vector.FixedCol[T](v),
		nsp:   v.GetNulls(),
		typ:   *v.GetType(),
		widen: widen,
	}
}

func (c *NumericCursor[T]) Type() types.Type    { return c.typ }
func (c *NumericCursor[T]) Length() int         { return len(c.col) }
func (c *NumericCursor[T]) HasMore() bool       { return c.pos < len(c.col) }
func (c *NumericCursor[T]) IsNullCurrent() bool { return c.nsp.Contains(uint32(c.pos)) }
func (c *NumericCursor[T]) IsNullAt(idx int) bool {
	return c.nsp.Contains(uint32(idx))
}
func (c *NumericCursor[T]) NonNullCount() int {
	return len(c.col) - c.nsp.Count()
}
func (c *NumericCursor[T]) Advance() { c.pos++ }

func (c *NumericCursor[T]) NextAsU64() uint64 {
	v := c.col[c.pos]
	c.pos++
	return c.widen(v)
}

// NextValue consumes the current element, advances, and returns its
// native-typed value. The value is meaningless if IsNullCurrent() was true.
func (c *NumericCursor[T]) NextValue() T {
	v := c.col[c.pos]
	c.pos++
	return v
}

func (c *NumericCursor[T]) ValueAt(idx int) T {
	return c.col[idx]
}

// Widen* convert a native numeric/boolean/temporal value to its 64-bit
// hash token, per spec.md §4.1.
func WidenInt8(v int8) uint64     { return uint64(uint8(v)) | u64SignExt(uint64(uint8(v)), 8) }
func WidenInt16(v int16) uint64   { return u64SignExt(uint64(uint16(v)), 16) }
func WidenInt32(v int32) uint64   { return u64SignExt(uint64(uint32(v)), 32) }
func WidenInt64(v int64) uint64   { return uint64(v) }
func WidenUint8(v uint8) uint64   { return uint64(v) }
func WidenUint16(v uint16) uint64 { return uint64(v) }
func WidenUint32(v uint32) uint64 { return uint64(v) }
func WidenUint64(v uint64) uint64 { return v }
func WidenBool(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}
func WidenFloat32(v float32) uint64 { return uint64(math.Float32bits(v)) }
func WidenFloat64(v float64) uint64 { return math.Float64bits(v) }

// WidenFloat16 widens a T_float16 column's raw binary16 bit pattern — its
// physical storage, see types.Type.FixedLength — to its 64-bit hash
// token. The bit pattern itself is already the canonical per-value token
// (equal half-floats have equal bits), so no decode is needed here; the
// decode to a comparable float32 only matters for MIN/MAX ordering, done
// separately in agg.Float16MinMaxFunc.
func WidenFloat16(v uint16) uint64 { return uint64(v) }

// u64SignExt sign-extends the low `bits` bits of v to 64 bits.
func u64SignExt(v uint64, bits uint) uint64 {
	shift := 64 - bits
	return uint64(int64(v<<shift) >> shift)
}

// NewNumericCursor dispatches on the vector's element type and returns the
// concrete cursor behind the Cursor interface. Binding an unsupported type
// is a configuration error raised here, not at first read.
func NewNumericCursor(v *vector.Vector) (Cursor, error) {
	typ := *v.GetType()
	switch typ.Oid {
	case types.T_bool:
		return BindNumeric[bool](v, WidenBool), nil
	case types.T_int8:
		return BindNumeric[int8](v, WidenInt8), nil
	case types.T_int16:
		return BindNumeric[int16](v, WidenInt16), nil
	case types.T_int32:
		return BindNumeric[int32](v, WidenInt32), nil
	case types.T_int64, types.T_date64, types.T_timestamp, types.T_duration:
		return BindNumeric[int64](v, WidenInt64), nil
	case types.T_uint8:
		return BindNumeric[uint8](v, WidenUint8), nil
	case types.T_uint16:
		return BindNumeric[uint16](v, WidenUint16), nil
	case types.T_uint32, types.T_date32:
		return BindNumeric[uint32](v, WidenUint32), nil
	case types.T_uint64:
		return BindNumeric[uint64](v, WidenUint64), nil
	case types.T_float16:
		return BindNumeric[uint16](v, WidenFloat16), nil
	case types.T_float32:
		return BindNumeric[float32](v, WidenFloat32), nil
	case types.T_float64:
		return BindNumeric[float64](v, WidenFloat64), nil
	default:
		return nil, &BindError{Type: typ, Want: "numeric"}
	}
}
