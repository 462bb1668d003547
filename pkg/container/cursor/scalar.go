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
	"github.com/streamql/colagg/pkg/container/nulls"
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
)

// ScalarCursor walks any column by boxing each row into a comparable Go
// value, at the cost of an allocation per row. It is the generic hash
// aggregator's fallback for element types none of the numeric or byte
// specializations claim — nested, union, dictionary-coded, or otherwise
// exotic columns whose grouping key is only ever compared, never summed.
type ScalarCursor struct {
	nsp  *nulls.Nulls
	typ  types.Type
	n    int
	pos  int
	boxAt func(idx int) interface{}
}

func (c *ScalarCursor) Type() types.Type    { return c.typ }
func (c *ScalarCursor) Length() int         { return c.n }
func (c *ScalarCursor) HasMore() bool       { return c.pos < c.n }
func (c *ScalarCursor) IsNullCurrent() bool { return c.nsp.Contains(uint32(c.pos)) }
func (c *ScalarCursor) IsNullAt(idx int) bool {
	return c.nsp.Contains(uint32(idx))
}
func (c *ScalarCursor) NonNullCount() int {
	return c.n - c.nsp.Count()
}
func (c *ScalarCursor) Advance() { c.pos++ }

// NextAsU64 is unsupported for scalar columns: grouping equality here is
// decided by boxed-value comparison, not a hash token. Callers that reach
// this cursor via the generic strategy must use NextBoxed/BoxedAt instead.
func (c *ScalarCursor) NextAsU64() uint64 {
	c.pos++
	return 0
}

// NextBoxed consumes the current row and returns it boxed as a comparable
// Go value suitable for use as a map key.
func (c *ScalarCursor) NextBoxed() interface{} {
	v := c.boxAt(c.pos)
	c.pos++
	return v
}

func (c *ScalarCursor) BoxedAt(idx int) interface{} {
	return c.boxAt(idx)
}

// NewScalarCursor builds a ScalarCursor over any vector, numeric or
// varlen alike, boxing each row via the narrowest comparable representation
// available for its physical layout.
func NewScalarCursor(v *vector.Vector) *ScalarCursor {
	typ := *v.GetType()
	c := &ScalarCursor{nsp: v.GetNulls(), typ: typ, n: v.Length()}
	if typ.IsVarlen() {
		c.boxAt = func(idx int) interface{} { return string(v.BytesAt(idx)) }
		return c
	}
	switch typ.Oid {
	case types.T_bool:
		col := vector.FixedCol[bool](v)
		c.boxAt = func(idx int) interface{} { return col[idx] }
	case types.T_int8:
		col := vector.FixedCol[int8](v)
		c.boxAt = func(idx int) interface{} { return col[idx] }
	case types.T_int16:
		col := vector.FixedCol[int16](v)
		c.boxAt = func(idx int) interface{} { return col[idx] }
	case types.T_int32:
		col := vector.FixedCol[int32](v)
		c.boxAt = func(idx int) interface{} { return col[idx] }
	case types.T_int64:
		col := vector.FixedCol[int64](v)
		c.boxAt = func(idx int) interface{} { return col[idx] }
	case types.T_uint8:
		col := vector.FixedCol[uint8](v)
		c.boxAt = func(idx int) interface{} { return col[idx] }
	case types.T_uint16:
		col := vector.FixedCol[uint16](v)
		c.boxAt = func(idx int) interface{} { return col[idx] }
	case types.T_uint32:
		col := vector.FixedCol[uint32](v)
		c.boxAt = func(idx int) interface{} { return col[idx] }
	case types.T_uint64:
		col := vector.FixedCol[uint64](v)
		c.boxAt = func(idx int) interface{} { return col[idx] }
	case types.T_float16:
		col := vector.FixedCol[uint16](v)
		c.boxAt = func(idx int) interface{} { return col[idx] }
	case types.T_float32:
		col := vector.FixedCol[float32](v)
		c.boxAt = func(idx int) interface{} { return col[idx] }
	case types.T_float64:
		col := vector.FixedCol[float64](v)
		c.boxAt = func(idx int) interface{} { return col[idx] }
	case types.T_decimal128:
		col := vector.FixedCol[types.Int128](v)
		c.boxAt = func(idx int) interface{} { return col[idx] }
	case types.T_date32:
		col := vector.FixedCol[uint32](v)
		c.boxAt = func(idx int) interface{} { return col[idx] }
	case types.T_date64, types.T_timestamp, types.T_duration:
		col := vector.FixedCol[int64](v)
		c.boxAt = func(idx int) interface{} { return col[idx] }
	default:
		// Nested/union/dictionary/null columns carry no comparable payload
		// the engine understands; only null-presence is meaningful for them.
		c.boxAt = func(idx int) interface{} { return nil }
	}
	return c
}
