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
	"github.com/streamql/colagg/pkg/container/types"
)

// New is the aggregate function factory (§4.8): pure dispatch from a
// (kind, input type) pair to a concrete specialization. Every pair it
// does not recognize is a configuration error raised here, at bind time,
// never discovered lazily while consuming rows.
func New(def Def, inputType types.Type) (Func, error) {
	switch def.Kind {
	case KindCountStar:
		return NewCountStarFunc(), nil
	case KindCount:
		return NewCountFunc(), nil
	case KindMin:
		return newMinMax(inputType, false)
	case KindMax:
		return newMinMax(inputType, true)
	case KindSum:
		return newSum(inputType)
	case KindAvg:
		return newAvg(inputType)
	case KindGroupBuilder:
		return newGroupBuilder(inputType)
	case KindApproxCountDistinct:
		return newApproxCountDistinct(inputType)
	case KindMedian:
		return newMedian(inputType)
	default:
		return nil, aggerr.NewConfigError("unknown aggregate kind %v", def.Kind)
	}
}

// widenFloat16 decodes a T_float16 column's raw binary16 bit pattern to
// float64 for SUM/AVG accumulation, via types.Float16BitsToFloat32.
func widenFloat16(v uint16) float64 { return float64(types.Float16BitsToFloat32(v)) }

func newMinMax(t types.Type, isMax bool) (Func, error) {
	switch t.Oid {
	case types.T_int8:
		return NewMinMaxFunc[int8](t, isMax), nil
	case types.T_int16:
		return NewMinMaxFunc[int16](t, isMax), nil
	case types.T_int32:
		return NewMinMaxFunc[int32](t, isMax), nil
	case types.T_int64, types.T_date64, types.T_timestamp, types.T_duration:
		return NewMinMaxFunc[int64](t, isMax), nil
	case types.T_uint8:
		return NewMinMaxFunc[uint8](t, isMax), nil
	case types.T_uint16:
		return NewMinMaxFunc[uint16](t, isMax), nil
	case types.T_uint32, types.T_date32:
		return NewMinMaxFunc[uint32](t, isMax), nil
	case types.T_uint64:
		return NewMinMaxFunc[uint64](t, isMax), nil
	case types.T_float16:
		return NewFloat16MinMaxFunc(t, isMax), nil
	case types.T_float32:
		return NewMinMaxFunc[float32](t, isMax), nil
	case types.T_float64:
		return NewMinMaxFunc[float64](t, isMax), nil
	case types.T_char, types.T_varchar, types.T_varbinary:
		return NewBytesMinMaxFunc(t, isMax), nil
	default:
		return nil, aggerr.NewConfigError("MIN/MAX is not supported on type %s", t)
	}
}

func newSum(t types.Type) (Func, error) {
	switch t.Oid {
	case types.T_int8:
		return NewSumFunc[int8, int64](types.New(types.T_int64), func(v int8) int64 { return int64(v) }), nil
	case types.T_int16:
		return NewSumFunc[int16, int64](types.New(types.T_int64), func(v int16) int64 { return int64(v) }), nil
	case types.T_int32:
		return NewSumFunc[int32, int64](types.New(types.T_int64), func(v int32) int64 { return int64(v) }), nil
	case types.T_uint8:
		return NewSumFunc[uint8, uint64](types.New(types.T_uint64), func(v uint8) uint64 { return uint64(v) }), nil
	case types.T_uint16:
		return NewSumFunc[uint16, uint64](types.New(types.T_uint64), func(v uint16) uint64 { return uint64(v) }), nil
	case types.T_uint32:
		return NewSumFunc[uint32, uint64](types.New(types.T_uint64), func(v uint32) uint64 { return uint64(v) }), nil
	case types.T_float16:
		return NewSumFunc[uint16, float64](types.New(types.T_float64), widenFloat16), nil
	case types.T_float32:
		return NewSumFunc[float32, float64](types.New(types.T_float64), func(v float32) float64 { return float64(v) }), nil
	case types.T_float64:
		return NewSumFunc[float64, float64](types.New(types.T_float64), func(v float64) float64 { return v }), nil
	case types.T_date32:
		return NewSumFunc[uint32, uint64](types.New(types.T_uint64), func(v uint32) uint64 { return uint64(v) }), nil
	case types.T_date64, types.T_timestamp, types.T_duration:
		return NewSumFunc[int64, int64](types.New(types.T_int64), func(v int64) int64 { return v }), nil
	case types.T_int64:
		return NewSum128Func[int64](types.New(types.T_int64), types.Int128FromInt64), nil
	case types.T_uint64:
		return NewSum128Func[uint64](types.New(types.T_uint64), types.Int128FromUint64), nil
	default:
		return nil, aggerr.NewConfigError("SUM is not supported on type %s", t)
	}
}

func newAvg(t types.Type) (Func, error) {
	switch t.Oid {
	case types.T_int8:
		return NewAvgFunc[int8, int64](t, func(v int8) int64 { return int64(v) }), nil
	case types.T_int16:
		return NewAvgFunc[int16, int64](t, func(v int16) int64 { return int64(v) }), nil
	case types.T_int32:
		return NewAvgFunc[int32, int64](t, func(v int32) int64 { return int64(v) }), nil
	case types.T_uint8:
		return NewAvgFunc[uint8, uint64](t, func(v uint8) uint64 { return uint64(v) }), nil
	case types.T_uint16:
		return NewAvgFunc[uint16, uint64](t, func(v uint16) uint64 { return uint64(v) }), nil
	case types.T_uint32:
		return NewAvgFunc[uint32, uint64](t, func(v uint32) uint64 { return uint64(v) }), nil
	case types.T_float16:
		return NewAvgFunc[uint16, float64](t, widenFloat16), nil
	case types.T_float32:
		return NewAvgFunc[float32, float64](t, func(v float32) float64 { return float64(v) }), nil
	case types.T_float64:
		return NewAvgFunc[float64, float64](t, func(v float64) float64 { return v }), nil
	case types.T_date32:
		return NewAvgFunc[uint32, uint64](t, func(v uint32) uint64 { return uint64(v) }), nil
	case types.T_date64, types.T_timestamp, types.T_duration:
		return NewAvgFunc[int64, int64](t, func(v int64) int64 { return v }), nil
	case types.T_int64:
		return NewAvg128Func[int64](t, types.Int128FromInt64), nil
	case types.T_uint64:
		return NewAvg128Func[uint64](t, types.Int128FromUint64), nil
	default:
		return nil, aggerr.NewConfigError("AVG is not supported on type %s", t)
	}
}

func newGroupBuilder(t types.Type) (Func, error) {
	switch t.Oid {
	case types.T_bool:
		return NewGroupBuilderFunc[bool](t), nil
	case types.T_int8:
		return NewGroupBuilderFunc[int8](t), nil
	case types.T_int16:
		return NewGroupBuilderFunc[int16](t), nil
	case types.T_int32:
		return NewGroupBuilderFunc[int32](t), nil
	case types.T_int64, types.T_date64, types.T_timestamp, types.T_duration:
		return NewGroupBuilderFunc[int64](t), nil
	case types.T_uint8:
		return NewGroupBuilderFunc[uint8](t), nil
	case types.T_uint16:
		return NewGroupBuilderFunc[uint16](t), nil
	case types.T_uint32, types.T_date32:
		return NewGroupBuilderFunc[uint32](t), nil
	case types.T_uint64:
		return NewGroupBuilderFunc[uint64](t), nil
	case types.T_float16:
		return NewGroupBuilderFunc[uint16](t), nil
	case types.T_float32:
		return NewGroupBuilderFunc[float32](t), nil
	case types.T_float64:
		return NewGroupBuilderFunc[float64](t), nil
	case types.T_char, types.T_varchar, types.T_varbinary:
		return NewBytesGroupBuilderFunc(t), nil
	case types.T_decimal128, types.T_list, types.T_struct:
		// decimal128 is not IsNumeric() (§4.1: only the fixed-width
		// numeric/boolean/temporal types are), so cursor.Bind routes it
		// to ScalarCursor rather than NumericCursor (cursor.go's Bind
		// special-cases T_decimal128 for exactly this reason) — the
		// GROUP_BUILDER dispatched here must match that binding.
		return NewScalarGroupBuilderFunc(t), nil
	default:
		return nil, aggerr.NewConfigError("GROUP BY is not supported on type %s", t)
	}
}
