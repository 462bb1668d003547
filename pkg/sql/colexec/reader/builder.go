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

package reader

import (
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
)

// outputBuilder re-boxes values a ScalarCursor produced back into a
// column's native physical layout, mirroring order.outputBuilder — this
// package and the Sort operator both slice rows out of a larger source
// into a fresh batch, so both re-materialize the same way.
type outputBuilder interface {
	reserve(n int)
	append(val interface{}, isNull bool)
	finish() *vector.Vector
}

type fixedOutputBuilder[T types.FixedSizeT] struct {
	b *vector.FixedBuilder[T]
}

func (o *fixedOutputBuilder[T]) reserve(n int) { o.b.Reserve(n) }

func (o *fixedOutputBuilder[T]) append(val interface{}, isNull bool) {
	if isNull {
		o.b.AppendNull()
		return
	}
	o.b.Append(val.(T), false)
}

func (o *fixedOutputBuilder[T]) finish() *vector.Vector { return o.b.Finish() }

type bytesOutputBuilder struct {
	b *vector.BytesBuilder
}

func (o *bytesOutputBuilder) reserve(n int) { o.b.Reserve(n) }

func (o *bytesOutputBuilder) append(val interface{}, isNull bool) {
	if isNull {
		o.b.AppendNull()
		return
	}
	o.b.Append([]byte(val.(string)), false)
}

func (o *bytesOutputBuilder) finish() *vector.Vector { return o.b.Finish() }

func newOutputBuilder(typ types.Type) outputBuilder {
	if typ.IsVarlen() {
		return &bytesOutputBuilder{b: vector.NewBytesBuilder(typ)}
	}
	switch typ.Oid {
	case types.T_bool:
		return &fixedOutputBuilder[bool]{b: vector.NewFixedBuilder[bool](typ)}
	case types.T_int8:
		return &fixedOutputBuilder[int8]{b: vector.NewFixedBuilder[int8](typ)}
	case types.T_int16:
		return &fixedOutputBuilder[int16]{b: vector.NewFixedBuilder[int16](typ)}
	case types.T_int32:
		return &fixedOutputBuilder[int32]{b: vector.NewFixedBuilder[int32](typ)}
	case types.T_int64, types.T_date64, types.T_timestamp, types.T_duration:
		return &fixedOutputBuilder[int64]{b: vector.NewFixedBuilder[int64](typ)}
	case types.T_uint8:
		return &fixedOutputBuilder[uint8]{b: vector.NewFixedBuilder[uint8](typ)}
	case types.T_uint16:
		return &fixedOutputBuilder[uint16]{b: vector.NewFixedBuilder[uint16](typ)}
	case types.T_uint32, types.T_date32:
		return &fixedOutputBuilder[uint32]{b: vector.NewFixedBuilder[uint32](typ)}
	case types.T_uint64:
		return &fixedOutputBuilder[uint64]{b: vector.NewFixedBuilder[uint64](typ)}
	case types.T_float16:
		return &fixedOutputBuilder[uint16]{b: vector.NewFixedBuilder[uint16](typ)}
	case types.T_float32:
		return &fixedOutputBuilder[float32]{b: vector.NewFixedBuilder[float32](typ)}
	case types.T_float64:
		return &fixedOutputBuilder[float64]{b: vector.NewFixedBuilder[float64](typ)}
	case types.T_decimal128:
		return &fixedOutputBuilder[types.Int128]{b: vector.NewFixedBuilder[types.Int128](typ)}
	default:
		return nil
	}
}
