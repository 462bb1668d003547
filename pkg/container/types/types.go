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

package types

import (
	"fmt"
	"math"
)

// T is the closed tag set of element kinds a column can carry.
type T uint8

const (
	T_bool T = iota
	T_int8
	T_int16
	T_int32
	T_int64
	T_uint8
	T_uint16
	T_uint32
	T_uint64
	T_float16 // IEEE-754 binary16, stored as its raw uint16 bit pattern
	T_float32
	T_float64
	T_char    // fixed-width string, kept for symmetry with varchar
	T_varchar // variable-width string
	T_varbinary
	T_decimal128
	T_date32 // days since epoch
	T_date64 // microseconds since epoch ("time64" in spec.md)
	T_timestamp
	T_duration
	T_list   // nested, scalar-probe only
	T_struct // nested, scalar-probe only
)

// FixedSizeT is the set of Go types the vector package stores unboxed, by
// value, in a column's backing buffer.
type FixedSizeT interface {
	bool | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64 | Int128
}

// Type describes one column's element kind, width and decimal scale.
type Type struct {
	Oid   T
	Width int32
	Scale int32
}

func New(oid T) Type {
	return Type{Oid: oid}
}

func NewDecimal128(scale int32) Type {
	return Type{Oid: T_decimal128, Width: 38, Scale: scale}
}

// FixedLength returns the element's width in bytes for fixed-width types,
// or -1 for variable-width and nested types.
func (t Type) FixedLength() int {
	switch t.Oid {
	case T_bool, T_int8, T_uint8:
		return 1
	case T_int16, T_uint16, T_float16:
		return 2
	case T_int32, T_uint32, T_float32, T_date32:
		return 4
	case T_int64, T_uint64, T_float64, T_date64, T_timestamp, T_duration:
		return 8
	case T_decimal128:
		return 16
	default:
		return -1
	}
}

func (t Type) IsVarlen() bool {
	return t.Oid == T_varchar || t.Oid == T_varbinary || t.Oid == T_char
}

func (t Type) IsNested() bool {
	return t.Oid == T_list || t.Oid == T_struct
}

// IsNumeric reports whether the type is a fixed-width numeric, boolean, or
// temporal type admissible as a key to the numeric hash strategies (§4.5/§4.6).
func (t Type) IsNumeric() bool {
	switch t.Oid {
	case T_bool,
		T_int8, T_int16, T_int32, T_int64,
		T_uint8, T_uint16, T_uint32, T_uint64,
		T_float16, T_float32, T_float64,
		T_date32, T_date64, T_timestamp, T_duration:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	switch t.Oid {
	case T_bool:
		return "BOOL"
	case T_int8:
		return "TINYINT"
	case T_int16:
		return "SMALLINT"
	case T_int32:
		return "INT"
	case T_int64:
		return "BIGINT"
	case T_uint8:
		return "TINYINT UNSIGNED"
	case T_uint16:
		return "SMALLINT UNSIGNED"
	case T_uint32:
		return "INT UNSIGNED"
	case T_uint64:
		return "BIGINT UNSIGNED"
	case T_float16:
		return "FLOAT16"
	case T_float32:
		return "FLOAT"
	case T_float64:
		return "DOUBLE"
	case T_char:
		return "CHAR"
	case T_varchar:
		return "VARCHAR"
	case T_varbinary:
		return "VARBINARY"
	case T_decimal128:
		return fmt.Sprintf("DECIMAL(38,%d)", t.Scale)
	case T_date32:
		return "DATE"
	case T_date64:
		return "DATETIME"
	case T_timestamp:
		return "TIMESTAMP"
	case T_duration:
		return "DURATION"
	case T_list:
		return "LIST"
	case T_struct:
		return "STRUCT"
	default:
		return "UNKNOWN"
	}
}

// Float16BitsToFloat32 decodes an IEEE-754 binary16 bit pattern — the raw
// physical storage for a T_float16 column, same convention as this
// module's f32/f64 "next-as-u64" bit-pattern widening in
// cursor.WidenFloat32/WidenFloat64 — into its float32 equivalent. No
// half-precision codec is present among this module's dependencies, so
// this mirrors math.Float32frombits by hand for the narrower width,
// including subnormals, zero, and Inf/NaN.
func Float16BitsToFloat32(bits uint16) float32 {
	sign := bits >> 15
	exp := (bits >> 10) & 0x1f
	frac := float64(bits & 0x3ff)

	var f float64
	switch {
	case exp == 0 && frac == 0:
		f = 0
	case exp == 0:
		// Subnormal: no implicit leading 1, fixed exponent bias of -14.
		f = frac / 1024 * math.Pow(2, -14)
	case exp == 0x1f && frac == 0:
		f = math.Inf(1)
	case exp == 0x1f:
		f = math.NaN()
	default:
		f = (1 + frac/1024) * math.Pow(2, float64(exp)-15)
	}
	if sign == 1 {
		f = -f
	}
	return float32(f)
}
