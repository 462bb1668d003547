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
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeFixedLength(t *testing.T) {
	cases := []struct {
		oid  T
		want int
	}{
		{T_bool, 1},
		{T_int8, 1},
		{T_uint8, 1},
		{T_int16, 2},
		{T_uint16, 2},
		{T_float16, 2},
		{T_int32, 4},
		{T_uint32, 4},
		{T_float32, 4},
		{T_date32, 4},
		{T_int64, 8},
		{T_uint64, 8},
		{T_float64, 8},
		{T_date64, 8},
		{T_timestamp, 8},
		{T_duration, 8},
		{T_decimal128, 16},
		{T_varchar, -1},
		{T_varbinary, -1},
		{T_list, -1},
		{T_struct, -1},
	}
	for _, c := range cases {
		require.Equal(t, c.want, New(c.oid).FixedLength(), "oid=%v", c.oid)
	}
}

func TestTypeIsVarlen(t *testing.T) {
	require.True(t, New(T_varchar).IsVarlen())
	require.True(t, New(T_varbinary).IsVarlen())
	require.True(t, New(T_char).IsVarlen())
	require.False(t, New(T_int32).IsVarlen())
}

func TestTypeIsNested(t *testing.T) {
	require.True(t, New(T_list).IsNested())
	require.True(t, New(T_struct).IsNested())
	require.False(t, New(T_varchar).IsNested())
}

func TestTypeIsNumeric(t *testing.T) {
	numeric := []T{T_bool, T_int8, T_int16, T_int32, T_int64, T_uint8, T_uint16, T_uint32, T_uint64, T_float16, T_float32, T_float64, T_date32, T_date64, T_timestamp, T_duration}
	for _, oid := range numeric {
		require.True(t, New(oid).IsNumeric(), "oid=%v", oid)
	}
	nonNumeric := []T{T_varchar, T_varbinary, T_char, T_decimal128, T_list, T_struct}
	for _, oid := range nonNumeric {
		require.False(t, New(oid).IsNumeric(), "oid=%v", oid)
	}
}

// TestFloat16BitsToFloat32 covers the hand-rolled half-precision decoder:
// zero, a normal value, a subnormal, and negative infinity, the same
// categories math.Float32frombits handles natively for the wider formats.
func TestFloat16BitsToFloat32(t *testing.T) {
	cases := []struct {
		name string
		bits uint16
		want float32
	}{
		{"positive_zero", 0x0000, 0},
		{"one", 0x3C00, 1.0},
		{"two", 0x4000, 2.0},
		{"negative_one", 0xBC00, -1.0},
		{"smallest_subnormal", 0x0001, 5.960464e-08},
		{"positive_infinity", 0x7C00, float32(math.Inf(1))},
		{"negative_infinity", 0xFC00, float32(math.Inf(-1))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Float16BitsToFloat32(c.bits)
			if math.IsInf(float64(c.want), 0) {
				require.Equal(t, c.want, got)
				return
			}
			require.InDelta(t, float64(c.want), float64(got), 1e-10)
		})
	}
}

func TestNewDecimal128(t *testing.T) {
	typ := NewDecimal128(4)
	require.Equal(t, T_decimal128, typ.Oid)
	require.Equal(t, int32(38), typ.Width)
	require.Equal(t, int32(4), typ.Scale)
	require.Equal(t, "DECIMAL(38,4)", typ.String())
}
