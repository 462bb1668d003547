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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamql/colagg/pkg/container/nulls"
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
)

func TestNumericCursorSequentialRead(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_int32), []int32{10, 20, 30}, nulls.Build(1))
	c, err := NewNumericCursor(v)
	require.NoError(t, err)
	nc := c.(*NumericCursor[int32])

	var got []int32
	var nullSeen []bool
	for nc.HasMore() {
		nullSeen = append(nullSeen, nc.IsNullCurrent())
		got = append(got, nc.NextValue())
	}
	require.Equal(t, []int32{10, 20, 30}, got)
	require.Equal(t, []bool{false, true, false}, nullSeen)
}

func TestNumericCursorRandomAccess(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_int32), []int32{10, 20, 30}, nulls.Build(1))
	c, err := NewNumericCursor(v)
	require.NoError(t, err)
	nc := c.(*NumericCursor[int32])
	require.Equal(t, int32(30), nc.ValueAt(2))
	require.True(t, nc.IsNullAt(1))
	require.False(t, nc.IsNullAt(0))
}

func TestNumericCursorNonNullCount(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_int32), []int32{1, 2, 3, 4}, nulls.Build(0, 2))
	c, err := NewNumericCursor(v)
	require.NoError(t, err)
	require.Equal(t, 2, c.NonNullCount())
	require.Equal(t, 4, c.Length())
}

func TestWidenRoundTripsSign(t *testing.T) {
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), WidenInt8(-1))
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), WidenInt16(-1))
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), WidenInt32(-1))
	require.Equal(t, uint64(1), WidenInt64(1))
	require.Equal(t, uint64(1), WidenBool(true))
	require.Equal(t, uint64(0), WidenBool(false))
}

func TestWidenEqualValuesProduceEqualTokens(t *testing.T) {
	// -1 widened from any signed width must hash identically, since the
	// single-key strategy keys purely on the widened token.
	require.Equal(t, WidenInt8(-1), WidenInt16(-1))
	require.Equal(t, WidenInt16(-1), WidenInt32(-1))
	require.Equal(t, WidenInt32(-1), WidenInt64(-1))
}

func TestNewNumericCursorUnsupportedType(t *testing.T) {
	v := vector.NewBytesVec(types.New(types.T_varchar), [][]byte{[]byte("x")}, nulls.New())
	_, err := NewNumericCursor(v)
	require.Error(t, err)
}

func TestNewNumericCursorTemporalTypes(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_timestamp), []int64{1602127614}, nulls.New())
	c, err := NewNumericCursor(v)
	require.NoError(t, err)
	require.Equal(t, uint64(1602127614), c.NextAsU64())
}
