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

func TestScalarCursorBoxesNumeric(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_int32), []int32{1, 2, 3}, nulls.Build(1))
	c := NewScalarCursor(v)
	require.Equal(t, int32(1), c.BoxedAt(0))
	require.True(t, c.IsNullAt(1))
	require.Equal(t, int32(3), c.BoxedAt(2))
}

func TestScalarCursorBoxesBytesAsString(t *testing.T) {
	v := vector.NewBytesVec(types.New(types.T_varchar), [][]byte{[]byte("hi")}, nulls.New())
	c := NewScalarCursor(v)
	require.Equal(t, "hi", c.BoxedAt(0))
}

func TestScalarCursorBoxesTemporalTypes(t *testing.T) {
	cases := []types.T{types.T_date32, types.T_date64, types.T_timestamp, types.T_duration}
	for _, oid := range cases {
		var v *vector.Vector
		if oid == types.T_date32 {
			v = vector.NewFixedVec(types.New(oid), []uint32{100}, nulls.New())
		} else {
			v = vector.NewFixedVec(types.New(oid), []int64{100}, nulls.New())
		}
		c := NewScalarCursor(v)
		require.NotNil(t, c.BoxedAt(0), "oid=%v must box to a non-nil value, not fall through to default", oid)
	}
}

func TestScalarCursorNextBoxedAdvances(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_int32), []int32{5, 6}, nulls.New())
	c := NewScalarCursor(v)
	require.Equal(t, int32(5), c.NextBoxed())
	require.Equal(t, int32(6), c.NextBoxed())
	require.False(t, c.HasMore())
}

func TestScalarCursorNestedFallsBackToNil(t *testing.T) {
	v := vector.NewVec(types.New(types.T_struct))
	v.SetLength(1)
	c := NewScalarCursor(v)
	require.Nil(t, c.BoxedAt(0))
}
