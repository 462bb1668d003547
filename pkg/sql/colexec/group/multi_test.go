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

package group

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamql/colagg/pkg/container/batch"
	"github.com/streamql/colagg/pkg/container/nulls"
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
	"github.com/streamql/colagg/pkg/sql/colexec/agg"
)

func TestMultiHashAggregateComponentwiseGrouping(t *testing.T) {
	k1 := vector.NewFixedVec(types.New(types.T_int32), []int32{1, 1, 2, 1}, nulls.New())
	k2 := vector.NewFixedVec(types.New(types.T_int32), []int32{9, 9, 9, 8}, nulls.New())
	val := vector.NewFixedVec(types.New(types.T_int32), []int32{1, 2, 3, 4}, nulls.New())
	bat := batch.New([]string{"a", "b", "v"}, []*vector.Vector{k1, k2, val})

	a, err := NewMultiHashAggregate([]string{"a", "b"}, []string{"a", "b"}, []agg.Def{
		{Kind: agg.KindCountStar, OutputColumnName: "n"},
	})
	require.NoError(t, err)
	require.NoError(t, a.Consume(bat))

	out, err := a.Finish()
	require.NoError(t, err)
	require.Equal(t, 3, out.RowCount(), "(1,9), (2,9), (1,8) are three distinct groups")
}

func TestMultiHashAggregateNullComponentEncodesDistinctFromZero(t *testing.T) {
	k1 := vector.NewFixedVec(types.New(types.T_int32), []int32{0, 0}, nulls.Build(0))
	k2 := vector.NewFixedVec(types.New(types.T_int32), []int32{1, 1}, nulls.New())
	val := vector.NewFixedVec(types.New(types.T_int32), []int32{1, 2}, nulls.New())
	bat := batch.New([]string{"a", "b", "v"}, []*vector.Vector{k1, k2, val})

	a, err := NewMultiHashAggregate([]string{"a", "b"}, []string{"a", "b"}, []agg.Def{
		{Kind: agg.KindCountStar, OutputColumnName: "n"},
	})
	require.NoError(t, err)
	require.NoError(t, a.Consume(bat))

	out, err := a.Finish()
	require.NoError(t, err)
	require.Equal(t, 2, out.RowCount(), "a NULL first component and a 0 first component are different groups")
	ns := vector.FixedCol[uint64](out.GetVector(2))
	require.Equal(t, []uint64{1, 1}, ns)
}

func TestMultiHashAggregateRejectsEmptyGroupByCols(t *testing.T) {
	_, err := NewMultiHashAggregate(nil, nil, nil)
	require.Error(t, err)
}

func TestEncodeMultiKeyDistinguishesNullFromZeroToken(t *testing.T) {
	nullKey := encodeMultiKey([]bool{true}, []uint64{0})
	zeroKey := encodeMultiKey([]bool{false}, []uint64{0})
	require.NotEqual(t, nullKey, zeroKey)
}

func TestCombineHashNullContributesZero(t *testing.T) {
	seed := uint64(0)
	withNull := combineHash(seed, true, 123)
	withZero := combineHash(seed, false, 0)
	require.Equal(t, withZero, withNull, "a null component and a zero-token component contribute the same mix per the documented reference combiner")
}
