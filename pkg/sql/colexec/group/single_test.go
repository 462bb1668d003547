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

func newGroupByBatch(t *testing.T, keyName string, key *vector.Vector, valName string, val *vector.Vector) *batch.Batch {
	t.Helper()
	return batch.New([]string{keyName, valName}, []*vector.Vector{key, val})
}

func TestSingleHashAggregateBasicGrouping(t *testing.T) {
	key := vector.NewFixedVec(types.New(types.T_int32), []int32{1, 2, 1, 2, 1}, nulls.New())
	val := vector.NewFixedVec(types.New(types.T_int32), []int32{10, 20, 30, 40, 50}, nulls.New())
	bat := newGroupByBatch(t, "k", key, "v", val)

	a, err := NewSingleHashAggregate([]string{"k"}, []string{"k"}, []agg.Def{
		{Kind: agg.KindCountStar, OutputColumnName: "n"},
		{Kind: agg.KindSum, InputColumnName: "v", OutputColumnName: "sum_v"},
	})
	require.NoError(t, err)
	require.NoError(t, a.Consume(bat))

	out, err := a.Finish()
	require.NoError(t, err)
	require.Equal(t, 2, out.RowCount())

	ks := vector.FixedCol[int32](out.GetVector(0))
	ns := vector.FixedCol[uint64](out.GetVector(1))
	sums := vector.FixedCol[int64](out.GetVector(2))

	got := map[int32][2]int64{}
	for i := 0; i < out.RowCount(); i++ {
		got[ks[i]] = [2]int64{int64(ns[i]), sums[i]}
	}
	require.Equal(t, [2]int64{3, 90}, got[1])
	require.Equal(t, [2]int64{2, 60}, got[2])
}

func TestSingleHashAggregateNullKeyGoesToOutOfBandSlot(t *testing.T) {
	key := vector.NewFixedVec(types.New(types.T_int32), []int32{1, 0, 0, 1}, nulls.Build(1, 2))
	val := vector.NewFixedVec(types.New(types.T_int32), []int32{1, 2, 3, 4}, nulls.New())
	bat := newGroupByBatch(t, "k", key, "v", val)

	a, err := NewSingleHashAggregate([]string{"k"}, []string{"k"}, []agg.Def{
		{Kind: agg.KindCountStar, OutputColumnName: "n"},
	})
	require.NoError(t, err)
	require.NoError(t, a.Consume(bat))

	out, err := a.Finish()
	require.NoError(t, err)
	require.Equal(t, 2, out.RowCount())

	keyVec := out.GetVector(0)
	ns := vector.FixedCol[uint64](out.GetVector(1))

	foundNull := false
	for i := 0; i < out.RowCount(); i++ {
		if keyVec.IsNull(i) {
			foundNull = true
			require.Equal(t, uint64(2), ns[i])
		}
	}
	require.True(t, foundNull, "null key rows must form their own group")
}

func TestSingleHashAggregateRejectsWrongColumnCount(t *testing.T) {
	_, err := NewSingleHashAggregate([]string{"a", "b"}, []string{"a", "b"}, nil)
	require.Error(t, err)
}

func TestSingleHashAggregateRejectsConsumeAfterFinish(t *testing.T) {
	key := vector.NewFixedVec(types.New(types.T_int32), []int32{1}, nulls.New())
	val := vector.NewFixedVec(types.New(types.T_int32), []int32{1}, nulls.New())
	bat := newGroupByBatch(t, "k", key, "v", val)

	a, err := NewSingleHashAggregate([]string{"k"}, []string{"k"}, []agg.Def{
		{Kind: agg.KindCountStar, OutputColumnName: "n"},
	})
	require.NoError(t, err)
	require.NoError(t, a.Consume(bat))
	_, err = a.Finish()
	require.NoError(t, err)

	require.Error(t, a.Consume(bat))
	_, err = a.Finish()
	require.Error(t, err)
}

func TestSingleHashAggregateDeterministicOrderMatchesFirstSeen(t *testing.T) {
	key := vector.NewFixedVec(types.New(types.T_int32), []int32{3, 1, 2, 1}, nulls.New())
	val := vector.NewFixedVec(types.New(types.T_int32), []int32{0, 0, 0, 0}, nulls.New())
	bat := newGroupByBatch(t, "k", key, "v", val)

	a, err := NewSingleHashAggregate([]string{"k"}, []string{"k"}, []agg.Def{
		{Kind: agg.KindCountStar, OutputColumnName: "n"},
	}, WithDeterministicOrder())
	require.NoError(t, err)
	require.NoError(t, a.Consume(bat))

	out, err := a.Finish()
	require.NoError(t, err)

	ks := vector.FixedCol[int32](out.GetVector(0))
	require.Equal(t, []int32{3, 1, 2}, ks)
}
