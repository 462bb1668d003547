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
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamql/colagg/pkg/container/nulls"
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
)

func TestApproxCountDistinctEstimatesCardinality(t *testing.T) {
	vals := make([]int32, 0, 500)
	for i := int32(0); i < 500; i++ {
		vals = append(vals, i%100) // 100 distinct values, each repeated 5x
	}
	v := vector.NewFixedVec(types.New(types.T_int32), vals, nulls.New())
	f := NewApproxCountDistinctFunc()
	require.NoError(t, f.BindCursor(bindCursor(t, v)))

	slot := f.InitBatch()
	f.UpdateBatch(slot)
	f.Reserve(1)
	f.Summarize(slot)

	got := vector.FixedCol[uint64](f.Finish())[0]
	require.True(t, math.Abs(float64(got)-100) < 20, "HLL estimate %d too far from true cardinality 100", got)
}

func TestApproxCountDistinctSkipsNulls(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_int32), []int32{1, 0, 2}, nulls.Build(1))
	f := NewApproxCountDistinctFunc()
	require.NoError(t, f.BindCursor(bindCursor(t, v)))

	slot := f.InitBatch()
	f.UpdateBatch(slot)
	f.Reserve(1)
	f.Summarize(slot)

	got := vector.FixedCol[uint64](f.Finish())[0]
	require.Equal(t, uint64(2), got)
}

func TestApproxCountDistinctOnBytes(t *testing.T) {
	v := vector.NewBytesVec(types.New(types.T_varchar), [][]byte{[]byte("a"), []byte("b"), []byte("a")}, nulls.New())
	f := NewApproxCountDistinctFunc()
	require.NoError(t, f.BindCursor(bindCursor(t, v)))

	slot := f.InitBatch()
	f.UpdateBatch(slot)
	f.Reserve(1)
	f.Summarize(slot)

	require.Equal(t, uint64(2), vector.FixedCol[uint64](f.Finish())[0])
}
