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

func TestAvgFuncBasic(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_int32), []int32{10, 20, 30}, nulls.New())
	f := NewAvgFunc[int32, int64](types.New(types.T_int32), func(x int32) int64 { return int64(x) })
	require.NoError(t, f.BindCursor(bindCursor(t, v)))

	require.Equal(t, types.T_float64, f.OutputType().Oid)

	slot := f.InitBatch()
	f.UpdateBatch(slot)
	f.Reserve(1)
	f.Summarize(slot)

	require.Equal(t, 20.0, vector.FixedCol[float64](f.Finish())[0])
}

func TestAvgFuncEmptyGroupIsNull(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_int32), []int32{0}, nulls.Build(0))
	f := NewAvgFunc[int32, int64](types.New(types.T_int32), func(x int32) int64 { return int64(x) })
	require.NoError(t, f.BindCursor(bindCursor(t, v)))

	slot := f.InitBatch()
	f.UpdateBatch(slot)
	f.Reserve(1)
	f.Summarize(slot)

	require.True(t, f.Finish().IsNull(0))
}

// TestAvg128FuncHighPrecision covers the Testable Properties boundary:
// AVG(i64) of [i64::MAX, i64::MAX-2] yields a float64 within 1 ULP of the
// true average, i64::MAX - 1.
func TestAvg128FuncHighPrecision(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_int64), []int64{math.MaxInt64, math.MaxInt64 - 2}, nulls.New())
	f := NewAvg128Func[int64](types.New(types.T_int64), widenInt64)
	require.NoError(t, f.BindCursor(bindCursor(t, v)))

	slot := f.InitBatch()
	f.UpdateBatch(slot)
	f.Reserve(1)
	f.Summarize(slot)

	got := vector.FixedCol[float64](f.Finish())[0]
	want := float64(math.MaxInt64 - 1)
	require.InDelta(t, want, got, math.Abs(want)*1e-15+1)
}

func TestAvg128FuncEmptyGroupIsNull(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_int64), []int64{0}, nulls.Build(0))
	f := NewAvg128Func[int64](types.New(types.T_int64), widenInt64)
	require.NoError(t, f.BindCursor(bindCursor(t, v)))

	slot := f.InitBatch()
	f.UpdateBatch(slot)
	f.Reserve(1)
	f.Summarize(slot)

	require.True(t, f.Finish().IsNull(0))
}

func TestAvg128FuncDivisionPreservesRemainder(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_int64), []int64{10, 3}, nulls.New())
	f := NewAvg128Func[int64](types.New(types.T_int64), widenInt64)
	require.NoError(t, f.BindCursor(bindCursor(t, v)))

	slot := f.InitBatch()
	f.UpdateBatch(slot)
	f.Reserve(1)
	f.Summarize(slot)

	require.InDelta(t, 6.5, vector.FixedCol[float64](f.Finish())[0], 1e-9)
}
