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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamql/colagg/pkg/container/nulls"
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
)

func TestMinMaxFloat64(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_float64), []float64{52.51, 44.89, 48.76}, nulls.New())

	min := NewMinMaxFunc[float64](types.New(types.T_float64), false)
	require.NoError(t, min.BindCursor(bindCursor(t, v)))
	slot := min.InitRow(0)
	min.UpdateRow(slot)
	min.UpdateRow(slot)
	min.Reserve(1)
	min.Summarize(slot)
	require.Equal(t, 44.89, vector.FixedCol[float64](min.Finish())[0])
}

// TestMinMaxAllNullIsNull covers the Testable Properties boundary: MIN/MAX
// of a group whose rows are all NULL is NULL.
func TestMinMaxAllNullIsNull(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_float64), []float64{0, 0}, nulls.Build(0, 1))
	f := NewMinMaxFunc[float64](types.New(types.T_float64), true)
	require.NoError(t, f.BindCursor(bindCursor(t, v)))

	slot := f.InitRow(0)
	f.UpdateRow(slot)
	f.Reserve(1)
	f.Summarize(slot)

	out := f.Finish()
	require.True(t, out.IsNull(0))
}

func TestMinMaxUnsetThenFirstNonNullInitializes(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_int32), []int32{0, -5, 10}, nulls.Build(0))
	f := NewMinMaxFunc[int32](types.New(types.T_int32), true)
	require.NoError(t, f.BindCursor(bindCursor(t, v)))

	slot := f.InitRow(0) // null -> unset
	f.UpdateRow(slot)    // -5 -> initializes
	f.UpdateRow(slot)    // 10 > -5 -> replaces
	f.Reserve(1)
	f.Summarize(slot)

	out := f.Finish()
	require.False(t, out.IsNull(0))
	require.Equal(t, int32(10), vector.FixedCol[int32](out)[0])
}

// TestFloat16MinMaxComparesDecodedValue covers spec.md §4.3.4's f16 SUM
// support carried through to MIN/MAX: T_float16 stores raw binary16 bit
// patterns, and unsigned bit-pattern order disagrees with float order for
// negatives — -1.0 (0xBC00) sorts as the largest raw uint16 among these
// three, but as the smallest float value. Float16MinMaxFunc must decode
// before comparing, not compare the stored bits directly.
func TestFloat16MinMaxComparesDecodedValue(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_float16), []uint16{0xBC00, 0x4000, 0x3800}, nulls.New()) // -1.0, 2.0, 0.5

	min := NewFloat16MinMaxFunc(types.New(types.T_float16), false)
	require.NoError(t, min.BindCursor(bindCursor(t, v)))
	minSlot := min.InitBatch()
	min.UpdateBatch(minSlot)
	min.Reserve(1)
	min.Summarize(minSlot)
	require.Equal(t, uint16(0xBC00), vector.FixedCol[uint16](min.Finish())[0])

	max := NewFloat16MinMaxFunc(types.New(types.T_float16), true)
	require.NoError(t, max.BindCursor(bindCursor(t, v)))
	maxSlot := max.InitBatch()
	max.UpdateBatch(maxSlot)
	max.Reserve(1)
	max.Summarize(maxSlot)
	require.Equal(t, uint16(0x4000), vector.FixedCol[uint16](max.Finish())[0])
}

func TestBytesMinMaxLexicographic(t *testing.T) {
	v := vector.NewBytesVec(types.New(types.T_varchar), [][]byte{[]byte("banana"), []byte("apple"), []byte("cherry")}, nulls.New())
	f := NewBytesMinMaxFunc(types.New(types.T_varchar), false)
	require.NoError(t, f.BindCursor(bindCursor(t, v)))

	slot := f.InitRow(0)
	f.UpdateRow(slot)
	f.UpdateRow(slot)
	f.Reserve(1)
	f.Summarize(slot)

	out := f.Finish()
	require.Equal(t, "apple", string(out.BytesAt(0)))
}

func TestBytesMinMaxCopiesViewOnReplace(t *testing.T) {
	rows := [][]byte{[]byte("bbb"), []byte("aaa")}
	v := vector.NewBytesVec(types.New(types.T_varchar), rows, nulls.New())
	f := NewBytesMinMaxFunc(types.New(types.T_varchar), false)
	require.NoError(t, f.BindCursor(bindCursor(t, v)))

	slot := f.InitRow(0)
	f.UpdateRow(slot)
	rows[1][0] = 'z' // mutate the source after the slot captured it
	f.Reserve(1)
	f.Summarize(slot)

	require.Equal(t, "aaa", string(f.Finish().BytesAt(0)), "slot must own its own copy of the winning bytes")
}
