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

package batch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamql/colagg/pkg/container/nulls"
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
)

func TestNewBatch(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_int32), []int32{1, 2, 3}, nulls.New())
	bat := New([]string{"a"}, []*vector.Vector{v})
	require.Equal(t, 3, bat.RowCount())
	require.Equal(t, 1, bat.VectorCount())
	require.Equal(t, 0, bat.ColumnIndex("a"))
	require.Equal(t, -1, bat.ColumnIndex("nope"))
}

func TestNewBatchEmpty(t *testing.T) {
	bat := New(nil, nil)
	require.Equal(t, 0, bat.RowCount())
	require.Equal(t, 0, bat.VectorCount())
}

func TestBatchSetVector(t *testing.T) {
	bat := NewWithSize(1)
	v := vector.NewFixedVec(types.New(types.T_int32), []int32{7}, nulls.New())
	bat.SetVector(0, v)
	require.Equal(t, v, bat.GetVector(0))
}

func TestBatchSetRowCount(t *testing.T) {
	bat := New(nil, nil)
	bat.SetRowCount(5)
	require.Equal(t, 5, bat.RowCount())
}
