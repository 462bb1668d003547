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

func TestBytesCursorSequentialRead(t *testing.T) {
	v := vector.NewBytesVec(types.New(types.T_varchar), [][]byte{[]byte("Berlin"), []byte("Munich")}, nulls.New())
	c, err := NewBytesCursor(v)
	require.NoError(t, err)
	bc := c.(*BytesCursor)

	require.Equal(t, []byte("Berlin"), bc.NextView())
	require.Equal(t, []byte("Munich"), bc.NextView())
	require.False(t, bc.HasMore())
}

func TestBytesCursorByteViewAt(t *testing.T) {
	v := vector.NewBytesVec(types.New(types.T_varchar), [][]byte{[]byte("a"), []byte("b")}, nulls.Build(1))
	c, err := NewBytesCursor(v)
	require.NoError(t, err)
	bc := c.(*BytesCursor)
	require.Equal(t, []byte("a"), bc.ByteViewAt(0))
	require.True(t, bc.IsNullAt(1))
}

func TestBytesCursorHashEqualForEqualBytes(t *testing.T) {
	v := vector.NewBytesVec(types.New(types.T_varchar), [][]byte{[]byte("same"), []byte("same")}, nulls.New())
	c, err := NewBytesCursor(v)
	require.NoError(t, err)
	bc := c.(*BytesCursor)
	require.Equal(t, bc.NextAsU64(), bc.NextAsU64())
}

func TestNewBytesCursorRejectsNonVarlen(t *testing.T) {
	v := vector.NewFixedVec(types.New(types.T_int32), []int32{1}, nulls.New())
	_, err := NewBytesCursor(v)
	require.Error(t, err)
}
