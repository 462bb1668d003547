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

package aggerr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("bad column %q", "x")
	require.Equal(t, KindConfig, err.Kind())
	require.Contains(t, err.Error(), "bad column")
	require.True(t, Is(err, KindConfig))
	require.False(t, Is(err, KindRuntime))
}

func TestNewOverflowErrorIsAlsoNotRuntimeKind(t *testing.T) {
	err := NewOverflowError("accumulator overflowed")
	require.Equal(t, KindOverflow, err.Kind())
	require.True(t, Is(err, KindOverflow))
	require.False(t, Is(err, KindRuntime), "KindOverflow is its own kind, not aliased to KindRuntime")
}

func TestIsRejectsForeignErrors(t *testing.T) {
	require.False(t, Is(assertError{}, KindConfig))
}

type assertError struct{}

func (assertError) Error() string { return "not an aggerr.Error" }
