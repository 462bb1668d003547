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

package order

import (
	"bytes"

	"github.com/streamql/colagg/pkg/container/types"
)

// compareBoxed orders two non-NULL values boxed by cursor.ScalarCursor.
// Both arguments always come from the same column, so they always share
// a concrete type; the switch exists to pick the right comparison, not
// to guard against mismatches.
func compareBoxed(a, b interface{}) int {
	switch x := a.(type) {
	case bool:
		y := b.(bool)
		if x == y {
			return 0
		}
		if !x {
			return -1
		}
		return 1
	case int8:
		return cmpOrdered(x, b.(int8))
	case int16:
		return cmpOrdered(x, b.(int16))
	case int32:
		return cmpOrdered(x, b.(int32))
	case int64:
		return cmpOrdered(x, b.(int64))
	case uint8:
		return cmpOrdered(x, b.(uint8))
	case uint16:
		return cmpOrdered(x, b.(uint16))
	case uint32:
		return cmpOrdered(x, b.(uint32))
	case uint64:
		return cmpOrdered(x, b.(uint64))
	case float32:
		return cmpOrdered(x, b.(float32))
	case float64:
		return cmpOrdered(x, b.(float64))
	case string:
		return bytes.Compare([]byte(x), []byte(b.(string)))
	case types.Int128:
		y := b.(types.Int128)
		if x.Equal(y) {
			return 0
		}
		if x.Less(y) {
			return -1
		}
		return 1
	default:
		// Nested/dictionary columns carry no ordering the engine
		// understands beyond null-presence; treat every non-NULL value
		// of such a column as equal so sort degrades to stable no-op.
		return 0
	}
}

func cmpOrdered[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
