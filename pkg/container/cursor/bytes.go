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
	"hash/maphash"

	"github.com/streamql/colagg/pkg/container/nulls"
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
)

// bytesSeed is process-local and fixed for the engine's lifetime, so equal
// byte strings always widen to the same token within one run. It is never
// persisted, matching the Non-goal against a stable on-disk hash.
var bytesSeed = maphash.MakeSeed()

// BytesCursor walks a variable-width string/binary column.
type BytesCursor struct {
	rows [][]byte
	nsp  *nulls.Nulls
	typ  types.Type
	pos  int
}

func BindBytes(v *vector.Vector) *BytesCursor {
	return &BytesCursor{
		rows: v.RawBytes(),
		nsp:  v.GetNulls(),
		typ:  *v.GetType(),
	}
}

func (c *BytesCursor) Type() types.Type    { return c.typ }
func (c *BytesCursor) Length() int         { return len(c.rows) }
func (c *BytesCursor) HasMore() bool       { return c.pos < len(c.rows) }
func (c *BytesCursor) IsNullCurrent() bool { return c.nsp.Contains(uint32(c.pos)) }
func (c *BytesCursor) IsNullAt(idx int) bool {
	return c.nsp.Contains(uint32(idx))
}
func (c *BytesCursor) NonNullCount() int {
	return len(c.rows) - c.nsp.Count()
}
func (c *BytesCursor) Advance() { c.pos++ }

// NextAsU64 hashes the current row's bytes to a 64-bit token. Distinct
// strings may collide; callers that need exact grouping must compare
// bytes through NextView/ByteViewAt instead. The generic hash aggregator
// does not use this token: it keys groups on the boxed string itself.
func (c *BytesCursor) NextAsU64() uint64 {
	tok := maphash.Bytes(bytesSeed, c.rows[c.pos])
	c.pos++
	return tok
}

// NextView consumes the current row and returns a read-only view of its
// bytes. The slice aliases the underlying vector and must not be retained
// past the vector's lifetime.
func (c *BytesCursor) NextView() []byte {
	v := c.rows[c.pos]
	c.pos++
	return v
}

func (c *BytesCursor) ByteViewAt(idx int) []byte {
	return c.rows[idx]
}

func NewBytesCursor(v *vector.Vector) (Cursor, error) {
	typ := *v.GetType()
	if !typ.IsVarlen() {
		return nil, &BindError{Type: typ, Want: "variable-width"}
	}
	return BindBytes(v), nil
}
