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
	"encoding/binary"

	"github.com/axiomhq/hyperloglog"

	"github.com/streamql/colagg/pkg/common/aggerr"
	"github.com/streamql/colagg/pkg/container/cursor"
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
)

// KindApproxCountDistinct is a supplemented aggregate kind, not part of
// the closed {COUNT, COUNT_STAR, MIN, MAX, SUM, AVG} tag set; it is added
// rather than substituted for anything in that set.
const KindApproxCountDistinct Kind = 100

type hllSlot struct {
	sketch *hyperloglog.Sketch
}

// ApproxCountDistinctFunc feeds each non-null row's hash token into an
// HLL sketch per group and reports the sketch's cardinality estimate.
// Supported for every non-nested type: numeric columns insert their
// next_as_u64 token, byte columns insert their raw bytes, and decimal128
// columns insert their 128-bit value.
type ApproxCountDistinctFunc struct {
	cur cursor.Cursor
	b   *vector.FixedBuilder[uint64]
}

func NewApproxCountDistinctFunc() *ApproxCountDistinctFunc {
	return &ApproxCountDistinctFunc{b: vector.NewFixedBuilder[uint64](types.New(types.T_uint64))}
}

func (f *ApproxCountDistinctFunc) BindCursor(c cursor.Cursor) error {
	f.cur = c
	return nil
}

func (f *ApproxCountDistinctFunc) insert(s *hllSlot) bool {
	if f.cur.IsNullCurrent() {
		if bc, ok := f.cur.(*cursor.BytesCursor); ok {
			bc.NextView()
		} else {
			f.cur.Advance()
		}
		return false
	}
	if bc, ok := f.cur.(*cursor.BytesCursor); ok {
		s.sketch.Insert(bc.NextView())
		return true
	}
	if sc, ok := f.cur.(*cursor.ScalarCursor); ok {
		iv, _ := sc.NextBoxed().(types.Int128)
		var wide [16]byte
		binary.LittleEndian.PutUint64(wide[:8], iv.B0_63)
		binary.LittleEndian.PutUint64(wide[8:], iv.B64_127)
		s.sketch.Insert(wide[:])
		return true
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], f.cur.NextAsU64())
	s.sketch.Insert(buf[:])
	return true
}

func (f *ApproxCountDistinctFunc) InitRow(rowIdx int) Slot {
	s := &hllSlot{sketch: hyperloglog.New()}
	f.insert(s)
	return s
}

func (f *ApproxCountDistinctFunc) UpdateRow(slot Slot) {
	f.insert(slot.(*hllSlot))
}

func (f *ApproxCountDistinctFunc) InitBatch() Slot {
	return &hllSlot{sketch: hyperloglog.New()}
}

func (f *ApproxCountDistinctFunc) UpdateBatch(slot Slot) {
	s := slot.(*hllSlot)
	for f.cur.HasMore() {
		f.insert(s)
	}
}

func (f *ApproxCountDistinctFunc) Reserve(n int) { f.b.Reserve(n) }

func (f *ApproxCountDistinctFunc) Summarize(slot Slot) {
	f.b.Append(slot.(*hllSlot).sketch.Estimate(), false)
}

func (f *ApproxCountDistinctFunc) Finish() *vector.Vector { return f.b.Finish() }

func (f *ApproxCountDistinctFunc) OutputType() types.Type { return types.New(types.T_uint64) }

func newApproxCountDistinct(t types.Type) (Func, error) {
	if t.IsNested() {
		return nil, aggerr.NewConfigError("APPROX_COUNT_DISTINCT is not supported on type %s", t)
	}
	return NewApproxCountDistinctFunc(), nil
}
