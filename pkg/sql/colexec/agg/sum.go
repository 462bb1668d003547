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
	"github.com/streamql/colagg/pkg/common/aggerr"
	"github.com/streamql/colagg/pkg/container/cursor"
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
)

// SumSrcT is every fixed-width input type whose SUM is widened to a plain
// i64/u64/f64 accumulator rather than the 128-bit path (§4.3.4). True
// i64/u64 *columns* go through Sum128Func instead (§4.3.5); int64/uint64
// remain part of this Go-level constraint only because date64/timestamp/
// duration columns share int64 as their physical cursor type and take
// the plain-widened path — the factory picks the path by Oid, not by Go
// type, so the two never collide for the same column.
type SumSrcT interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// Widened is the closed set of accumulator types a small-source SUM can
// widen into.
type Widened interface {
	int64 | uint64 | float64
}

type sumSlot[W Widened] struct {
	sum    W
	hasVal bool
}

// SumFunc implements SUM over every source except i64/u64 (64-bit
// temporal columns accumulate in int64), accumulating with native
// wrapping arithmetic in the widened type.
type SumFunc[S SumSrcT, W Widened] struct {
	outTyp types.Type
	widen  func(S) W
	cur    *cursor.NumericCursor[S]
	b      *vector.FixedBuilder[W]
}

func NewSumFunc[S SumSrcT, W Widened](outTyp types.Type, widen func(S) W) *SumFunc[S, W] {
	return &SumFunc[S, W]{outTyp: outTyp, widen: widen, b: vector.NewFixedBuilder[W](outTyp)}
}

func (f *SumFunc[S, W]) BindCursor(c cursor.Cursor) error {
	nc, ok := c.(*cursor.NumericCursor[S])
	if !ok {
		return aggerr.NewConfigError("SUM: cursor type mismatch for column of type %s", f.outTyp)
	}
	f.cur = nc
	return nil
}

func (f *SumFunc[S, W]) InitRow(rowIdx int) Slot {
	isNull := f.cur.IsNullCurrent()
	v := f.cur.NextValue()
	if isNull {
		return &sumSlot[W]{}
	}
	return &sumSlot[W]{sum: f.widen(v), hasVal: true}
}

func (f *SumFunc[S, W]) UpdateRow(slot Slot) {
	isNull := f.cur.IsNullCurrent()
	v := f.cur.NextValue()
	if isNull {
		return
	}
	s := slot.(*sumSlot[W])
	s.sum += f.widen(v)
	s.hasVal = true
}

func (f *SumFunc[S, W]) InitBatch() Slot { return &sumSlot[W]{} }

func (f *SumFunc[S, W]) UpdateBatch(slot Slot) {
	s := slot.(*sumSlot[W])
	for f.cur.HasMore() {
		isNull := f.cur.IsNullCurrent()
		v := f.cur.NextValue()
		if isNull {
			continue
		}
		s.sum += f.widen(v)
		s.hasVal = true
	}
}

func (f *SumFunc[S, W]) Reserve(n int) { f.b.Reserve(n) }

func (f *SumFunc[S, W]) Summarize(slot Slot) {
	s := slot.(*sumSlot[W])
	f.b.Append(s.sum, !s.hasVal)
}

func (f *SumFunc[S, W]) Finish() *vector.Vector { return f.b.Finish() }

func (f *SumFunc[S, W]) OutputType() types.Type { return f.outTyp }
