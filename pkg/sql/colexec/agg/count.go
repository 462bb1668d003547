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
	"github.com/streamql/colagg/pkg/container/cursor"
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
)

type countSlot struct{ n uint64 }

// CountStarFunc implements COUNT_STAR: counts every row regardless of
// nullness. It still binds a cursor, positioned over some column of the
// batch by the caller, purely so UpdateBatch can read the batch's row
// count; the cursor's values are never inspected.
type CountStarFunc struct {
	cur cursor.Cursor
	b   *vector.FixedBuilder[uint64]
}

func NewCountStarFunc() *CountStarFunc {
	return &CountStarFunc{b: vector.NewFixedBuilder[uint64](types.New(types.T_uint64))}
}

func (f *CountStarFunc) BindCursor(c cursor.Cursor) error { f.cur = c; return nil }

func (f *CountStarFunc) InitRow(rowIdx int) Slot {
	f.cur.Advance()
	return &countSlot{n: 1}
}

func (f *CountStarFunc) UpdateRow(slot Slot) {
	f.cur.Advance()
	slot.(*countSlot).n++
}

func (f *CountStarFunc) InitBatch() Slot { return &countSlot{n: 0} }

func (f *CountStarFunc) UpdateBatch(slot Slot) {
	slot.(*countSlot).n += uint64(f.cur.Length())
}

func (f *CountStarFunc) Reserve(n int) { f.b.Reserve(n) }

func (f *CountStarFunc) Summarize(slot Slot) {
	f.b.Append(slot.(*countSlot).n, false)
}

func (f *CountStarFunc) Finish() *vector.Vector { return f.b.Finish() }

func (f *CountStarFunc) OutputType() types.Type { return types.New(types.T_uint64) }

// CountFunc implements COUNT(column): counts non-null rows of its bound
// column.
type CountFunc struct {
	cur cursor.Cursor
	b   *vector.FixedBuilder[uint64]
}

func NewCountFunc() *CountFunc {
	return &CountFunc{b: vector.NewFixedBuilder[uint64](types.New(types.T_uint64))}
}

func (f *CountFunc) BindCursor(c cursor.Cursor) error { f.cur = c; return nil }

func (f *CountFunc) InitRow(rowIdx int) Slot {
	isNull := f.cur.IsNullCurrent()
	f.cur.Advance()
	if isNull {
		return &countSlot{n: 0}
	}
	return &countSlot{n: 1}
}

func (f *CountFunc) UpdateRow(slot Slot) {
	isNull := f.cur.IsNullCurrent()
	f.cur.Advance()
	if !isNull {
		slot.(*countSlot).n++
	}
}

func (f *CountFunc) InitBatch() Slot { return &countSlot{n: 0} }

func (f *CountFunc) UpdateBatch(slot Slot) {
	slot.(*countSlot).n += uint64(f.cur.NonNullCount())
	for f.cur.HasMore() {
		f.cur.Advance()
	}
}

func (f *CountFunc) Reserve(n int) { f.b.Reserve(n) }

func (f *CountFunc) Summarize(slot Slot) {
	f.b.Append(slot.(*countSlot).n, false)
}

func (f *CountFunc) Finish() *vector.Vector { return f.b.Finish() }

func (f *CountFunc) OutputType() types.Type { return types.New(types.T_uint64) }
