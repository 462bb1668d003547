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

type avgSlot[W Widened] struct {
	sum W
	cnt uint64
}

// AvgFunc implements AVG over every source except i64/u64 (64-bit
// temporal columns accumulate in int64), always emitting float64, matching the return-type convention the
// teacher's AvgReturnType applies uniformly across its numeric inputs.
type AvgFunc[S SumSrcT, W Widened] struct {
	cur   *cursor.NumericCursor[S]
	widen func(S) W
	typ   types.Type
	b     *vector.FixedBuilder[float64]
}

func NewAvgFunc[S SumSrcT, W Widened](typ types.Type, widen func(S) W) *AvgFunc[S, W] {
	return &AvgFunc[S, W]{typ: typ, widen: widen, b: vector.NewFixedBuilder[float64](types.New(types.T_float64))}
}

func (f *AvgFunc[S, W]) BindCursor(c cursor.Cursor) error {
	nc, ok := c.(*cursor.NumericCursor[S])
	if !ok {
		return aggerr.NewConfigError("AVG: cursor type mismatch for column of type %s", f.typ)
	}
	f.cur = nc
	return nil
}

func (f *AvgFunc[S, W]) InitRow(rowIdx int) Slot {
	s := &avgSlot[W]{}
	f.foldRow(s)
	return s
}

func (f *AvgFunc[S, W]) UpdateRow(slot Slot) {
	f.foldRow(slot.(*avgSlot[W]))
}

func (f *AvgFunc[S, W]) foldRow(s *avgSlot[W]) {
	isNull := f.cur.IsNullCurrent()
	v := f.cur.NextValue()
	if isNull {
		return
	}
	s.sum += f.widen(v)
	s.cnt++
}

func (f *AvgFunc[S, W]) InitBatch() Slot { return &avgSlot[W]{} }

func (f *AvgFunc[S, W]) UpdateBatch(slot Slot) {
	s := slot.(*avgSlot[W])
	for f.cur.HasMore() {
		f.foldRow(s)
	}
}

func (f *AvgFunc[S, W]) Reserve(n int) { f.b.Reserve(n) }

func (f *AvgFunc[S, W]) Summarize(slot Slot) {
	s := slot.(*avgSlot[W])
	if s.cnt == 0 {
		f.b.AppendNull()
		return
	}
	f.b.Append(float64(s.sum)/float64(s.cnt), false)
}

func (f *AvgFunc[S, W]) Finish() *vector.Vector { return f.b.Finish() }

func (f *AvgFunc[S, W]) OutputType() types.Type { return types.New(types.T_float64) }

type avg128Slot struct {
	sum types.Int128
	cnt uint64
}

// Avg128Func implements AVG over i64/u64, accumulating a 128-bit sum and
// dividing it into a quotient and remainder at summarize time so the
// fractional part of the average isn't lost the way a naive
// cast-then-divide of the whole sum would lose it for very large sums.
type Avg128Func[S Int64OrUint64] struct {
	cur   *cursor.NumericCursor[S]
	widen func(S) types.Int128
	typ   types.Type
	b     *vector.FixedBuilder[float64]
}

func NewAvg128Func[S Int64OrUint64](typ types.Type, widen func(S) types.Int128) *Avg128Func[S] {
	return &Avg128Func[S]{typ: typ, widen: widen, b: vector.NewFixedBuilder[float64](types.New(types.T_float64))}
}

func (f *Avg128Func[S]) BindCursor(c cursor.Cursor) error {
	nc, ok := c.(*cursor.NumericCursor[S])
	if !ok {
		return aggerr.NewConfigError("AVG: cursor type mismatch for column of type %s", f.typ)
	}
	f.cur = nc
	return nil
}

func (f *Avg128Func[S]) InitRow(rowIdx int) Slot {
	s := &avg128Slot{}
	f.foldRow(s)
	return s
}

func (f *Avg128Func[S]) UpdateRow(slot Slot) {
	f.foldRow(slot.(*avg128Slot))
}

func (f *Avg128Func[S]) foldRow(s *avg128Slot) {
	isNull := f.cur.IsNullCurrent()
	v := f.cur.NextValue()
	if isNull {
		return
	}
	sum, overflow := s.sum.Add(f.widen(v))
	if overflow {
		panic(aggerr.NewOverflowError("AVG: 128-bit accumulator overflowed, which should be unreachable for any realistic input"))
	}
	s.sum = sum
	s.cnt++
}

func (f *Avg128Func[S]) InitBatch() Slot { return &avg128Slot{} }

func (f *Avg128Func[S]) UpdateBatch(slot Slot) {
	s := slot.(*avg128Slot)
	for f.cur.HasMore() {
		f.foldRow(s)
	}
}

func (f *Avg128Func[S]) Reserve(n int) { f.b.Reserve(n) }

func (f *Avg128Func[S]) Summarize(slot Slot) {
	s := slot.(*avg128Slot)
	if s.cnt == 0 {
		f.b.AppendNull()
		return
	}
	cnt := types.Int128FromUint64(s.cnt)
	whole, rem := s.sum.QuoRem(cnt)
	avg := whole.ToFloat64() + rem.ToFloat64()/float64(s.cnt)
	f.b.Append(avg, false)
}

func (f *Avg128Func[S]) Finish() *vector.Vector { return f.b.Finish() }

func (f *Avg128Func[S]) OutputType() types.Type { return types.New(types.T_float64) }
