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

// Int64OrUint64 is the pair of 64-bit input types whose SUM risks
// overflowing its own width within a single group (§4.3.5).
type Int64OrUint64 interface {
	int64 | uint64
}

type sum128Slot struct {
	sum    types.Int128
	hasVal bool
}

// Sum128Func implements overflow-aware SUM on i64/u64: it accumulates in
// a 128-bit total per group and only decides, once every group has been
// summarized, whether the result narrows back to the native 64-bit type
// or must be emitted as decimal128(38,0). Because every group's total is
// already buffered as an Int128 by the time Summarize runs, there is no
// need to retroactively migrate a partially filled native builder the
// way a single streaming builder would — the mode decision is made once,
// at Finish, from values that were always stored wide.
type Sum128Func[S Int64OrUint64] struct {
	narrowTyp types.Type
	cur       *cursor.NumericCursor[S]
	widen     func(S) types.Int128
	vals      []types.Int128
	isNull    []bool
	wideMode  bool
}

func NewSum128Func[S Int64OrUint64](narrowTyp types.Type, widen func(S) types.Int128) *Sum128Func[S] {
	return &Sum128Func[S]{narrowTyp: narrowTyp, widen: widen}
}

func (f *Sum128Func[S]) BindCursor(c cursor.Cursor) error {
	nc, ok := c.(*cursor.NumericCursor[S])
	if !ok {
		return aggerr.NewConfigError("SUM: cursor type mismatch for column of type %s", f.narrowTyp)
	}
	f.cur = nc
	return nil
}

func (f *Sum128Func[S]) InitRow(rowIdx int) Slot {
	isNull := f.cur.IsNullCurrent()
	v := f.cur.NextValue()
	if isNull {
		return &sum128Slot{}
	}
	return &sum128Slot{sum: f.widen(v), hasVal: true}
}

func (f *Sum128Func[S]) UpdateRow(slot Slot) {
	isNull := f.cur.IsNullCurrent()
	v := f.cur.NextValue()
	if isNull {
		return
	}
	s := slot.(*sum128Slot)
	sum, _ := s.sum.Add(f.widen(v))
	s.sum, s.hasVal = sum, true
}

func (f *Sum128Func[S]) InitBatch() Slot { return &sum128Slot{} }

func (f *Sum128Func[S]) UpdateBatch(slot Slot) {
	s := slot.(*sum128Slot)
	for f.cur.HasMore() {
		isNull := f.cur.IsNullCurrent()
		v := f.cur.NextValue()
		if isNull {
			continue
		}
		sum, _ := s.sum.Add(f.widen(v))
		s.sum, s.hasVal = sum, true
	}
}

func (f *Sum128Func[S]) Reserve(n int) {
	f.vals = make([]types.Int128, 0, n)
	f.isNull = make([]bool, 0, n)
}

func (f *Sum128Func[S]) Summarize(slot Slot) {
	s := slot.(*sum128Slot)
	f.vals = append(f.vals, s.sum)
	f.isNull = append(f.isNull, !s.hasVal)
	if !s.hasVal {
		return
	}
	if !f.wideMode {
		var ok bool
		switch f.narrowTyp.Oid {
		case types.T_int64:
			_, ok = s.sum.ToInt64()
		case types.T_uint64:
			_, ok = s.sum.ToUint64()
		}
		if !ok {
			f.wideMode = true
		}
	}
}

func (f *Sum128Func[S]) Finish() *vector.Vector {
	if !f.wideMode {
		b := vector.NewFixedBuilder[S](f.narrowTyp)
		b.Reserve(len(f.vals))
		for i, v := range f.vals {
			if f.isNull[i] {
				b.AppendNull()
				continue
			}
			var narrow S
			switch f.narrowTyp.Oid {
			case types.T_int64:
				n, _ := v.ToInt64()
				narrow = S(n)
			case types.T_uint64:
				n, _ := v.ToUint64()
				narrow = S(n)
			}
			b.Append(narrow, false)
		}
		return b.Finish()
	}
	b := vector.NewFixedBuilder[types.Int128](types.NewDecimal128(0))
	b.Reserve(len(f.vals))
	for i, v := range f.vals {
		b.Append(v, f.isNull[i])
	}
	return b.Finish()
}

func (f *Sum128Func[S]) OutputType() types.Type {
	if f.wideMode {
		return types.NewDecimal128(0)
	}
	return f.narrowTyp
}
