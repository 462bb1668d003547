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
	"math/rand"
	"sort"

	"github.com/streamql/colagg/pkg/common/aggerr"
	"github.com/streamql/colagg/pkg/container/cursor"
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
)

// KindMedian is a supplemented aggregate kind, grounded in the teacher's
// reservoir-sampling median rather than in spec.md's closed tag set.
const KindMedian Kind = 101

// medianReservoirCap matches the teacher's default reservoir size for its
// approximate median/percentile aggregates.
const medianReservoirCap = 1024

type medianSlot struct {
	sample []float64
	seen   uint64 // total non-null rows seen, for reservoir replacement odds
}

// MedianFunc estimates the median of a numeric column per group with a
// bounded reservoir sample: exact while the group has at most
// medianReservoirCap non-null rows, approximate above that.
type MedianFunc struct {
	cur   *cursor.NumericCursor[float64]
	toF64 func() (float64, bool)
	typ   types.Type
	rng   *rand.Rand
	b     *vector.FixedBuilder[float64]
}

func NewMedianFunc(typ types.Type) *MedianFunc {
	return &MedianFunc{
		typ: typ,
		rng: rand.New(rand.NewSource(1)),
		b:   vector.NewFixedBuilder[float64](types.New(types.T_float64)),
	}
}

func (f *MedianFunc) BindCursor(c cursor.Cursor) error {
	switch nc := c.(type) {
	case *cursor.NumericCursor[float64]:
		f.cur = nc
	default:
		return aggerr.NewConfigError("MEDIAN: column of type %s is not numeric", f.typ)
	}
	return nil
}

func (f *MedianFunc) offer(s *medianSlot) bool {
	isNull := f.cur.IsNullCurrent()
	v := f.cur.NextValue()
	if isNull {
		return false
	}
	s.seen++
	if len(s.sample) < medianReservoirCap {
		s.sample = append(s.sample, v)
		return true
	}
	if j := f.rng.Int63n(int64(s.seen)); j < int64(medianReservoirCap) {
		s.sample[j] = v
	}
	return true
}

func (f *MedianFunc) InitRow(rowIdx int) Slot {
	s := &medianSlot{}
	f.offer(s)
	return s
}

func (f *MedianFunc) UpdateRow(slot Slot) {
	f.offer(slot.(*medianSlot))
}

func (f *MedianFunc) InitBatch() Slot { return &medianSlot{} }

func (f *MedianFunc) UpdateBatch(slot Slot) {
	s := slot.(*medianSlot)
	for f.cur.HasMore() {
		f.offer(s)
	}
}

func (f *MedianFunc) Reserve(n int) { f.b.Reserve(n) }

func (f *MedianFunc) Summarize(slot Slot) {
	s := slot.(*medianSlot)
	if len(s.sample) == 0 {
		f.b.AppendNull()
		return
	}
	sorted := append([]float64(nil), s.sample...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		f.b.Append(sorted[n/2], false)
		return
	}
	f.b.Append((sorted[n/2-1]+sorted[n/2])/2, false)
}

func (f *MedianFunc) Finish() *vector.Vector { return f.b.Finish() }

func (f *MedianFunc) OutputType() types.Type { return types.New(types.T_float64) }

func newMedian(t types.Type) (Func, error) {
	if t.Oid != types.T_float64 {
		return nil, aggerr.NewConfigError("MEDIAN requires a float64 column (cast before aggregating); got %s", t)
	}
	return NewMedianFunc(t), nil
}
