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
	"sort"

	"github.com/streamql/colagg/pkg/common/aggerr"
	"github.com/streamql/colagg/pkg/container/batch"
	"github.com/streamql/colagg/pkg/container/cursor"
	"github.com/streamql/colagg/pkg/container/vector"
)

// rowRef names one row by the batch that holds it and its row offset
// within that batch. Sorting permutes a slice of these instead of the
// rows themselves, matching the teacher's sels/take split between
// computing an index permutation and shuffling by it.
type rowRef struct {
	batch int
	row   int
}

// Finish computes the sort permutation over every row consumed so far
// and returns one output batch with rows in that order. It may be
// called only once.
func (s *Sorter) Finish() (*batch.Batch, error) {
	if s.state == lifecycleFinished {
		return nil, aggerr.NewRuntimeError("Finish called twice")
	}
	s.state = lifecycleFinished

	if s.rows == 0 {
		return batch.New(nil, nil), nil
	}

	refs := make([]rowRef, 0, s.rows)
	for bi, bat := range s.batches {
		for r := 0; r < bat.RowCount(); r++ {
			refs = append(refs, rowRef{batch: bi, row: r})
		}
	}

	// keyCursors[k][bi] is key k's boxed cursor over batch bi's key
	// column; bound once up front since a stable sort revisits the same
	// rows many times.
	keyCursors := make([][]*cursor.ScalarCursor, len(s.keys))
	for k, idx := range s.keyIdx {
		cursors := make([]*cursor.ScalarCursor, len(s.batches))
		for bi, bat := range s.batches {
			cursors[bi] = cursor.NewScalarCursor(bat.GetVector(idx))
		}
		keyCursors[k] = cursors
	}

	less := func(i, j int) bool {
		a, b := refs[i], refs[j]
		for k, key := range s.keys {
			ca, cb := keyCursors[k][a.batch], keyCursors[k][b.batch]
			aNull, bNull := ca.IsNullAt(a.row), cb.IsNullAt(b.row)
			if aNull && bNull {
				continue
			}
			if aNull != bNull {
				if aNull {
					return key.NullsFirst
				}
				return !key.NullsFirst
			}
			c := compareBoxed(ca.BoxedAt(a.row), cb.BoxedAt(b.row))
			if c == 0 {
				continue
			}
			if key.Desc {
				c = -c
			}
			return c < 0
		}
		return false
	}
	sort.SliceStable(refs, less)

	return s.take(refs), nil
}

// take materializes the output batch by re-reading every column of
// every source batch through a boxed cursor in permutation order,
// mirroring the teacher's bat.Shuffle step. A column with no physical
// output layout (nested/union/dictionary) is dropped from the result:
// it contributed to the sort order but cannot be re-materialized.
func (s *Sorter) take(refs []rowRef) *batch.Batch {
	numCols := len(s.attrs)
	outAttrs := make([]string, 0, numCols)
	outVecs := make([]*vector.Vector, 0, numCols)

	for c := 0; c < numCols; c++ {
		typ := *s.batches[0].GetVector(c).GetType()
		b := newOutputBuilder(typ)
		if b == nil {
			continue
		}
		b.reserve(len(refs))

		cursors := make([]*cursor.ScalarCursor, len(s.batches))
		for bi, bat := range s.batches {
			cursors[bi] = cursor.NewScalarCursor(bat.GetVector(c))
		}
		for _, ref := range refs {
			cur := cursors[ref.batch]
			if cur.IsNullAt(ref.row) {
				b.append(nil, true)
				continue
			}
			b.append(cur.BoxedAt(ref.row), false)
		}

		outAttrs = append(outAttrs, s.attrs[c])
		outVecs = append(outVecs, b.finish())
	}

	return batch.New(outAttrs, outVecs)
}
