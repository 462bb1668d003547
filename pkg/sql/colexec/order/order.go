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

// Package order implements the in-memory Sort operator (spec.md §4.10):
// accumulate every consumed batch, compute one stable multi-key sort
// permutation over the accumulated rows, then take rows through that
// permutation into one contiguous output batch. Grounded on the teacher's
// order package's consume/sort/shuffle shape, adapted from its
// plan.Expr/process.Process-bound partition-and-radix-sort machinery to
// this module's schema-free Batch/Vector surface: rather than the
// teacher's per-column partition-then-sort-within-partition pass, this
// version folds every key into one stable sort.SliceStable comparator,
// since stability already gives later keys the correct tie-break
// behavior without a separate partitioning pass.
package order

import (
	"github.com/streamql/colagg/pkg/common/aggerr"
	"github.com/streamql/colagg/pkg/container/batch"
)

// Key is one ORDER BY term: a column to compare by, a direction, and
// where NULLs sort relative to non-NULL values.
type Key struct {
	ColumnName string
	Desc       bool
	NullsFirst bool
}

type lifecycle uint8

const (
	lifecycleOpen lifecycle = iota
	lifecycleFinished
)

// Sorter is the Sort operator. It owns every batch it is handed until
// Finish, since a stable multi-key sort needs every row present before
// any row's final position is known.
type Sorter struct {
	keys []Key

	state   lifecycle
	attrs   []string
	keyIdx  []int
	batches []*batch.Batch
	rows    int
}

func NewSorter(keys []Key) (*Sorter, error) {
	if len(keys) == 0 {
		return nil, aggerr.NewConfigError("Sorter requires at least one sort key")
	}
	return &Sorter{keys: keys}, nil
}

func (s *Sorter) Consume(bat *batch.Batch) error {
	if s.state == lifecycleFinished {
		return aggerr.NewRuntimeError("Consume called after Finish")
	}
	if bat.RowCount() == 0 {
		return nil
	}
	if s.attrs == nil {
		s.attrs = bat.Attrs
		keyIdx := make([]int, len(s.keys))
		for i, k := range s.keys {
			idx := bat.ColumnIndex(k.ColumnName)
			if idx < 0 {
				return aggerr.NewConfigError("sort key column %q not found in input schema", k.ColumnName)
			}
			keyIdx[i] = idx
		}
		s.keyIdx = keyIdx
	}
	s.batches = append(s.batches, bat)
	s.rows += bat.RowCount()
	return nil
}
