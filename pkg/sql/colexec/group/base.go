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

package group

import (
	"github.com/streamql/colagg/pkg/common/aggerr"
	"github.com/streamql/colagg/pkg/container/batch"
	"github.com/streamql/colagg/pkg/container/cursor"
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
	"github.com/streamql/colagg/pkg/sql/colexec/agg"
)

func validateContract(c groupByContract) error {
	if len(c.groupByCols) != len(c.aggCols) {
		return aggerr.NewConfigError("groupby_cols and agg_cols must have the same length, got %d and %d", len(c.groupByCols), len(c.aggCols))
	}
	for i := range c.groupByCols {
		if c.groupByCols[i] != c.aggCols[i] {
			return aggerr.NewConfigError("groupby_cols and agg_cols must agree at position %d, got %q and %q", i, c.groupByCols[i], c.aggCols[i])
		}
	}
	return nil
}

// resolveFuncs implements the first half of base-aggregator binding
// (spec.md §4.4 step 1): one GROUP_BUILDER per grouping column, in
// declared order, followed by the caller's declared aggregates, each
// instantiated from the factory against the batch's resolved schema.
// colIdx[i] is the batch column funcs[i] reads from, or -1 for
// COUNT_STAR, which reads no column.
func resolveFuncs(c groupByContract, bat *batch.Batch) (funcs []agg.Func, colIdx []int, outNames []string, err error) {
	funcs = make([]agg.Func, 0, len(c.groupByCols)+len(c.aggFuncs))
	colIdx = make([]int, 0, cap(funcs))
	outNames = make([]string, 0, cap(funcs))

	for _, name := range c.groupByCols {
		idx := bat.ColumnIndex(name)
		if idx < 0 {
			return nil, nil, nil, aggerr.NewConfigError("group-by column %q not found in input schema", name)
		}
		typ := *bat.GetVector(idx).GetType()
		f, ferr := agg.New(agg.Def{Kind: agg.KindGroupBuilder, OutputColumnName: name}, typ)
		if ferr != nil {
			return nil, nil, nil, ferr
		}
		funcs = append(funcs, f)
		colIdx = append(colIdx, idx)
		outNames = append(outNames, name)
	}

	for _, def := range c.aggFuncs {
		idx := -1
		var typ types.Type
		if def.InputColumnName != "" {
			idx = bat.ColumnIndex(def.InputColumnName)
			if idx < 0 {
				return nil, nil, nil, aggerr.NewConfigError("aggregate input column %q not found in input schema", def.InputColumnName)
			}
			typ = *bat.GetVector(idx).GetType()
		}
		f, ferr := agg.New(def, typ)
		if ferr != nil {
			return nil, nil, nil, ferr
		}
		funcs = append(funcs, f)
		colIdx = append(colIdx, idx)
		outNames = append(outNames, def.OutputColumnName)
	}
	return funcs, colIdx, outNames, nil
}

// bindCursors re-attaches every func's cursor to the current batch,
// matching the per-consume rebinding discipline spec.md §4.4/§9 require:
// a cursor's lifetime is bounded by one consume call.
func bindCursors(bat *batch.Batch, funcs []agg.Func, colIdx []int) error {
	for i, f := range funcs {
		idx := colIdx[i]
		if idx < 0 {
			if bat.VectorCount() == 0 {
				continue
			}
			idx = 0
		}
		c, err := cursor.Bind(bat.GetVector(idx))
		if err != nil {
			return err
		}
		if err := f.BindCursor(c); err != nil {
			return err
		}
	}
	return nil
}

// initRowOrUpdate applies the base aggregator's row dispatch rule
// (spec.md §4.4 step 3): on a new group every func initializes; on an
// existing group every func *except* the GROUP_BUILDER prefix updates.
func initRowOrUpdate(funcs []agg.Func, numGroupCols int, slots []agg.Slot, row int, isNew bool) {
	for i, f := range funcs {
		if isNew {
			slots[i] = f.InitRow(row)
			continue
		}
		if i >= numGroupCols {
			f.UpdateRow(slots[i])
		}
	}
}

// summarizeAll drives finish() step 1 (spec.md §4.4): reserve capacity
// on every func, then summarize every group's slots in iteration order.
func summarizeAll(funcs []agg.Func, groups [][]agg.Slot) {
	for _, f := range funcs {
		f.Reserve(len(groups))
	}
	for _, slots := range groups {
		for i, f := range funcs {
			f.Summarize(slots[i])
		}
	}
}

func assembleResult(outNames []string, funcs []agg.Func) *batch.Batch {
	vecs := make([]*vector.Vector, len(funcs))
	for i, f := range funcs {
		vecs[i] = f.Finish()
	}
	return batch.New(outNames, vecs)
}

func newSlots(n int) []agg.Slot {
	return make([]agg.Slot, n)
}
