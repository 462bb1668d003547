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
	"github.com/streamql/colagg/pkg/sql/colexec/agg"
)

// OneGroupAggregate is the no-GROUP-BY strategy (spec.md §4.9): every row
// belongs to the single implicit group, so there is no grouping column
// and no GROUP_BUILDER prefix. Each declared aggregate drains a whole
// batch at once through InitBatch/UpdateBatch rather than per-row
// InitRow/UpdateRow, since there is only ever one group to update.
type OneGroupAggregate struct {
	aggCols  []string
	aggFuncs []agg.Def
	opts     *options

	state    lifecycle
	funcs    []agg.Func
	colIdx   []int
	outNames []string

	slot    []agg.Slot
	started bool

	stats BatchStats
}

func NewOneGroupAggregate(aggCols []string, aggFuncs []agg.Def, opts ...Option) (*OneGroupAggregate, error) {
	if len(aggCols) != len(aggFuncs) {
		return nil, aggerr.NewConfigError("agg_cols and agg_funcs must have the same length, got %d and %d", len(aggCols), len(aggFuncs))
	}
	return &OneGroupAggregate{
		aggCols:  aggCols,
		aggFuncs: aggFuncs,
		opts:     newOptions(opts...),
	}, nil
}

func (a *OneGroupAggregate) Stats() BatchStats { return a.stats }

func (a *OneGroupAggregate) bindIfNeeded(bat *batch.Batch) error {
	if a.state != lifecycleUnbound {
		return nil
	}
	c := groupByContract{aggCols: a.aggCols, aggFuncs: a.aggFuncs}
	funcs, colIdx, outNames, err := resolveFuncs(c, bat)
	if err != nil {
		return err
	}
	a.funcs, a.colIdx, a.outNames = funcs, colIdx, outNames
	a.slot = newSlots(len(funcs))
	a.state = lifecycleBound
	return nil
}

// Consume binds against bat's schema on every call, including a zero-row
// one: spec.md §8's "zero-row batch yields one row, other aggregates NULL"
// boundary only holds for non-COUNT_STAR aggregates if their input column's
// type is resolved from that zero-row batch's schema, rather than deferred
// to Finish's columnless fallback, which cannot locate a named input column
// at all. This mirrors the teacher's original base_aggregate.cpp, whose
// EnsureInitAggFuncs/SetBatchArrays run unconditionally on every Next()
// with no row-count guard.
func (a *OneGroupAggregate) Consume(bat *batch.Batch) error {
	if a.state == lifecycleFinished {
		return aggerr.NewRuntimeError("Consume called after Finish")
	}
	a.stats.BatchesSeen++
	if err := a.bindIfNeeded(bat); err != nil {
		return err
	}
	if err := bindCursors(bat, a.funcs, a.colIdx); err != nil {
		return err
	}

	if !a.started {
		for i, f := range a.funcs {
			a.slot[i] = f.InitBatch()
		}
		a.started = true
		a.stats.GroupsCreated = 1
	}
	if bat.RowCount() == 0 {
		return nil
	}
	for i, f := range a.funcs {
		f.UpdateBatch(a.slot[i])
	}
	a.stats.RowsConsumed += uint64(bat.RowCount())
	return nil
}

func (a *OneGroupAggregate) Finish() (*batch.Batch, error) {
	if a.state == lifecycleFinished {
		return nil, aggerr.NewRuntimeError("Finish called twice")
	}
	a.state = lifecycleFinished

	if !a.started {
		// No batch was ever consumed: still produce one row per spec.md
		// §4.9 — a GROUP BY-less aggregate over zero input rows reports
		// one group (e.g. COUNT(*) = 0), so funcs must be resolved against
		// an empty, columnless batch to get there.
		c := groupByContract{aggCols: a.aggCols, aggFuncs: a.aggFuncs}
		funcs, colIdx, outNames, err := resolveFuncs(c, batch.New(nil, nil))
		if err != nil {
			return nil, err
		}
		a.funcs, a.colIdx, a.outNames = funcs, colIdx, outNames
		a.slot = newSlots(len(funcs))
		for i, f := range a.funcs {
			a.slot[i] = f.InitBatch()
		}
	}

	summarizeAll(a.funcs, [][]agg.Slot{a.slot})
	return assembleResult(a.outNames, a.funcs), nil
}
