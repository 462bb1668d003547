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
	"github.com/streamql/colagg/pkg/sql/colexec/agg"
)

// SingleHashAggregate is the single-key numeric hash aggregator (spec.md
// §4.5): used when there is exactly one grouping column of fixed-width
// numeric, boolean, or temporal type. Null keys are diverted into a
// single out-of-band slot beside the main map, grounded on the teacher's
// H8 strategy's dedicated null-group handling in its group package.
type SingleHashAggregate struct {
	contract groupByContract
	opts     *options

	state lifecycle
	funcs []agg.Func
	colIdx []int
	outNames []string

	keyColIdx int

	slots    map[uint64][]agg.Slot
	order    *firstSeenOrder[uint64]
	nullSlot []agg.Slot
	hasNull  bool

	stats BatchStats
}

func NewSingleHashAggregate(groupByCols, aggCols []string, aggFuncs []agg.Def, opts ...Option) (*SingleHashAggregate, error) {
	c := groupByContract{groupByCols: groupByCols, aggCols: aggCols, aggFuncs: aggFuncs}
	if err := validateContract(c); err != nil {
		return nil, err
	}
	if len(groupByCols) != 1 {
		return nil, aggerr.NewConfigError("SingleHashAggregate requires exactly one grouping column, got %d", len(groupByCols))
	}
	o := newOptions(opts...)
	return &SingleHashAggregate{
		contract: c,
		opts:     o,
		slots:    make(map[uint64][]agg.Slot),
		order:    newFirstSeenOrder[uint64](o.deterministic),
	}, nil
}

func (a *SingleHashAggregate) Stats() BatchStats { return a.stats }

func (a *SingleHashAggregate) bindIfNeeded(bat *batch.Batch) error {
	if a.state != lifecycleUnbound {
		return nil
	}
	funcs, colIdx, outNames, err := resolveFuncs(a.contract, bat)
	if err != nil {
		return err
	}
	idx := bat.ColumnIndex(a.contract.groupByCols[0])
	if idx < 0 {
		return aggerr.NewConfigError("group-by column %q not found in input schema", a.contract.groupByCols[0])
	}
	if !bat.GetVector(idx).GetType().IsNumeric() {
		return aggerr.NewConfigError("SingleHashAggregate requires a numeric/boolean/temporal key column, got %s", bat.GetVector(idx).GetType())
	}
	a.funcs, a.colIdx, a.outNames, a.keyColIdx = funcs, colIdx, outNames, idx
	a.state = lifecycleBound
	return nil
}

func (a *SingleHashAggregate) Consume(bat *batch.Batch) error {
	if a.state == lifecycleFinished {
		return aggerr.NewRuntimeError("Consume called after Finish")
	}
	a.stats.BatchesSeen++
	if bat.RowCount() == 0 {
		return nil
	}
	if err := a.bindIfNeeded(bat); err != nil {
		return err
	}
	if err := bindCursors(bat, a.funcs, a.colIdx); err != nil {
		return err
	}
	keyCur, err := cursor.Bind(bat.GetVector(a.keyColIdx))
	if err != nil {
		return err
	}

	for r := 0; r < bat.RowCount(); r++ {
		isNull := keyCur.IsNullCurrent()
		token := keyCur.NextAsU64()
		a.stats.RowsConsumed++

		var slots []agg.Slot
		var isNew bool
		if isNull {
			if !a.hasNull {
				a.hasNull = true
				a.nullSlot = newSlots(len(a.funcs))
				isNew = true
			}
			slots = a.nullSlot
		} else {
			var ok bool
			slots, ok = a.slots[token]
			if !ok {
				slots = newSlots(len(a.funcs))
				a.slots[token] = slots
				a.order.observe(token)
				isNew = true
			}
		}
		if isNew {
			a.stats.GroupsCreated++
		}
		initRowOrUpdate(a.funcs, len(a.contract.groupByCols), slots, r, isNew)
	}
	return nil
}

func (a *SingleHashAggregate) Finish() (*batch.Batch, error) {
	if a.state == lifecycleFinished {
		return nil, aggerr.NewRuntimeError("Finish called twice")
	}
	a.state = lifecycleFinished

	groups := make([][]agg.Slot, 0, len(a.slots)+1)
	if a.opts.deterministic {
		a.order.ascend(func(tok uint64) {
			groups = append(groups, a.slots[tok])
		})
	} else {
		for _, slots := range a.slots {
			groups = append(groups, slots)
		}
	}
	if a.hasNull {
		groups = append(groups, a.nullSlot)
	}
	summarizeAll(a.funcs, groups)
	return assembleResult(a.outNames, a.funcs), nil
}
