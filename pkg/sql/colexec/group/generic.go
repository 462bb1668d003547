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
	"fmt"
	"strings"

	"github.com/streamql/colagg/pkg/common/aggerr"
	"github.com/streamql/colagg/pkg/container/batch"
	"github.com/streamql/colagg/pkg/container/cursor"
	"github.com/streamql/colagg/pkg/sql/colexec/agg"
)

// genericKeySep separates boxed-component encodings. Components are
// rendered with %#v, which quotes strings with Go escapes, so no rendering
// of the boxed scalar types this module produces (bools, integers, floats,
// strings, types.Int128) contains this byte and the join stays
// collision-free without a length prefix.
const genericKeySep = "\x1f"

// encodeGenericKey boxes every grouping column's value for row r through
// its bound cursor and folds the components into one comparable string,
// tagging each with its Go type so that, say, an int32 2 and a string "2"
// never alias to the same group.
func encodeGenericKey(cursors []*cursor.ScalarCursor, r int) string {
	var sb strings.Builder
	for i, c := range cursors {
		if i > 0 {
			sb.WriteString(genericKeySep)
		}
		if c.IsNullAt(r) {
			sb.WriteString("null")
			continue
		}
		v := c.BoxedAt(r)
		fmt.Fprintf(&sb, "%T:%#v", v, v)
	}
	return sb.String()
}

// GenericHashAggregate is the fallback strategy (spec.md §4.7) for
// grouping columns the numeric strategies cannot key on directly —
// non-numeric fixed types, varlen columns mixed with other columns, and
// nested/dictionary columns — by boxing every grouping column's value
// through the scalar cursor path and keying groups on the composite boxed
// representation instead of a numeric token.
type GenericHashAggregate struct {
	contract groupByContract
	opts     *options

	state    lifecycle
	funcs    []agg.Func
	colIdx   []int
	outNames []string
	keyCols  []int

	slots map[string][]agg.Slot
	order *firstSeenOrder[string]

	stats BatchStats
}

func NewGenericHashAggregate(groupByCols, aggCols []string, aggFuncs []agg.Def, opts ...Option) (*GenericHashAggregate, error) {
	c := groupByContract{groupByCols: groupByCols, aggCols: aggCols, aggFuncs: aggFuncs}
	if err := validateContract(c); err != nil {
		return nil, err
	}
	if len(groupByCols) == 0 {
		return nil, aggerr.NewConfigError("GenericHashAggregate requires at least one grouping column")
	}
	o := newOptions(opts...)
	return &GenericHashAggregate{
		contract: c,
		opts:     o,
		slots:    make(map[string][]agg.Slot),
		order:    newFirstSeenOrder[string](o.deterministic),
	}, nil
}

func (a *GenericHashAggregate) Stats() BatchStats { return a.stats }

func (a *GenericHashAggregate) bindIfNeeded(bat *batch.Batch) error {
	if a.state != lifecycleUnbound {
		return nil
	}
	funcs, colIdx, outNames, err := resolveFuncs(a.contract, bat)
	if err != nil {
		return err
	}
	keyCols := make([]int, len(a.contract.groupByCols))
	for i, name := range a.contract.groupByCols {
		idx := bat.ColumnIndex(name)
		if idx < 0 {
			return aggerr.NewConfigError("group-by column %q not found in input schema", name)
		}
		keyCols[i] = idx
	}
	a.funcs, a.colIdx, a.outNames, a.keyCols = funcs, colIdx, outNames, keyCols
	a.state = lifecycleBound
	return nil
}

func (a *GenericHashAggregate) Consume(bat *batch.Batch) error {
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
	keyCurs := make([]*cursor.ScalarCursor, len(a.keyCols))
	for i, idx := range a.keyCols {
		keyCurs[i] = cursor.NewScalarCursor(bat.GetVector(idx))
	}

	for r := 0; r < bat.RowCount(); r++ {
		key := encodeGenericKey(keyCurs, r)
		a.stats.RowsConsumed++

		slots, ok := a.slots[key]
		isNew := !ok
		if isNew {
			slots = newSlots(len(a.funcs))
			a.slots[key] = slots
			a.order.observe(key)
			a.stats.GroupsCreated++
		}
		initRowOrUpdate(a.funcs, len(a.contract.groupByCols), slots, r, isNew)
	}
	return nil
}

func (a *GenericHashAggregate) Finish() (*batch.Batch, error) {
	if a.state == lifecycleFinished {
		return nil, aggerr.NewRuntimeError("Finish called twice")
	}
	a.state = lifecycleFinished

	groups := make([][]agg.Slot, 0, len(a.slots))
	if a.opts.deterministic {
		a.order.ascend(func(key string) {
			groups = append(groups, a.slots[key])
		})
	} else {
		for _, slots := range a.slots {
			groups = append(groups, slots)
		}
	}
	summarizeAll(a.funcs, groups)
	return assembleResult(a.outNames, a.funcs), nil
}
