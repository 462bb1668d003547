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
	"encoding/binary"

	"github.com/streamql/colagg/pkg/common/aggerr"
	"github.com/streamql/colagg/pkg/container/batch"
	"github.com/streamql/colagg/pkg/container/cursor"
	"github.com/streamql/colagg/pkg/sql/colexec/agg"
)

// combineHash mixes one grouping column's component into seed with the
// order-sensitive boost-style combiner spec.md §4.6 fixes as the only
// acceptable shape: a null component contributes the constant 0, a
// non-null component contributes its token. This is the reference
// combiner; the map below does not call it for correctness (Go's map
// cannot take a caller-supplied hash function, so group identity is
// decided by an exact componentwise-encoded byte key instead), but it
// is exposed for callers that need to reproduce or test the documented
// hash shape directly.
func combineHash(seed uint64, isNull bool, token uint64) uint64 {
	h := uint64(0)
	if !isNull {
		h = token
	}
	seed ^= h + 0x9e3779b97f4a7c15 + (seed << 6) + (seed >> 2)
	return seed
}

// encodeMultiKey builds an exact, order-sensitive byte key for one row's
// grouping-column components: a null component encodes as a single 0x00
// byte, a non-null component as 0x01 followed by its 8-byte token.
func encodeMultiKey(isNull []bool, tokens []uint64) string {
	buf := make([]byte, 0, len(isNull)*9)
	var tmp [8]byte
	for i, null := range isNull {
		if null {
			buf = append(buf, 0)
			continue
		}
		buf = append(buf, 1)
		binary.LittleEndian.PutUint64(tmp[:], tokens[i])
		buf = append(buf, tmp[:]...)
	}
	return string(buf)
}

// MultiHashAggregate is the multi-key numeric hash aggregator (spec.md
// §4.6): N numeric/boolean/temporal grouping columns, encoded into one
// composite key.
type MultiHashAggregate struct {
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

func NewMultiHashAggregate(groupByCols, aggCols []string, aggFuncs []agg.Def, opts ...Option) (*MultiHashAggregate, error) {
	c := groupByContract{groupByCols: groupByCols, aggCols: aggCols, aggFuncs: aggFuncs}
	if err := validateContract(c); err != nil {
		return nil, err
	}
	if len(groupByCols) == 0 {
		return nil, aggerr.NewConfigError("MultiHashAggregate requires at least one grouping column")
	}
	o := newOptions(opts...)
	return &MultiHashAggregate{
		contract: c,
		opts:     o,
		slots:    make(map[string][]agg.Slot),
		order:    newFirstSeenOrder[string](o.deterministic),
	}, nil
}

func (a *MultiHashAggregate) Stats() BatchStats { return a.stats }

func (a *MultiHashAggregate) bindIfNeeded(bat *batch.Batch) error {
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
		if !bat.GetVector(idx).GetType().IsNumeric() {
			return aggerr.NewConfigError("MultiHashAggregate requires numeric/boolean/temporal key columns, column %q is %s", name, bat.GetVector(idx).GetType())
		}
		keyCols[i] = idx
	}
	a.funcs, a.colIdx, a.outNames, a.keyCols = funcs, colIdx, outNames, keyCols
	a.state = lifecycleBound
	return nil
}

func (a *MultiHashAggregate) Consume(bat *batch.Batch) error {
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
	keyCurs := make([]cursor.Cursor, len(a.keyCols))
	for i, idx := range a.keyCols {
		c, err := cursor.Bind(bat.GetVector(idx))
		if err != nil {
			return err
		}
		keyCurs[i] = c
	}

	isNull := make([]bool, len(keyCurs))
	tokens := make([]uint64, len(keyCurs))
	for r := 0; r < bat.RowCount(); r++ {
		for i, kc := range keyCurs {
			isNull[i] = kc.IsNullCurrent()
			tokens[i] = kc.NextAsU64()
		}
		key := encodeMultiKey(isNull, tokens)
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

func (a *MultiHashAggregate) Finish() (*batch.Batch, error) {
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
