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

// Package agg holds one aggregate-function specialization per (kind, input
// type) pair — the engine's smallest unit of type specialization. Each
// specialization owns a per-group accumulator "slot", erased behind the
// empty interface and downcast inside the specialization itself, the way
// the teacher's UnaryAgg keeps its private accumulator state behind a
// closure triplet (grows/fill/eval) rather than exposing it to the
// dispatcher.
package agg

import (
	"github.com/streamql/colagg/pkg/container/cursor"
	"github.com/streamql/colagg/pkg/container/types"
	"github.com/streamql/colagg/pkg/container/vector"
)

// Kind is the closed tag set of aggregate functions the engine knows.
type Kind uint8

const (
	KindCount Kind = iota
	KindCountStar
	KindMin
	KindMax
	KindSum
	KindAvg
	// KindGroupBuilder is the internal synthetic kind that reconstructs a
	// grouping column's value in the result batch; it is never named by a
	// caller directly.
	KindGroupBuilder
)

func (k Kind) String() string {
	switch k {
	case KindCount:
		return "COUNT"
	case KindCountStar:
		return "COUNT_STAR"
	case KindMin:
		return "MIN"
	case KindMax:
		return "MAX"
	case KindSum:
		return "SUM"
	case KindAvg:
		return "AVG"
	case KindGroupBuilder:
		return "GROUP_BUILDER"
	default:
		return "UNKNOWN"
	}
}

// Def names one aggregate a caller wants computed: its kind, the input
// column it reads (empty for COUNT_STAR and GROUP_BUILDER), and the name
// the result column takes in the output batch.
type Def struct {
	Kind             Kind
	InputColumnName  string
	OutputColumnName string
}

// Slot is one group's accumulator state for one aggregate, erased behind
// the empty interface. Every concrete slot type is a pointer so Func
// implementations can mutate it in place without round-tripping through
// the Slot interface on every update.
type Slot = interface{}

// Func is the uniform surface every aggregate-function specialization
// implements, per (kind, input type). The base and strategy aggregators
// drive a heterogeneous list of Funcs through this interface alone; the
// concrete accumulator shape never leaks past it.
type Func interface {
	// BindCursor attaches the cursor this Func reads from for the current
	// batch. Called once per consume, before any row of that batch is
	// processed, mirroring the engine-wide cursor-rebinding discipline.
	BindCursor(c cursor.Cursor) error

	// InitRow creates a fresh slot from the row the bound cursor is
	// positioned at, consuming (advancing past) that row.
	InitRow(rowIdx int) Slot
	// UpdateRow folds the current row into an existing slot, consuming it.
	UpdateRow(slot Slot)

	// InitBatch creates an empty slot for whole-batch aggregation, without
	// consuming any row; used only by the one-group aggregator.
	InitBatch() Slot
	// UpdateBatch drains the remainder of the bound cursor into slot.
	UpdateBatch(slot Slot)

	// Reserve pre-sizes the output builder for n result rows.
	Reserve(n int)
	// Summarize appends slot's final value (or NULL) to the output builder.
	Summarize(slot Slot)
	// Finish emits the completed output column; called once, after every
	// group has been summarized.
	Finish() *vector.Vector

	OutputType() types.Type
}
