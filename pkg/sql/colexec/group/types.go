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

// Package group holds the base aggregator machinery and its four
// strategy specializations (single-key numeric, multi-key numeric,
// generic, one-group), grounded on the teacher's group package — the
// same consume/finish lifecycle and H8 (numeric)/HStr (generic) split —
// adapted from the teacher's plan.Expr-bound, process.Process-threaded
// operator shape to this module's schema-free Batch/Vector/cursor
// surface, and from its single combined struct to one small aggregator
// per strategy so each can specialize its group map's key type.
package group

import (
	"github.com/streamql/colagg/pkg/container/batch"
	"github.com/streamql/colagg/pkg/sql/colexec/agg"
)

// Aggregator is the uniform surface every strategy exposes (spec.md §6).
type Aggregator interface {
	Consume(bat *batch.Batch) error
	Finish() (*batch.Batch, error)
	Stats() BatchStats
}

// BatchStats is the opt-in observability surface (§6.4): counters a
// caller can read between consume calls, in place of the teacher's
// process.Analyze instrumentation, which this package cannot depend on
// without pulling in the scheduler it belongs to.
type BatchStats struct {
	RowsConsumed  uint64
	GroupsCreated uint64
	BatchesSeen   uint64
}

// Option configures an aggregator at construction time.
type Option func(*options)

type options struct {
	deterministic bool
}

func newOptions(opts ...Option) *options {
	o := &options{}
	for _, apply := range opts {
		apply(o)
	}
	return o
}

// WithDeterministicOrder makes summarize_groups visit groups in
// first-seen order rather than hash-bucket order (§6.3 of this module's
// expanded specification); SingleHashAggregate still emits its NULL-key
// group last. Off by default: the properties this engine
// is tested against only require row-permutation equivalence between
// strategies, not a specific output order.
func WithDeterministicOrder() Option {
	return func(o *options) { o.deterministic = true }
}

// lifecycle tracks the consume-then-finish-once discipline every
// aggregator shares (spec.md §3 "Lifecycle").
type lifecycle uint8

const (
	lifecycleUnbound lifecycle = iota
	lifecycleBound
	lifecycleFinished
)

// groupByContract is shared, pre-consume configuration every constructor
// accepts: the N grouping-column names (== agg_cols, in order) and the
// caller's declared aggregates.
type groupByContract struct {
	groupByCols []string
	aggCols     []string
	aggFuncs    []agg.Def
}
