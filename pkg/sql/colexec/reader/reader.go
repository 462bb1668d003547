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

// Package reader implements TableBatchReader (spec.md §6): the harness
// that turns one fully materialized in-memory table into the sequence of
// RecordBatch chunks an aggregator or Sort consumes, standing in for the
// teacher's storage-engine scan iterators this module does not carry.
package reader

import (
	"github.com/streamql/colagg/pkg/common/aggerr"
	"github.com/streamql/colagg/pkg/container/batch"
	"github.com/streamql/colagg/pkg/container/cursor"
	"github.com/streamql/colagg/pkg/container/vector"
)

const defaultBatchSize = 8192

// TableBatchReader pulls batch_size-row chunks off a fully materialized
// table in row order, starting a new chunk where the last one ended.
type TableBatchReader struct {
	table     *batch.Batch
	batchSize int
	pos       int
}

// NewTableBatchReader wraps a table for chunked reading. The table is
// borrowed for the reader's lifetime, matching the consume contract's
// input-batch borrowing elsewhere in this module.
func NewTableBatchReader(table *batch.Batch) *TableBatchReader {
	return &TableBatchReader{table: table, batchSize: defaultBatchSize}
}

// SetBatchSize configures the chunk size used by subsequent Next calls.
func (r *TableBatchReader) SetBatchSize(n int) error {
	if n <= 0 {
		return aggerr.NewConfigError("batch size must be positive, got %d", n)
	}
	r.batchSize = n
	return nil
}

// Next returns the next chunk of up to batch_size rows, or nil once the
// table is drained.
func (r *TableBatchReader) Next() (*batch.Batch, error) {
	total := r.table.RowCount()
	if r.pos >= total {
		return nil, nil
	}
	end := r.pos + r.batchSize
	if end > total {
		end = total
	}
	out := sliceRows(r.table, r.pos, end)
	r.pos = end
	return out, nil
}

// sliceRows materializes rows [start, end) of every column into a new
// batch via the same boxed-cursor re-materialization the Sort operator
// uses to take rows into a fresh batch, since neither this module's
// Vector nor Batch types support a zero-copy row-range view. A column
// with no physical output layout (nested/union/dictionary) is dropped
// from the result.
func sliceRows(bat *batch.Batch, start, end int) *batch.Batch {
	n := end - start
	outAttrs := make([]string, 0, bat.VectorCount())
	outVecs := make([]*vector.Vector, 0, bat.VectorCount())

	for c := 0; c < bat.VectorCount(); c++ {
		v := bat.GetVector(c)
		typ := *v.GetType()
		b := newOutputBuilder(typ)
		if b == nil {
			continue
		}
		b.reserve(n)
		sc := cursor.NewScalarCursor(v)
		for r := start; r < end; r++ {
			if sc.IsNullAt(r) {
				b.append(nil, true)
				continue
			}
			b.append(sc.BoxedAt(r), false)
		}
		outAttrs = append(outAttrs, bat.Attrs[c])
		outVecs = append(outVecs, b.finish())
	}

	return batch.New(outAttrs, outVecs)
}
