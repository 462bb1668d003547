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

// Package batch is this module's RecordBatch: an ordered list of
// equal-length typed columns sharing a schema (spec.md §3).
package batch

import (
	"bytes"
	"fmt"

	"github.com/streamql/colagg/pkg/container/vector"
)

// Batch is an ordered list of named, equal-length columns.
type Batch struct {
	Attrs    []string
	Vecs     []*vector.Vector
	rowCount int
}

func New(attrs []string, vecs []*vector.Vector) *Batch {
	bat := &Batch{Attrs: attrs, Vecs: vecs}
	if len(vecs) > 0 {
		bat.rowCount = vecs[0].Length()
	}
	return bat
}

func NewWithSize(n int) *Batch {
	return &Batch{Vecs: make([]*vector.Vector, n)}
}

func (bat *Batch) RowCount() int {
	return bat.rowCount
}

func (bat *Batch) SetRowCount(n int) {
	bat.rowCount = n
}

func (bat *Batch) VectorCount() int {
	return len(bat.Vecs)
}

func (bat *Batch) GetVector(pos int) *vector.Vector {
	return bat.Vecs[pos]
}

func (bat *Batch) SetVector(pos int, vec *vector.Vector) {
	bat.Vecs[pos] = vec
}

// ColumnIndex returns the position of the named column, or -1.
func (bat *Batch) ColumnIndex(name string) int {
	for i, attr := range bat.Attrs {
		if attr == name {
			return i
		}
	}
	return -1
}

func (bat *Batch) String() string {
	var buf bytes.Buffer
	for i, attr := range bat.Attrs {
		buf.WriteString(fmt.Sprintf("%d: %s\n", i, attr))
	}
	return buf.String()
}
