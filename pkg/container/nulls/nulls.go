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

// Package nulls wraps a compressed bitmap to record which rows of a column
// are NULL. Values and nullness are independent: a NULL row still occupies
// a slot in the column's backing buffer, it just isn't read.
package nulls

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

type Nulls struct {
	bm *roaring.Bitmap
}

func New() *Nulls {
	return &Nulls{bm: roaring.New()}
}

func Build(rows ...uint32) *Nulls {
	n := New()
	n.Add(rows...)
	return n
}

func (n *Nulls) Clone() *Nulls {
	if n == nil || n.bm == nil {
		return New()
	}
	return &Nulls{bm: n.bm.Clone()}
}

func (n *Nulls) Add(rows ...uint32) {
	if len(rows) == 0 {
		return
	}
	if n.bm == nil {
		n.bm = roaring.New()
	}
	n.bm.AddMany(rows)
}

func (n *Nulls) Set(row uint32) {
	if n.bm == nil {
		n.bm = roaring.New()
	}
	n.bm.Add(row)
}

func (n *Nulls) Contains(row uint32) bool {
	if n == nil || n.bm == nil {
		return false
	}
	return n.bm.Contains(row)
}

// Any reports whether any row is NULL.
func (n *Nulls) Any() bool {
	if n == nil || n.bm == nil {
		return false
	}
	return !n.bm.IsEmpty()
}

func (n *Nulls) Count() int {
	if n == nil || n.bm == nil {
		return 0
	}
	return int(n.bm.GetCardinality())
}

// Or unions m into n, in place.
func (n *Nulls) Or(m *Nulls) {
	if m == nil || m.bm == nil || m.bm.IsEmpty() {
		return
	}
	if n.bm == nil {
		n.bm = roaring.New()
	}
	n.bm.Or(m.bm)
}

func (n *Nulls) ToArray() []uint32 {
	if n == nil || n.bm == nil {
		return nil
	}
	return n.bm.ToArray()
}

func (n *Nulls) String() string {
	if n == nil || n.bm == nil {
		return "[]"
	}
	return fmt.Sprintf("%v", n.bm.ToArray())
}
