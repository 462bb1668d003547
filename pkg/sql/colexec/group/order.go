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

import "github.com/google/btree"

// seenEntry pairs a group key with the monotonically increasing sequence
// number it first appeared under, so a btree.BTreeG ordered by seq alone
// can recover first-seen order without re-deriving it from hash-bucket
// iteration order (§6.3 of this module's expanded specification).
type seenEntry[K any] struct {
	seq uint64
	key K
}

// firstSeenOrder tracks group insertion order with a B-tree instead of a
// plain append-only slice: the teacher's H8/HStr strategies lose
// insertion order once their map grows past small-map optimization, and
// WithDeterministicOrder's contract is to recover exactly that order on
// demand, so the tree is only built/walked when the option is set.
type firstSeenOrder[K any] struct {
	enabled bool
	next    uint64
	tree    *btree.BTreeG[seenEntry[K]]
}

func newFirstSeenOrder[K any](enabled bool) *firstSeenOrder[K] {
	f := &firstSeenOrder[K]{enabled: enabled}
	if enabled {
		f.tree = btree.NewG(32, func(a, b seenEntry[K]) bool { return a.seq < b.seq })
	}
	return f
}

func (f *firstSeenOrder[K]) observe(key K) {
	if !f.enabled {
		return
	}
	f.tree.ReplaceOrInsert(seenEntry[K]{seq: f.next, key: key})
	f.next++
}

// ascend calls fn with every observed key in first-seen order.
func (f *firstSeenOrder[K]) ascend(fn func(key K)) {
	f.tree.Ascend(func(e seenEntry[K]) bool {
		fn(e.key)
		return true
	})
}
