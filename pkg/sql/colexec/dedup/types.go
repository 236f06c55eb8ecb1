// Copyright 2024 TableKit Authors
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

// Package dedup selects the first-occurring row for every distinct
// combination of key column values. Keys may be existing columns or
// computed from expressions; group columns of a grouped input are always
// part of the key.
package dedup

import (
	"github.com/tablekit/tablekit/pkg/common/hashmap"
)

const UnitLimit = hashmap.UnitLimit

// Options tunes Dedup beyond the default single-threaded in-memory pass.
// The observable result never depends on these knobs.
type Options struct {
	// Parallelism > 1 hash-partitions rows into that many shards and
	// dedups them on a worker pool.
	Parallelism int

	// SpillBudget caps the bytes of winner rows held in memory; above
	// it, finished blocks are written to lz4-compressed temp files.
	// Zero disables spilling.
	SpillBudget int64

	// TmpDir is where spill files go. Empty means os.TempDir.
	TmpDir string
}

// container carries the scan state of one dedup pass.
type container struct {
	mp   *hashmap.StrHashMap
	itr  hashmap.Iterator
	sels []int64 // first-seen row index per group, in discovery order
}

func newContainer() *container {
	mp := hashmap.NewStrMap(true)
	return &container{
		mp:  mp,
		itr: mp.NewIterator(),
	}
}
