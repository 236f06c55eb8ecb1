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

package hashmap

import (
	"github.com/tablekit/tablekit/pkg/container/vector"
)

// UnitLimit is the number of rows encoded and probed per unit. Callers
// walk their input in UnitLimit-sized chunks.
const UnitLimit = 256

// StrHashMap maps an encoded key tuple to a group id starting from 1.
// Inserting an existing key returns the id assigned at first sight.
//
// With hasNull set, a null key component is encoded as a flag byte and
// forms a group of its own, so null == null for grouping purposes. With
// hasNull unset, rows containing a null key component are rejected at
// insert time and reported through the zValues result instead.
type StrHashMap struct {
	hasNull bool
	rows    uint64

	// per-unit scratch, UnitLimit wide
	keys    [][]byte
	values  []uint64
	zValues []int64

	mp map[string]uint64
}

// Iterator performs bulk inserts or lookups against a StrHashMap.
type Iterator interface {
	// Insert encodes rows [start, start+count) of vecs and inserts them.
	// values[i] is the group id of row start+i. zValues[i] is 0 when the
	// row holds a null key component and the map was built without null
	// support; such rows are not inserted and get values[i] == 0.
	Insert(start, count int, vecs []*vector.Vector) (values []uint64, zValues []int64, err error)

	// Find encodes and probes without inserting; values[i] == 0 means
	// the key tuple has not been seen.
	Find(start, count int, vecs []*vector.Vector) (values []uint64, zValues []int64, err error)
}
