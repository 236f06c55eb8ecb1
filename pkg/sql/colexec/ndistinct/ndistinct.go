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

// Package ndistinct counts the distinct value combinations of one or
// more parallel vectors in a single pass, without materializing the
// unique set.
//
// Missing values follow a stricter rule than the dedup selector: with
// naRemove unset, all-null-containing tuples collapse into single null
// groups (null == null); with naRemove set, any tuple holding a null
// component is excluded from the count entirely. The two policies are
// deliberately different and both are part of the contract.
package ndistinct

import (
	"fmt"

	"github.com/tablekit/tablekit/pkg/common/hashmap"
	"github.com/tablekit/tablekit/pkg/common/moerr"
	"github.com/tablekit/tablekit/pkg/container/vector"
)

// Count returns the number of distinct tuples formed by zipping vecs.
func Count(vecs []*vector.Vector, naRemove bool) (int64, error) {
	rows, err := validate(vecs)
	if err != nil {
		return 0, err
	}

	mp := hashmap.NewStrMap(!naRemove)
	itr := mp.NewIterator()
	for start := 0; start < rows; start += hashmap.UnitLimit {
		count := rows - start
		if count > hashmap.UnitLimit {
			count = hashmap.UnitLimit
		}
		// with naRemove the map rejects null-bearing tuples on its own
		if _, _, err := itr.Insert(start, count, vecs); err != nil {
			return 0, err
		}
	}
	return int64(mp.GroupCount()), nil
}

func validate(vecs []*vector.Vector) (int, error) {
	if len(vecs) == 0 {
		return 0, moerr.NewInvalidInput("ndistinct needs at least one vector")
	}
	rows := vecs[0].Length()
	var bad []string
	for i, vec := range vecs {
		if vec.Length() != rows {
			return 0, moerr.NewLengthMismatch(rows, vec.Length())
		}
		if vec.Typ.IsContainer() {
			// callers here only have positions; Frame reports names
			bad = append(bad, fmt.Sprintf("#%d", i+1))
		}
	}
	if len(bad) > 0 {
		return 0, moerr.NewUnsupportedKeyType(bad...)
	}
	return rows, nil
}
