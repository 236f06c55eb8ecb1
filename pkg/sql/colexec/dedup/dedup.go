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

package dedup

import (
	"github.com/tablekit/tablekit/pkg/container/batch"
	"github.com/tablekit/tablekit/pkg/container/vector"
	"github.com/tablekit/tablekit/pkg/sql/colexec/extend"
)

// Distinct materializes the key expressions, validates the kept columns
// and selects the first-occurring row of every distinct key combination.
// groupVars are appended to the key set, so a grouped table keeps one
// row per (group, key) pair.
func Distinct(bat *batch.Batch, exprs []extend.NamedExtend, groupVars []string, keepAll bool) (*batch.Batch, error) {
	abat, vars, keep, err := Materialize(bat, exprs, groupVars, keepAll)
	if err != nil {
		return nil, err
	}
	if err := assertDedupable(abat, keep); err != nil {
		return nil, err
	}
	return Dedup(abat, vars, keep)
}

// Dedup scans bat once, top to bottom, keeping the first row of each
// distinct tuple over vars, projected onto keep in keep order. Empty
// vars means every column is a key. Null key components compare equal
// to each other and to nothing else.
func Dedup(bat *batch.Batch, vars, keep []string) (*batch.Batch, error) {
	if len(vars) == 0 {
		vars = bat.Attrs
	}
	if err := assertDedupable(bat, keep); err != nil {
		return nil, err
	}
	keyVecs, err := keyVectors(bat, vars)
	if err != nil {
		return nil, err
	}

	ctr := newContainer()
	rows := bat.RowCount()
	for start := 0; start < rows; start += UnitLimit {
		count := rows - start
		if count > UnitLimit {
			count = UnitLimit
		}
		vs, _, err := ctr.itr.Insert(start, count, keyVecs)
		if err != nil {
			return nil, err
		}
		for i, v := range vs {
			// a group id above the winner count marks a first sight
			if v > uint64(len(ctr.sels)) {
				ctr.sels = append(ctr.sels, int64(start+i))
			}
		}
	}

	out, err := bat.Project(keep)
	if err != nil {
		return nil, err
	}
	return out.Shrink(ctr.sels), nil
}

func keyVectors(bat *batch.Batch, vars []string) ([]*vector.Vector, error) {
	vecs := make([]*vector.Vector, len(vars))
	for i, attr := range vars {
		vec, err := bat.GetVector(attr)
		if err != nil {
			return nil, err
		}
		vecs[i] = vec
	}
	return vecs, nil
}
