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

// Package frame pairs a batch with its grouping columns. Grouping is
// carried explicitly on the wrapper, never hidden on the batch, and all
// operations return new frames; a caller's frame is never modified.
package frame

import (
	"github.com/tablekit/tablekit/pkg/common/moerr"
	"github.com/tablekit/tablekit/pkg/container/batch"
	"github.com/tablekit/tablekit/pkg/container/vector"
	"github.com/tablekit/tablekit/pkg/sql/colexec/dedup"
	"github.com/tablekit/tablekit/pkg/sql/colexec/extend"
	"github.com/tablekit/tablekit/pkg/sql/colexec/ndistinct"
)

type Frame struct {
	bat     *batch.Batch
	groupBy []string
}

func New(bat *batch.Batch) *Frame {
	return &Frame{bat: bat}
}

func (f *Frame) Batch() *batch.Batch {
	return f.bat
}

func (f *Frame) RowCount() int {
	return f.bat.RowCount()
}

// GroupBy returns a frame grouped by cols. Every column must exist.
func (f *Frame) GroupBy(cols ...string) (*Frame, error) {
	for _, col := range cols {
		if f.bat.Pos(col) < 0 {
			return nil, moerr.NewBadColumn(col)
		}
	}
	return &Frame{bat: f.bat, groupBy: append([]string{}, cols...)}, nil
}

// GroupCols returns the grouping columns in grouping order, empty for an
// ungrouped frame.
func (f *Frame) GroupCols() []string {
	return append([]string{}, f.groupBy...)
}

// Distinct keeps the first row of every distinct key combination. With
// no keys every column is a key. Group columns always join the key set,
// so a grouped frame keeps at least one row per group, and the result
// carries the same grouping.
func (f *Frame) Distinct(keys []extend.NamedExtend, keepAll bool) (*Frame, error) {
	out, err := dedup.Distinct(f.bat, keys, f.groupBy, keepAll)
	if err != nil {
		return nil, err
	}
	return &Frame{bat: out, groupBy: f.groupBy}, nil
}

// DistinctWithOptions is Distinct with dedup tuning knobs; the result is
// identical to Distinct.
func (f *Frame) DistinctWithOptions(keys []extend.NamedExtend, keepAll bool, opts dedup.Options) (*Frame, error) {
	abat, vars, keep, err := dedup.Materialize(f.bat, keys, f.groupBy, keepAll)
	if err != nil {
		return nil, err
	}
	out, err := dedup.DedupWithOptions(abat, vars, keep, opts)
	if err != nil {
		return nil, err
	}
	return &Frame{bat: out, groupBy: f.groupBy}, nil
}

// NDistinct counts the distinct value combinations over cols.
func (f *Frame) NDistinct(naRemove bool, cols ...string) (int64, error) {
	vecs, err := f.columnVectors(cols)
	if err != nil {
		return 0, err
	}
	return ndistinct.Count(vecs, naRemove)
}

// NDistinctApprox estimates the distinct combination count over cols.
func (f *Frame) NDistinctApprox(naRemove bool, cols ...string) (uint64, error) {
	vecs, err := f.columnVectors(cols)
	if err != nil {
		return 0, err
	}
	return ndistinct.ApproxCount(vecs, naRemove)
}

func (f *Frame) columnVectors(cols []string) ([]*vector.Vector, error) {
	if len(cols) == 0 {
		return nil, moerr.NewInvalidInput("no columns given")
	}
	vecs := make([]*vector.Vector, len(cols))
	var containers []string
	for i, col := range cols {
		vec, err := f.bat.GetVector(col)
		if err != nil {
			return nil, err
		}
		if vec.Typ.IsContainer() {
			containers = append(containers, col)
		}
		vecs[i] = vec
	}
	if len(containers) > 0 {
		return nil, moerr.NewUnsupportedKeyType(containers...)
	}
	return vecs, nil
}
