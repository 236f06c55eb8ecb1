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

// Package nulls wraps the roaring bitmap library to record which rows of
// a column hold missing values. A nil *Nulls or a nil inner bitmap both
// mean "no nulls".
package nulls

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

type Nulls struct {
	Np *roaring.Bitmap
}

func New() *Nulls {
	return &Nulls{}
}

func Build(rows ...uint64) *Nulls {
	nsp := New()
	Add(nsp, rows...)
	return nsp
}

func Add(nsp *Nulls, rows ...uint64) {
	if len(rows) == 0 {
		return
	}
	if nsp.Np == nil {
		nsp.Np = roaring.New()
	}
	for _, row := range rows {
		nsp.Np.Add(uint32(row))
	}
}

// Any returns true if any row is null.
func Any(nsp *Nulls) bool {
	if nsp == nil || nsp.Np == nil {
		return false
	}
	return !nsp.Np.IsEmpty()
}

func Contains(nsp *Nulls, row uint64) bool {
	if nsp == nil || nsp.Np == nil {
		return false
	}
	return nsp.Np.Contains(uint32(row))
}

// Length returns the number of null rows.
func Length(nsp *Nulls) int {
	if nsp == nil || nsp.Np == nil {
		return 0
	}
	return int(nsp.Np.GetCardinality())
}

// Or stores the union of nsp and m in r.
func Or(nsp, m, r *Nulls) {
	if !Any(nsp) && !Any(m) {
		r.Np = nil
		return
	}
	r.Np = roaring.New()
	if Any(nsp) {
		r.Np.Or(nsp.Np)
	}
	if Any(m) {
		r.Np.Or(m.Np)
	}
}

// Filter rebuilds the null set for a column gathered by sels: row i of the
// gathered column is null iff sels[i] was null in the source.
func Filter(nsp *Nulls, sels []int64) *Nulls {
	if !Any(nsp) {
		return New()
	}
	out := New()
	for i, sel := range sels {
		if nsp.Np.Contains(uint32(sel)) {
			Add(out, uint64(i))
		}
	}
	return out
}

// Range adds [start, end) of nsp, shifted by offset, into r.
func Range(nsp *Nulls, start, end, offset uint64, r *Nulls) {
	if !Any(nsp) {
		return
	}
	for row := start; row < end; row++ {
		if nsp.Np.Contains(uint32(row)) {
			Add(r, offset+row-start)
		}
	}
}

func (nsp *Nulls) Clone() *Nulls {
	if nsp == nil {
		return nil
	}
	if nsp.Np == nil {
		return New()
	}
	return &Nulls{Np: nsp.Np.Clone()}
}

func String(nsp *Nulls) string {
	if nsp == nil || nsp.Np == nil {
		return "[]"
	}
	return fmt.Sprintf("%v", nsp.Np.ToArray())
}
