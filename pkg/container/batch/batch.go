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

// Package batch implements an ordered collection of named, equal-length
// column vectors. A batch is the unit every operator consumes and
// produces; operators never mutate their input batch.
package batch

import (
	"bytes"
	"fmt"

	"github.com/tablekit/tablekit/pkg/common/moerr"
	"github.com/tablekit/tablekit/pkg/container/vector"
)

type Batch struct {
	// Attrs are the column names, parallel to Vecs.
	Attrs []string
	Vecs  []*vector.Vector

	rowCount int
}

func New(attrs []string) *Batch {
	return &Batch{
		Attrs: append([]string{}, attrs...),
		Vecs:  make([]*vector.Vector, len(attrs)),
	}
}

func NewWithSize(n int) *Batch {
	return &Batch{
		Attrs: make([]string, n),
		Vecs:  make([]*vector.Vector, n),
	}
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

// Pos returns the position of attr, or -1.
func (bat *Batch) Pos(attr string) int {
	for i, name := range bat.Attrs {
		if name == attr {
			return i
		}
	}
	return -1
}

func (bat *Batch) GetVector(attr string) (*vector.Vector, error) {
	i := bat.Pos(attr)
	if i < 0 {
		return nil, moerr.NewBadColumn(attr)
	}
	return bat.Vecs[i], nil
}

// SetVector binds vec under attr, overwriting the column if the name
// already exists and appending it otherwise. Returns an error if the
// vector's length disagrees with the batch's row count.
func (bat *Batch) SetVector(attr string, vec *vector.Vector) error {
	if len(bat.Vecs) > 0 && vec.Length() != bat.rowCount {
		return moerr.NewLengthMismatch(bat.rowCount, vec.Length())
	}
	if i := bat.Pos(attr); i >= 0 {
		bat.Vecs[i] = vec
		return nil
	}
	bat.Attrs = append(bat.Attrs, attr)
	bat.Vecs = append(bat.Vecs, vec)
	bat.rowCount = vec.Length()
	return nil
}

// Shrink returns a new batch holding the rows named by sels, in sels
// order, for every column.
func (bat *Batch) Shrink(sels []int64) *Batch {
	out := &Batch{
		Attrs:    append([]string{}, bat.Attrs...),
		Vecs:     make([]*vector.Vector, len(bat.Vecs)),
		rowCount: len(sels),
	}
	for i, vec := range bat.Vecs {
		out.Vecs[i] = vec.Shrink(sels)
	}
	return out
}

// Project returns a new batch restricted to attrs, in attrs order. The
// projected vectors are shared, not copied.
func (bat *Batch) Project(attrs []string) (*Batch, error) {
	out := &Batch{
		Attrs:    append([]string{}, attrs...),
		Vecs:     make([]*vector.Vector, len(attrs)),
		rowCount: bat.rowCount,
	}
	for i, attr := range attrs {
		vec, err := bat.GetVector(attr)
		if err != nil {
			return nil, err
		}
		out.Vecs[i] = vec
	}
	return out, nil
}

// ShallowDup copies the batch's shape while sharing its vectors. The
// copy may have columns appended or replaced without the original
// observing the change.
func (bat *Batch) ShallowDup() *Batch {
	return &Batch{
		Attrs:    append([]string{}, bat.Attrs...),
		Vecs:     append([]*vector.Vector{}, bat.Vecs...),
		rowCount: bat.rowCount,
	}
}

func (bat *Batch) Dup() *Batch {
	out := &Batch{
		Attrs:    append([]string{}, bat.Attrs...),
		Vecs:     make([]*vector.Vector, len(bat.Vecs)),
		rowCount: bat.rowCount,
	}
	for i, vec := range bat.Vecs {
		out.Vecs[i] = vec.Dup()
	}
	return out
}

func (bat *Batch) String() string {
	var buf bytes.Buffer
	for i, attr := range bat.Attrs {
		fmt.Fprintf(&buf, "%s: %s\n", attr, bat.Vecs[i])
	}
	return buf.String()
}
