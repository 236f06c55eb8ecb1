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

package extend

import (
	"fmt"

	"github.com/tablekit/tablekit/pkg/container/batch"
	"github.com/tablekit/tablekit/pkg/container/vector"
	"github.com/tablekit/tablekit/pkg/sql/colexec/extend/overload"
)

func (a *Attribute) String() string {
	return a.Name
}

func (a *Attribute) Attributes() []string {
	return []string{a.Name}
}

func (a *Attribute) Eval(bat *batch.Batch) (*vector.Vector, error) {
	return bat.GetVector(a.Name)
}

func (e *ValueExtend) String() string {
	if e.V.Length() != 1 {
		return e.V.String()
	}
	if s, ok := e.V.Get(0).(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", e.V.Get(0))
}

func (e *ValueExtend) Attributes() []string {
	return nil
}

func (e *ValueExtend) Eval(bat *batch.Batch) (*vector.Vector, error) {
	// one-row constant; broadcast to the batch's row count so the result
	// can join the batch as a column.
	if bat.RowCount() == 1 || len(bat.Vecs) == 0 {
		return e.V, nil
	}
	sels := make([]int64, bat.RowCount())
	return e.V.Shrink(sels), nil
}

func (e *UnaryExtend) String() string {
	if e.Op == overload.Not {
		return fmt.Sprintf("not(%s)", e.E)
	}
	return fmt.Sprintf("%s%s", overload.OpName[e.Op], e.E)
}

func (e *UnaryExtend) Attributes() []string {
	return e.E.Attributes()
}

func (e *UnaryExtend) Eval(bat *batch.Batch) (*vector.Vector, error) {
	vec, err := e.E.Eval(bat)
	if err != nil {
		return nil, err
	}
	return overload.UnaryEval(e.Op, vec)
}

func (e *BinaryExtend) String() string {
	return fmt.Sprintf("%s %s %s", e.Left, overload.OpName[e.Op], e.Right)
}

func (e *BinaryExtend) Attributes() []string {
	attrs := append([]string{}, e.Left.Attributes()...)
	return append(attrs, e.Right.Attributes()...)
}

func (e *BinaryExtend) Eval(bat *batch.Batch) (*vector.Vector, error) {
	l, err := e.Left.Eval(bat)
	if err != nil {
		return nil, err
	}
	r, err := e.Right.Eval(bat)
	if err != nil {
		return nil, err
	}
	return overload.BinaryEval(e.Op, l, r)
}

func (e *ParenExtend) String() string {
	return fmt.Sprintf("(%s)", e.E)
}

func (e *ParenExtend) Attributes() []string {
	return e.E.Attributes()
}

func (e *ParenExtend) Eval(bat *batch.Batch) (*vector.Vector, error) {
	return e.E.Eval(bat)
}
