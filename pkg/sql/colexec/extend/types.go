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

// Package extend models key expressions as small trees evaluated against
// a batch. The String rendering of a tree is canonical and doubles as
// the generated column name for unnamed expressions.
package extend

import (
	"github.com/tablekit/tablekit/pkg/container/batch"
	"github.com/tablekit/tablekit/pkg/container/types"
	"github.com/tablekit/tablekit/pkg/container/vector"
)

type Extend interface {
	String() string
	Attributes() []string
	Eval(*batch.Batch) (*vector.Vector, error)
}

// NamedExtend pairs an expression with an optional explicit column name.
// An empty Alias falls back to the expression's canonical rendering.
type NamedExtend struct {
	Alias string
	E     Extend
}

func (e NamedExtend) Name() string {
	if e.Alias != "" {
		return e.Alias
	}
	return e.E.String()
}

// Attribute references an existing column by name.
type Attribute struct {
	Name string
}

// ValueExtend is a constant, held as a one-row vector and broadcast on
// evaluation.
type ValueExtend struct {
	V *vector.Vector
}

type UnaryExtend struct {
	Op int
	E  Extend
}

type BinaryExtend struct {
	Op          int
	Left, Right Extend
}

// ParenExtend only affects the canonical rendering.
type ParenExtend struct {
	E Extend
}

// NewInt64Const builds a constant int64 expression.
func NewInt64Const(v int64) *ValueExtend {
	vec := vector.New(types.T_int64.ToType())
	vec.Col = []int64{v}
	return &ValueExtend{V: vec}
}

// NewFloat64Const builds a constant float64 expression.
func NewFloat64Const(v float64) *ValueExtend {
	vec := vector.New(types.T_float64.ToType())
	vec.Col = []float64{v}
	return &ValueExtend{V: vec}
}

// NewStringConst builds a constant varchar expression.
func NewStringConst(v string) *ValueExtend {
	vec := vector.New(types.T_varchar.ToType())
	vec.Col = []string{v}
	return &ValueExtend{V: vec}
}
