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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tablekit/tablekit/pkg/sql/colexec/extend/overload"
	"github.com/tablekit/tablekit/pkg/testutil"
)

func TestExtendString(t *testing.T) {
	e := &BinaryExtend{
		Op:   overload.Plus,
		Left: &Attribute{Name: "x"},
		Right: &ParenExtend{E: &BinaryExtend{
			Op:    overload.Mult,
			Left:  &Attribute{Name: "y"},
			Right: NewInt64Const(2),
		}},
	}
	require.Equal(t, "x + (y * 2)", e.String())

	require.Equal(t, `"na"`, NewStringConst("na").String())
	require.Equal(t, "not(b)", (&UnaryExtend{Op: overload.Not, E: &Attribute{Name: "b"}}).String())
	require.Equal(t, "-x", (&UnaryExtend{Op: overload.UnaryMinus, E: &Attribute{Name: "x"}}).String())
}

func TestExtendAttributes(t *testing.T) {
	e := &BinaryExtend{
		Op:    overload.EQ,
		Left:  &Attribute{Name: "x"},
		Right: &BinaryExtend{Op: overload.Plus, Left: &Attribute{Name: "y"}, Right: NewInt64Const(1)},
	}
	require.Equal(t, []string{"x", "y"}, e.Attributes())
	require.Empty(t, NewFloat64Const(1.5).Attributes())
}

func TestNamedExtendName(t *testing.T) {
	e := NamedExtend{E: &Attribute{Name: "x"}}
	require.Equal(t, "x", e.Name())

	e = NamedExtend{Alias: "key", E: &Attribute{Name: "x"}}
	require.Equal(t, "key", e.Name())

	e = NamedExtend{E: &BinaryExtend{
		Op:    overload.Minus,
		Left:  &Attribute{Name: "a"},
		Right: &Attribute{Name: "b"},
	}}
	require.Equal(t, "a - b", e.Name())
}

func TestValueExtendBroadcast(t *testing.T) {
	bat := testutil.NewBatch([]string{"x"},
		testutil.NewInt64Vector([]int64{1, 2, 3}),
	)
	vec, err := NewInt64Const(7).Eval(bat)
	require.NoError(t, err)
	require.Equal(t, 3, vec.Length())
	for i := 0; i < 3; i++ {
		require.Equal(t, int64(7), vec.Get(i))
	}
}

func TestAttributeEval(t *testing.T) {
	bat := testutil.NewBatch([]string{"x"},
		testutil.NewInt64Vector([]int64{1, 2}),
	)
	vec, err := (&Attribute{Name: "x"}).Eval(bat)
	require.NoError(t, err)
	require.Equal(t, bat.Vecs[0], vec)

	_, err = (&Attribute{Name: "nope"}).Eval(bat)
	require.Error(t, err)
}

func TestBinaryExtendEval(t *testing.T) {
	bat := testutil.NewBatch([]string{"x", "y"},
		testutil.NewInt64Vector([]int64{1, 2, 3}),
		testutil.NewInt64Vector([]int64{3, 2, 1}),
	)
	e := &BinaryExtend{
		Op:    overload.EQ,
		Left:  &Attribute{Name: "x"},
		Right: &Attribute{Name: "y"},
	}
	vec, err := e.Eval(bat)
	require.NoError(t, err)
	require.Equal(t, []bool{false, true, false}, vec.Col)
}
