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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tablekit/tablekit/pkg/common/moerr"
	"github.com/tablekit/tablekit/pkg/container/batch"
	"github.com/tablekit/tablekit/pkg/container/types"
	"github.com/tablekit/tablekit/pkg/sql/colexec/extend"
	"github.com/tablekit/tablekit/pkg/sql/colexec/extend/overload"
	"github.com/tablekit/tablekit/pkg/testutil"
)

func requireColumn(t *testing.T, bat *batch.Batch, attr string, want []any) {
	t.Helper()
	vec, err := bat.GetVector(attr)
	require.NoError(t, err)
	require.Equal(t, len(want), vec.Length())
	for i, w := range want {
		require.Equal(t, w, vec.Get(i), "column %s row %d", attr, i)
	}
}

func requireBatchEqual(t *testing.T, want, got *batch.Batch) {
	t.Helper()
	require.Equal(t, want.Attrs, got.Attrs)
	require.Equal(t, want.RowCount(), got.RowCount())
	for i, attr := range want.Attrs {
		for row := 0; row < want.RowCount(); row++ {
			require.Equal(t, want.Vecs[i].Get(row), got.Vecs[i].Get(row),
				"column %s row %d", attr, row)
		}
	}
}

func TestDedupFirstOccurrenceWins(t *testing.T) {
	bat := testutil.NewBatch([]string{"x", "y"},
		testutil.NewInt64Vector([]int64{1, 1, 2, 1}),
		testutil.NewStringVector([]string{"a", "b", "c", "d"}),
	)
	out, err := Dedup(bat, []string{"x"}, bat.Attrs)
	require.NoError(t, err)
	require.Equal(t, 2, out.RowCount())
	requireColumn(t, out, "x", []any{int64(1), int64(2)})
	requireColumn(t, out, "y", []any{"a", "c"})
}

func TestDedupNarrowNumericKeys(t *testing.T) {
	bat := testutil.NewBatch([]string{"k", "u", "f", "y"},
		testutil.NewInt16Vector([]int16{-7, -7, 300, -7}),
		testutil.NewUint32Vector([]uint32{9, 9, 9, 10}),
		testutil.NewFloat32Vector([]float32{0.5, 0.5, 0.5, 0.5}),
		testutil.NewStringVector([]string{"a", "b", "c", "d"}),
	)
	out, err := Dedup(bat, []string{"k", "u", "f"}, bat.Attrs)
	require.NoError(t, err)
	require.Equal(t, 3, out.RowCount())
	requireColumn(t, out, "k", []any{int16(-7), int16(300), int16(-7)})
	requireColumn(t, out, "u", []any{uint32(9), uint32(9), uint32(10)})
	requireColumn(t, out, "y", []any{"a", "c", "d"})
}

func TestDedupIsIdempotent(t *testing.T) {
	bat := testutil.NewBatch([]string{"x", "y"},
		testutil.NewInt64Vector([]int64{3, 3, 1, 2, 1}),
		testutil.NewStringVector([]string{"u", "v", "w", "u", "u"}),
	)
	once, err := Dedup(bat, nil, bat.Attrs)
	require.NoError(t, err)
	twice, err := Dedup(once, nil, once.Attrs)
	require.NoError(t, err)
	requireBatchEqual(t, once, twice)
}

func TestDedupEmptyVarsUsesAllColumns(t *testing.T) {
	bat := testutil.NewBatch([]string{"x", "y"},
		testutil.NewInt64Vector([]int64{1, 1, 1}),
		testutil.NewStringVector([]string{"a", "b", "a"}),
	)
	out, err := Dedup(bat, nil, bat.Attrs)
	require.NoError(t, err)
	require.Equal(t, 2, out.RowCount())
	requireColumn(t, out, "y", []any{"a", "b"})
}

func TestDedupNullsFormSingleGroup(t *testing.T) {
	bat := testutil.NewBatch([]string{"x"},
		testutil.NewInt64Vector([]int64{1, 0, 0, 2}, 1, 2),
	)
	out, err := Dedup(bat, []string{"x"}, bat.Attrs)
	require.NoError(t, err)
	require.Equal(t, 3, out.RowCount())
	requireColumn(t, out, "x", []any{int64(1), nil, int64(2)})
}

func TestDedupNullDistinctFromZero(t *testing.T) {
	bat := testutil.NewBatch([]string{"x"},
		testutil.NewInt64Vector([]int64{0, 0, 0}, 1),
	)
	out, err := Dedup(bat, []string{"x"}, bat.Attrs)
	require.NoError(t, err)
	require.Equal(t, 2, out.RowCount())
	requireColumn(t, out, "x", []any{int64(0), nil})
}

func TestDedupCrossesUnitLimit(t *testing.T) {
	const rows = 3*UnitLimit + 17
	vs := make([]int64, rows)
	for i := range vs {
		vs[i] = int64(i % 7)
	}
	bat := testutil.NewBatch([]string{"x"}, testutil.NewInt64Vector(vs))
	out, err := Dedup(bat, []string{"x"}, bat.Attrs)
	require.NoError(t, err)
	require.Equal(t, 7, out.RowCount())
	requireColumn(t, out, "x", []any{
		int64(0), int64(1), int64(2), int64(3), int64(4), int64(5), int64(6),
	})
}

func TestDedupRejectsContainerColumn(t *testing.T) {
	bat := testutil.NewBatch([]string{"x", "l"},
		testutil.NewInt64Vector([]int64{1, 2}),
		testutil.NewListVector([]types.List{{int64(1)}, {int64(2)}}),
	)
	_, err := Dedup(bat, nil, bat.Attrs)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrUnsupportedKeyType))
	require.Contains(t, err.Error(), "l")
}

func TestDistinctComputedKey(t *testing.T) {
	bat := testutil.NewBatch([]string{"x", "y"},
		testutil.NewInt64Vector([]int64{1, 2, 3, 4}),
		testutil.NewInt64Vector([]int64{9, 8, 7, 6}),
	)
	exprs := []extend.NamedExtend{{
		Alias: "s",
		E: &extend.BinaryExtend{
			Op:    overload.Plus,
			Left:  &extend.Attribute{Name: "x"},
			Right: &extend.Attribute{Name: "y"},
		},
	}}
	out, err := Distinct(bat, exprs, nil, false)
	require.NoError(t, err)
	require.Equal(t, []string{"s"}, out.Attrs)
	require.Equal(t, 1, out.RowCount())
	requireColumn(t, out, "s", []any{int64(10)})
}

func TestDistinctLaterKeySeesEarlierKey(t *testing.T) {
	bat := testutil.NewBatch([]string{"x"},
		testutil.NewInt64Vector([]int64{1, 2, 1}),
	)
	exprs := []extend.NamedExtend{
		{
			Alias: "d",
			E: &extend.BinaryExtend{
				Op:    overload.Mult,
				Left:  &extend.Attribute{Name: "x"},
				Right: extend.NewInt64Const(2),
			},
		},
		{
			Alias: "d4",
			E: &extend.BinaryExtend{
				Op:    overload.Mult,
				Left:  &extend.Attribute{Name: "d"},
				Right: extend.NewInt64Const(2),
			},
		},
	}
	out, err := Distinct(bat, exprs, nil, false)
	require.NoError(t, err)
	require.Equal(t, []string{"d", "d4"}, out.Attrs)
	requireColumn(t, out, "d4", []any{int64(4), int64(8)})
}

func TestDistinctComputedKeyOverwritesColumn(t *testing.T) {
	bat := testutil.NewBatch([]string{"x"},
		testutil.NewInt64Vector([]int64{1, 2, 2}),
	)
	exprs := []extend.NamedExtend{{
		Alias: "x",
		E: &extend.BinaryExtend{
			Op:    overload.Plus,
			Left:  &extend.Attribute{Name: "x"},
			Right: extend.NewInt64Const(10),
		},
	}}
	out, err := Distinct(bat, exprs, nil, true)
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, out.Attrs)
	requireColumn(t, out, "x", []any{int64(11), int64(12)})
}

func TestDistinctGroupVarsJoinTheKey(t *testing.T) {
	bat := testutil.NewBatch([]string{"g", "x", "y"},
		testutil.NewStringVector([]string{"a", "a", "b", "b"}),
		testutil.NewInt64Vector([]int64{1, 1, 1, 2}),
		testutil.NewInt64Vector([]int64{10, 20, 30, 40}),
	)
	exprs := []extend.NamedExtend{{E: &extend.Attribute{Name: "x"}}}
	out, err := Distinct(bat, exprs, []string{"g"}, false)
	require.NoError(t, err)
	// explicit keys first, then group columns
	require.Equal(t, []string{"x", "g"}, out.Attrs)
	require.Equal(t, 3, out.RowCount())
	requireColumn(t, out, "g", []any{"a", "b", "b"})
	requireColumn(t, out, "x", []any{int64(1), int64(1), int64(2)})
}

func TestDistinctKeepAllRetainsEveryColumn(t *testing.T) {
	bat := testutil.NewBatch([]string{"x", "y"},
		testutil.NewInt64Vector([]int64{1, 1, 2}),
		testutil.NewStringVector([]string{"a", "b", "c"}),
	)
	exprs := []extend.NamedExtend{{E: &extend.Attribute{Name: "x"}}}
	out, err := Distinct(bat, exprs, nil, true)
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, out.Attrs)
	require.Equal(t, 2, out.RowCount())
	requireColumn(t, out, "y", []any{"a", "c"})
}

func TestDistinctEmptyBatch(t *testing.T) {
	bat := testutil.NewBatch([]string{"x"}, testutil.NewInt64Vector(nil))
	out, err := Distinct(bat, nil, nil, true)
	require.NoError(t, err)
	require.Equal(t, 0, out.RowCount())
}

func TestDistinctResultNeverGrows(t *testing.T) {
	bat := testutil.NewBatch([]string{"x"},
		testutil.NewInt64Vector([]int64{5, 5, 5, 5, 5}),
	)
	out, err := Distinct(bat, nil, nil, true)
	require.NoError(t, err)
	require.LessOrEqual(t, out.RowCount(), bat.RowCount())
	require.Equal(t, 1, out.RowCount())
}

func TestDedupUnknownColumn(t *testing.T) {
	bat := testutil.NewBatch([]string{"x"}, testutil.NewInt64Vector([]int64{1}))
	_, err := Dedup(bat, []string{"nope"}, bat.Attrs)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadColumn))
}
