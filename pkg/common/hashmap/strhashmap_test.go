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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tablekit/tablekit/pkg/common/moerr"
	"github.com/tablekit/tablekit/pkg/container/vector"
	"github.com/tablekit/tablekit/pkg/testutil"
)

func TestStrMapAssignsStableGroupIds(t *testing.T) {
	vecs := []*vector.Vector{
		testutil.NewInt64Vector([]int64{1, 1, 2, 1}),
	}
	mp := NewStrMap(true)
	itr := mp.NewIterator()

	vs, zs, err := itr.Insert(0, 4, vecs)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 1, 2, 1}, vs)
	require.Equal(t, []int64{1, 1, 1, 1}, zs)
	require.Equal(t, uint64(2), mp.GroupCount())
}

func TestStrMapMultiColumnKeys(t *testing.T) {
	vecs := []*vector.Vector{
		testutil.NewInt64Vector([]int64{1, 1, 2}),
		testutil.NewStringVector([]string{"a", "b", "a"}),
	}
	mp := NewStrMap(true)
	itr := mp.NewIterator()

	vs, _, err := itr.Insert(0, 3, vecs)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 3}, vs)
}

func TestStrMapStringKeysDoNotBleed(t *testing.T) {
	// ("ab","c") and ("a","bc") concatenate identically; the length
	// prefix has to keep them apart
	vecs := []*vector.Vector{
		testutil.NewStringVector([]string{"ab", "a"}),
		testutil.NewStringVector([]string{"c", "bc"}),
	}
	mp := NewStrMap(true)
	itr := mp.NewIterator()

	vs, _, err := itr.Insert(0, 2, vecs)
	require.NoError(t, err)
	require.NotEqual(t, vs[0], vs[1])
}

func TestStrMapNullsGroupTogether(t *testing.T) {
	vecs := []*vector.Vector{
		testutil.NewInt64Vector([]int64{1, 0, 0, 2}, 1, 2),
	}
	mp := NewStrMap(true)
	itr := mp.NewIterator()

	vs, zs, err := itr.Insert(0, 4, vecs)
	require.NoError(t, err)
	require.Equal(t, vs[1], vs[2])
	require.Equal(t, []int64{1, 1, 1, 1}, zs)
	require.Equal(t, uint64(3), mp.GroupCount())
}

func TestStrMapWithoutNullsSkipsNullRows(t *testing.T) {
	vecs := []*vector.Vector{
		testutil.NewInt64Vector([]int64{1, 0, 0, 2}, 1, 2),
	}
	mp := NewStrMap(false)
	itr := mp.NewIterator()

	vs, zs, err := itr.Insert(0, 4, vecs)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 0, 0, 1}, zs)
	require.Zero(t, vs[1])
	require.Zero(t, vs[2])
	require.Equal(t, uint64(2), mp.GroupCount())
}

func TestStrMapFind(t *testing.T) {
	vecs := []*vector.Vector{
		testutil.NewStringVector([]string{"x", "y", "x"}),
	}
	mp := NewStrMap(true)
	itr := mp.NewIterator()

	_, _, err := itr.Insert(0, 2, vecs)
	require.NoError(t, err)

	vs, _, err := itr.Find(2, 1, vecs)
	require.NoError(t, err)
	require.Equal(t, uint64(1), vs[0])

	// group ids never move once assigned
	vs, _, err = itr.Find(1, 1, vecs)
	require.NoError(t, err)
	require.Equal(t, uint64(2), vs[0])
}

func TestStrMapChunkedInsertsShareGroups(t *testing.T) {
	rows := UnitLimit + 50
	vs := make([]int64, rows)
	for i := range vs {
		vs[i] = int64(i % 3)
	}
	vecs := []*vector.Vector{testutil.NewInt64Vector(vs)}
	mp := NewStrMap(true)
	itr := mp.NewIterator()

	for start := 0; start < rows; start += UnitLimit {
		count := rows - start
		if count > UnitLimit {
			count = UnitLimit
		}
		_, _, err := itr.Insert(start, count, vecs)
		require.NoError(t, err)
	}
	require.Equal(t, uint64(3), mp.GroupCount())
}

func TestStrMapNarrowNumericKeys(t *testing.T) {
	// one column per fixed-width kind, each with the value pattern
	// [a, a, b]; the combined tuple must still form two groups
	cols := []*vector.Vector{
		testutil.NewInt8Vector([]int8{-1, -1, 2}),
		testutil.NewInt16Vector([]int16{10, 10, -10}),
		testutil.NewUint8Vector([]uint8{255, 255, 0}),
		testutil.NewUint16Vector([]uint16{7, 7, 8}),
		testutil.NewUint32Vector([]uint32{1 << 20, 1 << 20, 5}),
		testutil.NewUint64Vector([]uint64{1 << 40, 1 << 40, 6}),
		testutil.NewFloat32Vector([]float32{1.5, 1.5, 2.5}),
	}
	for _, vec := range cols {
		mp := NewStrMap(true)
		itr := mp.NewIterator()
		vs, _, err := itr.Insert(0, 3, []*vector.Vector{vec})
		require.NoError(t, err, vec.Typ.String())
		require.Equal(t, []uint64{1, 1, 2}, vs, vec.Typ.String())
	}

	mp := NewStrMap(true)
	itr := mp.NewIterator()
	vs, _, err := itr.Insert(0, 3, cols)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 1, 2}, vs)
}

func TestStrMapRejectsOversizedUnit(t *testing.T) {
	vecs := []*vector.Vector{testutil.NewInt64Vector(make([]int64, UnitLimit+1))}
	mp := NewStrMap(true)
	itr := mp.NewIterator()

	_, _, err := itr.Insert(0, UnitLimit+1, vecs)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
}

func TestEncodeRowKeyDistinguishesNulls(t *testing.T) {
	vecs := []*vector.Vector{
		testutil.NewInt64Vector([]int64{0, 0}, 1),
	}
	k0, err := EncodeRowKey(nil, vecs, 0)
	require.NoError(t, err)
	k1, err := EncodeRowKey(nil, vecs, 1)
	require.NoError(t, err)
	require.NotEqual(t, k0, k1)
}
