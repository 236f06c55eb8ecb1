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
	"encoding/binary"
	"math"

	"github.com/tablekit/tablekit/pkg/common/moerr"
	"github.com/tablekit/tablekit/pkg/container/nulls"
	"github.com/tablekit/tablekit/pkg/container/types"
	"github.com/tablekit/tablekit/pkg/container/vector"
)

func NewStrMap(hasNull bool) *StrHashMap {
	return &StrHashMap{
		hasNull: hasNull,
		keys:    make([][]byte, UnitLimit),
		values:  make([]uint64, UnitLimit),
		zValues: make([]int64, UnitLimit),
		mp:      make(map[string]uint64),
	}
}

func (m *StrHashMap) HasNull() bool {
	return m.hasNull
}

// GroupCount returns the number of distinct key tuples inserted so far.
func (m *StrHashMap) GroupCount() uint64 {
	return m.rows
}

func (m *StrHashMap) NewIterator() Iterator {
	return &strHashMapIterator{mp: m}
}

type strHashMapIterator struct {
	mp *StrHashMap
}

func (itr *strHashMapIterator) Insert(start, count int, vecs []*vector.Vector) ([]uint64, []int64, error) {
	m := itr.mp
	if err := m.encodeKeys(start, count, vecs); err != nil {
		return nil, nil, err
	}
	for i := 0; i < count; i++ {
		if m.zValues[i] == 0 {
			m.values[i] = 0
			continue
		}
		key := string(m.keys[i])
		v, ok := m.mp[key]
		if !ok {
			m.rows++
			v = m.rows
			m.mp[key] = v
		}
		m.values[i] = v
	}
	return m.values[:count], m.zValues[:count], nil
}

func (itr *strHashMapIterator) Find(start, count int, vecs []*vector.Vector) ([]uint64, []int64, error) {
	m := itr.mp
	if err := m.encodeKeys(start, count, vecs); err != nil {
		return nil, nil, err
	}
	for i := 0; i < count; i++ {
		if m.zValues[i] == 0 {
			m.values[i] = 0
			continue
		}
		m.values[i] = m.mp[string(m.keys[i])]
	}
	return m.values[:count], m.zValues[:count], nil
}

// encodeKeys fills m.keys and m.zValues for rows [start, start+count).
func (m *StrHashMap) encodeKeys(start, count int, vecs []*vector.Vector) error {
	if count > UnitLimit {
		return moerr.NewInternalErrorf("encode unit of %d rows exceeds the limit %d", count, UnitLimit)
	}
	for i := 0; i < count; i++ {
		m.keys[i] = m.keys[i][:0]
		m.zValues[i] = 1
	}
	for _, vec := range vecs {
		if err := fillStringGroupKeys(m, vec, start, count); err != nil {
			return err
		}
	}
	return nil
}

func fillStringGroupKeys(m *StrHashMap, vec *vector.Vector, start, count int) error {
	nsp := vec.GetNulls()
	for i := 0; i < count; i++ {
		row := start + i
		if nulls.Contains(nsp, uint64(row)) {
			if m.hasNull {
				m.keys[i] = append(m.keys[i], byte(1))
			} else {
				m.zValues[i] = 0
			}
			continue
		}
		if m.hasNull {
			m.keys[i] = append(m.keys[i], byte(0))
		}
		var err error
		if m.keys[i], err = appendKeyValue(m.keys[i], vec, row); err != nil {
			return err
		}
	}
	return nil
}

// appendKeyValue appends the encoded value bytes of one cell. Fixed-width
// values use a little-endian encoding; variable-length values carry a
// uvarint length prefix so that multi-column string keys stay unambiguous.
func appendKeyValue(key []byte, vec *vector.Vector, row int) ([]byte, error) {
	switch col := vec.Col.(type) {
	case []bool:
		if col[row] {
			return append(key, 1), nil
		}
		return append(key, 0), nil
	case []int8:
		return append(key, byte(col[row])), nil
	case []int16:
		return binary.LittleEndian.AppendUint16(key, uint16(col[row])), nil
	case []int32:
		return binary.LittleEndian.AppendUint32(key, uint32(col[row])), nil
	case []int64:
		return binary.LittleEndian.AppendUint64(key, uint64(col[row])), nil
	case []uint8:
		return append(key, col[row]), nil
	case []uint16:
		return binary.LittleEndian.AppendUint16(key, col[row]), nil
	case []uint32:
		return binary.LittleEndian.AppendUint32(key, col[row]), nil
	case []uint64:
		return binary.LittleEndian.AppendUint64(key, col[row]), nil
	case []float32:
		return binary.LittleEndian.AppendUint32(key, math.Float32bits(col[row])), nil
	case []float64:
		return binary.LittleEndian.AppendUint64(key, math.Float64bits(col[row])), nil
	case []types.Datetime:
		return binary.LittleEndian.AppendUint64(key, uint64(col[row])), nil
	case []string:
		key = binary.AppendUvarint(key, uint64(len(col[row])))
		return append(key, col[row]...), nil
	}
	return nil, moerr.NewInternalErrorf("hash key over vector of type %s", vec.Typ)
}

// EncodeRowKey encodes the key tuple of one row with null flags, for
// callers that partition rows by key identity before inserting.
func EncodeRowKey(buf []byte, vecs []*vector.Vector, row int) ([]byte, error) {
	var err error
	for _, vec := range vecs {
		if nulls.Contains(vec.GetNulls(), uint64(row)) {
			buf = append(buf, byte(1))
			continue
		}
		buf = append(buf, byte(0))
		if buf, err = appendKeyValue(buf, vec, row); err != nil {
			return nil, err
		}
	}
	return buf, nil
}
