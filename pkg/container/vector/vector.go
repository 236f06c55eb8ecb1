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

package vector

import (
	"bytes"
	"fmt"

	"github.com/tablekit/tablekit/pkg/common/moerr"
	"github.com/tablekit/tablekit/pkg/container/nulls"
	"github.com/tablekit/tablekit/pkg/container/types"
)

// Vector represents a column. Col holds a typed slice matching Typ:
// []bool, []int8, []int16, []int32, []int64, []uint8, []uint16,
// []uint32, []uint64, []float32, []float64, []types.Datetime, []string
// or []types.List. Row order is significant everywhere.
type Vector struct {
	Typ types.Type
	Col any
	Nsp *nulls.Nulls
}

func New(typ types.Type) *Vector {
	v := &Vector{
		Typ: typ,
		Nsp: nulls.New(),
	}
	v.Col = emptyCol(typ)
	return v
}

func emptyCol(typ types.Type) any {
	switch typ.Oid {
	case types.T_bool:
		return []bool{}
	case types.T_int8:
		return []int8{}
	case types.T_int16:
		return []int16{}
	case types.T_int32:
		return []int32{}
	case types.T_int64:
		return []int64{}
	case types.T_uint8:
		return []uint8{}
	case types.T_uint16:
		return []uint16{}
	case types.T_uint32:
		return []uint32{}
	case types.T_uint64:
		return []uint64{}
	case types.T_float32:
		return []float32{}
	case types.T_float64:
		return []float64{}
	case types.T_datetime:
		return []types.Datetime{}
	case types.T_varchar:
		return []string{}
	case types.T_list:
		return []types.List{}
	}
	return nil
}

func (v *Vector) GetType() types.Type {
	return v.Typ
}

func (v *Vector) GetNulls() *nulls.Nulls {
	return v.Nsp
}

func (v *Vector) Length() int {
	switch col := v.Col.(type) {
	case []bool:
		return len(col)
	case []int8:
		return len(col)
	case []int16:
		return len(col)
	case []int32:
		return len(col)
	case []int64:
		return len(col)
	case []uint8:
		return len(col)
	case []uint16:
		return len(col)
	case []uint32:
		return len(col)
	case []uint64:
		return len(col)
	case []float32:
		return len(col)
	case []float64:
		return len(col)
	case []types.Datetime:
		return len(col)
	case []string:
		return len(col)
	case []types.List:
		return len(col)
	}
	return 0
}

// Append adds one value. A nil val appends a null row (the slot is filled
// with the type's zero value so every row remains addressable).
func (v *Vector) Append(val any) error {
	if val == nil {
		return v.AppendNull()
	}
	switch col := v.Col.(type) {
	case []bool:
		c, ok := val.(bool)
		if !ok {
			return typeMismatch(v.Typ, val)
		}
		v.Col = append(col, c)
	case []int8:
		c, ok := val.(int8)
		if !ok {
			return typeMismatch(v.Typ, val)
		}
		v.Col = append(col, c)
	case []int16:
		c, ok := val.(int16)
		if !ok {
			return typeMismatch(v.Typ, val)
		}
		v.Col = append(col, c)
	case []int32:
		c, ok := val.(int32)
		if !ok {
			return typeMismatch(v.Typ, val)
		}
		v.Col = append(col, c)
	case []int64:
		c, ok := val.(int64)
		if !ok {
			return typeMismatch(v.Typ, val)
		}
		v.Col = append(col, c)
	case []uint8:
		c, ok := val.(uint8)
		if !ok {
			return typeMismatch(v.Typ, val)
		}
		v.Col = append(col, c)
	case []uint16:
		c, ok := val.(uint16)
		if !ok {
			return typeMismatch(v.Typ, val)
		}
		v.Col = append(col, c)
	case []uint32:
		c, ok := val.(uint32)
		if !ok {
			return typeMismatch(v.Typ, val)
		}
		v.Col = append(col, c)
	case []uint64:
		c, ok := val.(uint64)
		if !ok {
			return typeMismatch(v.Typ, val)
		}
		v.Col = append(col, c)
	case []float32:
		c, ok := val.(float32)
		if !ok {
			return typeMismatch(v.Typ, val)
		}
		v.Col = append(col, c)
	case []float64:
		c, ok := val.(float64)
		if !ok {
			return typeMismatch(v.Typ, val)
		}
		v.Col = append(col, c)
	case []types.Datetime:
		c, ok := val.(types.Datetime)
		if !ok {
			return typeMismatch(v.Typ, val)
		}
		v.Col = append(col, c)
	case []string:
		c, ok := val.(string)
		if !ok {
			return typeMismatch(v.Typ, val)
		}
		v.Col = append(col, c)
	case []types.List:
		c, ok := val.(types.List)
		if !ok {
			return typeMismatch(v.Typ, val)
		}
		v.Col = append(col, c)
	default:
		return moerr.NewInternalErrorf("append on vector of unknown type %s", v.Typ)
	}
	return nil
}

func (v *Vector) AppendNull() error {
	row := uint64(v.Length())
	switch col := v.Col.(type) {
	case []bool:
		v.Col = append(col, false)
	case []int8:
		v.Col = append(col, 0)
	case []int16:
		v.Col = append(col, 0)
	case []int32:
		v.Col = append(col, 0)
	case []int64:
		v.Col = append(col, 0)
	case []uint8:
		v.Col = append(col, 0)
	case []uint16:
		v.Col = append(col, 0)
	case []uint32:
		v.Col = append(col, 0)
	case []uint64:
		v.Col = append(col, 0)
	case []float32:
		v.Col = append(col, 0)
	case []float64:
		v.Col = append(col, 0)
	case []types.Datetime:
		v.Col = append(col, 0)
	case []string:
		v.Col = append(col, "")
	case []types.List:
		v.Col = append(col, nil)
	default:
		return moerr.NewInternalErrorf("append null on vector of unknown type %s", v.Typ)
	}
	nulls.Add(v.Nsp, row)
	return nil
}

func typeMismatch(typ types.Type, val any) error {
	return moerr.NewInvalidInputf("value %v (%T) does not fit vector type %s", val, val, typ)
}

// Get returns the value at row, or nil for a null row.
func (v *Vector) Get(row int) any {
	if nulls.Contains(v.Nsp, uint64(row)) {
		return nil
	}
	switch col := v.Col.(type) {
	case []bool:
		return col[row]
	case []int8:
		return col[row]
	case []int16:
		return col[row]
	case []int32:
		return col[row]
	case []int64:
		return col[row]
	case []uint8:
		return col[row]
	case []uint16:
		return col[row]
	case []uint32:
		return col[row]
	case []uint64:
		return col[row]
	case []float32:
		return col[row]
	case []float64:
		return col[row]
	case []types.Datetime:
		return col[row]
	case []string:
		return col[row]
	case []types.List:
		return col[row]
	}
	return nil
}

// Shrink returns a new vector holding the rows named by sels, in sels
// order. The receiver is unchanged.
func (v *Vector) Shrink(sels []int64) *Vector {
	w := &Vector{
		Typ: v.Typ,
		Nsp: nulls.Filter(v.Nsp, sels),
	}
	switch col := v.Col.(type) {
	case []bool:
		w.Col = gather(col, sels)
	case []int8:
		w.Col = gather(col, sels)
	case []int16:
		w.Col = gather(col, sels)
	case []int32:
		w.Col = gather(col, sels)
	case []int64:
		w.Col = gather(col, sels)
	case []uint8:
		w.Col = gather(col, sels)
	case []uint16:
		w.Col = gather(col, sels)
	case []uint32:
		w.Col = gather(col, sels)
	case []uint64:
		w.Col = gather(col, sels)
	case []float32:
		w.Col = gather(col, sels)
	case []float64:
		w.Col = gather(col, sels)
	case []types.Datetime:
		w.Col = gather(col, sels)
	case []string:
		w.Col = gather(col, sels)
	case []types.List:
		w.Col = gather(col, sels)
	}
	return w
}

func gather[T any](col []T, sels []int64) []T {
	vs := make([]T, len(sels))
	for i, sel := range sels {
		vs[i] = col[sel]
	}
	return vs
}

// Window returns a new vector over rows [start, end). Values are copied,
// nulls are rebuilt relative to start.
func (v *Vector) Window(start, end int) *Vector {
	sels := make([]int64, 0, end-start)
	for i := start; i < end; i++ {
		sels = append(sels, int64(i))
	}
	return v.Shrink(sels)
}

func (v *Vector) Dup() *Vector {
	w := &Vector{
		Typ: v.Typ,
		Nsp: v.Nsp.Clone(),
	}
	switch col := v.Col.(type) {
	case []bool:
		w.Col = append([]bool{}, col...)
	case []int8:
		w.Col = append([]int8{}, col...)
	case []int16:
		w.Col = append([]int16{}, col...)
	case []int32:
		w.Col = append([]int32{}, col...)
	case []int64:
		w.Col = append([]int64{}, col...)
	case []uint8:
		w.Col = append([]uint8{}, col...)
	case []uint16:
		w.Col = append([]uint16{}, col...)
	case []uint32:
		w.Col = append([]uint32{}, col...)
	case []uint64:
		w.Col = append([]uint64{}, col...)
	case []float32:
		w.Col = append([]float32{}, col...)
	case []float64:
		w.Col = append([]float64{}, col...)
	case []types.Datetime:
		w.Col = append([]types.Datetime{}, col...)
	case []string:
		w.Col = append([]string{}, col...)
	case []types.List:
		w.Col = append([]types.List{}, col...)
	}
	return w
}

// UnionOne appends row from w onto v. Both vectors must share a type.
func (v *Vector) UnionOne(w *Vector, row int) error {
	if v.Typ.Oid != w.Typ.Oid {
		return moerr.NewInternalErrorf("union of %s vector with %s vector", v.Typ, w.Typ)
	}
	return v.Append(w.Get(row))
}

func (v *Vector) String() string {
	var buf bytes.Buffer
	buf.WriteString(v.Typ.String())
	buf.WriteString("[")
	for i := 0; i < v.Length(); i++ {
		if i > 0 {
			buf.WriteString(" ")
		}
		if val := v.Get(i); val == nil {
			buf.WriteString("null")
		} else {
			fmt.Fprintf(&buf, "%v", val)
		}
	}
	buf.WriteString("]")
	return buf.String()
}
