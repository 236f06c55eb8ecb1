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

// Package testutil builds vectors and batches for tests.
package testutil

import (
	"github.com/tablekit/tablekit/pkg/container/batch"
	"github.com/tablekit/tablekit/pkg/container/nulls"
	"github.com/tablekit/tablekit/pkg/container/types"
	"github.com/tablekit/tablekit/pkg/container/vector"
)

func NewBoolVector(vs []bool, nullRows ...uint64) *vector.Vector {
	vec := vector.New(types.T_bool.ToType())
	vec.Col = vs
	nulls.Add(vec.Nsp, nullRows...)
	return vec
}

func NewInt8Vector(vs []int8, nullRows ...uint64) *vector.Vector {
	vec := vector.New(types.T_int8.ToType())
	vec.Col = vs
	nulls.Add(vec.Nsp, nullRows...)
	return vec
}

func NewInt16Vector(vs []int16, nullRows ...uint64) *vector.Vector {
	vec := vector.New(types.T_int16.ToType())
	vec.Col = vs
	nulls.Add(vec.Nsp, nullRows...)
	return vec
}

func NewInt32Vector(vs []int32, nullRows ...uint64) *vector.Vector {
	vec := vector.New(types.T_int32.ToType())
	vec.Col = vs
	nulls.Add(vec.Nsp, nullRows...)
	return vec
}

func NewInt64Vector(vs []int64, nullRows ...uint64) *vector.Vector {
	vec := vector.New(types.T_int64.ToType())
	vec.Col = vs
	nulls.Add(vec.Nsp, nullRows...)
	return vec
}

func NewUint8Vector(vs []uint8, nullRows ...uint64) *vector.Vector {
	vec := vector.New(types.T_uint8.ToType())
	vec.Col = vs
	nulls.Add(vec.Nsp, nullRows...)
	return vec
}

func NewUint16Vector(vs []uint16, nullRows ...uint64) *vector.Vector {
	vec := vector.New(types.T_uint16.ToType())
	vec.Col = vs
	nulls.Add(vec.Nsp, nullRows...)
	return vec
}

func NewUint32Vector(vs []uint32, nullRows ...uint64) *vector.Vector {
	vec := vector.New(types.T_uint32.ToType())
	vec.Col = vs
	nulls.Add(vec.Nsp, nullRows...)
	return vec
}

func NewUint64Vector(vs []uint64, nullRows ...uint64) *vector.Vector {
	vec := vector.New(types.T_uint64.ToType())
	vec.Col = vs
	nulls.Add(vec.Nsp, nullRows...)
	return vec
}

func NewFloat32Vector(vs []float32, nullRows ...uint64) *vector.Vector {
	vec := vector.New(types.T_float32.ToType())
	vec.Col = vs
	nulls.Add(vec.Nsp, nullRows...)
	return vec
}

func NewFloat64Vector(vs []float64, nullRows ...uint64) *vector.Vector {
	vec := vector.New(types.T_float64.ToType())
	vec.Col = vs
	nulls.Add(vec.Nsp, nullRows...)
	return vec
}

func NewStringVector(vs []string, nullRows ...uint64) *vector.Vector {
	vec := vector.New(types.T_varchar.ToType())
	vec.Col = vs
	nulls.Add(vec.Nsp, nullRows...)
	return vec
}

func NewDatetimeVector(vs []types.Datetime, nullRows ...uint64) *vector.Vector {
	vec := vector.New(types.T_datetime.ToType())
	vec.Col = vs
	nulls.Add(vec.Nsp, nullRows...)
	return vec
}

func NewListVector(vs []types.List, nullRows ...uint64) *vector.Vector {
	vec := vector.New(types.T_list.ToType())
	vec.Col = vs
	nulls.Add(vec.Nsp, nullRows...)
	return vec
}

// NewBatch pairs attrs with vecs; the vectors must share one length.
func NewBatch(attrs []string, vecs ...*vector.Vector) *batch.Batch {
	bat := batch.New(attrs)
	for i, vec := range vecs {
		bat.Vecs[i] = vec
	}
	if len(vecs) > 0 {
		bat.SetRowCount(vecs[0].Length())
	}
	return bat
}
