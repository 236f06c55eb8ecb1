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

package types

import "fmt"

type T uint8

const (
	// T_any represents an untyped column, only used as a placeholder.
	T_any T = iota

	T_bool

	T_int8
	T_int16
	T_int32
	T_int64

	T_uint8
	T_uint16
	T_uint32
	T_uint64

	T_float32
	T_float64

	T_datetime

	T_varchar

	// T_list is the container type. A list cell holds a variable-length
	// nested collection and has no total equality suitable for hashing.
	T_list
)

type Type struct {
	Oid T
}

// Datetime is a timestamp in microseconds since the unix epoch.
type Datetime int64

// List is the cell value of a T_list column.
type List []any

func New(oid T) Type {
	return Type{Oid: oid}
}

// TypeSize returns the fixed encoded width of a value of this type,
// or -1 for variable-length types.
func (t Type) TypeSize() int {
	switch t.Oid {
	case T_bool, T_int8, T_uint8:
		return 1
	case T_int16, T_uint16:
		return 2
	case T_int32, T_uint32, T_float32:
		return 4
	case T_int64, T_uint64, T_float64, T_datetime:
		return 8
	default:
		return -1
	}
}

// IsContainer reports whether values of this type are nested collections.
func (t Type) IsContainer() bool {
	return t.Oid == T_list
}

func (t Type) String() string {
	return t.Oid.String()
}

func (t T) ToType() Type {
	return Type{Oid: t}
}

func (t T) String() string {
	switch t {
	case T_any:
		return "ANY"
	case T_bool:
		return "BOOL"
	case T_int8:
		return "INT8"
	case T_int16:
		return "INT16"
	case T_int32:
		return "INT32"
	case T_int64:
		return "INT64"
	case T_uint8:
		return "UINT8"
	case T_uint16:
		return "UINT16"
	case T_uint32:
		return "UINT32"
	case T_uint64:
		return "UINT64"
	case T_float32:
		return "FLOAT32"
	case T_float64:
		return "FLOAT64"
	case T_datetime:
		return "DATETIME"
	case T_varchar:
		return "VARCHAR"
	case T_list:
		return "LIST"
	}
	return fmt.Sprintf("unexpected type tag %d", t)
}
