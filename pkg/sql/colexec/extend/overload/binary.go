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

package overload

import (
	"math"

	"github.com/tablekit/tablekit/pkg/common/moerr"
	"github.com/tablekit/tablekit/pkg/container/nulls"
	"github.com/tablekit/tablekit/pkg/container/types"
	"github.com/tablekit/tablekit/pkg/container/vector"
)

// BinaryEval evaluates l op r over rows. A one-row operand against a
// longer one broadcasts as a constant. Null rows propagate to the result.
func BinaryEval(op int, l, r *vector.Vector) (*vector.Vector, error) {
	rows := l.Length()
	if r.Length() > rows {
		rows = r.Length()
	}
	if (l.Length() != rows && l.Length() != 1) || (r.Length() != rows && r.Length() != 1) {
		return nil, moerr.NewLengthMismatch(rows, min(l.Length(), r.Length()))
	}
	if l.Typ.Oid != r.Typ.Oid {
		return nil, moerr.NewUnsupportedOverload(OpName[op], l.Typ)
	}

	switch op {
	case Plus, Minus, Mult, Div, Mod:
		return arithEval(op, l, r, rows)
	case EQ, NE, LT, LE, GT, GE:
		return compareEval(op, l, r, rows)
	case And, Or:
		return logicalEval(op, l, r, rows)
	}
	return nil, moerr.NewUnsupportedOverload(OpName[op], l.Typ)
}

func arithEval(op int, l, r *vector.Vector, rows int) (*vector.Vector, error) {
	switch lc := l.Col.(type) {
	case []int64:
		rc := r.Col.([]int64)
		return buildFixed(l, r, rows, types.T_int64, func(i int) (int64, error) {
			a, b := pick(lc, i), pick(rc, i)
			switch op {
			case Plus:
				return a + b, nil
			case Minus:
				return a - b, nil
			case Mult:
				return a * b, nil
			case Div:
				if b == 0 {
					return 0, moerr.NewDivByZero()
				}
				return a / b, nil
			case Mod:
				if b == 0 {
					return 0, moerr.NewDivByZero()
				}
				return a % b, nil
			}
			return 0, moerr.NewUnsupportedOverload(OpName[op], l.Typ)
		})
	case []float64:
		rc := r.Col.([]float64)
		return buildFixed(l, r, rows, types.T_float64, func(i int) (float64, error) {
			a, b := pick(lc, i), pick(rc, i)
			switch op {
			case Plus:
				return a + b, nil
			case Minus:
				return a - b, nil
			case Mult:
				return a * b, nil
			case Div:
				if b == 0 {
					return 0, moerr.NewDivByZero()
				}
				return a / b, nil
			case Mod:
				return math.Mod(a, b), nil
			}
			return 0, moerr.NewUnsupportedOverload(OpName[op], l.Typ)
		})
	}
	return nil, moerr.NewUnsupportedOverload(OpName[op], l.Typ)
}

func compareEval(op int, l, r *vector.Vector, rows int) (*vector.Vector, error) {
	switch lc := l.Col.(type) {
	case []int64:
		return buildCompare(op, l, r, rows, lc, r.Col.([]int64))
	case []float64:
		return buildCompare(op, l, r, rows, lc, r.Col.([]float64))
	case []string:
		return buildCompare(op, l, r, rows, lc, r.Col.([]string))
	case []types.Datetime:
		return buildCompare(op, l, r, rows, lc, r.Col.([]types.Datetime))
	case []bool:
		rc := r.Col.([]bool)
		if op != EQ && op != NE {
			return nil, moerr.NewUnsupportedOverload(OpName[op], l.Typ)
		}
		return buildFixed(l, r, rows, types.T_bool, func(i int) (bool, error) {
			eq := pick(lc, i) == pick(rc, i)
			if op == NE {
				eq = !eq
			}
			return eq, nil
		})
	}
	return nil, moerr.NewUnsupportedOverload(OpName[op], l.Typ)
}

func buildCompare[T int64 | float64 | string | types.Datetime](op int, l, r *vector.Vector, rows int, lc, rc []T) (*vector.Vector, error) {
	return buildFixed(l, r, rows, types.T_bool, func(i int) (bool, error) {
		a, b := pick(lc, i), pick(rc, i)
		switch op {
		case EQ:
			return a == b, nil
		case NE:
			return a != b, nil
		case LT:
			return a < b, nil
		case LE:
			return a <= b, nil
		case GT:
			return a > b, nil
		case GE:
			return a >= b, nil
		}
		return false, moerr.NewUnsupportedOverload(OpName[op], l.Typ)
	})
}

func logicalEval(op int, l, r *vector.Vector, rows int) (*vector.Vector, error) {
	lc, ok := l.Col.([]bool)
	if !ok {
		return nil, moerr.NewUnsupportedOverload(OpName[op], l.Typ)
	}
	rc := r.Col.([]bool)
	return buildFixed(l, r, rows, types.T_bool, func(i int) (bool, error) {
		if op == And {
			return pick(lc, i) && pick(rc, i), nil
		}
		return pick(lc, i) || pick(rc, i), nil
	})
}

// pick reads row i with constant broadcast.
func pick[T any](col []T, i int) T {
	if len(col) == 1 {
		return col[0]
	}
	return col[i]
}

func buildFixed[T any](l, r *vector.Vector, rows int, oid types.T, f func(int) (T, error)) (*vector.Vector, error) {
	out := vector.New(oid.ToType())
	col := make([]T, rows)
	for i := 0; i < rows; i++ {
		if isNullAt(l, i) || isNullAt(r, i) {
			nulls.Add(out.Nsp, uint64(i))
			continue
		}
		v, err := f(i)
		if err != nil {
			return nil, err
		}
		col[i] = v
	}
	out.Col = col
	return out, nil
}

func isNullAt(v *vector.Vector, i int) bool {
	if v.Length() == 1 {
		return nulls.Contains(v.Nsp, 0)
	}
	return nulls.Contains(v.Nsp, uint64(i))
}
