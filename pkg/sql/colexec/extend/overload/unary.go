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
	"github.com/tablekit/tablekit/pkg/common/moerr"
	"github.com/tablekit/tablekit/pkg/container/nulls"
	"github.com/tablekit/tablekit/pkg/container/types"
	"github.com/tablekit/tablekit/pkg/container/vector"
)

// UnaryEval evaluates op v. Null rows propagate to the result.
func UnaryEval(op int, v *vector.Vector) (*vector.Vector, error) {
	switch op {
	case UnaryMinus:
		switch col := v.Col.(type) {
		case []int64:
			return buildUnary(v, types.T_int64, col, func(x int64) int64 { return -x }), nil
		case []float64:
			return buildUnary(v, types.T_float64, col, func(x float64) float64 { return -x }), nil
		}
	case Not:
		if col, ok := v.Col.([]bool); ok {
			return buildUnary(v, types.T_bool, col, func(x bool) bool { return !x }), nil
		}
	}
	return nil, moerr.NewUnsupportedOverload(OpName[op], v.Typ)
}

func buildUnary[T, R any](v *vector.Vector, oid types.T, col []T, f func(T) R) *vector.Vector {
	out := vector.New(oid.ToType())
	rs := make([]R, len(col))
	for i := range col {
		if nulls.Contains(v.Nsp, uint64(i)) {
			nulls.Add(out.Nsp, uint64(i))
			continue
		}
		rs[i] = f(col[i])
	}
	out.Col = rs
	return out
}
