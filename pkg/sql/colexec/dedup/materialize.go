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
	"github.com/tablekit/tablekit/pkg/container/batch"
	"github.com/tablekit/tablekit/pkg/sql/colexec/extend"
)

// Materialize evaluates the key expressions against bat and returns the
// augmented batch together with the key columns (vars) and the output
// columns (keep).
//
// The caller's batch is never mutated: the augmented batch shares the
// unchanged column vectors and owns only its shape and computed columns.
// Expressions are evaluated in order against the augmented state, so a
// later key may reference an earlier computed one. A computed column
// whose name matches an existing column overwrites it (last write wins).
func Materialize(bat *batch.Batch, exprs []extend.NamedExtend, groupVars []string, keepAll bool) (*batch.Batch, []string, []string, error) {
	if len(exprs) == 0 {
		vars := append([]string{}, bat.Attrs...)
		return bat.ShallowDup(), vars, vars, nil
	}

	abat := bat.ShallowDup()
	names := make([]string, len(exprs))
	for i, e := range exprs {
		names[i] = e.Name()
		vec, err := e.E.Eval(abat)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := abat.SetVector(names[i], vec); err != nil {
			return nil, nil, nil, err
		}
	}

	// explicit keys first, then group columns; names that did not make
	// it into the augmented batch contribute nothing.
	vars := dedupNames(append(names, groupVars...), abat)

	keep := vars
	if keepAll {
		keep = append([]string{}, abat.Attrs...)
	}
	return abat, vars, keep, nil
}

func dedupNames(names []string, bat *batch.Batch) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		if bat.Pos(name) < 0 {
			continue
		}
		out = append(out, name)
	}
	return out
}
