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

package ndistinct

import (
	hll "github.com/axiomhq/hyperloglog"

	"github.com/tablekit/tablekit/pkg/common/hashmap"
	"github.com/tablekit/tablekit/pkg/container/nulls"
	"github.com/tablekit/tablekit/pkg/container/vector"
)

// ApproxCounter estimates distinct tuple counts with a hyperloglog
// sketch. Unlike Count it holds no per-tuple state, so sketches over
// large or partitioned inputs stay small and can be merged.
type ApproxCounter struct {
	naRemove bool
	sketch   *hll.Sketch
}

func NewApproxCounter(naRemove bool) *ApproxCounter {
	return &ApproxCounter{
		naRemove: naRemove,
		sketch:   hll.New(),
	}
}

// Add feeds every row tuple of vecs into the sketch.
func (c *ApproxCounter) Add(vecs []*vector.Vector) error {
	rows, err := validate(vecs)
	if err != nil {
		return err
	}
	var buf []byte
	for row := 0; row < rows; row++ {
		if c.naRemove && tupleHasNull(vecs, row) {
			continue
		}
		if buf, err = hashmap.EncodeRowKey(buf[:0], vecs, row); err != nil {
			return err
		}
		c.sketch.Insert(buf)
	}
	return nil
}

func (c *ApproxCounter) Estimate() uint64 {
	return c.sketch.Estimate()
}

// Sketch exposes the underlying hyperloglog state so estimates from
// independent counters can be merged.
func (c *ApproxCounter) Sketch() *hll.Sketch {
	return c.sketch
}

func (c *ApproxCounter) Merge(other *ApproxCounter) error {
	return c.sketch.Merge(other.sketch)
}

// ApproxCount is the one-shot convenience over NewApproxCounter and Add.
func ApproxCount(vecs []*vector.Vector, naRemove bool) (uint64, error) {
	c := NewApproxCounter(naRemove)
	if err := c.Add(vecs); err != nil {
		return 0, err
	}
	return c.Estimate(), nil
}

func tupleHasNull(vecs []*vector.Vector, row int) bool {
	for _, vec := range vecs {
		if nulls.Contains(vec.GetNulls(), uint64(row)) {
			return true
		}
	}
	return false
}
