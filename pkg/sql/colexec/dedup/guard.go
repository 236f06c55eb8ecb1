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
	"github.com/tablekit/tablekit/pkg/common/moerr"
	"github.com/tablekit/tablekit/pkg/container/batch"
)

// assertDedupable rejects any to-be-kept column holding container values,
// which have no equality usable for deduplication. It runs after key
// materialization so computed columns are covered too, and before any
// value is read.
func assertDedupable(bat *batch.Batch, keep []string) error {
	var bad []string
	for _, attr := range keep {
		vec, err := bat.GetVector(attr)
		if err != nil {
			return err
		}
		if vec.Typ.IsContainer() {
			bad = append(bad, attr)
		}
	}
	if len(bad) > 0 {
		return moerr.NewUnsupportedKeyType(bad...)
	}
	return nil
}
