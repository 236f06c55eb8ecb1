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
	"hash/fnv"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/tablekit/tablekit/pkg/common/hashmap"
	"github.com/tablekit/tablekit/pkg/container/batch"
	"github.com/tablekit/tablekit/pkg/container/vector"
	"github.com/tablekit/tablekit/pkg/logutil"
)

// parallelCutoff is the row count below which sharding is not worth the
// partitioning pass.
const parallelCutoff = 4096

// DedupParallel behaves exactly like Dedup but hash-partitions the rows
// into parallelism shards deduplicated concurrently. Each shard applies
// the same first-occurrence rule on its own rows; since a key tuple maps
// to exactly one shard, merging the shard winners by original row index
// reproduces the serial result.
func DedupParallel(bat *batch.Batch, vars, keep []string, parallelism int) (*batch.Batch, error) {
	if len(vars) == 0 {
		vars = bat.Attrs
	}
	if err := assertDedupable(bat, keep); err != nil {
		return nil, err
	}
	rows := bat.RowCount()
	if parallelism < 2 || rows < parallelCutoff {
		return Dedup(bat, vars, keep)
	}
	keyVecs, err := keyVectors(bat, vars)
	if err != nil {
		return nil, err
	}

	// partition pass: rows land in the shard owning their key hash
	shards := make([][]int64, parallelism)
	var buf []byte
	h := fnv.New64a()
	for row := 0; row < rows; row++ {
		buf, err = hashmap.EncodeRowKey(buf[:0], keyVecs, row)
		if err != nil {
			return nil, err
		}
		h.Reset()
		h.Write(buf)
		shard := int(h.Sum64() % uint64(parallelism))
		shards[shard] = append(shards[shard], int64(row))
	}

	pool, err := ants.NewPool(parallelism)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	winners := make([][]int64, parallelism)
	errs := make([]error, parallelism)
	var wg sync.WaitGroup
	for i := range shards {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			winners[i], errs[i] = shardWinners(keyVecs, shards[i])
		}); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var sels []int64
	for _, w := range winners {
		sels = append(sels, w...)
	}
	// shard winners are merged back into original row order
	sort.Slice(sels, func(i, j int) bool { return sels[i] < sels[j] })
	logutil.Debugf("parallel dedup: %d rows over %d shards kept %d", rows, parallelism, len(sels))

	out, err := bat.Project(keep)
	if err != nil {
		return nil, err
	}
	return out.Shrink(sels), nil
}

// shardWinners runs the first-occurrence rule over one shard's rows.
// sels is ascending in original row order, so first sight within the
// shard is first sight globally for every key the shard owns.
func shardWinners(keyVecs []*vector.Vector, sels []int64) ([]int64, error) {
	mp := hashmap.NewStrMap(true)
	itr := mp.NewIterator()
	var winners []int64
	for _, sel := range sels {
		vs, _, err := itr.Insert(int(sel), 1, keyVecs)
		if err != nil {
			return nil, err
		}
		if vs[0] > uint64(len(winners)) {
			winners = append(winners, sel)
		}
	}
	return winners, nil
}
