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
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4"

	"github.com/tablekit/tablekit/pkg/common/moerr"
	"github.com/tablekit/tablekit/pkg/container/batch"
	"github.com/tablekit/tablekit/pkg/container/nulls"
	"github.com/tablekit/tablekit/pkg/container/types"
	"github.com/tablekit/tablekit/pkg/container/vector"
	"github.com/tablekit/tablekit/pkg/logutil"
)

// spillBlockRows is how many winner rows a block accumulates before it
// is sealed. Sealed blocks become spill candidates.
var spillBlockRows = 8192

// DedupWithOptions is Dedup with optional parallelism or spilling. The
// result is identical in every mode.
func DedupWithOptions(bat *batch.Batch, vars, keep []string, opts Options) (*batch.Batch, error) {
	if opts.Parallelism > 1 {
		return DedupParallel(bat, vars, keep, opts.Parallelism)
	}
	if opts.SpillBudget > 0 {
		return dedupSpill(bat, vars, keep, opts)
	}
	return Dedup(bat, vars, keep)
}

// dedupSpill runs the same single-pass first-occurrence scan but builds
// the winner rows into blocks as it goes; sealed blocks beyond the
// memory budget are written to lz4-compressed temp files and read back,
// in order, when the result is assembled.
func dedupSpill(bat *batch.Batch, vars, keep []string, opts Options) (out *batch.Batch, err error) {
	if len(vars) == 0 {
		vars = bat.Attrs
	}
	if err := assertDedupable(bat, keep); err != nil {
		return nil, err
	}
	keyVecs, err := keyVectors(bat, vars)
	if err != nil {
		return nil, err
	}
	proj, err := bat.Project(keep)
	if err != nil {
		return nil, err
	}

	st := &spillState{budget: opts.SpillBudget, dir: opts.TmpDir}
	defer st.cleanup()

	ctr := newContainer()
	groups := 0
	cur := emptyLike(proj)
	rows := bat.RowCount()
	for start := 0; start < rows; start += UnitLimit {
		count := rows - start
		if count > UnitLimit {
			count = UnitLimit
		}
		vs, _, err := ctr.itr.Insert(start, count, keyVecs)
		if err != nil {
			return nil, err
		}
		for i, v := range vs {
			if v <= uint64(groups) {
				continue
			}
			groups++
			for j, vec := range cur.Vecs {
				if err := vec.UnionOne(proj.Vecs[j], start+i); err != nil {
					return nil, err
				}
			}
			cur.SetRowCount(cur.RowCount() + 1)
			if cur.RowCount() >= spillBlockRows {
				if err := st.seal(cur); err != nil {
					return nil, err
				}
				cur = emptyLike(proj)
			}
		}
	}
	if cur.RowCount() > 0 {
		if err := st.seal(cur); err != nil {
			return nil, err
		}
	}
	return st.assemble(emptyLike(proj))
}

func emptyLike(proto *batch.Batch) *batch.Batch {
	out := batch.New(proto.Attrs)
	for i, vec := range proto.Vecs {
		out.Vecs[i] = vector.New(vec.Typ)
	}
	return out
}

type spillState struct {
	budget int64
	dir    string

	inMem   []*batch.Batch
	memSize int64
	files   []string // spill files, one sealed block each, in seal order
}

func (st *spillState) seal(blk *batch.Batch) error {
	size := batchBytes(blk)
	if st.memSize+size <= st.budget && len(st.files) == 0 {
		st.inMem = append(st.inMem, blk)
		st.memSize += size
		return nil
	}
	// once one block hits disk, later blocks follow to keep seal order
	// trivially reconstructible
	path, err := st.writeBlock(blk)
	if err != nil {
		return err
	}
	st.files = append(st.files, path)
	logutil.Debugf("dedup spilled block of %d rows to %s", blk.RowCount(), path)
	return nil
}

func (st *spillState) writeBlock(blk *batch.Batch) (string, error) {
	dir := st.dir
	if dir == "" {
		dir = os.TempDir()
	}
	f, err := os.CreateTemp(dir, "dedup-spill-*.lz4")
	if err != nil {
		return "", moerr.NewSpillIO(err)
	}
	defer f.Close()

	zw := lz4.NewWriter(f)
	if _, err := zw.Write(encodeBatch(blk)); err != nil {
		return "", moerr.NewSpillIO(err)
	}
	if err := zw.Close(); err != nil {
		return "", moerr.NewSpillIO(err)
	}
	return f.Name(), nil
}

func (st *spillState) readBlock(path string) (*batch.Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, moerr.NewSpillIO(err)
	}
	defer f.Close()

	data, err := io.ReadAll(lz4.NewReader(f))
	if err != nil {
		return nil, moerr.NewSpillIO(err)
	}
	return decodeBatch(data)
}

// assemble concatenates the sealed blocks, memory first then disk, which
// is exactly seal order and therefore discovery order.
func (st *spillState) assemble(out *batch.Batch) (*batch.Batch, error) {
	for _, blk := range st.inMem {
		if err := appendBatch(out, blk); err != nil {
			return nil, err
		}
	}
	for _, path := range st.files {
		blk, err := st.readBlock(path)
		if err != nil {
			return nil, err
		}
		if err := appendBatch(out, blk); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (st *spillState) cleanup() {
	for _, path := range st.files {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logutil.Warnf("leaking spill file %s: %v", filepath.Base(path), err)
		}
	}
}

func appendBatch(dst, src *batch.Batch) error {
	for i, vec := range dst.Vecs {
		for row := 0; row < src.RowCount(); row++ {
			if err := vec.UnionOne(src.Vecs[i], row); err != nil {
				return err
			}
		}
	}
	dst.SetRowCount(dst.RowCount() + src.RowCount())
	return nil
}

// batchBytes estimates the in-memory size of a batch's values.
func batchBytes(bat *batch.Batch) int64 {
	var size int64
	for _, vec := range bat.Vecs {
		if w := vec.Typ.TypeSize(); w > 0 {
			size += int64(w * vec.Length())
			continue
		}
		if col, ok := vec.Col.([]string); ok {
			for _, s := range col {
				size += int64(len(s)) + 8
			}
		}
	}
	return size
}

// spill block layout: u32 column count, then per column a name (u32 len
// + bytes), the type oid, u32 row count, the null rows (u32 count + u32
// each) and the values (fixed little-endian, or uvarint length-prefixed
// bytes for varchar).
func encodeBatch(bat *batch.Batch) []byte {
	var buf bytes.Buffer
	u32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf.Write(b[:])
	}
	u64 := func(v uint64) {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		buf.Write(b[:])
	}

	u16 := func(v uint16) {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], v)
		buf.Write(b[:])
	}

	u32(uint32(len(bat.Vecs)))
	for i, vec := range bat.Vecs {
		name := bat.Attrs[i]
		u32(uint32(len(name)))
		buf.WriteString(name)
		buf.WriteByte(byte(vec.Typ.Oid))
		n := vec.Length()
		u32(uint32(n))

		var nullRows []uint32
		for row := 0; row < n; row++ {
			if nulls.Contains(vec.Nsp, uint64(row)) {
				nullRows = append(nullRows, uint32(row))
			}
		}
		u32(uint32(len(nullRows)))
		for _, row := range nullRows {
			u32(row)
		}

		switch col := vec.Col.(type) {
		case []bool:
			for _, v := range col {
				if v {
					buf.WriteByte(1)
				} else {
					buf.WriteByte(0)
				}
			}
		case []int8:
			for _, v := range col {
				buf.WriteByte(byte(v))
			}
		case []int16:
			for _, v := range col {
				u16(uint16(v))
			}
		case []int32:
			for _, v := range col {
				u32(uint32(v))
			}
		case []int64:
			for _, v := range col {
				u64(uint64(v))
			}
		case []uint8:
			buf.Write(col)
		case []uint16:
			for _, v := range col {
				u16(v)
			}
		case []uint32:
			for _, v := range col {
				u32(v)
			}
		case []uint64:
			for _, v := range col {
				u64(v)
			}
		case []float32:
			for _, v := range col {
				u32(math.Float32bits(v))
			}
		case []float64:
			for _, v := range col {
				u64(math.Float64bits(v))
			}
		case []types.Datetime:
			for _, v := range col {
				u64(uint64(v))
			}
		case []string:
			var tmp [binary.MaxVarintLen64]byte
			for _, s := range col {
				w := binary.PutUvarint(tmp[:], uint64(len(s)))
				buf.Write(tmp[:w])
				buf.WriteString(s)
			}
		}
	}
	return buf.Bytes()
}

func decodeBatch(data []byte) (*batch.Batch, error) {
	rd := bytes.NewReader(data)
	u32 := func() (uint32, error) {
		var b [4]byte
		if _, err := io.ReadFull(rd, b[:]); err != nil {
			return 0, moerr.NewSpillIO(err)
		}
		return binary.LittleEndian.Uint32(b[:]), nil
	}
	u64 := func() (uint64, error) {
		var b [8]byte
		if _, err := io.ReadFull(rd, b[:]); err != nil {
			return 0, moerr.NewSpillIO(err)
		}
		return binary.LittleEndian.Uint64(b[:]), nil
	}
	u16 := func() (uint16, error) {
		var b [2]byte
		if _, err := io.ReadFull(rd, b[:]); err != nil {
			return 0, moerr.NewSpillIO(err)
		}
		return binary.LittleEndian.Uint16(b[:]), nil
	}

	ncols, err := u32()
	if err != nil {
		return nil, err
	}
	bat := batch.NewWithSize(int(ncols))
	rowCount := 0
	for i := 0; i < int(ncols); i++ {
		nameLen, err := u32()
		if err != nil {
			return nil, err
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(rd, name); err != nil {
			return nil, moerr.NewSpillIO(err)
		}
		oid, err := rd.ReadByte()
		if err != nil {
			return nil, moerr.NewSpillIO(err)
		}
		n32, err := u32()
		if err != nil {
			return nil, err
		}
		n := int(n32)
		rowCount = n

		vec := vector.New(types.T(oid).ToType())
		nullCount, err := u32()
		if err != nil {
			return nil, err
		}
		for j := 0; j < int(nullCount); j++ {
			row, err := u32()
			if err != nil {
				return nil, err
			}
			nulls.Add(vec.Nsp, uint64(row))
		}

		switch types.T(oid) {
		case types.T_bool:
			col := make([]bool, n)
			for j := range col {
				b, err := rd.ReadByte()
				if err != nil {
					return nil, moerr.NewSpillIO(err)
				}
				col[j] = b != 0
			}
			vec.Col = col
		case types.T_int8:
			col := make([]int8, n)
			for j := range col {
				b, err := rd.ReadByte()
				if err != nil {
					return nil, moerr.NewSpillIO(err)
				}
				col[j] = int8(b)
			}
			vec.Col = col
		case types.T_int16:
			col := make([]int16, n)
			for j := range col {
				v, err := u16()
				if err != nil {
					return nil, err
				}
				col[j] = int16(v)
			}
			vec.Col = col
		case types.T_int32:
			col := make([]int32, n)
			for j := range col {
				v, err := u32()
				if err != nil {
					return nil, err
				}
				col[j] = int32(v)
			}
			vec.Col = col
		case types.T_uint8:
			col := make([]uint8, n)
			if _, err := io.ReadFull(rd, col); err != nil {
				return nil, moerr.NewSpillIO(err)
			}
			vec.Col = col
		case types.T_uint16:
			col := make([]uint16, n)
			for j := range col {
				v, err := u16()
				if err != nil {
					return nil, err
				}
				col[j] = v
			}
			vec.Col = col
		case types.T_uint32:
			col := make([]uint32, n)
			for j := range col {
				v, err := u32()
				if err != nil {
					return nil, err
				}
				col[j] = v
			}
			vec.Col = col
		case types.T_uint64:
			col := make([]uint64, n)
			for j := range col {
				v, err := u64()
				if err != nil {
					return nil, err
				}
				col[j] = v
			}
			vec.Col = col
		case types.T_float32:
			col := make([]float32, n)
			for j := range col {
				v, err := u32()
				if err != nil {
					return nil, err
				}
				col[j] = math.Float32frombits(v)
			}
			vec.Col = col
		case types.T_int64:
			col := make([]int64, n)
			for j := range col {
				v, err := u64()
				if err != nil {
					return nil, err
				}
				col[j] = int64(v)
			}
			vec.Col = col
		case types.T_float64:
			col := make([]float64, n)
			for j := range col {
				v, err := u64()
				if err != nil {
					return nil, err
				}
				col[j] = math.Float64frombits(v)
			}
			vec.Col = col
		case types.T_datetime:
			col := make([]types.Datetime, n)
			for j := range col {
				v, err := u64()
				if err != nil {
					return nil, err
				}
				col[j] = types.Datetime(v)
			}
			vec.Col = col
		case types.T_varchar:
			col := make([]string, n)
			for j := range col {
				l, err := binary.ReadUvarint(rd)
				if err != nil {
					return nil, moerr.NewSpillIO(err)
				}
				s := make([]byte, l)
				if _, err := io.ReadFull(rd, s); err != nil {
					return nil, moerr.NewSpillIO(err)
				}
				col[j] = string(s)
			}
			vec.Col = col
		default:
			return nil, moerr.NewInternalErrorf("spill block holds a column of type %s", types.T(oid))
		}

		bat.Attrs[i] = string(name)
		bat.Vecs[i] = vec
	}
	bat.SetRowCount(rowCount)
	return bat, nil
}
