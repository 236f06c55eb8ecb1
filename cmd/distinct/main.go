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

// Command distinct reads a CSV file, keeps the first row of every
// distinct key combination and writes the result back as CSV. The job
// is described by a TOML config, see LoadConfig.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/matrixorigin/simdcsv"

	"github.com/tablekit/tablekit/pkg/container/batch"
	"github.com/tablekit/tablekit/pkg/container/types"
	"github.com/tablekit/tablekit/pkg/container/vector"
	"github.com/tablekit/tablekit/pkg/frame"
	"github.com/tablekit/tablekit/pkg/logutil"
	"github.com/tablekit/tablekit/pkg/sql/colexec/extend"
)

// batchReadRows is the unit handed to the csv reader per call.
const batchReadRows = 4000

func main() {
	configPath := flag.String("config", "distinct.toml", "path of the job config")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logutil.Setup(cfg.Log)

	if err := run(cfg); err != nil {
		logutil.Errorf("distinct job failed: %v", err)
		os.Exit(1)
	}
}

func run(cfg *Config) error {
	start := time.Now()
	bat, err := loadCSV(cfg)
	if err != nil {
		return err
	}
	logutil.Infof("loaded %d rows x %d columns from %s", bat.RowCount(), bat.VectorCount(), cfg.Input)

	f := frame.New(bat)
	if len(cfg.GroupBy) > 0 {
		if f, err = f.GroupBy(cfg.GroupBy...); err != nil {
			return err
		}
	}

	keys := make([]extend.NamedExtend, len(cfg.Keys))
	for i, name := range cfg.Keys {
		keys[i] = extend.NamedExtend{E: &extend.Attribute{Name: name}}
	}
	out, err := f.Distinct(keys, cfg.KeepAll)
	if err != nil {
		return err
	}
	logutil.Infof("kept %d of %d rows in %v", out.RowCount(), bat.RowCount(), time.Since(start))

	return writeCSV(cfg, out.Batch())
}

func loadCSV(cfg *Config) (*batch.Batch, error) {
	in, err := os.Open(cfg.Input)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	attrs := make([]string, len(cfg.Columns))
	for i, col := range cfg.Columns {
		attrs[i] = col.Name
	}
	bat := batch.New(attrs)
	for i, col := range cfg.Columns {
		oid, err := col.Oid()
		if err != nil {
			return nil, err
		}
		bat.Vecs[i] = vector.New(oid.ToType())
	}

	reader := simdcsv.NewReaderWithOptions(in, ',', '#', true, true)
	records := make([][]string, batchReadRows)
	ctx := context.Background()
	rows, first := 0, true
	for {
		var cnt int
		records, cnt, err = reader.Read(batchReadRows, ctx, records)
		if err != nil {
			return nil, err
		}
		for _, record := range records[:cnt] {
			if first && cfg.Header {
				first = false
				continue
			}
			first = false
			if err := appendRecord(cfg, bat, record); err != nil {
				return nil, err
			}
			rows++
		}
		if cnt < batchReadRows {
			break
		}
	}
	bat.SetRowCount(rows)
	return bat, nil
}

func appendRecord(cfg *Config, bat *batch.Batch, record []string) error {
	if len(record) != len(bat.Vecs) {
		return fmt.Errorf("row has %d fields, config declares %d columns", len(record), len(bat.Vecs))
	}
	for i, cell := range record {
		if cfg.NAString != nil && cell == *cfg.NAString {
			if err := bat.Vecs[i].AppendNull(); err != nil {
				return err
			}
			continue
		}
		val, err := parseCell(bat.Vecs[i].Typ.Oid, cell)
		if err != nil {
			return fmt.Errorf("column %q: %w", bat.Attrs[i], err)
		}
		if err := bat.Vecs[i].Append(val); err != nil {
			return err
		}
	}
	return nil
}

func parseCell(oid types.T, cell string) (any, error) {
	switch oid {
	case types.T_bool:
		return strconv.ParseBool(cell)
	case types.T_int8:
		v, err := strconv.ParseInt(cell, 10, 8)
		return int8(v), err
	case types.T_int16:
		v, err := strconv.ParseInt(cell, 10, 16)
		return int16(v), err
	case types.T_int32:
		v, err := strconv.ParseInt(cell, 10, 32)
		return int32(v), err
	case types.T_int64:
		return strconv.ParseInt(cell, 10, 64)
	case types.T_uint8:
		v, err := strconv.ParseUint(cell, 10, 8)
		return uint8(v), err
	case types.T_uint16:
		v, err := strconv.ParseUint(cell, 10, 16)
		return uint16(v), err
	case types.T_uint32:
		v, err := strconv.ParseUint(cell, 10, 32)
		return uint32(v), err
	case types.T_uint64:
		return strconv.ParseUint(cell, 10, 64)
	case types.T_float32:
		v, err := strconv.ParseFloat(cell, 32)
		return float32(v), err
	case types.T_float64:
		return strconv.ParseFloat(cell, 64)
	case types.T_datetime:
		t, err := time.Parse(time.RFC3339, cell)
		if err != nil {
			return nil, err
		}
		return types.Datetime(t.UnixMicro()), nil
	case types.T_varchar:
		return cell, nil
	}
	return nil, fmt.Errorf("cannot parse cell of type %s", oid)
}

func writeCSV(cfg *Config, bat *batch.Batch) error {
	out := os.Stdout
	if cfg.Output != "" && cfg.Output != "-" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if cfg.Header {
		if err := w.Write(bat.Attrs); err != nil {
			return err
		}
	}
	record := make([]string, len(bat.Vecs))
	for row := 0; row < bat.RowCount(); row++ {
		for i, vec := range bat.Vecs {
			record[i] = formatCell(vec, row, cfg.NAString)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatCell(vec *vector.Vector, row int, naString *string) string {
	val := vec.Get(row)
	if val == nil {
		if naString != nil {
			return *naString
		}
		return ""
	}
	if dt, ok := val.(types.Datetime); ok {
		return time.UnixMicro(int64(dt)).UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("%v", val)
}
