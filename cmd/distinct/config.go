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

package main

import (
	"github.com/BurntSushi/toml"

	"github.com/tablekit/tablekit/pkg/common/moerr"
	"github.com/tablekit/tablekit/pkg/container/types"
	"github.com/tablekit/tablekit/pkg/logutil"
)

// Config describes one distinct job.
type Config struct {
	// Input is the CSV file to read.
	Input string `toml:"input"`
	// Output is the CSV file to write; "-" or empty means stdout.
	Output string `toml:"output"`
	// Header skips the first input row when set.
	Header bool `toml:"header"`
	// NAString marks a cell as missing, e.g. "NA" or "". Matching is
	// exact and only enabled when the field is present in the config.
	NAString *string `toml:"na-string"`

	// Keys are the key column names; empty means every column.
	Keys []string `toml:"keys"`
	// GroupBy columns are implicitly added to the keys.
	GroupBy []string `toml:"group-by"`
	// KeepAll retains all columns instead of only the keys.
	KeepAll bool `toml:"keep-all"`

	Columns []ColumnConfig   `toml:"columns"`
	Log     logutil.LogConfig `toml:"log"`
}

type ColumnConfig struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

func (c ColumnConfig) Oid() (types.T, error) {
	switch c.Type {
	case "bool":
		return types.T_bool, nil
	case "int8":
		return types.T_int8, nil
	case "int16":
		return types.T_int16, nil
	case "int32":
		return types.T_int32, nil
	case "int64", "int":
		return types.T_int64, nil
	case "uint8":
		return types.T_uint8, nil
	case "uint16":
		return types.T_uint16, nil
	case "uint32":
		return types.T_uint32, nil
	case "uint64", "uint":
		return types.T_uint64, nil
	case "float32":
		return types.T_float32, nil
	case "float64", "float":
		return types.T_float64, nil
	case "datetime":
		return types.T_datetime, nil
	case "varchar", "string":
		return types.T_varchar, nil
	}
	return types.T_any, moerr.NewInvalidInputf("unknown column type %q for column %q", c.Type, c.Name)
}

func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, moerr.NewInvalidInputf("cannot parse config %s: %v", path, err)
	}
	if cfg.Input == "" {
		return nil, moerr.NewInvalidInput("config is missing the input file")
	}
	if len(cfg.Columns) == 0 {
		return nil, moerr.NewInvalidInput("config declares no columns")
	}
	return &cfg, nil
}
