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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeSize(t *testing.T) {
	require.Equal(t, 1, T_bool.ToType().TypeSize())
	require.Equal(t, 1, T_int8.ToType().TypeSize())
	require.Equal(t, 1, T_uint8.ToType().TypeSize())
	require.Equal(t, 2, T_int16.ToType().TypeSize())
	require.Equal(t, 2, T_uint16.ToType().TypeSize())
	require.Equal(t, 4, T_int32.ToType().TypeSize())
	require.Equal(t, 4, T_uint32.ToType().TypeSize())
	require.Equal(t, 4, T_float32.ToType().TypeSize())
	require.Equal(t, 8, T_int64.ToType().TypeSize())
	require.Equal(t, 8, T_uint64.ToType().TypeSize())
	require.Equal(t, 8, T_float64.ToType().TypeSize())
	require.Equal(t, 8, T_datetime.ToType().TypeSize())
	require.Equal(t, -1, T_varchar.ToType().TypeSize())
	require.Equal(t, -1, T_list.ToType().TypeSize())
}

func TestIsContainer(t *testing.T) {
	require.True(t, T_list.ToType().IsContainer())
	require.False(t, T_varchar.ToType().IsContainer())
	require.False(t, T_int64.ToType().IsContainer())
}

func TestTypeString(t *testing.T) {
	require.Equal(t, "VARCHAR", T_varchar.String())
	require.Equal(t, "LIST", New(T_list).String())
	require.Equal(t, "INT16", T_int16.String())
	require.Equal(t, "UINT64", T_uint64.String())
	require.Equal(t, "FLOAT32", T_float32.String())
}
