// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package json

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/consensys/go-etable/pkg/etable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const returnTrace = `[
  {"eid": 14, "sp": 98, "last_jump_eid": 5, "fid": 2, "iid": 4, "class": "return", "vtype": "i64",
   "value": 4294967296, "drop": 1, "keep": 1,
   "frame": {"eid": 5, "last_jump_eid": 1, "moid": 0, "fid": 1, "iid": 7}},
  {"eid": 15, "sp": 99, "last_jump_eid": 1, "fid": 1, "iid": 7, "class": "drop"}
]`

func Test_FromBytes(t *testing.T) {
	entries, err := FromBytes([]byte(returnTrace))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	//
	ret := entries[0]
	assert.Equal(t, etable.CLASS_RETURN, ret.Class())
	assert.Equal(t, etable.Opcode{Class: etable.CLASS_RETURN, VType: etable.VAR_I64, Drop: 1, Keep: 1}, ret.Inst.Opcode)
	assert.Equal(t, etable.ReturnStep{
		Drop: 1, Keep: 1, VType: etable.VAR_I64, KeepValue: 1 << 32,
		Frame: etable.JumpTableEntry{Eid: 5, LastJumpEid: 1, Moid: 0, Fid: 1, Iid: 7},
	}, ret.Step)
	//
	assert.Equal(t, etable.DropStep{}, entries[1].Step)
	assert.Equal(t, uint64(7), entries[1].Inst.Iid)
}

func Test_RoundTrip(t *testing.T) {
	entries, err := FromBytes([]byte(returnTrace))
	require.NoError(t, err)
	//
	bytes, err := ToBytes(entries)
	require.NoError(t, err)
	//
	again, err := FromBytes(bytes)
	require.NoError(t, err)
	assert.Equal(t, entries, again)
	// Single line form
	line, err := ToJsonString(entries)
	require.NoError(t, err)
	assert.NotContains(t, line, "\n")
	//
	again, err = FromBytes([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, entries, again)
}

func Test_FromBytes_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown class":     `[{"class": "unreachable"}]`,
		"unsupported class": `[{"class": "call"}]`,
		"unknown vtype":     `[{"class": "const", "vtype": "f64"}]`,
		"missing frame":     `[{"class": "return"}]`,
		"malformed":         `[{"class": "const"`,
	}
	//
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromBytes([]byte(input))
			assert.Error(t, err)
		})
	}
}

func Test_ReadFile(t *testing.T) {
	var (
		dir      = t.TempDir()
		filename = filepath.Join(dir, "trace.json")
	)
	//
	require.NoError(t, os.WriteFile(filename, []byte(returnTrace), 0o600))
	//
	entries, err := ReadFile(filename)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	//
	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read trace file")
}
