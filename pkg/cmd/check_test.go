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
package cmd

import (
	"runtime"
	"testing"

	"github.com/consensys/go-etable/pkg/etable"
	"github.com/consensys/go-etable/pkg/trace/json"
	"github.com/consensys/go-etable/pkg/util/field/bn254"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stackTrace = `[{"eid":1,"sp":10,"class":"const","vtype":"i32","value":1},
	{"eid":2,"sp":9,"iid":1,"class":"local_get","vtype":"i32","depth":1,"value":1},
	{"eid":3,"sp":8,"iid":2,"class":"drop"}]`

func Test_Check_Parallelism_Default(t *testing.T) {
	flag := checkCmd.Flags().Lookup("parallelism")
	require.NotNil(t, flag)
	assert.Equal(t, uint(runtime.NumCPU()), GetUint(checkCmd, "parallelism"))
	assert.Contains(t, flag.Usage, "0 or 1 for sequential")
}

func Test_Check_Trace_Any_Parallelism(t *testing.T) {
	entries, err := json.FromBytes([]byte(stackTrace))
	require.NoError(t, err)
	// Sequential and concurrent assignment agree
	for _, parallelism := range []uint{0, 1, 4} {
		cfg := checkConfig{padding: 1, parallelism: parallelism}
		assert.True(t, checkTrace[bn254.Element](entries, etable.DefaultLayout(), cfg), "parallelism %d", parallelism)
		// Corrupt the stack pointer of the final step
		bad := append([]etable.EventTableEntry{}, entries...)
		bad[2].Sp++
		assert.False(t, checkTrace[bn254.Element](bad, etable.DefaultLayout(), cfg), "parallelism %d", parallelism)
	}
}
