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
	"bytes"
	"strings"
	"testing"

	"github.com/consensys/go-etable/pkg/etable"
	"github.com/consensys/go-etable/pkg/util/field/bn254"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PrintLayout(t *testing.T) {
	var out bytes.Buffer
	//
	require.NoError(t, printLayout[bn254.Element](&out, etable.DefaultLayout(), DEFAULT_WIDTH))
	//
	text := out.String()
	assert.Contains(t, text, "available | 15  | 8            | 6         | 4   | 4")
	assert.Contains(t, text, "return")
	assert.Contains(t, text, "local_get")
	// Plugins are listed in class order
	assert.Less(t, strings.Index(text, "local_get"), strings.Index(text, "return"))
}

func Test_PrintTable_Truncates(t *testing.T) {
	var out bytes.Buffer
	//
	printTable(&out, []string{"name", "value"}, [][]string{{"abcdefghij", "1"}}, 8)
	//
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		assert.LessOrEqual(t, len(line), 8)
	}
}
