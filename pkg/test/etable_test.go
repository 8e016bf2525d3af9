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
package test

import (
	"strings"
	"testing"

	"github.com/consensys/go-etable/pkg/test/util"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/stretchr/testify/assert"
)

func Test_Etable_CallReturn(t *testing.T) {
	util.Check(t, "etable/call_return", field.BN254, field.BLS12_377)
}

func Test_Etable_Stack(t *testing.T) {
	util.Check(t, "etable/stack", field.BN254, field.BLS12_377)
}

func Test_Etable_Generated_Traces(t *testing.T) {
	for _, test := range []string{"etable/stack", "etable/call_return"} {
		var generated [2]int
		//
		for _, kind := range util.TRACE_FILES {
			filename := util.TraceFilename(test, kind)
			// Only generated files are named *.auto.*
			if !strings.Contains(filename, ".auto.") {
				continue
			} else if kind.Expected() {
				generated[0] += len(util.ReadTracesFile(t, filename))
			} else {
				generated[1] += len(util.ReadTracesFile(t, filename))
			}
		}
		//
		assert.NotZero(t, generated[0], "%s: no generated accepts", test)
		assert.NotZero(t, generated[1], "%s: no generated rejects", test)
	}
}
