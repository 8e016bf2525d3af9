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
package util

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParFor_Visits_Every_Index(t *testing.T) {
	for _, limit := range []uint{0, 1, 4, 64} {
		var (
			seen  = make([]int32, 100)
			count atomic.Int32
		)
		//
		err := ParFor(uint(len(seen)), limit, func(i uint) error {
			atomic.AddInt32(&seen[i], 1)
			count.Add(1)
			//
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, int32(len(seen)), count.Load())
		//
		for i, s := range seen {
			assert.Equal(t, int32(1), s, "index %d (limit %d)", i, limit)
		}
	}
}

func Test_ParFor_Reports_Error(t *testing.T) {
	boom := errors.New("boom")
	//
	for _, limit := range []uint{1, 8} {
		err := ParFor(50, limit, func(i uint) error {
			if i == 17 {
				return boom
			}
			//
			return nil
		})
		assert.ErrorIs(t, err, boom)
	}
}
