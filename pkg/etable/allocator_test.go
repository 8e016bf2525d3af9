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
package etable

import (
	"errors"
	"testing"

	"github.com/consensys/go-etable/pkg/circuit"
	"github.com/consensys/go-etable/pkg/util/field/bn254"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = bn254.Element

func newCommon(t *testing.T, layout Layout) *CommonConfig {
	cs := circuit.NewConstraintSystem[F]()
	common, err := NewCommonConfig(cs, layout)
	require.NoError(t, err)
	//
	return common
}

// allocRotations allocates n cells using a given allocation function, and
// returns their rotations.
func allocRotations(t *testing.T, n uint, alloc func() (AnyCell, error)) []int {
	var rotations []int
	//
	for i := uint(0); i < n; i++ {
		cell, err := alloc()
		require.NoError(t, err, "allocation %d", i)
		//
		_, rot := cell.Loc()
		rotations = append(rotations, rot)
	}
	//
	return rotations
}

func requireCapacityError(t *testing.T, err error, kind CellKind, ceiling uint) {
	var cerr *CapacityError
	//
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, kind, cerr.Kind)
	assert.Equal(t, ceiling, cerr.Ceiling)
}

func Test_Allocator_Bits(t *testing.T) {
	var (
		layout = DefaultLayout()
		common = newCommon(t, layout)
		alloc  = NewCellAllocator(common)
		k      = layout.StepSize - layout.BitStart
	)
	//
	rotations := allocRotations(t, k, func() (AnyCell, error) { return alloc.AllocBitValue() })
	checkStrictlyIncreasing(t, rotations, int(layout.BitStart))
	//
	_, err := alloc.AllocBitValue()
	requireCapacityError(t, err, BIT_CELL, layout.StepSize)
	// Failure does not advance the cursor
	assert.Equal(t, k, alloc.Usage().Bits)
}

func Test_Allocator_CommonRange(t *testing.T) {
	layout := DefaultLayout()
	// Leave room for exactly four cells
	layout.CommonRangeStart = layout.StepSize - 4
	//
	alloc := NewCellAllocator(newCommon(t, layout))
	rotations := allocRotations(t, 4, func() (AnyCell, error) { return alloc.AllocCommonRangeValue() })
	assert.Equal(t, []int{12, 13, 14, 15}, rotations)
	//
	_, err := alloc.AllocCommonRangeValue()
	requireCapacityError(t, err, COMMON_RANGE_CELL, layout.StepSize)
	assert.Equal(t, uint(4), alloc.Usage().CommonRange)
}

func Test_Allocator_Unlimited(t *testing.T) {
	var (
		layout = DefaultLayout()
		common = newCommon(t, layout)
		alloc  = NewCellAllocator(common)
		k      = layout.StepSize - layout.SharedStart
	)
	//
	rotations := allocRotations(t, k, func() (AnyCell, error) { return alloc.AllocUnlimitedValue() })
	checkStrictlyIncreasing(t, rotations, int(layout.SharedStart))
	//
	_, err := alloc.AllocUnlimitedValue()
	requireCapacityError(t, err, UNLIMITED_CELL, layout.StepSize)
}

func Test_Allocator_U64(t *testing.T) {
	var (
		layout  = DefaultLayout()
		common  = newCommon(t, layout)
		alloc   = NewCellAllocator(common)
		columns = make(map[circuit.Column]bool)
	)
	//
	for i := uint(0); i < layout.U4Columns; i++ {
		cell, err := alloc.AllocU64()
		require.NoError(t, err)
		// Value and nibble column derive from the same cursor
		assert.Equal(t, int(layout.U64Start+i), cell.ValueRot)
		assert.Equal(t, common.Aux, cell.ValueCol)
		assert.Equal(t, common.U4Shared[i], cell.U4Col)
		assert.False(t, columns[cell.U4Col], "nibble column reused")
		//
		columns[cell.U4Col] = true
	}
	//
	_, err := alloc.AllocU64()
	requireCapacityError(t, err, U64_CELL, layout.U4Columns)
	assert.Equal(t, layout.U4Columns, alloc.Usage().U64)
}

func Test_Allocator_MTableLookup(t *testing.T) {
	var (
		layout = DefaultLayout()
		alloc  = NewCellAllocator(newCommon(t, layout))
	)
	//
	rotations := allocRotations(t, layout.MTableLookupSlots(), func() (AnyCell, error) {
		return alloc.AllocMTableLookup()
	})
	assert.Equal(t, []int{2, 3, 4, 5}, rotations)
	//
	_, err := alloc.AllocMTableLookup()
	requireCapacityError(t, err, MTABLE_LOOKUP_CELL, layout.U64Start)
}

func Test_Allocator_Disjoint_Zones(t *testing.T) {
	layouts := []Layout{DefaultLayout(), {
		StepSize:          32,
		BitStart:          1,
		CommonRangeStart:  8,
		CommonRangeBits:   8,
		MTableLookupStart: 4,
		U64Start:          9,
		U4Columns:         6,
		SharedStart:       20,
	}}
	//
	for _, layout := range layouts {
		var (
			alloc = NewCellAllocator(newCommon(t, layout))
			used  = make(map[int]bool)
		)
		// Fill every zone of the aux column
		for i := uint(0); i < layout.MTableLookupSlots(); i++ {
			cell, err := alloc.AllocMTableLookup()
			require.NoError(t, err)
			assert.Less(t, cell.Rot, int(layout.U64Start))
			assert.GreaterOrEqual(t, cell.Rot, int(AUX_HEADER_SIZE))
			used[cell.Rot] = true
		}
		//
		for i := uint(0); i < layout.U4Columns; i++ {
			cell, err := alloc.AllocU64()
			require.NoError(t, err)
			assert.False(t, used[cell.ValueRot], "rotation %d reused", cell.ValueRot)
			used[cell.ValueRot] = true
		}
		//
		for i := layout.SharedStart; i < layout.StepSize; i++ {
			cell, err := alloc.AllocUnlimitedValue()
			require.NoError(t, err)
			assert.False(t, used[cell.Rot], "rotation %d reused", cell.Rot)
			used[cell.Rot] = true
		}
		// Every zone is now exhausted
		_, err := alloc.AllocMTableLookup()
		assert.ErrorIs(t, err, ErrCapacityExceeded)
		_, err = alloc.AllocU64()
		assert.ErrorIs(t, err, ErrCapacityExceeded)
		_, err = alloc.AllocUnlimitedValue()
		assert.ErrorIs(t, err, ErrCapacityExceeded)
	}
}

func Test_Allocator_Deterministic(t *testing.T) {
	var (
		common = newCommon(t, DefaultLayout())
		first  = NewCellAllocator(common)
		second = NewCellAllocator(common)
	)
	//
	for i := 0; i < 3; i++ {
		b1, err1 := first.AllocBitValue()
		b2, err2 := second.AllocBitValue()
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, b1, b2)
	}
}

func Test_CellKind_String(t *testing.T) {
	assert.Equal(t, "bit", BIT_CELL.String())
	assert.Equal(t, "u64", U64_CELL.String())
	assert.Equal(t, "mtable_lookup", MTABLE_LOOKUP_CELL.String())
	assert.Contains(t, (&CapacityError{U64_CELL, 4}).Error(), "no u64 cell available below 4")
}

func checkStrictlyIncreasing(t *testing.T, rotations []int, start int) {
	for i, rot := range rotations {
		assert.Equal(t, start+i, rot)
	}
}
