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
	"fmt"
)

// NIBBLES_PER_U64 is the number of 4bit limbs into which a 64bit value is
// decomposed.  Each u64 cell owns one nibble column, whose limbs occupy the
// first NIBBLES_PER_U64 rows of the step.
const NIBBLES_PER_U64 = 16

// Rotations of the header cells in the bit column.  These are reserved in
// every step, and allocation of bit cells begins after them.
const (
	// BIT_ENABLE holds 1 on every step which executes an instruction, and 0 on
	// padding steps.
	BIT_ENABLE uint = iota
	// BIT_HEADER_SIZE is the number of reserved bit rotations.
	BIT_HEADER_SIZE
)

// Rotations of the header cells in the common range column.
const (
	// COMMON_RANGE_REST_MOPS holds the number of memory operations remaining,
	// including those of the current step.
	COMMON_RANGE_REST_MOPS uint = iota
	// COMMON_RANGE_SP holds the stack pointer.
	COMMON_RANGE_SP
	// COMMON_RANGE_MOID holds the module identifier of the instruction.
	COMMON_RANGE_MOID
	// COMMON_RANGE_FID holds the function identifier of the instruction.
	COMMON_RANGE_FID
	// COMMON_RANGE_IID holds the instruction identifier (within its function).
	COMMON_RANGE_IID
	// COMMON_RANGE_MMID holds the memory instance identifier of the module.
	COMMON_RANGE_MMID
	// COMMON_RANGE_LAST_JUMP_EID holds the event identifier of the most recent
	// call which has not yet returned.
	COMMON_RANGE_LAST_JUMP_EID
	// COMMON_RANGE_EID holds the event identifier of the step.
	COMMON_RANGE_EID
	// COMMON_RANGE_HEADER_SIZE is the number of reserved common range
	// rotations.
	COMMON_RANGE_HEADER_SIZE
)

// Rotations of the header cells in the unlimited (aux) column.
const (
	// AUX_ITABLE_LOOKUP holds the encoded instruction looked up in the
	// instruction table.
	AUX_ITABLE_LOOKUP uint = iota
	// AUX_JTABLE_LOOKUP holds the encoded frame looked up in the jump table.
	AUX_JTABLE_LOOKUP
	// AUX_HEADER_SIZE is the number of reserved aux rotations.
	AUX_HEADER_SIZE
)

// ErrInvalidLayout signals a layout whose zones are malformed.
var ErrInvalidLayout = errors.New("invalid step layout")

// Layout describes how a step region is partitioned.  All capacity ceilings of
// the cell allocator are derived from here.  The aux column of a step is laid
// out as follows:
//
//	[0 .. MTableLookupStart)          header (lookup cells)
//	[MTableLookupStart .. U64Start)   memory table lookup cells
//	[U64Start .. U64Start+U4Columns)  u64 values
//	[SharedStart .. StepSize)         unlimited cells
type Layout struct {
	// Number of rows in a single step.
	StepSize uint
	// First rotation of the bit column available for allocation.
	BitStart uint
	// First rotation of the common range column available for allocation.
	CommonRangeStart uint
	// Bitwidth of the shared range table for common range cells.
	CommonRangeBits uint
	// First rotation of the memory table lookup zone.
	MTableLookupStart uint
	// First rotation of the u64 value zone.  This is also the end of the
	// memory table lookup zone.
	U64Start uint
	// Number of nibble columns, and hence the number of u64 cells available.
	U4Columns uint
	// First rotation of the unlimited zone.
	SharedStart uint
}

// DefaultLayout returns the layout used by default for an event table.
func DefaultLayout() Layout {
	return Layout{
		StepSize:          16,
		BitStart:          BIT_HEADER_SIZE,
		CommonRangeStart:  COMMON_RANGE_HEADER_SIZE,
		CommonRangeBits:   16,
		MTableLookupStart: AUX_HEADER_SIZE,
		U64Start:          6,
		U4Columns:         4,
		SharedStart:       10,
	}
}

// MTableLookupSlots returns the number of memory table lookups which a single
// step can make.
func (p Layout) MTableLookupSlots() uint {
	return p.U64Start - p.MTableLookupStart
}

// Validate checks that the zones of this layout are ordered, disjoint and fit
// within a step.
func (p Layout) Validate() error {
	switch {
	case p.StepSize < NIBBLES_PER_U64:
		return p.invalid("step size %d cannot hold %d nibbles", p.StepSize, NIBBLES_PER_U64)
	case p.BitStart < BIT_HEADER_SIZE || p.BitStart > p.StepSize:
		return p.invalid("bit zone start %d outside [%d..%d]", p.BitStart, BIT_HEADER_SIZE, p.StepSize)
	case p.CommonRangeStart < COMMON_RANGE_HEADER_SIZE || p.CommonRangeStart > p.StepSize:
		return p.invalid("common range zone start %d outside [%d..%d]", p.CommonRangeStart,
			COMMON_RANGE_HEADER_SIZE, p.StepSize)
	case p.CommonRangeBits == 0 || p.CommonRangeBits > 16:
		return p.invalid("common range bitwidth %d outside [1..16]", p.CommonRangeBits)
	case p.MTableLookupStart < AUX_HEADER_SIZE:
		return p.invalid("mtable lookup zone start %d overlaps header", p.MTableLookupStart)
	case p.U64Start < p.MTableLookupStart:
		return p.invalid("u64 zone start %d before mtable lookup zone start %d", p.U64Start, p.MTableLookupStart)
	case p.U64Start+p.U4Columns > p.SharedStart:
		return p.invalid("u64 zone [%d..%d) overlaps shared zone start %d", p.U64Start, p.U64Start+p.U4Columns,
			p.SharedStart)
	case p.SharedStart > p.StepSize:
		return p.invalid("shared zone start %d beyond step size %d", p.SharedStart, p.StepSize)
	}
	//
	return nil
}

func (p Layout) invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidLayout, fmt.Sprintf(format, args...))
}

func (p Layout) String() string {
	return fmt.Sprintf("step=%d bits=[%d..%d) common=[%d..%d):u%d mtable=[%d..%d) u64=[%d..%d) shared=[%d..%d)",
		p.StepSize, p.BitStart, p.StepSize, p.CommonRangeStart, p.StepSize, p.CommonRangeBits,
		p.MTableLookupStart, p.U64Start, p.U64Start, p.U64Start+p.U4Columns, p.SharedStart, p.StepSize)
}
