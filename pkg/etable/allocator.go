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

// CellAllocator hands out disjoint cells within a step for a single opcode
// plugin.  It borrows the columns of the shared configuration and owns only
// the cursor for each kind of cell.  Cursors are monotonic, and an allocation
// which would pass the ceiling for its kind fails without advancing the cursor.
// An allocator is not safe for concurrent use.
type CellAllocator struct {
	common *CommonConfig
	// Next available rotation in the bit column.
	bit uint
	// Next available rotation in the common range column.
	commonRange uint
	// Next available rotation in the shared (unlimited) zone of the aux column.
	unlimited uint
	// Next available nibble column.
	u64 uint
	// Next available rotation in the mtable lookup zone of the aux column.
	mtableLookup uint
}

// Usage records how many cells of each kind an allocator has handed out.
type Usage struct {
	Bits         uint
	CommonRange  uint
	Unlimited    uint
	U64          uint
	MTableLookup uint
}

// NewCellAllocator constructs a fresh allocator over a given set of shared
// columns, with every cursor positioned at the start of its zone.
func NewCellAllocator(common *CommonConfig) *CellAllocator {
	layout := common.Layout
	//
	return &CellAllocator{
		common:       common,
		bit:          layout.BitStart,
		commonRange:  layout.CommonRangeStart,
		unlimited:    layout.SharedStart,
		u64:          0,
		mtableLookup: layout.MTableLookupStart,
	}
}

// Common returns the shared columns over which this allocator operates.
func (p *CellAllocator) Common() *CommonConfig {
	return p.common
}

// AllocBitValue allocates a cell holding a boolean value.
func (p *CellAllocator) AllocBitValue() (BitCell, error) {
	if p.bit >= p.common.Layout.StepSize {
		return BitCell{}, &CapacityError{BIT_CELL, p.common.Layout.StepSize}
	}
	//
	cell := BitCell{p.common.SharedBits, int(p.bit)}
	p.bit++
	//
	return cell, nil
}

// AllocCommonRangeValue allocates a cell whose value is range checked against
// the common range table.
func (p *CellAllocator) AllocCommonRangeValue() (CommonRangeCell, error) {
	if p.commonRange >= p.common.Layout.StepSize {
		return CommonRangeCell{}, &CapacityError{COMMON_RANGE_CELL, p.common.Layout.StepSize}
	}
	//
	cell := CommonRangeCell{p.common.AuxInCommon, int(p.commonRange)}
	p.commonRange++
	//
	return cell, nil
}

// AllocUnlimitedValue allocates a cell with no builtin range constraint.
func (p *CellAllocator) AllocUnlimitedValue() (Cell, error) {
	if p.unlimited >= p.common.Layout.StepSize {
		return Cell{}, &CapacityError{UNLIMITED_CELL, p.common.Layout.StepSize}
	}
	//
	cell := Cell{p.common.Aux, int(p.unlimited)}
	p.unlimited++
	//
	return cell, nil
}

// AllocU64 allocates a 64bit value, along with the nibble column holding its
// decomposition.  The value rotation and the nibble column are both derived
// from the same cursor.
func (p *CellAllocator) AllocU64() (U64Cell, error) {
	if p.u64 >= p.common.Layout.U4Columns {
		return U64Cell{}, &CapacityError{U64_CELL, p.common.Layout.U4Columns}
	}
	//
	cell := U64Cell{
		ValueCol: p.common.Aux,
		ValueRot: int(p.common.Layout.U64Start + p.u64),
		U4Col:    p.common.U4Shared[p.u64],
	}
	p.u64++
	//
	return cell, nil
}

// AllocMTableLookup allocates a cell whose value is looked up in the memory
// table.  The lookup zone ends where the u64 zone begins.
func (p *CellAllocator) AllocMTableLookup() (MTableLookupCell, error) {
	if p.mtableLookup >= p.common.Layout.U64Start {
		return MTableLookupCell{}, &CapacityError{MTABLE_LOOKUP_CELL, p.common.Layout.U64Start}
	}
	//
	cell := MTableLookupCell{p.common.Aux, int(p.mtableLookup)}
	p.mtableLookup++
	//
	return cell, nil
}

// Usage returns the number of cells of each kind allocated so far.
func (p *CellAllocator) Usage() Usage {
	layout := p.common.Layout
	//
	return Usage{
		Bits:         p.bit - layout.BitStart,
		CommonRange:  p.commonRange - layout.CommonRangeStart,
		Unlimited:    p.unlimited - layout.SharedStart,
		U64:          p.u64,
		MTableLookup: p.mtableLookup - layout.MTableLookupStart,
	}
}
