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
	"fmt"

	"github.com/consensys/go-etable/pkg/circuit"
	"github.com/consensys/go-etable/pkg/util/field"
)

// CommonConfig holds the columns shared by every opcode plugin of an event
// table, along with the layout describing how each step is partitioned.
type CommonConfig struct {
	// Layout of a single step.
	Layout Layout
	// Fixed column which holds 1 on the first row of every step.
	StepSel circuit.Column
	// Column holding bit cells (including the enable header).
	SharedBits circuit.Column
	// Column holding the one-hot opcode selector.  Rotation i of a step holds
	// the selector for the ith registered opcode class.
	OpcodeBits circuit.Column
	// Column holding common range cells (including the common header).
	AuxInCommon circuit.Column
	// Column holding lookup cells, u64 values and unlimited cells.
	Aux circuit.Column
	// Nibble columns, one per u64 cell.
	U4Shared []circuit.Column
}

// NewCommonConfig declares the shared columns of an event table with a given
// layout.  The layout is validated first.
func NewCommonConfig[F field.Element[F]](cs *circuit.ConstraintSystem[F], layout Layout) (*CommonConfig, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	//
	config := &CommonConfig{
		Layout:      layout,
		StepSel:     cs.FixedColumn("etable.step_sel"),
		SharedBits:  cs.AdviceColumn("etable.shared_bits"),
		OpcodeBits:  cs.AdviceColumn("etable.opcode_bits"),
		AuxInCommon: cs.AdviceColumn("etable.aux_in_common"),
		Aux:         cs.AdviceColumn("etable.aux"),
		U4Shared:    make([]circuit.Column, layout.U4Columns),
	}
	//
	for i := range config.U4Shared {
		config.U4Shared[i] = cs.AdviceColumn(fmt.Sprintf("etable.u4_shared_%d", i))
	}
	// Done
	return config, nil
}

// Enable returns the header cell indicating whether a step is active.
func (p *CommonConfig) Enable() BitCell {
	return BitCell{p.SharedBits, int(BIT_ENABLE)}
}

// RestMops returns the header cell holding the remaining memory operations.
func (p *CommonConfig) RestMops() CommonRangeCell {
	return p.common(COMMON_RANGE_REST_MOPS)
}

// Sp returns the header cell holding the stack pointer.
func (p *CommonConfig) Sp() CommonRangeCell {
	return p.common(COMMON_RANGE_SP)
}

// Moid returns the header cell holding the module identifier.
func (p *CommonConfig) Moid() CommonRangeCell {
	return p.common(COMMON_RANGE_MOID)
}

// Fid returns the header cell holding the function identifier.
func (p *CommonConfig) Fid() CommonRangeCell {
	return p.common(COMMON_RANGE_FID)
}

// Iid returns the header cell holding the instruction identifier.
func (p *CommonConfig) Iid() CommonRangeCell {
	return p.common(COMMON_RANGE_IID)
}

// Mmid returns the header cell holding the memory instance identifier.
func (p *CommonConfig) Mmid() CommonRangeCell {
	return p.common(COMMON_RANGE_MMID)
}

// LastJumpEid returns the header cell holding the eid of the innermost active
// call.
func (p *CommonConfig) LastJumpEid() CommonRangeCell {
	return p.common(COMMON_RANGE_LAST_JUMP_EID)
}

// Eid returns the header cell holding the event identifier.
func (p *CommonConfig) Eid() CommonRangeCell {
	return p.common(COMMON_RANGE_EID)
}

// ITableLookupCell returns the header cell looked up in the instruction table.
func (p *CommonConfig) ITableLookupCell() Cell {
	return Cell{p.Aux, int(AUX_ITABLE_LOOKUP)}
}

// JTableLookupCell returns the header cell looked up in the jump table.
func (p *CommonConfig) JTableLookupCell() Cell {
	return Cell{p.Aux, int(AUX_JTABLE_LOOKUP)}
}

// MTableLookupCellAt returns the ith cell of the mtable lookup zone.  Every
// plugin allocates its mtable lookups from this zone in order, hence the ith
// lookup of any plugin lives here.
func (p *CommonConfig) MTableLookupCellAt(i uint) MTableLookupCell {
	return MTableLookupCell{p.Aux, int(p.Layout.MTableLookupStart + i)}
}

// OpcodeBit returns the cell selecting the opcode class registered at a given
// index.
func (p *CommonConfig) OpcodeBit(index uint) BitCell {
	return BitCell{p.OpcodeBits, int(index)}
}

func (p *CommonConfig) common(rotation uint) CommonRangeCell {
	return CommonRangeCell{p.AuxInCommon, int(rotation)}
}
