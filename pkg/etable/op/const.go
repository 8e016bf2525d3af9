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
package op

import (
	"github.com/consensys/go-etable/pkg/circuit"
	"github.com/consensys/go-etable/pkg/etable"
	"github.com/consensys/go-etable/pkg/util"
	"github.com/consensys/go-etable/pkg/util/field"
)

// ConstConfigBuilder configures the plugin for instructions which push a
// constant onto the stack.
type ConstConfigBuilder[F field.Element[F]] struct{}

// ConstConfig is the runtime configuration for constant pushes.
type ConstConfig[F field.Element[F]] struct {
	etable.NoContributions[F]
	common *etable.CommonConfig
	isI32  etable.BitCell
	value  etable.U64Cell
	write  etable.MTableLookupCell
}

// Class implementation for OpcodeConfigBuilder interface.
func (p *ConstConfigBuilder[F]) Class() etable.OpcodeClass {
	return etable.CLASS_CONST
}

// Configure implementation for OpcodeConfigBuilder interface.
func (p *ConstConfigBuilder[F]) Configure(cs *circuit.ConstraintSystem[F], alloc *etable.CellAllocator,
	enable etable.EnableFunc[F]) (etable.OpcodeConfig[F], error) {
	var (
		config = &ConstConfig[F]{common: alloc.Common()}
		err    error
	)
	//
	if config.isI32, err = alloc.AllocBitValue(); err != nil {
		return nil, err
	} else if config.value, err = alloc.AllocU64(); err != nil {
		return nil, err
	} else if config.write, err = alloc.AllocMTableLookup(); err != nil {
		return nil, err
	}
	//
	cs.CreateGate("const", func(meta *circuit.VirtualCells[F]) []circuit.Expr[F] {
		var (
			en    = enable(meta)
			vtype = vtypeExpr(meta, config.isI32)
			value = etable.Curr(meta, config.value)
			sp    = etable.Curr(meta, config.common.Sp())
			write = stackAccess(meta, config.common, 1, sp, etable.ACCESS_WRITE, vtype, value)
		)
		//
		return []circuit.Expr[F]{
			// i32 values have no high nibbles
			circuit.Mul(en, etable.Curr(meta, config.isI32), highNibbles(meta, config.value)),
			circuit.Mul(en, circuit.Sub(etable.Curr(meta, config.write), write)),
		}
	})
	//
	return config, nil
}

// Opcode implementation for OpcodeConfig interface.
func (p *ConstConfig[F]) Opcode(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
	return etable.PackExpr(etable.CONST_OPCODE_SHIFTS,
		etable.ClassExpr[F](etable.CLASS_CONST),
		vtypeExpr(meta, p.isI32),
		etable.Curr(meta, p.value))
}

// SpDiff implementation for OpcodeConfig interface.
func (p *ConstConfig[F]) SpDiff(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
	return circuit.Neg(circuit.ConstUint64[F](1))
}

// Mops implementation for OpcodeConfig interface.
func (p *ConstConfig[F]) Mops(meta *circuit.VirtualCells[F]) util.Option[circuit.Expr[F]] {
	return util.Some(circuit.ConstUint64[F](1))
}

// MTableLookup implementation for OpcodeConfig interface.
func (p *ConstConfig[F]) MTableLookup(meta *circuit.VirtualCells[F], i uint) util.Option[circuit.Expr[F]] {
	if i == 0 {
		return util.Some(etable.Curr(meta, p.write))
	}
	//
	return util.None[circuit.Expr[F]]()
}

// OpcodeClass implementation for OpcodeConfig interface.
func (p *ConstConfig[F]) OpcodeClass() etable.OpcodeClass {
	return etable.CLASS_CONST
}

// Assign implementation for OpcodeConfig interface.
func (p *ConstConfig[F]) Assign(ctx *etable.StepContext[F], entry *etable.EventTableEntry) error {
	step, ok := entry.Step.(etable.ConstStep)
	//
	switch {
	case !ok:
		return etable.NewAssignmentMismatch(etable.CLASS_CONST, entry, "unexpected %s step", entry.Class())
	case step.VType != entry.Inst.Opcode.VType || step.Value != entry.Inst.Opcode.Value:
		return etable.NewAssignmentMismatch(etable.CLASS_CONST, entry, "step does not match %s", entry.Inst.Opcode)
	}
	//
	if err := assignValue(ctx, etable.CLASS_CONST, entry, p.isI32, p.value, step.VType, step.Value); err != nil {
		return err
	}
	//
	return assignMemory(ctx, etable.CLASS_CONST, entry, p.write)
}
