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

// LocalGetConfigBuilder configures the plugin for instructions which copy a
// local variable (held at some depth within the stack) onto the top of the
// stack.  The depth is at least one, since the slot at depth zero is the free
// slot being written.  This is enforced by holding depth-1 in a second common
// range cell.
type LocalGetConfigBuilder[F field.Element[F]] struct{}

// LocalGetConfig is the runtime configuration for local variable reads.
type LocalGetConfig[F field.Element[F]] struct {
	etable.NoContributions[F]
	common *etable.CommonConfig
	isI32  etable.BitCell
	depth  etable.CommonRangeCell
	// depth-1, which must lie within the common range
	depthOffset etable.CommonRangeCell
	value       etable.U64Cell
	read        etable.MTableLookupCell
	write       etable.MTableLookupCell
}

// Class implementation for OpcodeConfigBuilder interface.
func (p *LocalGetConfigBuilder[F]) Class() etable.OpcodeClass {
	return etable.CLASS_LOCAL_GET
}

// Configure implementation for OpcodeConfigBuilder interface.
func (p *LocalGetConfigBuilder[F]) Configure(cs *circuit.ConstraintSystem[F], alloc *etable.CellAllocator,
	enable etable.EnableFunc[F]) (etable.OpcodeConfig[F], error) {
	var (
		config = &LocalGetConfig[F]{common: alloc.Common()}
		err    error
	)
	//
	if config.isI32, err = alloc.AllocBitValue(); err != nil {
		return nil, err
	} else if config.depth, err = alloc.AllocCommonRangeValue(); err != nil {
		return nil, err
	} else if config.depthOffset, err = alloc.AllocCommonRangeValue(); err != nil {
		return nil, err
	} else if config.value, err = alloc.AllocU64(); err != nil {
		return nil, err
	} else if config.read, err = alloc.AllocMTableLookup(); err != nil {
		return nil, err
	} else if config.write, err = alloc.AllocMTableLookup(); err != nil {
		return nil, err
	}
	//
	cs.CreateGate("local_get", func(meta *circuit.VirtualCells[F]) []circuit.Expr[F] {
		var (
			en    = enable(meta)
			vtype = vtypeExpr(meta, config.isI32)
			value = etable.Curr(meta, config.value)
			sp    = etable.Curr(meta, config.common.Sp())
			local = circuit.Add(sp, etable.Curr(meta, config.depth))
			read  = stackAccess(meta, config.common, 1, local, etable.ACCESS_READ, vtype, value)
			write = stackAccess(meta, config.common, 2, sp, etable.ACCESS_WRITE, vtype, value)
		)
		//
		return []circuit.Expr[F]{
			circuit.Mul(en, etable.Curr(meta, config.isI32), highNibbles(meta, config.value)),
			circuit.Mul(en, circuit.Sub(etable.Curr(meta, config.read), read)),
			circuit.Mul(en, circuit.Sub(etable.Curr(meta, config.write), write)),
			circuit.Mul(en, circuit.Sub(etable.Curr(meta, config.depth),
				circuit.Add(etable.Curr(meta, config.depthOffset), circuit.ConstUint64[F](1)))),
		}
	})
	//
	return config, nil
}

// Opcode implementation for OpcodeConfig interface.
func (p *LocalGetConfig[F]) Opcode(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
	return etable.PackExpr(etable.LOCAL_GET_OPCODE_SHIFTS,
		etable.ClassExpr[F](etable.CLASS_LOCAL_GET),
		vtypeExpr(meta, p.isI32),
		etable.Curr(meta, p.depth))
}

// SpDiff implementation for OpcodeConfig interface.
func (p *LocalGetConfig[F]) SpDiff(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
	return circuit.Neg(circuit.ConstUint64[F](1))
}

// Mops implementation for OpcodeConfig interface.
func (p *LocalGetConfig[F]) Mops(meta *circuit.VirtualCells[F]) util.Option[circuit.Expr[F]] {
	return util.Some(circuit.ConstUint64[F](2))
}

// MTableLookup implementation for OpcodeConfig interface.
func (p *LocalGetConfig[F]) MTableLookup(meta *circuit.VirtualCells[F], i uint) util.Option[circuit.Expr[F]] {
	switch i {
	case 0:
		return util.Some(etable.Curr(meta, p.read))
	case 1:
		return util.Some(etable.Curr(meta, p.write))
	default:
		return util.None[circuit.Expr[F]]()
	}
}

// OpcodeClass implementation for OpcodeConfig interface.
func (p *LocalGetConfig[F]) OpcodeClass() etable.OpcodeClass {
	return etable.CLASS_LOCAL_GET
}

// Assign implementation for OpcodeConfig interface.
func (p *LocalGetConfig[F]) Assign(ctx *etable.StepContext[F], entry *etable.EventTableEntry) error {
	var (
		class  = etable.CLASS_LOCAL_GET
		opcode = entry.Inst.Opcode
	)
	//
	step, ok := entry.Step.(etable.LocalGetStep)
	//
	switch {
	case !ok:
		return etable.NewAssignmentMismatch(class, entry, "unexpected %s step", entry.Class())
	case step.VType != opcode.VType || step.Depth != opcode.Depth:
		return etable.NewAssignmentMismatch(class, entry, "step does not match %s", opcode)
	case step.Depth == 0:
		return etable.NewAssignmentMismatch(class, entry, "local at depth 0 lies above the stack")
	}
	//
	if err := ctx.AssignUint64(p.depth, step.Depth); err != nil {
		return err
	} else if err := ctx.AssignUint64(p.depthOffset, step.Depth-1); err != nil {
		return err
	} else if err := assignValue(ctx, class, entry, p.isI32, p.value, step.VType, step.Value); err != nil {
		return err
	}
	//
	return assignMemory(ctx, class, entry, p.read, p.write)
}
