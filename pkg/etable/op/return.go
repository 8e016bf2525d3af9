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

// ReturnConfigBuilder configures the plugin for instructions which return from
// a function.  A return keeps at most one value, moving it over the values
// being dropped, and then resumes the frame recorded in the jump table by the
// matching call.
type ReturnConfigBuilder[F field.Element[F]] struct{}

// ReturnConfig is the runtime configuration for returns.
type ReturnConfig[F field.Element[F]] struct {
	etable.NoContributions[F]
	common *etable.CommonConfig
	keep   etable.BitCell
	isI32  etable.BitCell
	drop   etable.CommonRangeCell
	value  etable.U64Cell
	read   etable.MTableLookupCell
	write  etable.MTableLookupCell
	// Frame being resumed
	frameLastJumpEid etable.CommonRangeCell
	frameMoid        etable.CommonRangeCell
	frameFid         etable.CommonRangeCell
	frameIid         etable.CommonRangeCell
}

// Class implementation for OpcodeConfigBuilder interface.
func (p *ReturnConfigBuilder[F]) Class() etable.OpcodeClass {
	return etable.CLASS_RETURN
}

// Configure implementation for OpcodeConfigBuilder interface.
func (p *ReturnConfigBuilder[F]) Configure(cs *circuit.ConstraintSystem[F], alloc *etable.CellAllocator,
	enable etable.EnableFunc[F]) (etable.OpcodeConfig[F], error) {
	var (
		config = &ReturnConfig[F]{common: alloc.Common()}
		err    error
	)
	//
	for _, bit := range []*etable.BitCell{&config.keep, &config.isI32} {
		if *bit, err = alloc.AllocBitValue(); err != nil {
			return nil, err
		}
	}
	//
	for _, cell := range []*etable.CommonRangeCell{&config.drop, &config.frameLastJumpEid, &config.frameMoid,
		&config.frameFid, &config.frameIid} {
		if *cell, err = alloc.AllocCommonRangeValue(); err != nil {
			return nil, err
		}
	}
	//
	if config.value, err = alloc.AllocU64(); err != nil {
		return nil, err
	} else if config.read, err = alloc.AllocMTableLookup(); err != nil {
		return nil, err
	} else if config.write, err = alloc.AllocMTableLookup(); err != nil {
		return nil, err
	}
	//
	cs.CreateGate("return", func(meta *circuit.VirtualCells[F]) []circuit.Expr[F] {
		var (
			en      = enable(meta)
			keep    = etable.Curr(meta, config.keep)
			noKeep  = circuit.OneMinus(keep)
			vtype   = vtypeExpr(meta, config.isI32)
			value   = etable.Curr(meta, config.value)
			sp      = etable.Curr(meta, config.common.Sp())
			top     = circuit.Add(sp, circuit.ConstUint64[F](1))
			dest    = circuit.Add(top, etable.Curr(meta, config.drop))
			read    = stackAccess(meta, config.common, 1, top, etable.ACCESS_READ, vtype, value)
			write   = stackAccess(meta, config.common, 2, dest, etable.ACCESS_WRITE, vtype, value)
			isI32   = etable.Curr(meta, config.isI32)
			lookups = []circuit.Expr[F]{
				circuit.Mul(en, circuit.Sub(etable.Curr(meta, config.read), circuit.Mul(keep, read))),
				circuit.Mul(en, circuit.Sub(etable.Curr(meta, config.write), circuit.Mul(keep, write))),
			}
		)
		//
		return append([]circuit.Expr[F]{
			// Nothing kept means no value
			circuit.Mul(en, noKeep, isI32),
			circuit.Mul(en, noKeep, value),
			circuit.Mul(en, isI32, highNibbles(meta, config.value)),
		}, lookups...)
	})
	//
	return config, nil
}

// Opcode implementation for OpcodeConfig interface.
func (p *ReturnConfig[F]) Opcode(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
	return etable.PackExpr(etable.RETURN_OPCODE_SHIFTS,
		etable.ClassExpr[F](etable.CLASS_RETURN),
		etable.Curr(meta, p.drop),
		etable.Curr(meta, p.keep),
		p.vtype(meta))
}

// vtype is the type of the kept value, or zero if nothing is kept.
func (p *ReturnConfig[F]) vtype(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
	return circuit.Mul(etable.Curr(meta, p.keep), vtypeExpr(meta, p.isI32))
}

// SpDiff implementation for OpcodeConfig interface.
func (p *ReturnConfig[F]) SpDiff(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
	return etable.Curr(meta, p.drop)
}

// Mops implementation for OpcodeConfig interface.
func (p *ReturnConfig[F]) Mops(meta *circuit.VirtualCells[F]) util.Option[circuit.Expr[F]] {
	return util.Some(circuit.Scale(etable.Curr(meta, p.keep), field.Uint64[F](2)))
}

// LastJumpEidChange implementation for OpcodeConfig interface.
func (p *ReturnConfig[F]) LastJumpEidChange(meta *circuit.VirtualCells[F]) util.Option[circuit.Expr[F]] {
	return util.Some(etable.Curr(meta, p.frameLastJumpEid))
}

// NextIid implementation for OpcodeConfig interface.
func (p *ReturnConfig[F]) NextIid(meta *circuit.VirtualCells[F]) util.Option[circuit.Expr[F]] {
	return util.Some(etable.Curr(meta, p.frameIid))
}

// NextMoid implementation for OpcodeConfig interface.
func (p *ReturnConfig[F]) NextMoid(meta *circuit.VirtualCells[F]) util.Option[circuit.Expr[F]] {
	return util.Some(etable.Curr(meta, p.frameMoid))
}

// MTableLookup implementation for OpcodeConfig interface.
func (p *ReturnConfig[F]) MTableLookup(meta *circuit.VirtualCells[F], i uint) util.Option[circuit.Expr[F]] {
	switch i {
	case 0:
		return util.Some(etable.Curr(meta, p.read))
	case 1:
		return util.Some(etable.Curr(meta, p.write))
	default:
		return util.None[circuit.Expr[F]]()
	}
}

// JTableLookup implementation for OpcodeConfig interface.
func (p *ReturnConfig[F]) JTableLookup(meta *circuit.VirtualCells[F]) util.Option[circuit.Expr[F]] {
	return util.Some(etable.PackExpr(etable.JTABLE_SHIFTS,
		etable.Curr(meta, p.common.LastJumpEid()),
		etable.Curr(meta, p.frameLastJumpEid),
		etable.Curr(meta, p.frameMoid),
		etable.Curr(meta, p.frameFid),
		etable.Curr(meta, p.frameIid)))
}

// OpcodeClass implementation for OpcodeConfig interface.
func (p *ReturnConfig[F]) OpcodeClass() etable.OpcodeClass {
	return etable.CLASS_RETURN
}

// Assign implementation for OpcodeConfig interface.
func (p *ReturnConfig[F]) Assign(ctx *etable.StepContext[F], entry *etable.EventTableEntry) error {
	var (
		class  = etable.CLASS_RETURN
		opcode = entry.Inst.Opcode
	)
	//
	step, ok := entry.Step.(etable.ReturnStep)
	//
	switch {
	case !ok:
		return etable.NewAssignmentMismatch(class, entry, "unexpected %s step", entry.Class())
	case step.Drop != opcode.Drop || step.Keep != opcode.Keep || step.VType != opcode.VType:
		return etable.NewAssignmentMismatch(class, entry, "step does not match %s", opcode)
	case step.Keep > 1:
		return etable.NewAssignmentMismatch(class, entry, "cannot keep %d values", step.Keep)
	case step.Keep == 0 && (step.VType != 0 || step.KeepValue != 0):
		return etable.NewAssignmentMismatch(class, entry, "value kept without keep")
	case step.Frame.Eid != entry.LastJumpEid:
		return etable.NewAssignmentMismatch(class, entry, "frame %d is not the last jump %d", step.Frame.Eid,
			entry.LastJumpEid)
	}
	//
	cells := []struct {
		cell etable.AnyCell
		val  uint64
	}{
		{p.keep, step.Keep},
		{p.drop, step.Drop},
		{p.frameLastJumpEid, step.Frame.LastJumpEid},
		{p.frameMoid, step.Frame.Moid},
		{p.frameFid, step.Frame.Fid},
		{p.frameIid, step.Frame.Iid},
	}
	//
	for _, c := range cells {
		if err := ctx.AssignUint64(c.cell, c.val); err != nil {
			return err
		}
	}
	//
	if step.Keep == 1 {
		if err := assignValue(ctx, class, entry, p.isI32, p.value, step.VType, step.KeepValue); err != nil {
			return err
		}
	} else {
		if err := ctx.AssignBit(p.isI32, false); err != nil {
			return err
		} else if err := ctx.AssignU64(p.value, 0); err != nil {
			return err
		}
	}
	//
	return assignMemory(ctx, class, entry, p.read, p.write)
}
