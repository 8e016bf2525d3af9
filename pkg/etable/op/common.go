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
	"github.com/consensys/go-etable/pkg/util/field"
)

// Builders returns a builder for every opcode plugin provided by this package.
func Builders[F field.Element[F]]() []etable.OpcodeConfigBuilder[F] {
	return []etable.OpcodeConfigBuilder[F]{
		&LocalGetConfigBuilder[F]{},
		&ConstConfigBuilder[F]{},
		&DropConfigBuilder[F]{},
		&ReturnConfigBuilder[F]{},
	}
}

// vtypeExpr returns the variable type selected by an is_i32 bit.
func vtypeExpr[F field.Element[F]](meta *circuit.VirtualCells[F], isI32 etable.BitCell) circuit.Expr[F] {
	return circuit.Sub(circuit.ConstUint64[F](uint64(etable.VAR_I64)), etable.Curr(meta, isI32))
}

// highNibbles returns the sum of the upper eight nibbles of a u64 cell, which
// vanishes exactly when its value fits in 32 bits.
func highNibbles[F field.Element[F]](meta *circuit.VirtualCells[F], cell etable.U64Cell) circuit.Expr[F] {
	var terms []circuit.Expr[F]
	//
	for i := uint(etable.NIBBLES_PER_U64 / 2); i < etable.NIBBLES_PER_U64; i++ {
		terms = append(terms, etable.Nibble(meta, cell, i))
	}
	//
	return circuit.Add(terms...)
}

// stackAccess returns the memory table encoding of an access to the stack made
// by the current step.
func stackAccess[F field.Element[F]](meta *circuit.VirtualCells[F], common *etable.CommonConfig, emid uint64,
	offset circuit.Expr[F], atype etable.AccessType, vtype circuit.Expr[F], value circuit.Expr[F]) circuit.Expr[F] {
	return etable.PackExpr(etable.MTABLE_SHIFTS,
		etable.Curr(meta, common.Eid()),
		circuit.ConstUint64[F](emid),
		circuit.ConstUint64[F](0),
		offset,
		circuit.ConstUint64[F](uint64(etable.LOCATION_STACK)),
		circuit.ConstUint64[F](uint64(atype)),
		vtype,
		value)
}

// assignValue writes a typed value into an is_i32 bit and a u64 cell, failing
// if the value does not fit its type.
func assignValue[F field.Element[F]](ctx *etable.StepContext[F], class etable.OpcodeClass,
	entry *etable.EventTableEntry, isI32 etable.BitCell, cell etable.U64Cell, vtype etable.VarType,
	value uint64) error {
	//
	if vtype != etable.VAR_I32 && vtype != etable.VAR_I64 {
		return etable.NewAssignmentMismatch(class, entry, "unsupported value type %s", vtype)
	} else if !vtype.Fits(value) {
		return etable.NewAssignmentMismatch(class, entry, "value %d does not fit %s", value, vtype)
	} else if err := ctx.AssignBit(isI32, vtype == etable.VAR_I32); err != nil {
		return err
	}
	//
	return ctx.AssignU64(cell, value)
}

// assignMemory writes the encoded memory operations of an entry into the
// lookup cells of a plugin.
func assignMemory[F field.Element[F]](ctx *etable.StepContext[F], class etable.OpcodeClass,
	entry *etable.EventTableEntry, cells ...etable.MTableLookupCell) error {
	mops := entry.MemoryTableEntries()
	//
	if len(mops) > len(cells) {
		return etable.NewAssignmentMismatch(class, entry, "%d memory operations exceed %d lookups", len(mops),
			len(cells))
	}
	//
	for i, m := range mops {
		if err := ctx.AssignBigInt(cells[i], m.Encode()); err != nil {
			return err
		}
	}
	// Success
	return nil
}
