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
	"github.com/consensys/go-etable/pkg/circuit"
	"github.com/consensys/go-etable/pkg/util"
	"github.com/consensys/go-etable/pkg/util/field"
)

// EnableFunc returns an expression which is 1 on the first row of every step
// executing a given opcode class, and 0 on every other row.  Every constraint
// registered by a plugin must be multiplied by it.
type EnableFunc[F field.Element[F]] func(meta *circuit.VirtualCells[F]) circuit.Expr[F]

// OpcodeConfigBuilder is implemented by every opcode plugin, and is invoked
// exactly once when the event table is configured.  A builder allocates the
// cells it needs, registers its constraints and returns the runtime
// configuration responsible for assigning steps of its opcode class.
type OpcodeConfigBuilder[F field.Element[F]] interface {
	// Class returns the opcode class implemented by this builder.
	Class() OpcodeClass
	// Configure allocates cells and registers constraints for this opcode
	// class.  Any error (e.g. capacity exhaustion) aborts configuration of
	// the entire table.
	Configure(cs *circuit.ConstraintSystem[F], alloc *CellAllocator, enable EnableFunc[F]) (OpcodeConfig[F], error)
}

// OpcodeConfig is the runtime configuration of an opcode plugin.  It is
// immutable once constructed, and may be used concurrently to assign distinct
// steps.  Expression methods must only query cells of the current step.
type OpcodeConfig[F field.Element[F]] interface {
	// Opcode returns the encoding of the instruction executed by a step of
	// this class.
	Opcode(meta *circuit.VirtualCells[F]) circuit.Expr[F]
	// SpDiff returns the change to the stack pointer made by a step of this
	// class.
	SpDiff(meta *circuit.VirtualCells[F]) circuit.Expr[F]
	// Assign writes the witness for a given trace entry into the cells of
	// this plugin.  An entry whose contents do not fit this plugin results in
	// an *AssignmentMismatch.
	Assign(ctx *StepContext[F], entry *EventTableEntry) error
	// OpcodeClass identifies the opcode class implemented by this plugin.
	OpcodeClass() OpcodeClass
	// Mops returns the number of memory operations made by a step of this
	// class, if any.
	Mops(meta *circuit.VirtualCells[F]) util.Option[circuit.Expr[F]]
	// LastJumpEidChange returns the value of the last jump eid for the
	// following step, if this class changes it.
	LastJumpEidChange(meta *circuit.VirtualCells[F]) util.Option[circuit.Expr[F]]
	// NextIid returns the instruction identifier of the following step, if
	// this class does not simply fall through.
	NextIid(meta *circuit.VirtualCells[F]) util.Option[circuit.Expr[F]]
	// NextMoid returns the module identifier of the following step, if this
	// class changes it.
	NextMoid(meta *circuit.VirtualCells[F]) util.Option[circuit.Expr[F]]
	// MTableLookup returns the encoded memory table entry for the ith memory
	// operation of a step, if there is one.
	MTableLookup(meta *circuit.VirtualCells[F], i uint) util.Option[circuit.Expr[F]]
	// JTableLookup returns the encoded jump table entry for a step, if there
	// is one.
	JTableLookup(meta *circuit.VirtualCells[F]) util.Option[circuit.Expr[F]]
	// ITableLookup returns the encoded instruction table entry for a step,
	// if this class overrides the default.
	ITableLookup(meta *circuit.VirtualCells[F]) util.Option[circuit.Expr[F]]
}

// NoContributions can be embedded within an opcode plugin to provide the
// default (i.e. none) for every optional contribution.  A plugin then
// overrides only the contributions which it actually makes.
type NoContributions[F field.Element[F]] struct{}

// Mops implementation for OpcodeConfig interface.
func (NoContributions[F]) Mops(*circuit.VirtualCells[F]) util.Option[circuit.Expr[F]] {
	return util.None[circuit.Expr[F]]()
}

// LastJumpEidChange implementation for OpcodeConfig interface.
func (NoContributions[F]) LastJumpEidChange(*circuit.VirtualCells[F]) util.Option[circuit.Expr[F]] {
	return util.None[circuit.Expr[F]]()
}

// NextIid implementation for OpcodeConfig interface.
func (NoContributions[F]) NextIid(*circuit.VirtualCells[F]) util.Option[circuit.Expr[F]] {
	return util.None[circuit.Expr[F]]()
}

// NextMoid implementation for OpcodeConfig interface.
func (NoContributions[F]) NextMoid(*circuit.VirtualCells[F]) util.Option[circuit.Expr[F]] {
	return util.None[circuit.Expr[F]]()
}

// MTableLookup implementation for OpcodeConfig interface.
func (NoContributions[F]) MTableLookup(*circuit.VirtualCells[F], uint) util.Option[circuit.Expr[F]] {
	return util.None[circuit.Expr[F]]()
}

// JTableLookup implementation for OpcodeConfig interface.
func (NoContributions[F]) JTableLookup(*circuit.VirtualCells[F]) util.Option[circuit.Expr[F]] {
	return util.None[circuit.Expr[F]]()
}

// ITableLookup implementation for OpcodeConfig interface.
func (NoContributions[F]) ITableLookup(*circuit.VirtualCells[F]) util.Option[circuit.Expr[F]] {
	return util.None[circuit.Expr[F]]()
}
