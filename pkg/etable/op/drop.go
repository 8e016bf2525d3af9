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

// DropConfigBuilder configures the plugin for instructions which discard the
// top of the stack.  Since nothing is read, a drop allocates no cells.
type DropConfigBuilder[F field.Element[F]] struct{}

// DropConfig is the runtime configuration for drops.
type DropConfig[F field.Element[F]] struct {
	etable.NoContributions[F]
}

// Class implementation for OpcodeConfigBuilder interface.
func (p *DropConfigBuilder[F]) Class() etable.OpcodeClass {
	return etable.CLASS_DROP
}

// Configure implementation for OpcodeConfigBuilder interface.
func (p *DropConfigBuilder[F]) Configure(cs *circuit.ConstraintSystem[F], alloc *etable.CellAllocator,
	enable etable.EnableFunc[F]) (etable.OpcodeConfig[F], error) {
	return &DropConfig[F]{}, nil
}

// Opcode implementation for OpcodeConfig interface.
func (p *DropConfig[F]) Opcode(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
	return etable.PackExpr(etable.PLAIN_OPCODE_SHIFTS, etable.ClassExpr[F](etable.CLASS_DROP))
}

// SpDiff implementation for OpcodeConfig interface.
func (p *DropConfig[F]) SpDiff(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
	return circuit.ConstUint64[F](1)
}

// OpcodeClass implementation for OpcodeConfig interface.
func (p *DropConfig[F]) OpcodeClass() etable.OpcodeClass {
	return etable.CLASS_DROP
}

// Assign implementation for OpcodeConfig interface.
func (p *DropConfig[F]) Assign(ctx *etable.StepContext[F], entry *etable.EventTableEntry) error {
	if _, ok := entry.Step.(etable.DropStep); !ok {
		return etable.NewAssignmentMismatch(etable.CLASS_DROP, entry, "unexpected %s step", entry.Class())
	}
	//
	return nil
}
