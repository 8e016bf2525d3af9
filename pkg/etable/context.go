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
	"math/big"

	"github.com/consensys/go-etable/pkg/circuit"
	"github.com/consensys/go-etable/pkg/util/field"
)

// StepContext identifies the step of an assignment currently being written.
// Cells are addressed relative to the first row of the step.
type StepContext[F field.Element[F]] struct {
	asg    *circuit.Assignment[F]
	offset int
}

// NewStepContext constructs a context for the step beginning at a given row.
func NewStepContext[F field.Element[F]](asg *circuit.Assignment[F], offset int) *StepContext[F] {
	return &StepContext[F]{asg, offset}
}

// Offset returns the first row of the step.
func (p *StepContext[F]) Offset() int {
	return p.offset
}

// Assignment returns the underlying assignment.
func (p *StepContext[F]) Assignment() *circuit.Assignment[F] {
	return p.asg
}

// Assign writes a value into a given cell of this step.
func (p *StepContext[F]) Assign(cell AnyCell, val F) error {
	col, rot := cell.Loc()
	//
	return p.asg.Assign(col, p.offset+rot, val)
}

// AssignUint64 writes a small value into a given cell of this step.
func (p *StepContext[F]) AssignUint64(cell AnyCell, val uint64) error {
	return p.Assign(cell, field.Uint64[F](val))
}

// AssignBit writes a boolean into a given bit cell of this step.
func (p *StepContext[F]) AssignBit(cell BitCell, val bool) error {
	if val {
		return p.AssignUint64(cell, 1)
	}
	//
	return p.AssignUint64(cell, 0)
}

// AssignBigInt writes an arbitrary (non-negative) value into a given cell of
// this step.
func (p *StepContext[F]) AssignBigInt(cell AnyCell, val *big.Int) error {
	return p.Assign(cell, field.BigInt[F](val))
}

// AssignU64 writes a 64bit value into a given u64 cell of this step, along
// with its nibble decomposition (least significant nibble first).
func (p *StepContext[F]) AssignU64(cell U64Cell, val uint64) error {
	if err := p.AssignUint64(cell, val); err != nil {
		return err
	}
	//
	for i := range NIBBLES_PER_U64 {
		nibble := (val >> (4 * i)) & 0xf
		//
		if err := p.asg.Assign(cell.U4Col, p.offset+i, field.Uint64[F](nibble)); err != nil {
			return err
		}
	}
	// Success
	return nil
}
