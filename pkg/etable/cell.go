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
	"github.com/consensys/go-etable/pkg/util/field"
)

// CellKind identifies the different kinds of cell which can be allocated
// within a step.
type CellKind uint8

const (
	// BIT_CELL identifies cells holding boolean values.
	BIT_CELL CellKind = iota
	// COMMON_RANGE_CELL identifies cells range checked against the shared
	// common range table.
	COMMON_RANGE_CELL
	// UNLIMITED_CELL identifies cells without any builtin range constraint.
	UNLIMITED_CELL
	// U64_CELL identifies 64bit values decomposed into nibbles.
	U64_CELL
	// MTABLE_LOOKUP_CELL identifies cells looked up in the memory table.
	MTABLE_LOOKUP_CELL
)

func (p CellKind) String() string {
	switch p {
	case BIT_CELL:
		return "bit"
	case COMMON_RANGE_CELL:
		return "common_range"
	case UNLIMITED_CELL:
		return "unlimited"
	case U64_CELL:
		return "u64"
	case MTABLE_LOOKUP_CELL:
		return "mtable_lookup"
	default:
		return "unknown"
	}
}

// AnyCell is implemented by every kind of cell, and identifies the location at
// which the (primary) value of the cell is held.
type AnyCell interface {
	// Loc returns the column and rotation (relative to the first row of a
	// step) of this cell.
	Loc() (circuit.Column, int)
}

// Cell identifies a location holding a value with no builtin range constraint.
type Cell struct {
	Col circuit.Column
	Rot int
}

// Loc implementation for AnyCell interface.
func (p Cell) Loc() (circuit.Column, int) {
	return p.Col, p.Rot
}

// BitCell identifies a location holding a boolean value.
type BitCell struct {
	Col circuit.Column
	Rot int
}

// Loc implementation for AnyCell interface.
func (p BitCell) Loc() (circuit.Column, int) {
	return p.Col, p.Rot
}

// CommonRangeCell identifies a location whose value is range checked against
// the common range table.
type CommonRangeCell struct {
	Col circuit.Column
	Rot int
}

// Loc implementation for AnyCell interface.
func (p CommonRangeCell) Loc() (circuit.Column, int) {
	return p.Col, p.Rot
}

// MTableLookupCell identifies a location whose value is looked up in the
// memory table.
type MTableLookupCell struct {
	Col circuit.Column
	Rot int
}

// Loc implementation for AnyCell interface.
func (p MTableLookupCell) Loc() (circuit.Column, int) {
	return p.Col, p.Rot
}

// U64Cell identifies a location holding a 64bit value, along with the nibble
// column holding its decomposition.  The ith nibble (least significant first)
// is held at rotation i of the nibble column.
type U64Cell struct {
	ValueCol circuit.Column
	ValueRot int
	U4Col    circuit.Column
}

// Loc implementation for AnyCell interface.
func (p U64Cell) Loc() (circuit.Column, int) {
	return p.ValueCol, p.ValueRot
}

// Curr returns an expression for the value of a cell in the current step.
func Curr[F field.Element[F]](meta *circuit.VirtualCells[F], cell AnyCell) circuit.Expr[F] {
	col, rot := cell.Loc()
	//
	return meta.QueryAdvice(col, rot)
}

// Next returns an expression for the value of a cell in the following step.
func Next[F field.Element[F]](meta *circuit.VirtualCells[F], layout Layout, cell AnyCell) circuit.Expr[F] {
	col, rot := cell.Loc()
	//
	return meta.QueryAdvice(col, rot+int(layout.StepSize))
}

// Nibble returns an expression for the ith nibble of a u64 cell in the current
// step.
func Nibble[F field.Element[F]](meta *circuit.VirtualCells[F], cell U64Cell, i uint) circuit.Expr[F] {
	return meta.QueryAdvice(cell.U4Col, int(i))
}
