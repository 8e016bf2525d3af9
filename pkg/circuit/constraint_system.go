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
package circuit

import (
	"fmt"

	"github.com/consensys/go-etable/pkg/util/field"
)

// Gate is a named set of polynomial constraints, each of which must vanish
// (i.e. evaluate to zero) on every row of the circuit.  Gates are typically
// multiplied by a selector, such that they are inert on rows where they don't
// apply.
type Gate[F field.Element[F]] struct {
	// A unique identifier for this gate.  This is primarily useful for
	// debugging.
	Handle string
	// Polynomials which must vanish on every row.
	Polys []Expr[F]
	// Cells accessed by this gate.
	Queries []Query[F]
}

// Lookup requires that, on every row, the value of a given input expression is
// found amongst the values of a given table column.  The zero value is always
// considered present, such that gated (i.e. selector multiplied) inputs are
// inert on rows where they don't apply.
type Lookup[F field.Element[F]] struct {
	// A unique identifier for this lookup.
	Handle string
	// Expression being looked up.
	Input Expr[F]
	// Table column being looked into.
	Table Column
}

// RangeCheck requires that, on every row, the value of a given input expression
// lies within [0..2^n) for some bitwidth n.  This is equivalent to a lookup
// into a circuit-wide range table.
type RangeCheck[F field.Element[F]] struct {
	// A unique identifier for this range check.
	Handle string
	// Expression being checked.
	Input Expr[F]
	// Bitwidth of the range
	Bitwidth uint
}

// ConstraintSystem records the columns of a circuit along with the gates,
// lookups and range checks registered over them.  Registrations are permanent
// for the life of the circuit.
type ConstraintSystem[F field.Element[F]] struct {
	names  map[Column]string
	advice uint
	fixed  uint
	gates  []Gate[F]
	lookup []Lookup[F]
	ranges []RangeCheck[F]
}

// NewConstraintSystem constructs an empty constraint system.
func NewConstraintSystem[F field.Element[F]]() *ConstraintSystem[F] {
	return &ConstraintSystem[F]{names: make(map[Column]string)}
}

// AdviceColumn declares a fresh advice column with the given name.
func (p *ConstraintSystem[F]) AdviceColumn(name string) Column {
	col := Column{ADVICE_COLUMN, p.advice}
	p.advice++
	p.names[col] = name
	//
	return col
}

// FixedColumn declares a fresh fixed column with the given name.
func (p *ConstraintSystem[F]) FixedColumn(name string) Column {
	col := Column{FIXED_COLUMN, p.fixed}
	p.fixed++
	p.names[col] = name
	//
	return col
}

// NumAdviceColumns returns the number of advice columns declared so far.
func (p *ConstraintSystem[F]) NumAdviceColumns() uint {
	return p.advice
}

// NumFixedColumns returns the number of fixed columns declared so far.
func (p *ConstraintSystem[F]) NumFixedColumns() uint {
	return p.fixed
}

// ColumnName returns the name given to a column when it was declared.
func (p *ConstraintSystem[F]) ColumnName(col Column) string {
	if name, ok := p.names[col]; ok {
		return name
	}
	//
	return col.String()
}

// CreateGate registers a new gate.  The given constructor is invoked exactly
// once to build the polynomials of the gate.
func (p *ConstraintSystem[F]) CreateGate(handle string, constructor func(meta *VirtualCells[F]) []Expr[F]) {
	var meta VirtualCells[F]
	//
	polys := constructor(&meta)
	//
	if len(polys) == 0 {
		panic(fmt.Sprintf("gate \"%s\" has no constraints", handle))
	}
	//
	p.gates = append(p.gates, Gate[F]{handle, polys, meta.Queries()})
}

// Lookup registers a new lookup of an input expression into a table column.
func (p *ConstraintSystem[F]) Lookup(handle string, table Column, constructor func(meta *VirtualCells[F]) Expr[F]) {
	var meta VirtualCells[F]
	//
	p.lookup = append(p.lookup, Lookup[F]{handle, constructor(&meta), table})
}

// RangeCheck registers a new range check of an input expression against
// [0..2^bitwidth).
func (p *ConstraintSystem[F]) RangeCheck(handle string, bitwidth uint, constructor func(meta *VirtualCells[F]) Expr[F]) {
	var meta VirtualCells[F]
	//
	p.ranges = append(p.ranges, RangeCheck[F]{handle, constructor(&meta), bitwidth})
}

// Gates returns the gates registered so far.
func (p *ConstraintSystem[F]) Gates() []Gate[F] {
	return p.gates
}

// Lookups returns the lookups registered so far.
func (p *ConstraintSystem[F]) Lookups() []Lookup[F] {
	return p.lookup
}

// RangeChecks returns the range checks registered so far.
func (p *ConstraintSystem[F]) RangeChecks() []RangeCheck[F] {
	return p.ranges
}

// MaxDegree returns the largest degree of any polynomial registered in a gate.
func (p *ConstraintSystem[F]) MaxDegree() uint {
	var degree uint
	//
	for _, g := range p.gates {
		for _, poly := range g.Polys {
			degree = max(degree, poly.Degree())
		}
	}
	//
	return degree
}
