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
	"strings"

	"github.com/consensys/go-etable/pkg/util/field"
)

// Expr represents a polynomial expression over the cells of a circuit, where
// each cell is identified by a column and a rotation relative to the row on
// which the expression is being evaluated.
type Expr[F field.Element[F]] interface {
	// EvalAt evaluates this expression on a given row of an assignment.  The
	// result is undefined (i.e. false is returned) if the expression accesses
	// a cell which lies outside the assignment.
	EvalAt(row int, asg *Assignment[F]) (F, bool)
	// Degree returns the degree of this expression, viewed as a polynomial
	// over its cells.
	Degree() uint
	// Queries appends every cell query used within this expression.
	Queries(acc []Query[F]) []Query[F]
	//
	fmt.Stringer
}

// ============================================================================
// Constructors
// ============================================================================

// Const constructs a constant expression.
func Const[F field.Element[F]](val F) Expr[F] {
	return &Constant[F]{val}
}

// ConstUint64 constructs a constant expression from a given uint64 value.
func ConstUint64[F field.Element[F]](val uint64) Expr[F] {
	return &Constant[F]{field.Uint64[F](val)}
}

// Add constructs the sum of zero or more expressions.  The sum of no
// expressions is the constant zero.
func Add[F field.Element[F]](args ...Expr[F]) Expr[F] {
	switch len(args) {
	case 0:
		return &Constant[F]{field.Zero[F]()}
	case 1:
		return args[0]
	default:
		return &Sum[F]{args}
	}
}

// Mul constructs the product of zero or more expressions.  The product of no
// expressions is the constant one.
func Mul[F field.Element[F]](args ...Expr[F]) Expr[F] {
	switch len(args) {
	case 0:
		return &Constant[F]{field.One[F]()}
	case 1:
		return args[0]
	default:
		return &Product[F]{args}
	}
}

// Neg constructs the negation of a given expression.
func Neg[F field.Element[F]](arg Expr[F]) Expr[F] {
	return &Negation[F]{arg}
}

// Sub constructs the difference of two expressions.
func Sub[F field.Element[F]](lhs Expr[F], rhs Expr[F]) Expr[F] {
	return &Sum[F]{[]Expr[F]{lhs, &Negation[F]{rhs}}}
}

// Scale multiplies a given expression by a constant.
func Scale[F field.Element[F]](arg Expr[F], factor F) Expr[F] {
	return &Product[F]{[]Expr[F]{&Constant[F]{factor}, arg}}
}

// OneMinus constructs the expression 1 - arg.  This is useful, for example, for
// negating a boolean expression.
func OneMinus[F field.Element[F]](arg Expr[F]) Expr[F] {
	return Sub(ConstUint64[F](1), arg)
}

// ============================================================================
// Constant
// ============================================================================

// Constant represents a constant value within an expression.
type Constant[F field.Element[F]] struct {
	Value F
}

// EvalAt implementation for the Expr interface.
func (p *Constant[F]) EvalAt(row int, asg *Assignment[F]) (F, bool) {
	return p.Value, true
}

// Degree implementation for the Expr interface.
func (p *Constant[F]) Degree() uint {
	return 0
}

// Queries implementation for the Expr interface.
func (p *Constant[F]) Queries(acc []Query[F]) []Query[F] {
	return acc
}

func (p *Constant[F]) String() string {
	return p.Value.String()
}

// ============================================================================
// Query
// ============================================================================

// Query represents an access to the cell of a given column at a given rotation
// from the current row.
type Query[F field.Element[F]] struct {
	Column   Column
	Rotation int
}

// EvalAt implementation for the Expr interface.
func (p *Query[F]) EvalAt(row int, asg *Assignment[F]) (F, bool) {
	return asg.Get(p.Column, row+p.Rotation)
}

// Degree implementation for the Expr interface.
func (p *Query[F]) Degree() uint {
	return 1
}

// Queries implementation for the Expr interface.
func (p *Query[F]) Queries(acc []Query[F]) []Query[F] {
	return append(acc, *p)
}

func (p *Query[F]) String() string {
	if p.Rotation == 0 {
		return p.Column.String()
	}
	//
	return fmt.Sprintf("%s[%+d]", p.Column, p.Rotation)
}

// ============================================================================
// Sum
// ============================================================================

// Sum represents the sum of one or more expressions.
type Sum[F field.Element[F]] struct {
	Args []Expr[F]
}

// EvalAt implementation for the Expr interface.
func (p *Sum[F]) EvalAt(row int, asg *Assignment[F]) (F, bool) {
	var acc F
	//
	for _, arg := range p.Args {
		val, ok := arg.EvalAt(row, asg)
		if !ok {
			return acc, false
		}
		//
		acc = acc.Add(val)
	}
	//
	return acc, true
}

// Degree implementation for the Expr interface.
func (p *Sum[F]) Degree() uint {
	var degree uint
	//
	for _, arg := range p.Args {
		degree = max(degree, arg.Degree())
	}
	//
	return degree
}

// Queries implementation for the Expr interface.
func (p *Sum[F]) Queries(acc []Query[F]) []Query[F] {
	for _, arg := range p.Args {
		acc = arg.Queries(acc)
	}
	//
	return acc
}

func (p *Sum[F]) String() string {
	return naryString("+", p.Args)
}

// ============================================================================
// Product
// ============================================================================

// Product represents the product of one or more expressions.
type Product[F field.Element[F]] struct {
	Args []Expr[F]
}

// EvalAt implementation for the Expr interface.
func (p *Product[F]) EvalAt(row int, asg *Assignment[F]) (F, bool) {
	var acc = field.One[F]()
	//
	for _, arg := range p.Args {
		val, ok := arg.EvalAt(row, asg)
		if !ok {
			return acc, false
		}
		//
		acc = acc.Mul(val)
	}
	//
	return acc, true
}

// Degree implementation for the Expr interface.
func (p *Product[F]) Degree() uint {
	var degree uint
	//
	for _, arg := range p.Args {
		degree += arg.Degree()
	}
	//
	return degree
}

// Queries implementation for the Expr interface.
func (p *Product[F]) Queries(acc []Query[F]) []Query[F] {
	for _, arg := range p.Args {
		acc = arg.Queries(acc)
	}
	//
	return acc
}

func (p *Product[F]) String() string {
	return naryString("*", p.Args)
}

// ============================================================================
// Negation
// ============================================================================

// Negation represents the additive inverse of an expression.
type Negation[F field.Element[F]] struct {
	Arg Expr[F]
}

// EvalAt implementation for the Expr interface.
func (p *Negation[F]) EvalAt(row int, asg *Assignment[F]) (F, bool) {
	val, ok := p.Arg.EvalAt(row, asg)
	//
	return field.Neg(val), ok
}

// Degree implementation for the Expr interface.
func (p *Negation[F]) Degree() uint {
	return p.Arg.Degree()
}

// Queries implementation for the Expr interface.
func (p *Negation[F]) Queries(acc []Query[F]) []Query[F] {
	return p.Arg.Queries(acc)
}

func (p *Negation[F]) String() string {
	return fmt.Sprintf("(- %s)", p.Arg)
}

func naryString[F field.Element[F]](op string, args []Expr[F]) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	builder.WriteString(op)
	//
	for _, arg := range args {
		builder.WriteString(" ")
		builder.WriteString(arg.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
