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
	"errors"
	"fmt"

	"github.com/consensys/go-etable/pkg/util/field"
)

// ErrOutOfBounds signals an attempt to assign a cell which lies outside of an
// assignment.
var ErrOutOfBounds = errors.New("cell access out-of-bounds")

// Assignment holds the values of every column of a circuit over a fixed number
// of rows.  Cells which are never assigned hold zero.  Columns are allocated
// up front, hence assigning distinct cells from different go-routines is safe.
type Assignment[F field.Element[F]] struct {
	height uint
	advice [][]F
	fixed  [][]F
}

// NewAssignment constructs an empty assignment for the columns of a given
// constraint system.
func NewAssignment[F field.Element[F]](cs *ConstraintSystem[F], height uint) *Assignment[F] {
	var (
		advice = make([][]F, cs.NumAdviceColumns())
		fixed  = make([][]F, cs.NumFixedColumns())
	)
	//
	for i := range advice {
		advice[i] = make([]F, height)
	}
	//
	for i := range fixed {
		fixed[i] = make([]F, height)
	}
	//
	return &Assignment[F]{height, advice, fixed}
}

// Height returns the number of rows in this assignment.
func (p *Assignment[F]) Height() uint {
	return p.height
}

// Assign a value to the cell of a given column on a given row.
func (p *Assignment[F]) Assign(col Column, row int, val F) error {
	data := p.data(col)
	//
	if data == nil || row < 0 || row >= len(data) {
		return fmt.Errorf("%w (column %s, row %d)", ErrOutOfBounds, col, row)
	}
	//
	data[row] = val
	//
	return nil
}

// Get returns the value of the cell of a given column on a given row, or false
// if no such cell exists.
func (p *Assignment[F]) Get(col Column, row int) (F, bool) {
	var (
		data = p.data(col)
		zero F
	)
	//
	if data == nil || row < 0 || row >= len(data) {
		return zero, false
	}
	//
	return data[row], true
}

// Column returns the values of a given column.  The returned slice is shared
// with this assignment.
func (p *Assignment[F]) Column(col Column) []F {
	return p.data(col)
}

func (p *Assignment[F]) data(col Column) []F {
	switch {
	case col.IsAdvice() && col.Index < uint(len(p.advice)):
		return p.advice[col.Index]
	case col.IsFixed() && col.Index < uint(len(p.fixed)):
		return p.fixed[col.Index]
	default:
		return nil
	}
}
