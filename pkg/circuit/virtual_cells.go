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

// VirtualCells provides access to the cells of a circuit whilst a constraint
// (or lookup) is being registered.  Every cell accessed is recorded, such that
// the set of cells on which a constraint depends is known.
type VirtualCells[F field.Element[F]] struct {
	queries []Query[F]
}

// QueryAdvice returns an expression reading the given advice column at a given
// rotation from the current row.
func (p *VirtualCells[F]) QueryAdvice(col Column, rotation int) Expr[F] {
	if !col.IsAdvice() {
		panic(fmt.Sprintf("column %s is not an advice column", col))
	}
	//
	return p.query(col, rotation)
}

// QueryFixed returns an expression reading the given fixed column at a given
// rotation from the current row.
func (p *VirtualCells[F]) QueryFixed(col Column, rotation int) Expr[F] {
	if !col.IsFixed() {
		panic(fmt.Sprintf("column %s is not a fixed column", col))
	}
	//
	return p.query(col, rotation)
}

// Queries returns the cells accessed through this accessor so far.
func (p *VirtualCells[F]) Queries() []Query[F] {
	return p.queries
}

func (p *VirtualCells[F]) query(col Column, rotation int) Expr[F] {
	q := Query[F]{col, rotation}
	p.queries = append(p.queries, q)
	//
	return &q
}
