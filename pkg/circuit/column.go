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

import "fmt"

// ColumnKind distinguishes the different kinds of physical column supported by
// the constraint system.
type ColumnKind struct {
	kind uint8
}

var (
	// ADVICE_COLUMN signals a column whose values are supplied by the prover as
	// part of the witness.
	ADVICE_COLUMN = ColumnKind{uint8(0)}
	// FIXED_COLUMN signals a column whose values are fixed when the circuit is
	// built (e.g. selectors and table contents).
	FIXED_COLUMN = ColumnKind{uint8(1)}
)

func (p ColumnKind) String() string {
	if p == ADVICE_COLUMN {
		return "advice"
	}
	//
	return "fixed"
}

// Column is an opaque reference to a physical column of the circuit.  Columns
// are comparable values: two columns are the same column iff they are equal.
type Column struct {
	// Kind of this column
	Kind ColumnKind
	// Index of this column amongst all columns of the same kind.
	Index uint
}

// IsAdvice determines whether or not this is an advice column.
func (p Column) IsAdvice() bool {
	return p.Kind == ADVICE_COLUMN
}

// IsFixed determines whether or not this is a fixed column.
func (p Column) IsFixed() bool {
	return p.Kind == FIXED_COLUMN
}

func (p Column) String() string {
	return fmt.Sprintf("%s#%d", p.Kind, p.Index)
}
