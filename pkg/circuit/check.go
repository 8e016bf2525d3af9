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

// Failure describes a constraint which does not hold for a given assignment.
type Failure interface {
	error
	// Message provides a suitable error message
	Message() string
}

// GateFailure reports a gate polynomial which does not vanish on some row.
type GateFailure struct {
	// Handle of the failing gate
	Handle string
	// Index of the failing polynomial within the gate
	Index uint
	// Row on which the gate failed
	Row uint
}

// Message provides a suitable error message
func (p *GateFailure) Message() string {
	return fmt.Sprintf("gate \"%s\" does not hold (constraint %d, row %d)", p.Handle, p.Index, p.Row)
}

func (p *GateFailure) Error() string {
	return p.Message()
}

// LookupFailure reports a lookup input whose value was not found in the table.
type LookupFailure struct {
	// Handle of the failing lookup
	Handle string
	// Row on which the lookup failed
	Row uint
	// Value which was missing
	Value string
}

// Message provides a suitable error message
func (p *LookupFailure) Message() string {
	return fmt.Sprintf("lookup \"%s\" failed (row %d, value %s)", p.Handle, p.Row, p.Value)
}

func (p *LookupFailure) Error() string {
	return p.Message()
}

// RangeFailure reports a value which lies outside its permitted range.
type RangeFailure struct {
	// Handle of the failing range check
	Handle string
	// Row on which the range check failed
	Row uint
	// Bitwidth of the range
	Bitwidth uint
	// Value which was out of range
	Value string
}

// Message provides a suitable error message
func (p *RangeFailure) Message() string {
	return fmt.Sprintf("value out-of-bounds (range \"%s\", u%d, row %d, value %s)", p.Handle, p.Bitwidth, p.Row, p.Value)
}

func (p *RangeFailure) Error() string {
	return p.Message()
}

// Check determines whether every gate, lookup and range check of a constraint
// system holds for a given assignment.  Rows on which a constraint is undefined
// (i.e. because it accesses cells outside the assignment) are ignored.
func Check[F field.Element[F]](cs *ConstraintSystem[F], asg *Assignment[F]) []Failure {
	var failures []Failure
	//
	for _, g := range cs.Gates() {
		failures = append(failures, checkGate(g, asg)...)
	}
	//
	for _, l := range cs.Lookups() {
		failures = append(failures, checkLookup(l, asg)...)
	}
	//
	for _, r := range cs.RangeChecks() {
		failures = append(failures, checkRange(r, asg)...)
	}
	//
	return failures
}

func checkGate[F field.Element[F]](gate Gate[F], asg *Assignment[F]) []Failure {
	var failures []Failure
	//
	for row := 0; row < int(asg.Height()); row++ {
		for i, poly := range gate.Polys {
			val, ok := poly.EvalAt(row, asg)
			// Undefined constraints are assumed to hold.
			if ok && !val.IsZero() {
				failures = append(failures, &GateFailure{gate.Handle, uint(i), uint(row)})
			}
		}
	}
	//
	return failures
}

func checkLookup[F field.Element[F]](lookup Lookup[F], asg *Assignment[F]) []Failure {
	var (
		failures []Failure
		table    = make(map[string]struct{})
	)
	// Construct the table
	for _, val := range asg.Column(lookup.Table) {
		table[val.Text(16)] = struct{}{}
	}
	//
	for row := 0; row < int(asg.Height()); row++ {
		val, ok := lookup.Input.EvalAt(row, asg)
		//
		if !ok || val.IsZero() {
			continue
		} else if _, found := table[val.Text(16)]; !found {
			failures = append(failures, &LookupFailure{lookup.Handle, uint(row), val.Text(16)})
		}
	}
	//
	return failures
}

func checkRange[F field.Element[F]](check RangeCheck[F], asg *Assignment[F]) []Failure {
	var failures []Failure
	//
	for row := 0; row < int(asg.Height()); row++ {
		val, ok := check.Input.EvalAt(row, asg)
		//
		if ok && uint(val.ToBigInt().BitLen()) > check.Bitwidth {
			failures = append(failures, &RangeFailure{check.Handle, uint(row), check.Bitwidth, val.Text(10)})
		}
	}
	//
	return failures
}
