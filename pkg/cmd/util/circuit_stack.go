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
package cmd

import (
	"github.com/consensys/go-etable/pkg/circuit"
	"github.com/consensys/go-etable/pkg/etable"
	"github.com/consensys/go-etable/pkg/etable/op"
	"github.com/consensys/go-etable/pkg/util"
	"github.com/consensys/go-etable/pkg/util/field"
)

// CircuitStack bundles together everything needed to check a trace against an
// event table: the constraint system, the external tables standing in for the
// instruction, jump and memory tables, and the event table itself.
type CircuitStack[F field.Element[F]] struct {
	cs     *circuit.ConstraintSystem[F]
	tables etable.ExternalTables
	config *etable.EventTableConfig[F]
}

// NewCircuitStack configures an event table with a given layout hosting every
// available opcode plugin.
func NewCircuitStack[F field.Element[F]](layout etable.Layout) (*CircuitStack[F], error) {
	return NewCircuitStackWith(layout, op.Builders[F]())
}

// NewCircuitStackWith configures an event table with a given layout hosting a
// given set of opcode plugins.
func NewCircuitStackWith[F field.Element[F]](layout etable.Layout,
	builders []etable.OpcodeConfigBuilder[F]) (*CircuitStack[F], error) {
	var (
		cs     = circuit.NewConstraintSystem[F]()
		tables = etable.DeclareExternalTables(cs)
	)
	//
	config, err := etable.Configure(cs, layout, tables, builders)
	if err != nil {
		return nil, err
	}
	//
	return &CircuitStack[F]{cs, tables, config}, nil
}

// ConstraintSystem returns the constraint system of this stack.
func (p *CircuitStack[F]) ConstraintSystem() *circuit.ConstraintSystem[F] {
	return p.cs
}

// Config returns the event table of this stack.
func (p *CircuitStack[F]) Config() *etable.EventTableConfig[F] {
	return p.config
}

// Assign constructs the witness for a given trace, followed by a given number
// of additional padding steps.
func (p *CircuitStack[F]) Assign(entries []etable.EventTableEntry, padding uint,
	parallelism uint) (*circuit.Assignment[F], error) {
	var (
		stepSize = p.config.Common().Layout.StepSize
		height   = p.config.RequiredHeight(uint(len(entries))) + padding*stepSize
		asg      = circuit.NewAssignment(p.cs, height)
	)
	//
	if err := etable.FillExternalTables(asg, p.tables, entries); err != nil {
		return nil, err
	} else if err := p.config.Assign(asg, entries, etable.AssignOptions{Parallelism: parallelism}); err != nil {
		return nil, err
	}
	// Success
	return asg, nil
}

// Check assigns the witness for a given trace, and then checks it against
// every constraint.  An error is returned only when the witness cannot be
// assigned.
func (p *CircuitStack[F]) Check(entries []etable.EventTableEntry, padding uint,
	parallelism uint) ([]circuit.Failure, error) {
	asg, err := p.Assign(entries, padding, parallelism)
	if err != nil {
		return nil, err
	}
	//
	stats := util.NewPerfStats()
	failures := circuit.Check(p.cs, asg)
	stats.Log("Checking constraints")
	//
	return failures, nil
}
