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

// DeclareExternalTables declares fixed columns standing in for the instruction,
// jump and memory tables.  This allows a trace to be checked without the
// circuits which actually implement those tables.
func DeclareExternalTables[F field.Element[F]](cs *circuit.ConstraintSystem[F]) ExternalTables {
	return ExternalTables{
		ITable: cs.FixedColumn("itable"),
		JTable: cs.FixedColumn("jtable"),
		MTable: cs.FixedColumn("mtable"),
	}
}

// FillExternalTables writes the contents of the instruction, jump and memory
// tables implied by a given trace.  Duplicate entries are written once.
func FillExternalTables[F field.Element[F]](asg *circuit.Assignment[F], tables ExternalTables,
	entries []EventTableEntry) error {
	var itable, jtable, mtable []*big.Int
	//
	for i := range entries {
		entry := &entries[i]
		itable = append(itable, entry.Inst.Encode())
		//
		if step, ok := entry.Step.(ReturnStep); ok {
			jtable = append(jtable, step.Frame.Encode())
		}
		//
		for _, m := range entry.MemoryTableEntries() {
			mtable = append(mtable, m.Encode())
		}
	}
	//
	if err := fillTable(asg, tables.ITable, itable); err != nil {
		return err
	} else if err := fillTable(asg, tables.JTable, jtable); err != nil {
		return err
	}
	//
	return fillTable(asg, tables.MTable, mtable)
}

func fillTable[F field.Element[F]](asg *circuit.Assignment[F], col circuit.Column, values []*big.Int) error {
	var (
		seen = make(map[string]bool)
		row  = 0
	)
	//
	for _, val := range values {
		key := val.Text(16)
		//
		if seen[key] {
			continue
		}
		//
		seen[key] = true
		//
		if err := asg.Assign(col, row, field.BigInt[F](val)); err != nil {
			return err
		}
		//
		row++
	}
	// Done
	return nil
}
