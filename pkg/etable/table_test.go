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
package etable_test

import (
	"errors"
	"testing"

	"github.com/consensys/go-etable/pkg/circuit"
	"github.com/consensys/go-etable/pkg/etable"
	"github.com/consensys/go-etable/pkg/etable/op"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/consensys/go-etable/pkg/util/field/bn254"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = bn254.Element

// testTable bundles an event table with the constraint system it lives in.
type testTable struct {
	cs     *circuit.ConstraintSystem[F]
	tables etable.ExternalTables
	config *etable.EventTableConfig[F]
}

func newTestTable(t *testing.T, builders ...etable.OpcodeConfigBuilder[F]) *testTable {
	var (
		cs     = circuit.NewConstraintSystem[F]()
		tables = etable.DeclareExternalTables(cs)
	)
	//
	if len(builders) == 0 {
		builders = op.Builders[F]()
	}
	//
	config, err := etable.Configure(cs, etable.DefaultLayout(), tables, builders)
	require.NoError(t, err)
	//
	return &testTable{cs, tables, config}
}

func (p *testTable) assign(t *testing.T, entries []etable.EventTableEntry, parallelism uint) *circuit.Assignment[F] {
	asg := circuit.NewAssignment(p.cs, p.config.RequiredHeight(uint(len(entries))))
	//
	require.NoError(t, etable.FillExternalTables(asg, p.tables, entries))
	require.NoError(t, p.config.Assign(asg, entries, etable.AssignOptions{Parallelism: parallelism}))
	//
	return asg
}

// callReturnTrace pushes a constant, copies it, drops it, and then returns a
// 64bit constant to the caller.
func callReturnTrace() []etable.EventTableEntry {
	var (
		frame = etable.JumpTableEntry{Eid: 5, LastJumpEid: 1, Moid: 0, Fid: 1, Iid: 7}
		inst  = func(iid uint64, opcode etable.Opcode) etable.Instruction {
			return etable.Instruction{Moid: 0, Mmid: 0, Fid: 2, Iid: iid, Opcode: opcode}
		}
	)
	//
	return []etable.EventTableEntry{
		{Eid: 10, Sp: 100, LastJumpEid: 5,
			Inst: inst(0, etable.Opcode{Class: etable.CLASS_CONST, VType: etable.VAR_I32, Value: 7}),
			Step: etable.ConstStep{VType: etable.VAR_I32, Value: 7}},
		{Eid: 11, Sp: 99, LastJumpEid: 5,
			Inst: inst(1, etable.Opcode{Class: etable.CLASS_LOCAL_GET, VType: etable.VAR_I32, Depth: 1}),
			Step: etable.LocalGetStep{VType: etable.VAR_I32, Depth: 1, Value: 7}},
		{Eid: 12, Sp: 98, LastJumpEid: 5,
			Inst: inst(2, etable.Opcode{Class: etable.CLASS_DROP}),
			Step: etable.DropStep{}},
		{Eid: 13, Sp: 99, LastJumpEid: 5,
			Inst: inst(3, etable.Opcode{Class: etable.CLASS_CONST, VType: etable.VAR_I64, Value: 1 << 32}),
			Step: etable.ConstStep{VType: etable.VAR_I64, Value: 1 << 32}},
		{Eid: 14, Sp: 98, LastJumpEid: 5,
			Inst: inst(4, etable.Opcode{Class: etable.CLASS_RETURN, VType: etable.VAR_I64, Drop: 1, Keep: 1}),
			Step: etable.ReturnStep{Drop: 1, Keep: 1, VType: etable.VAR_I64, KeepValue: 1 << 32, Frame: frame}},
		{Eid: 15, Sp: 99, LastJumpEid: 1,
			Inst: etable.Instruction{Fid: 1, Iid: 7, Opcode: etable.Opcode{Class: etable.CLASS_DROP}},
			Step: etable.DropStep{}},
	}
}

func Test_EventTable_Accepts_Trace(t *testing.T) {
	var (
		table = newTestTable(t)
		asg   = table.assign(t, callReturnTrace(), 0)
	)
	//
	for _, failure := range circuit.Check(table.cs, asg) {
		t.Error(failure.Message())
	}
}

func Test_EventTable_Registration_Order(t *testing.T) {
	table := newTestTable(t)
	//
	assert.Equal(t, []etable.OpcodeClass{etable.CLASS_LOCAL_GET, etable.CLASS_CONST, etable.CLASS_DROP,
		etable.CLASS_RETURN}, table.config.Classes())
	//
	usage, ok := table.config.Usage(etable.CLASS_RETURN)
	require.True(t, ok)
	assert.Equal(t, etable.Usage{Bits: 2, CommonRange: 5, U64: 1, MTableLookup: 2}, usage)
	//
	usage, ok = table.config.Usage(etable.CLASS_DROP)
	require.True(t, ok)
	assert.Equal(t, etable.Usage{}, usage)
	//
	_, ok = table.config.Usage(etable.CLASS_CALL)
	assert.False(t, ok)
}

func Test_EventTable_Rejects_Tampered_Sp(t *testing.T) {
	var (
		table  = newTestTable(t)
		asg    = table.assign(t, callReturnTrace(), 0)
		common = table.config.Common()
		row    = int(common.Layout.StepSize) + common.Sp().Rot
	)
	// Corrupt the stack pointer of the second step.
	require.NoError(t, asg.Assign(common.Sp().Col, row, field.Uint64[F](1234)))
	//
	failures := circuit.Check(table.cs, asg)
	require.NotEmpty(t, failures)
	assert.True(t, hasGateFailure(failures, "etable.sp.next"))
}

func Test_EventTable_Rejects_Tampered_Opcode_Bit(t *testing.T) {
	var (
		table  = newTestTable(t)
		asg    = table.assign(t, callReturnTrace(), 0)
		common = table.config.Common()
	)
	// Select a second opcode on the first step.
	require.NoError(t, asg.Assign(common.OpcodeBits, 0, field.One[F]()))
	//
	assert.True(t, hasGateFailure(circuit.Check(table.cs, asg), "etable.opcode_bits.one_hot"))
}

func Test_EventTable_Rejects_LocalGet_Depth_Zero(t *testing.T) {
	var (
		table  = newTestTable(t)
		asg    = table.assign(t, callReturnTrace(), 0)
		common = table.config.Common()
		// Second step is the local_get, whose depth and depth-1 cells are the
		// first two of the common range zone.
		depth  = int(common.Layout.StepSize + common.Layout.CommonRangeStart)
		offset = depth + 1
	)
	// Depth zero on its own breaks the relation between the two cells.
	require.NoError(t, asg.Assign(common.AuxInCommon, depth, field.Zero[F]()))
	assert.True(t, hasGateFailure(circuit.Check(table.cs, asg), "local_get"))
	// Restoring the relation forces depth-1 out of range.
	require.NoError(t, asg.Assign(common.AuxInCommon, offset, field.Neg(field.One[F]())))
	//
	failures := circuit.Check(table.cs, asg)
	assert.True(t, hasRangeFailure(failures, "etable.aux_in_common.range"))
}

func Test_EventTable_Assign_Idempotent(t *testing.T) {
	var (
		table   = newTestTable(t)
		entries = callReturnTrace()
		once    = table.assign(t, entries, 0)
		twice   = table.assign(t, entries, 0)
	)
	//
	require.NoError(t, table.config.Assign(twice, entries, etable.AssignOptions{}))
	//
	for i := uint(0); i < table.cs.NumAdviceColumns(); i++ {
		col := circuit.Column{Kind: circuit.ADVICE_COLUMN, Index: i}
		assert.Equal(t, once.Column(col), twice.Column(col), table.cs.ColumnName(col))
	}
}

func Test_EventTable_Parallel_Matches_Sequential(t *testing.T) {
	var (
		table      = newTestTable(t)
		entries    = callReturnTrace()
		sequential = table.assign(t, entries, 0)
		parallel   = table.assign(t, entries, 4)
	)
	//
	for i := uint(0); i < table.cs.NumAdviceColumns(); i++ {
		col := circuit.Column{Kind: circuit.ADVICE_COLUMN, Index: i}
		assert.Equal(t, sequential.Column(col), parallel.Column(col), table.cs.ColumnName(col))
	}
}

func Test_EventTable_Unknown_Class(t *testing.T) {
	var (
		table   = newTestTable(t, &op.ConstConfigBuilder[F]{})
		entries = callReturnTrace()[:3]
		asg     = circuit.NewAssignment(table.cs, table.config.RequiredHeight(3))
	)
	//
	err := table.config.Assign(asg, entries, etable.AssignOptions{Parallelism: 2})
	assert.ErrorIs(t, err, etable.ErrUnknownOpcodeClass)
}

func Test_EventTable_Trace_Too_Long(t *testing.T) {
	var (
		table   = newTestTable(t)
		entries = callReturnTrace()
		asg     = circuit.NewAssignment(table.cs, uint(len(entries))*table.config.Common().Layout.StepSize)
	)
	//
	err := table.config.Assign(asg, entries, etable.AssignOptions{})
	assert.ErrorIs(t, err, etable.ErrTraceTooLong)
}

func Test_EventTable_Assignment_Mismatch(t *testing.T) {
	var (
		table   = newTestTable(t)
		entries = callReturnTrace()
		asg     = circuit.NewAssignment(table.cs, table.config.RequiredHeight(uint(len(entries))))
		actual  *etable.AssignmentMismatch
	)
	// Instruction claims a different class from its step.
	entries[2].Inst.Opcode.Class = etable.CLASS_CONST
	//
	err := table.config.Assign(asg, entries, etable.AssignOptions{})
	require.ErrorIs(t, err, etable.ErrAssignmentMismatch)
	require.True(t, errors.As(err, &actual))
	assert.Equal(t, uint64(12), actual.Eid)
}

func Test_EventTable_Duplicate_Class(t *testing.T) {
	var (
		cs       = circuit.NewConstraintSystem[F]()
		builders = []etable.OpcodeConfigBuilder[F]{&op.DropConfigBuilder[F]{}, &op.DropConfigBuilder[F]{}}
	)
	//
	_, err := etable.Configure(cs, etable.DefaultLayout(), etable.DeclareExternalTables(cs), builders)
	assert.ErrorIs(t, err, etable.ErrDuplicateOpcodeClass)
}

func Test_EventTable_Class_Mismatch(t *testing.T) {
	var (
		cs       = circuit.NewConstraintSystem[F]()
		builders = []etable.OpcodeConfigBuilder[F]{&fakeBuilder{class: etable.CLASS_SELECT}}
	)
	//
	_, err := etable.Configure(cs, etable.DefaultLayout(), etable.DeclareExternalTables(cs), builders)
	assert.ErrorIs(t, err, etable.ErrOpcodeClassMismatch)
}

func Test_EventTable_Capacity_Exceeded(t *testing.T) {
	var (
		cs       = circuit.NewConstraintSystem[F]()
		layout   = etable.DefaultLayout()
		builders = []etable.OpcodeConfigBuilder[F]{&fakeBuilder{class: etable.CLASS_DROP, u64s: layout.U4Columns + 1}}
		cerr     *etable.CapacityError
	)
	//
	_, err := etable.Configure(cs, layout, etable.DeclareExternalTables(cs), builders)
	require.ErrorIs(t, err, etable.ErrCapacityExceeded)
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, etable.U64_CELL, cerr.Kind)
}

func Test_EventTable_Too_Many_Classes(t *testing.T) {
	var (
		cs       = circuit.NewConstraintSystem[F]()
		layout   = etable.DefaultLayout()
		builders []etable.OpcodeConfigBuilder[F]
	)
	//
	for i := uint(0); i <= layout.StepSize; i++ {
		builders = append(builders, &fakeBuilder{class: etable.CLASS_DROP})
	}
	//
	_, err := etable.Configure(cs, layout, etable.DeclareExternalTables(cs), builders)
	assert.ErrorIs(t, err, etable.ErrCapacityExceeded)
}

func hasGateFailure(failures []circuit.Failure, handle string) bool {
	for _, failure := range failures {
		if gate, ok := failure.(*circuit.GateFailure); ok && gate.Handle == handle {
			return true
		}
	}
	//
	return false
}

func hasRangeFailure(failures []circuit.Failure, handle string) bool {
	for _, failure := range failures {
		if check, ok := failure.(*circuit.RangeFailure); ok && check.Handle == handle {
			return true
		}
	}
	//
	return false
}

// fakeBuilder allocates a given number of u64 cells, and then reuses the drop
// plugin at runtime.
type fakeBuilder struct {
	class etable.OpcodeClass
	u64s  uint
}

func (p *fakeBuilder) Class() etable.OpcodeClass {
	return p.class
}

func (p *fakeBuilder) Configure(cs *circuit.ConstraintSystem[F], alloc *etable.CellAllocator,
	enable etable.EnableFunc[F]) (etable.OpcodeConfig[F], error) {
	for i := uint(0); i < p.u64s; i++ {
		if _, err := alloc.AllocU64(); err != nil {
			return nil, err
		}
	}
	//
	return &op.DropConfig[F]{}, nil
}
