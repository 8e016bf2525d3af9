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
)

// Instruction identifies an instruction within a module, along with its opcode.
type Instruction struct {
	// Module identifier.
	Moid uint64
	// Memory instance identifier of the module.
	Mmid uint64
	// Function identifier.
	Fid uint64
	// Instruction identifier (within its function).
	Iid uint64
	// Opcode executed.
	Opcode Opcode
}

// Encode returns the encoding of this instruction, as held in the instruction
// table.
func (p Instruction) Encode() *big.Int {
	return Pack(ITABLE_SHIFTS, new(big.Int).SetUint64(p.Moid), new(big.Int).SetUint64(p.Fid),
		new(big.Int).SetUint64(p.Iid), p.Opcode.Encode())
}

// JumpTableEntry records a call frame, as held in the jump table.  A return
// step restores the frame recorded by the call it returns from.
type JumpTableEntry struct {
	// Event identifier of the call which created this frame.
	Eid uint64
	// Last jump eid at the point of the call (i.e. of the enclosing frame).
	LastJumpEid uint64
	// Module identifier to return to.
	Moid uint64
	// Function identifier to return to.
	Fid uint64
	// Instruction identifier to return to.
	Iid uint64
}

// Encode returns the encoding of this frame, as held in the jump table.
func (p JumpTableEntry) Encode() *big.Int {
	return PackUint64(JTABLE_SHIFTS, p.Eid, p.LastJumpEid, p.Moid, p.Fid, p.Iid)
}

// MemoryTableEntry records a single memory operation, as held in the memory
// table.
type MemoryTableEntry struct {
	// Event identifier of the step making this operation.
	Eid uint64
	// Index (from 1) of this operation within its step.
	Emid uint64
	// Memory instance identifier.
	Mmid uint64
	// Address accessed.
	Offset uint64
	// Region accessed.
	LType LocationType
	// Kind of access.
	AType AccessType
	// Type of the value accessed.
	VType VarType
	// Value read or written.
	Value uint64
}

// Encode returns the encoding of this operation, as held in the memory table.
func (p MemoryTableEntry) Encode() *big.Int {
	return PackUint64(MTABLE_SHIFTS, p.Eid, p.Emid, p.Mmid, p.Offset, uint64(p.LType), uint64(p.AType),
		uint64(p.VType), p.Value)
}

// StepInfo holds the class-specific details of an executed step.
type StepInfo interface {
	// Class returns the opcode class of the step.
	Class() OpcodeClass
}

// ConstStep records the execution of a constant push.
type ConstStep struct {
	VType VarType
	Value uint64
}

// Class implementation for StepInfo interface.
func (ConstStep) Class() OpcodeClass {
	return CLASS_CONST
}

// DropStep records the execution of a drop.
type DropStep struct{}

// Class implementation for StepInfo interface.
func (DropStep) Class() OpcodeClass {
	return CLASS_DROP
}

// LocalGetStep records the execution of a local variable read.
type LocalGetStep struct {
	VType VarType
	// Distance from the stack pointer to the local being read.
	Depth uint64
	// Value read.
	Value uint64
}

// Class implementation for StepInfo interface.
func (LocalGetStep) Class() OpcodeClass {
	return CLASS_LOCAL_GET
}

// ReturnStep records the execution of a return from a function.
type ReturnStep struct {
	// Number of values removed from the stack (below those kept).
	Drop uint64
	// Number of values kept (0 or 1).
	Keep uint64
	// Type of the kept value (if any).
	VType VarType
	// Value kept (if any).
	KeepValue uint64
	// Frame being returned to.
	Frame JumpTableEntry
}

// Class implementation for StepInfo interface.
func (ReturnStep) Class() OpcodeClass {
	return CLASS_RETURN
}

// EventTableEntry records a single executed step of a trace.
type EventTableEntry struct {
	// Event identifier (from 1).
	Eid uint64
	// Stack pointer before the step.
	Sp uint64
	// Event identifier of the innermost active call.
	LastJumpEid uint64
	// Instruction executed.
	Inst Instruction
	// Class-specific details.
	Step StepInfo
}

// Class returns the opcode class of this entry.
func (p *EventTableEntry) Class() OpcodeClass {
	if p.Step == nil {
		return CLASS_NONE
	}
	//
	return p.Step.Class()
}

// MemoryTableEntries returns the memory operations made by this entry, in
// order.  The evaluation stack grows downwards and the stack pointer always
// identifies the next free slot.
func (p *EventTableEntry) MemoryTableEntries() []MemoryTableEntry {
	var stack = func(emid uint64, offset uint64, atype AccessType, vtype VarType, val uint64) MemoryTableEntry {
		return MemoryTableEntry{p.Eid, emid, 0, offset, LOCATION_STACK, atype, vtype, val}
	}
	//
	switch step := p.Step.(type) {
	case ConstStep:
		return []MemoryTableEntry{
			stack(1, p.Sp, ACCESS_WRITE, step.VType, step.Value),
		}
	case LocalGetStep:
		return []MemoryTableEntry{
			stack(1, p.Sp+step.Depth, ACCESS_READ, step.VType, step.Value),
			stack(2, p.Sp, ACCESS_WRITE, step.VType, step.Value),
		}
	case ReturnStep:
		if step.Keep == 0 {
			return nil
		}
		//
		return []MemoryTableEntry{
			stack(1, p.Sp+1, ACCESS_READ, step.VType, step.KeepValue),
			stack(2, p.Sp+step.Drop+1, ACCESS_WRITE, step.VType, step.KeepValue),
		}
	default:
		return nil
	}
}

// Mops returns the number of memory operations made by this entry.
func (p *EventTableEntry) Mops() uint64 {
	return uint64(len(p.MemoryTableEntries()))
}
