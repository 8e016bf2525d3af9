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
	"fmt"
	"math/big"
)

// VarType identifies the type of a value held on the stack or in memory.
type VarType uint8

const (
	// VAR_I32 identifies 32bit integer values.
	VAR_I32 VarType = 1
	// VAR_I64 identifies 64bit integer values.
	VAR_I64 VarType = 2
)

// ParseVarType parses the name of a variable type.
func ParseVarType(name string) (VarType, bool) {
	switch name {
	case "i32":
		return VAR_I32, true
	case "i64":
		return VAR_I64, true
	default:
		return 0, false
	}
}

// Fits checks whether a given value fits within this type.
func (p VarType) Fits(val uint64) bool {
	switch p {
	case VAR_I32:
		return val <= 0xffffffff
	case VAR_I64:
		return true
	default:
		return false
	}
}

func (p VarType) String() string {
	switch p {
	case VAR_I32:
		return "i32"
	case VAR_I64:
		return "i64"
	default:
		return fmt.Sprintf("vtype(%d)", uint8(p))
	}
}

// LocationType identifies the region of memory accessed by a memory operation.
type LocationType uint8

const (
	// LOCATION_STACK identifies the evaluation stack.
	LOCATION_STACK LocationType = 1
	// LOCATION_HEAP identifies linear memory.
	LOCATION_HEAP LocationType = 2
	// LOCATION_GLOBAL identifies global variables.
	LOCATION_GLOBAL LocationType = 3
)

// AccessType identifies the kind of a memory operation.
type AccessType uint8

const (
	// ACCESS_READ identifies a read.
	ACCESS_READ AccessType = 1
	// ACCESS_WRITE identifies a write.
	ACCESS_WRITE AccessType = 2
	// ACCESS_INIT identifies an initialisation.
	ACCESS_INIT AccessType = 3
)

// Opcode describes a single instruction along with its immediate arguments.
// Which arguments are meaningful depends upon the class.
type Opcode struct {
	Class OpcodeClass
	VType VarType
	// Immediate value (const).
	Value uint64
	// Stack depth (local_get).
	Depth uint64
	// Number of values dropped (return).
	Drop uint64
	// Number of values kept (return).
	Keep uint64
}

// Encode returns the encoding of this opcode, as held in the instruction table.
func (p Opcode) Encode() *big.Int {
	class := uint64(p.Class)
	//
	switch p.Class {
	case CLASS_CONST:
		return PackUint64(CONST_OPCODE_SHIFTS, class, uint64(p.VType), p.Value)
	case CLASS_LOCAL_GET:
		return PackUint64(LOCAL_GET_OPCODE_SHIFTS, class, uint64(p.VType), p.Depth)
	case CLASS_RETURN:
		return PackUint64(RETURN_OPCODE_SHIFTS, class, p.Drop, p.Keep, uint64(p.VType))
	default:
		return PackUint64(PLAIN_OPCODE_SHIFTS, class)
	}
}

func (p Opcode) String() string {
	switch p.Class {
	case CLASS_CONST:
		return fmt.Sprintf("%s.const %d", p.VType, p.Value)
	case CLASS_LOCAL_GET:
		return fmt.Sprintf("local.get %d", p.Depth)
	case CLASS_RETURN:
		return fmt.Sprintf("return drop=%d keep=%d", p.Drop, p.Keep)
	default:
		return p.Class.String()
	}
}
