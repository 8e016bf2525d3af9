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

// Bit offsets at which the fields of an encoded opcode are packed.  Every
// opcode places its class above OPCODE_CLASS_SHIFT, leaving the lower bits for
// arguments.
const OPCODE_CLASS_SHIFT = 96

// ENCODING_BITS is the width of the widest encoding (a memory table entry).
// Any field used for an event table must represent such values without
// wrapping.
const ENCODING_BITS = 176

var (
	// CONST_OPCODE_SHIFTS packs (class, vtype, value).
	CONST_OPCODE_SHIFTS = []uint{OPCODE_CLASS_SHIFT, 64, 0}
	// LOCAL_GET_OPCODE_SHIFTS packs (class, vtype, depth).
	LOCAL_GET_OPCODE_SHIFTS = []uint{OPCODE_CLASS_SHIFT, 64, 0}
	// RETURN_OPCODE_SHIFTS packs (class, drop, keep, vtype).
	RETURN_OPCODE_SHIFTS = []uint{OPCODE_CLASS_SHIFT, 64, 32, 0}
	// PLAIN_OPCODE_SHIFTS packs (class) for opcodes without arguments.
	PLAIN_OPCODE_SHIFTS = []uint{OPCODE_CLASS_SHIFT}
	// ITABLE_SHIFTS packs (moid, fid, iid, opcode).
	ITABLE_SHIFTS = []uint{160, 144, 128, 0}
	// JTABLE_SHIFTS packs (eid, last_jump_eid, moid, fid, iid).
	JTABLE_SHIFTS = []uint{96, 64, 32, 16, 0}
	// MTABLE_SHIFTS packs (eid, emid, mmid, offset, ltype, atype, vtype, value).
	MTABLE_SHIFTS = []uint{160, 144, 128, 96, 80, 72, 64, 0}
)

// Pack combines a sequence of values by shifting each to its given offset and
// summing the results.  Values are expected to fit between their offset and
// that of the preceding field.
func Pack(shifts []uint, vals ...*big.Int) *big.Int {
	var (
		acc = big.NewInt(0)
		tmp big.Int
	)
	//
	if len(shifts) != len(vals) {
		panic("mismatched number of fields")
	}
	//
	for i, val := range vals {
		tmp.Lsh(val, shifts[i])
		acc.Add(acc, &tmp)
	}
	//
	return acc
}

// PackUint64 is a convenience wrapper around Pack for small values.
func PackUint64(shifts []uint, vals ...uint64) *big.Int {
	args := make([]*big.Int, len(vals))
	//
	for i, val := range vals {
		args[i] = new(big.Int).SetUint64(val)
	}
	//
	return Pack(shifts, args...)
}

// PackExpr constructs the expression corresponding to Pack over a sequence of
// expressions.
func PackExpr[F field.Element[F]](shifts []uint, args ...circuit.Expr[F]) circuit.Expr[F] {
	terms := make([]circuit.Expr[F], len(args))
	//
	if len(shifts) != len(args) {
		panic("mismatched number of fields")
	}
	//
	for i, arg := range args {
		if shifts[i] == 0 {
			terms[i] = arg
		} else {
			terms[i] = circuit.Scale(arg, field.TwoPowN[F](shifts[i]))
		}
	}
	//
	return circuit.Add(terms...)
}

// ClassExpr returns the constant expression for an opcode class.
func ClassExpr[F field.Element[F]](class OpcodeClass) circuit.Expr[F] {
	return circuit.ConstUint64[F](uint64(class))
}
