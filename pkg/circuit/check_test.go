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
	"testing"

	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/consensys/go-etable/pkg/util/field/bn254"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = bn254.Element

// builds a tiny circuit: a selector gated boolean column, a lookup of a value
// column into a table and a range check on the value column.
func newTestCircuit() (*ConstraintSystem[F], Column, Column, Column, Column) {
	var (
		cs    = NewConstraintSystem[F]()
		sel   = cs.FixedColumn("sel")
		table = cs.FixedColumn("table")
		bit   = cs.AdviceColumn("bit")
		val   = cs.AdviceColumn("val")
	)
	//
	cs.CreateGate("bit is boolean", func(meta *VirtualCells[F]) []Expr[F] {
		b := meta.QueryAdvice(bit, 0)
		return []Expr[F]{Mul(meta.QueryFixed(sel, 0), b, OneMinus(b))}
	})
	// val[+1] = val + bit
	cs.CreateGate("accumulate", func(meta *VirtualCells[F]) []Expr[F] {
		next := meta.QueryAdvice(val, 1)
		curr := meta.QueryAdvice(val, 0)
		return []Expr[F]{Mul(meta.QueryFixed(sel, 0), Sub(next, Add(curr, meta.QueryAdvice(bit, 0))))}
	})
	cs.Lookup("val in table", table, func(meta *VirtualCells[F]) Expr[F] {
		return meta.QueryAdvice(val, 0)
	})
	cs.RangeCheck("val is u2", 2, func(meta *VirtualCells[F]) Expr[F] {
		return meta.QueryAdvice(val, 0)
	})
	//
	return cs, sel, table, bit, val
}

func fill(t *testing.T, asg *Assignment[F], col Column, values ...uint64) {
	for i, v := range values {
		require.NoError(t, asg.Assign(col, i, field.Uint64[F](v)))
	}
}

func Test_Check_Valid(t *testing.T) {
	cs, sel, table, bit, val := newTestCircuit()
	asg := NewAssignment(cs, 4)
	//
	fill(t, asg, sel, 1, 1, 1, 0)
	fill(t, asg, table, 1, 2, 3, 0)
	fill(t, asg, bit, 1, 0, 1, 0)
	fill(t, asg, val, 0, 1, 1, 2)
	//
	assert.Empty(t, Check(cs, asg))
}

func Test_Check_Gate_Failure(t *testing.T) {
	cs, sel, table, bit, val := newTestCircuit()
	asg := NewAssignment(cs, 4)
	//
	fill(t, asg, sel, 1, 1, 1, 0)
	fill(t, asg, table, 1, 2, 3, 0)
	fill(t, asg, bit, 2, 0, 0, 0)
	fill(t, asg, val, 0, 2, 2, 2)
	//
	failures := Check(cs, asg)
	require.Len(t, failures, 1)
	assert.Equal(t, "gate \"bit is boolean\" does not hold (constraint 0, row 0)", failures[0].Message())
}

func Test_Check_Lookup_And_Range_Failure(t *testing.T) {
	cs, _, table, _, val := newTestCircuit()
	asg := NewAssignment(cs, 4)
	//
	fill(t, asg, table, 1, 2, 0, 0)
	fill(t, asg, val, 0, 0, 0, 5)
	//
	failures := Check(cs, asg)
	require.Len(t, failures, 2)
	//
	var lookup *LookupFailure
	//
	require.ErrorAs(t, failures[0], &lookup)
	assert.Equal(t, uint(3), lookup.Row)
	//
	var rng *RangeFailure
	//
	require.ErrorAs(t, failures[1], &rng)
	assert.Equal(t, "5", rng.Value)
}

func Test_Assign_Out_Of_Bounds(t *testing.T) {
	cs, _, _, bit, _ := newTestCircuit()
	asg := NewAssignment(cs, 2)
	//
	assert.ErrorIs(t, asg.Assign(bit, 2, field.One[F]()), ErrOutOfBounds)
	assert.ErrorIs(t, asg.Assign(bit, -1, field.One[F]()), ErrOutOfBounds)
	assert.ErrorIs(t, asg.Assign(Column{ADVICE_COLUMN, 99}, 0, field.One[F]()), ErrOutOfBounds)
	//
	_, ok := asg.Get(bit, 5)
	assert.False(t, ok)
}

func Test_Expr_Degree_And_Queries(t *testing.T) {
	var (
		meta VirtualCells[F]
		a    = Column{ADVICE_COLUMN, 0}
		s    = Column{FIXED_COLUMN, 0}
	)
	//
	x := meta.QueryAdvice(a, 0)
	y := meta.QueryAdvice(a, 1)
	e := Mul(meta.QueryFixed(s, 0), Sub(Mul(x, y), ConstUint64[F](3)))
	//
	assert.Equal(t, uint(3), e.Degree())
	assert.Len(t, e.Queries(nil), 3)
	assert.Len(t, meta.Queries(), 3)
	assert.Panics(t, func() { meta.QueryFixed(a, 0) })
	assert.Equal(t, "advice#0[+1]", y.String())
}
