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
package field_test

import (
	"math/big"
	"testing"

	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/consensys/go-etable/pkg/util/field/bls12_377"
	"github.com/consensys/go-etable/pkg/util/field/bn254"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// make sure the interface is adhered to.
	_ = field.Element[bn254.Element](bn254.Element{})
	_ = field.Element[bls12_377.Element](bls12_377.Element{})
}

func Test_Element_BN254(t *testing.T) {
	checkElement[bn254.Element](t)
}

func Test_Element_BLS12_377(t *testing.T) {
	checkElement[bls12_377.Element](t)
}

func checkElement[F field.Element[F]](t *testing.T) {
	t.Run("zero and one", func(t *testing.T) {
		assert.True(t, field.Zero[F]().IsZero())
		assert.True(t, field.One[F]().IsOne())
		assert.False(t, field.One[F]().IsZero())
	})
	//
	t.Run("two pow n", func(t *testing.T) {
		for _, n := range []uint{0, 1, 4, 63, 64, 96, 160} {
			expected := new(big.Int).Lsh(big.NewInt(1), n)
			assert.Equal(t, 0, expected.Cmp(field.TwoPowN[F](n).ToBigInt()), "2^%d", n)
		}
	})
	//
	t.Run("pow", func(t *testing.T) {
		three := field.Uint64[F](3)
		assert.Equal(t, uint64(243), field.Pow(three, 5).ToBigInt().Uint64())
		assert.True(t, field.Pow(three, 0).IsOne())
	})
	//
	t.Run("negation", func(t *testing.T) {
		five := field.Uint64[F](5)
		assert.True(t, five.Add(field.Neg(five)).IsZero())
		// -1 is p-1
		minusOne := field.Neg(field.One[F]())
		expected := new(big.Int).Sub(minusOne.Modulus(), big.NewInt(1))
		assert.Equal(t, 0, expected.Cmp(minusOne.ToBigInt()))
	})
	//
	t.Run("big int", func(t *testing.T) {
		val, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
		require.True(t, ok)
		assert.Equal(t, 0, val.Cmp(field.BigInt[F](val).ToBigInt()))
		assert.Panics(t, func() { field.BigInt[F](big.NewInt(-1)) })
	})
	//
	t.Run("inverse", func(t *testing.T) {
		seven := field.Uint64[F](7)
		assert.True(t, seven.Mul(seven.Inverse()).IsOne())
		assert.True(t, field.Zero[F]().Inverse().IsZero())
	})
}

func Test_GetConfig(t *testing.T) {
	assert.Equal(t, &field.FIELD_CONFIGS[0], field.GetConfig("bn254"))
	assert.Equal(t, &field.FIELD_CONFIGS[1], field.GetConfig("bls12-377"))
	assert.Equal(t, &field.FIELD_CONFIGS[1], field.GetConfig("BLS12_377"))
	assert.Nil(t, field.GetConfig("goldilocks"))
}
