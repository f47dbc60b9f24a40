/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package numeric

import (
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/asyncquery/query"
	"github.com/suparena/asyncquery/registry"
)

// checkDescriptor exercises the contract every kind must keep over samples.
func checkDescriptor[T any](t *testing.T, d Descriptor[T]) {
	t.Run(d.Name, func(t *testing.T) {
		for i := int64(-20); i <= 20; i++ {
			v := d.FromInt(i)

			value, null := d.Codec.Encode(v)
			decoded, err := d.Codec.Decode(value, null)
			require.NoError(t, err, "decode %d", i)
			assert.True(t, d.Equal(v, decoded), "round trip of %d", i)
			assert.Equal(t, d.Hash(v), d.Hash(decoded), "hash after round trip of %d", i)

			assert.Zero(t, d.Compare(v, v))
			assert.Equal(t, d.Bucket(v), d.Bucket(decoded))
		}

		// Valid samples rise with their integer, and null sorts before all of them.
		var nulls, valid []int64
		for i := int64(-20); i <= 20; i++ {
			if _, null := d.Codec.Encode(d.FromInt(i)); null {
				nulls = append(nulls, i)
			} else {
				valid = append(valid, i)
			}
		}
		require.NotEmpty(t, valid)
		if strings.HasSuffix(d.Name, "?") {
			require.NotEmpty(t, nulls, "nullable kind without null samples")
		}
		for k := 1; k < len(valid); k++ {
			prev, cur := valid[k-1], valid[k]
			if d.Compare(d.FromInt(prev), d.FromInt(cur)) >= 0 {
				t.Errorf("FromInt(%d) does not sort before FromInt(%d)", prev, cur)
			}
		}
		for _, n := range nulls {
			for _, i := range valid {
				if d.Compare(d.FromInt(n), d.FromInt(i)) >= 0 {
					t.Errorf("null FromInt(%d) does not sort before FromInt(%d)", n, i)
				}
				if d.Compare(d.FromInt(i), d.FromInt(n)) <= 0 {
					t.Errorf("FromInt(%d) does not sort after null FromInt(%d)", i, n)
				}
			}
		}

		codec, err := registry.CodecFor[T]()
		require.NoError(t, err)
		value, null := codec.Encode(d.FromInt(3))
		got, err := codec.Decode(value, null)
		require.NoError(t, err)
		assert.True(t, d.Equal(d.FromInt(3), got))

		cmp := query.DefaultComparer[T]()
		assert.True(t, cmp.Equal(d.FromInt(4), d.FromInt(4)))
		assert.False(t, cmp.Equal(d.FromInt(4), d.FromInt(6)))
	})
}

func TestDescriptors(t *testing.T) {
	checkDescriptor(t, Int32)
	checkDescriptor(t, NullableInt32)
	checkDescriptor(t, Int64)
	checkDescriptor(t, NullableInt64)
	checkDescriptor(t, Float32)
	checkDescriptor(t, NullableFloat32)
	checkDescriptor(t, Float64)
	checkDescriptor(t, NullableFloat64)
	checkDescriptor(t, Decimal)
	checkDescriptor(t, NullableDecimal)
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	assert.Len(t, kinds, 10)
	assert.Equal(t, "int32", kinds[0])
	assert.Equal(t, "decimal?", kinds[9])

	for _, k := range kinds {
		_, ok := registry.Lookup(k)
		assert.True(t, ok, "codec %s registered", k)
	}
}

func TestNullableSemantics(t *testing.T) {
	d := NullableInt64

	assert.False(t, d.FromInt(0).Valid)
	assert.False(t, d.FromInt(-15).Valid)
	assert.True(t, d.FromInt(7).Valid)

	null := Null[int64]()
	assert.True(t, d.Equal(null, null))
	assert.False(t, d.Equal(null, Of[int64](0)))
	assert.Equal(t, -1, d.Compare(null, Of[int64](-100)))
	assert.Equal(t, 1, d.Compare(Of[int64](-100), null))

	assert.False(t, d.Add(null, Of[int64](1)).Valid)
	assert.Equal(t, Of[int64](5), d.Add(Of[int64](2), Of[int64](3)))

	value, isNull := d.Codec.Encode(null)
	assert.True(t, isNull)
	assert.Empty(t, value)
}

func TestFloatEquality(t *testing.T) {
	negZero := math.Copysign(0, -1)
	assert.True(t, Float64.Equal(0, negZero))
	assert.Equal(t, Float64.Hash(0), Float64.Hash(negZero))

	nan := math.NaN()
	assert.True(t, Float64.Equal(nan, nan))
	assert.Equal(t, Float64.Hash(nan), Float64.Hash(-nan))

	assert.Equal(t, float32(2.5), Float32.FromInt(5))
}

func TestDecimalEquality(t *testing.T) {
	a := decimal.RequireFromString("1.50")
	b := decimal.RequireFromString("1.5")
	assert.True(t, Decimal.Equal(a, b))
	assert.Equal(t, Decimal.Hash(a), Decimal.Hash(b))

	assert.Equal(t, "-2.5", Decimal.FromInt(-2).String())
	assert.Equal(t, int64(-1), Decimal.Bucket(Decimal.FromInt(-2)))
}

func TestDecodeErrors(t *testing.T) {
	_, err := Int32.Codec.Decode("99999999999", false)
	assert.Error(t, err, "out of range for int32")

	_, err = Int64.Codec.Decode("", true)
	assert.Error(t, err, "non-nullable kinds reject null")

	_, err = Decimal.Codec.Decode("1.2.3", false)
	assert.Error(t, err)

	v, err := NullableFloat32.Codec.Decode("", true)
	require.NoError(t, err)
	assert.False(t, v.Valid)
}

func TestBucketComparer(t *testing.T) {
	c := Int32.BucketComparer()
	assert.True(t, c.Equal(0, 2))
	assert.False(t, c.Equal(2, 3))
	assert.True(t, c.Equal(-1, -3))
	assert.False(t, c.Equal(-1, 0))
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, int64(-1), floorDiv(-1, 3))
	assert.Equal(t, int64(-1), floorDiv(-3, 3))
	assert.Equal(t, int64(-2), floorDiv(-4, 3))
	assert.Equal(t, int64(1), floorDiv(5, 3))
}
