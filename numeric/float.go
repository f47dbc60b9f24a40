/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package numeric

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
)

type float interface {
	~float32 | ~float64
}

type floatCodec[T float] struct {
	bits int
}

func (c floatCodec[T]) Encode(v T) (string, bool) {
	return strconv.FormatFloat(float64(v), 'g', -1, c.bits), false
}

func (c floatCodec[T]) Decode(value string, null bool) (T, error) {
	if null {
		return 0, fmt.Errorf("float%d: unexpected null", c.bits)
	}
	f, err := strconv.ParseFloat(value, c.bits)
	if err != nil {
		return 0, fmt.Errorf("float%d: %w", c.bits, err)
	}
	return T(f), nil
}

// floatEqual treats NaN as equal to NaN and +0 as equal to -0.
func floatEqual[T float](a, b T) bool {
	return a == b || (math.IsNaN(float64(a)) && math.IsNaN(float64(b)))
}

func floatHash[T float](v T) uint64 {
	f := float64(v)
	switch {
	case f == 0:
		return 0
	case math.IsNaN(f):
		return math.Float64bits(math.NaN())
	}
	return math.Float64bits(f)
}

func floatDescriptor[T float](name string, bits int, scale float64) Descriptor[T] {
	return Descriptor[T]{
		Name:    name,
		Codec:   floatCodec[T]{bits: bits},
		FromInt: func(i int64) T { return T(float64(i) * scale) },
		Add:     func(a, b T) T { return a + b },
		Compare: cmp.Compare[T],
		Equal:   floatEqual[T],
		Hash:    floatHash[T],
		Bucket:  func(v T) int64 { return int64(math.Floor(float64(v) / 3)) },
	}
}
