/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package numeric

import (
	"cmp"
	"fmt"
	"strconv"
)

type integer interface {
	~int32 | ~int64
}

type intCodec[T integer] struct {
	bits int
}

func (c intCodec[T]) Encode(v T) (string, bool) {
	return strconv.FormatInt(int64(v), 10), false
}

func (c intCodec[T]) Decode(value string, null bool) (T, error) {
	if null {
		return 0, fmt.Errorf("int%d: unexpected null", c.bits)
	}
	n, err := strconv.ParseInt(value, 10, c.bits)
	if err != nil {
		return 0, fmt.Errorf("int%d: %w", c.bits, err)
	}
	return T(n), nil
}

func integerDescriptor[T integer](name string, bits int) Descriptor[T] {
	return Descriptor[T]{
		Name:    name,
		Codec:   intCodec[T]{bits: bits},
		FromInt: func(i int64) T { return T(i) },
		Add:     func(a, b T) T { return a + b },
		Compare: cmp.Compare[T],
		Equal:   func(a, b T) bool { return a == b },
		Hash:    func(v T) uint64 { return uint64(v) },
		Bucket:  func(v T) int64 { return floorDiv(int64(v), 3) },
	}
}
