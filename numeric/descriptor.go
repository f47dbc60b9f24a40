/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package numeric

import (
	"hash/fnv"

	"github.com/suparena/asyncquery/query"
	"github.com/suparena/asyncquery/registry"
)

// Descriptor describes one element type of the conformance axis: how to store
// it, how to build sample values and how values relate to each other.
type Descriptor[T any] struct {
	// Name is the element type name, e.g. "int64" or "decimal?".
	Name string
	// Codec converts values to and from their stored string form.
	Codec registry.Codec[T]
	// FromInt maps a small integer to a value.
	FromInt func(i int64) T
	// Add combines two values; nullable kinds propagate null.
	Add func(a, b T) T
	// Compare orders values; nullable kinds order null first.
	Compare func(a, b T) int
	// Equal and Hash implement default value equality.
	Equal func(a, b T) bool
	Hash  func(v T) uint64
	// Bucket maps a value to a coarse key, used by the custom comparer overload.
	Bucket func(v T) int64
}

// Comparer returns the default equality comparer of the element type.
func (d Descriptor[T]) Comparer() query.Comparer[T] {
	return query.NewComparer(d.Equal, d.Hash)
}

// BucketComparer returns a comparer considering two values equal when they
// fall into the same bucket.
func (d Descriptor[T]) BucketComparer() query.Comparer[T] {
	return query.NewComparer(
		func(a, b T) bool { return d.Bucket(a) == d.Bucket(b) },
		func(v T) uint64 { return uint64(d.Bucket(v)) },
	)
}

// Values maps each integer through FromInt.
func (d Descriptor[T]) Values(ints []int64) []T {
	out := make([]T, len(ints))
	for i, n := range ints {
		out[i] = d.FromInt(n)
	}
	return out
}

func register[T any](d Descriptor[T]) Descriptor[T] {
	registry.RegisterCodec[T](d.Name, d.Codec)
	query.RegisterDefaultComparer[T](d.Comparer())
	return d
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
