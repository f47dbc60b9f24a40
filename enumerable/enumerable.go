/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package enumerable

import (
	"fmt"

	qerrors "github.com/suparena/asyncquery/errors"
)

// Equality reports whether two elements are equal.
type Equality[T any] func(x, y T) bool

// Pair is an element produced by Zip.
type Pair[A, B any] struct {
	First  A
	Second B
}

func contains[T any](items []T, v T, eq Equality[T]) bool {
	for _, e := range items {
		if eq(e, v) {
			return true
		}
	}
	return false
}

// Cast converts every element to R. It fails on the first element that is not an R.
func Cast[R, T any](source []T) ([]R, error) {
	out := make([]R, 0, len(source))
	for _, v := range source {
		r, ok := any(v).(R)
		if !ok {
			var target R
			return nil, qerrors.NewInvalidCastError("Cast", fmt.Sprintf("%T", v), fmt.Sprintf("%T", target))
		}
		out = append(out, r)
	}
	return out, nil
}

// Except returns the distinct elements of first that do not occur in second,
// in first's order.
func Except[T any](first, second []T, eq Equality[T]) []T {
	var out []T
	for _, v := range first {
		if contains(second, v, eq) || contains(out, v, eq) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Intersect returns the distinct elements of first that also occur in second,
// in first's order.
func Intersect[T any](first, second []T, eq Equality[T]) []T {
	var out []T
	for _, v := range first {
		if !contains(second, v, eq) || contains(out, v, eq) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// FirstOrDefault returns the first element, or the zero value of an empty source.
func FirstOrDefault[T any](source []T) T {
	var zero T
	if len(source) == 0 {
		return zero
	}
	return source[0]
}

// FirstOrDefaultWhere returns the first element matching predicate, or the zero value.
func FirstOrDefaultWhere[T any](source []T, predicate func(T) bool) T {
	var zero T
	for _, v := range source {
		if predicate(v) {
			return v
		}
	}
	return zero
}

// Zip pairs elements by position up to the length of the shorter input.
func Zip[A, B any](first []A, second []B) []Pair[A, B] {
	return ZipWith(first, second, func(a A, b B) Pair[A, B] {
		return Pair[A, B]{First: a, Second: b}
	})
}

// ZipWith combines elements by position up to the length of the shorter input.
func ZipWith[A, B, R any](first []A, second []B, selector func(A, B) R) []R {
	n := min(len(first), len(second))
	out := make([]R, n)
	for i := range n {
		out[i] = selector(first[i], second[i])
	}
	return out
}

// Count returns the number of elements.
func Count[T any](source []T) int64 {
	return int64(len(source))
}

// CountWhere returns the number of elements matching predicate.
func CountWhere[T any](source []T, predicate func(T) bool) int64 {
	var n int64
	for _, v := range source {
		if predicate(v) {
			n++
		}
	}
	return n
}
