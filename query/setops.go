/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"context"

	qerrors "github.com/suparena/asyncquery/errors"
)

// Except yields the distinct elements of first that do not appear in second,
// in the order of first, using the default comparer.
func Except[T any](first, second *Queryable[T]) (*Queryable[T], error) {
	return except("Except", first, second, nil)
}

// ExceptWith is Except under a custom comparer. A nil comparer means the default.
func ExceptWith[T any](first, second *Queryable[T], comparer Comparer[T]) (*Queryable[T], error) {
	return except("Except", first, second, comparer)
}

// Intersect yields the distinct elements of first that also appear in second,
// in the order of first, using the default comparer.
func Intersect[T any](first, second *Queryable[T]) (*Queryable[T], error) {
	return intersect("Intersect", first, second, nil)
}

// IntersectWith is Intersect under a custom comparer. A nil comparer means the default.
func IntersectWith[T any](first, second *Queryable[T], comparer Comparer[T]) (*Queryable[T], error) {
	return intersect("Intersect", first, second, comparer)
}

func checkBinary[T any](op string, first, second *Queryable[T]) error {
	if first == nil {
		return qerrors.NewArgumentNilError(op, "first")
	}
	if second == nil {
		return qerrors.NewArgumentNilError(op, "second")
	}
	return nil
}

func except[T any](op string, first, second *Queryable[T], comparer Comparer[T]) (*Queryable[T], error) {
	if err := checkBinary(op, first, second); err != nil {
		return nil, err
	}

	name := op + "(" + first.name + ", " + second.name + ")"
	return New(name, func(ctx context.Context) <-chan Result[T] {
		return produce(ctx, func(ctx context.Context, emit func(T) bool) error {
			seen := newSet(comparer)
			err := each(ctx, op, second, func(v T) (bool, error) {
				seen.add(v)
				return true, nil
			})
			if err != nil {
				return err
			}
			return each(ctx, op, first, func(v T) (bool, error) {
				if !seen.add(v) {
					return true, nil
				}
				return emit(v), nil
			})
		})
	}), nil
}

func intersect[T any](op string, first, second *Queryable[T], comparer Comparer[T]) (*Queryable[T], error) {
	if err := checkBinary(op, first, second); err != nil {
		return nil, err
	}

	name := op + "(" + first.name + ", " + second.name + ")"
	return New(name, func(ctx context.Context) <-chan Result[T] {
		return produce(ctx, func(ctx context.Context, emit func(T) bool) error {
			pending := newSet(comparer)
			err := each(ctx, op, second, func(v T) (bool, error) {
				pending.add(v)
				return true, nil
			})
			if err != nil {
				return err
			}
			// Removing on first match keeps the output distinct.
			return each(ctx, op, first, func(v T) (bool, error) {
				if !pending.remove(v) {
					return true, nil
				}
				return emit(v), nil
			})
		})
	}), nil
}
