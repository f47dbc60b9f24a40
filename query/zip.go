/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"context"

	qerrors "github.com/suparena/asyncquery/errors"
)

// Zip pairs the elements of first and second by position. The result is as
// long as the shorter input.
func Zip[A, B any](first *Queryable[A], second *Queryable[B]) (*Queryable[Pair[A, B]], error) {
	if first == nil {
		return nil, qerrors.NewArgumentNilError("Zip", "first")
	}
	if second == nil {
		return nil, qerrors.NewArgumentNilError("Zip", "second")
	}
	return zip(first, second, func(a A, b B) Pair[A, B] {
		return Pair[A, B]{First: a, Second: b}
	}), nil
}

// ZipWith merges the elements of first and second by position through selector.
func ZipWith[A, B, R any](first *Queryable[A], second *Queryable[B], selector func(A, B) R) (*Queryable[R], error) {
	if first == nil {
		return nil, qerrors.NewArgumentNilError("Zip", "first")
	}
	if second == nil {
		return nil, qerrors.NewArgumentNilError("Zip", "second")
	}
	if selector == nil {
		return nil, qerrors.NewArgumentNilError("Zip", "resultSelector")
	}
	return zip(first, second, selector), nil
}

func zip[A, B, R any](first *Queryable[A], second *Queryable[B], selector func(A, B) R) *Queryable[R] {
	const op = "Zip"

	name := op + "(" + first.name + ", " + second.name + ")"
	return New(name, func(ctx context.Context) <-chan Result[R] {
		return produce(ctx, func(ctx context.Context, emit func(R) bool) error {
			if err := ctx.Err(); err != nil {
				return qerrors.NewCanceledError(op, err)
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			left := first.stream(ctx)
			right := second.stream(ctx)
			for {
				a, ok := <-left
				if !ok {
					return closedError(ctx, op)
				}
				if a.Err != nil {
					return stopError(ctx, op, a.Err)
				}

				b, ok := <-right
				if !ok {
					return closedError(ctx, op)
				}
				if b.Err != nil {
					return stopError(ctx, op, b.Err)
				}

				if !emit(selector(a.Item, b.Item)) {
					return nil
				}
			}
		})
	})
}

// closedError tells a finished input from one closed by cancellation.
func closedError(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return qerrors.NewCanceledError(op, err)
	}
	return nil
}
