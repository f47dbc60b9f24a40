/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"context"

	qerrors "github.com/suparena/asyncquery/errors"
)

// Predicate tests an element.
type Predicate[T any] func(v T) bool

// AsyncPredicate tests an element and may block or fail.
type AsyncPredicate[T any] func(v T) (bool, error)

// CancellablePredicate tests an element under the query's context.
type CancellablePredicate[T any] func(ctx context.Context, v T) (bool, error)

// FirstOrDefault returns the first element of source, or the zero value when
// source is empty. It asks the provider directly when source allows it.
func FirstOrDefault[T any](ctx context.Context, source *Queryable[T]) (T, error) {
	const op = "FirstOrDefault"
	var zero T

	if source == nil {
		return zero, qerrors.NewArgumentNilError(op, "source")
	}
	if err := ctx.Err(); err != nil {
		return zero, qerrors.NewCanceledError(op, err)
	}

	if source.first != nil {
		v, ok, err := source.first(ctx)
		if err != nil {
			return zero, stopError(ctx, op, err)
		}
		if !ok {
			return zero, nil
		}
		return v, nil
	}

	return firstWhere(ctx, op, source, func(context.Context, T) (bool, error) {
		return true, nil
	})
}

// FirstOrDefaultWhere returns the first element matching predicate, or the zero value.
func FirstOrDefaultWhere[T any](ctx context.Context, source *Queryable[T], predicate Predicate[T]) (T, error) {
	const op = "FirstOrDefault"
	var zero T

	if source == nil {
		return zero, qerrors.NewArgumentNilError(op, "source")
	}
	if predicate == nil {
		return zero, qerrors.NewArgumentNilError(op, "predicate")
	}
	return firstWhere(ctx, op, source, func(_ context.Context, v T) (bool, error) {
		return predicate(v), nil
	})
}

// FirstOrDefaultAwait is FirstOrDefaultWhere with a predicate that may block or fail.
func FirstOrDefaultAwait[T any](ctx context.Context, source *Queryable[T], predicate AsyncPredicate[T]) (T, error) {
	const op = "FirstOrDefaultAwait"
	var zero T

	if source == nil {
		return zero, qerrors.NewArgumentNilError(op, "source")
	}
	if predicate == nil {
		return zero, qerrors.NewArgumentNilError(op, "predicate")
	}
	return firstWhere(ctx, op, source, func(_ context.Context, v T) (bool, error) {
		return predicate(v)
	})
}

// FirstOrDefaultAwaitWithCancellation is FirstOrDefaultAwait with a predicate
// that receives the query's context.
func FirstOrDefaultAwaitWithCancellation[T any](ctx context.Context, source *Queryable[T], predicate CancellablePredicate[T]) (T, error) {
	const op = "FirstOrDefaultAwaitWithCancellation"
	var zero T

	if source == nil {
		return zero, qerrors.NewArgumentNilError(op, "source")
	}
	if predicate == nil {
		return zero, qerrors.NewArgumentNilError(op, "predicate")
	}
	return firstWhere(ctx, op, source, predicate)
}

func firstWhere[T any](ctx context.Context, op string, source *Queryable[T], predicate CancellablePredicate[T]) (T, error) {
	var found T
	err := each(ctx, op, source, func(v T) (bool, error) {
		ok, err := predicate(ctx, v)
		if err != nil {
			return false, err
		}
		if ok {
			found = v
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return found, nil
}
