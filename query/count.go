/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"context"

	qerrors "github.com/suparena/asyncquery/errors"
)

// Count returns the number of elements in source. It asks the provider
// directly when source allows it.
func Count[T any](ctx context.Context, source *Queryable[T]) (int64, error) {
	const op = "Count"

	if source == nil {
		return 0, qerrors.NewArgumentNilError(op, "source")
	}
	if err := ctx.Err(); err != nil {
		return 0, qerrors.NewCanceledError(op, err)
	}

	if source.count != nil {
		n, err := source.count(ctx)
		if err != nil {
			return 0, stopError(ctx, op, err)
		}
		return n, nil
	}

	var n int64
	err := each(ctx, op, source, func(T) (bool, error) {
		n++
		return true, nil
	})
	return n, err
}

// CountWhere returns the number of elements matching predicate.
func CountWhere[T any](ctx context.Context, source *Queryable[T], predicate Predicate[T]) (int64, error) {
	const op = "Count"

	if source == nil {
		return 0, qerrors.NewArgumentNilError(op, "source")
	}
	if predicate == nil {
		return 0, qerrors.NewArgumentNilError(op, "predicate")
	}

	var n int64
	err := each(ctx, op, source, func(v T) (bool, error) {
		if predicate(v) {
			n++
		}
		return true, nil
	})
	return n, err
}
