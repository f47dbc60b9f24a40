/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"context"
	"errors"

	qerrors "github.com/suparena/asyncquery/errors"
)

// each drains q and calls fn for every element until fn returns false.
// It fails with a CanceledError when ctx is done before or during the drain.
func each[T any](ctx context.Context, op string, q *Queryable[T], fn func(T) (bool, error)) error {
	if err := ctx.Err(); err != nil {
		return qerrors.NewCanceledError(op, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for r := range q.stream(ctx) {
		if r.Err != nil {
			return stopError(ctx, op, r.Err)
		}
		more, err := fn(r.Item)
		if err != nil {
			return stopError(ctx, op, err)
		}
		if !more {
			return nil
		}
	}

	// Producers close silently on cancellation.
	if err := ctx.Err(); err != nil {
		return qerrors.NewCanceledError(op, err)
	}
	return nil
}

// stopError turns context failures into a CanceledError and passes everything else through.
func stopError(ctx context.Context, op string, err error) error {
	var ce *qerrors.CanceledError
	if errors.As(err, &ce) {
		return err
	}
	if qerrors.IsCanceled(err) {
		return qerrors.NewCanceledError(op, err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return qerrors.NewCanceledError(op, ctxErr)
	}
	return err
}

// produce runs body in its own goroutine, feeding the returned channel.
// emit returns false once ctx is done; body should then return.
func produce[T any](ctx context.Context, body func(ctx context.Context, emit func(T) bool) error) <-chan Result[T] {
	out := make(chan Result[T])

	go func() {
		defer close(out)

		err := body(ctx, func(v T) bool {
			select {
			case <-ctx.Done():
				return false
			case out <- Result[T]{Item: v}:
				return true
			}
		})
		if err != nil {
			select {
			case <-ctx.Done():
			case out <- Result[T]{Err: err}:
			}
		}
	}()

	return out
}

// ToSlice drains the sequence into a slice.
func ToSlice[T any](ctx context.Context, source *Queryable[T]) ([]T, error) {
	if source == nil {
		return nil, qerrors.NewArgumentNilError("ToSlice", "source")
	}

	var items []T
	err := each(ctx, "ToSlice", source, func(v T) (bool, error) {
		items = append(items, v)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
