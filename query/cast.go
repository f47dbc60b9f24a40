/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"context"
	"fmt"
	"reflect"

	qerrors "github.com/suparena/asyncquery/errors"
)

// Cast converts every element of source to R with a type assertion. Draining
// fails with an InvalidCastError at the first element that is not an R.
func Cast[R, T any](source *Queryable[T]) (*Queryable[R], error) {
	if source == nil {
		return nil, qerrors.NewArgumentNilError("Cast", "source")
	}

	target := reflect.TypeFor[R]().String()
	return New("Cast("+source.name+")", func(ctx context.Context) <-chan Result[R] {
		return produce(ctx, func(ctx context.Context, emit func(R) bool) error {
			return each(ctx, "Cast", source, func(v T) (bool, error) {
				r, ok := any(v).(R)
				if !ok {
					return false, qerrors.NewInvalidCastError("Cast", fmt.Sprintf("%T", any(v)), target)
				}
				return emit(r), nil
			})
		})
	}), nil
}

// Select projects every element of source through selector.
func Select[T, R any](source *Queryable[T], selector func(T) R) (*Queryable[R], error) {
	if source == nil {
		return nil, qerrors.NewArgumentNilError("Select", "source")
	}
	if selector == nil {
		return nil, qerrors.NewArgumentNilError("Select", "selector")
	}

	return New("Select("+source.name+")", func(ctx context.Context) <-chan Result[R] {
		return produce(ctx, func(ctx context.Context, emit func(R) bool) error {
			return each(ctx, "Select", source, func(v T) (bool, error) {
				return emit(selector(v)), nil
			})
		})
	}), nil
}

// Where keeps the elements of source matching predicate.
func Where[T any](source *Queryable[T], predicate Predicate[T]) (*Queryable[T], error) {
	if source == nil {
		return nil, qerrors.NewArgumentNilError("Where", "source")
	}
	if predicate == nil {
		return nil, qerrors.NewArgumentNilError("Where", "predicate")
	}

	return New("Where("+source.name+")", func(ctx context.Context) <-chan Result[T] {
		return produce(ctx, func(ctx context.Context, emit func(T) bool) error {
			return each(ctx, "Where", source, func(v T) (bool, error) {
				if !predicate(v) {
					return true, nil
				}
				return emit(v), nil
			})
		})
	}), nil
}
