/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package conformance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"

	"github.com/suparena/asyncquery/adapter"
	"github.com/suparena/asyncquery/enumerable"
	qerrors "github.com/suparena/asyncquery/errors"
	"github.com/suparena/asyncquery/numeric"
	"github.com/suparena/asyncquery/query"
)

// ErrMismatch marks a case whose adapter behavior differs from the reference.
var ErrMismatch = errors.New("conformance mismatch")

// Sample thresholds for predicates. Both are valid values for the nullable
// kinds, and no sample reaches noMatchPivot.
const (
	matchPivot   = 7
	noMatchPivot = 1001
)

// env is what a case needs besides its element type.
type env struct {
	adapter   *adapter.Adapter
	keyPrefix string
	seed      uint64
	size      int
	logger    *zap.Logger
}

// dispatch runs c with the descriptor of its element kind.
func dispatch(ctx context.Context, e env, c Case) error {
	switch c.Kind {
	case numeric.Int32.Name:
		return execute(ctx, e, c, numeric.Int32)
	case numeric.NullableInt32.Name:
		return execute(ctx, e, c, numeric.NullableInt32)
	case numeric.Int64.Name:
		return execute(ctx, e, c, numeric.Int64)
	case numeric.NullableInt64.Name:
		return execute(ctx, e, c, numeric.NullableInt64)
	case numeric.Float32.Name:
		return execute(ctx, e, c, numeric.Float32)
	case numeric.NullableFloat32.Name:
		return execute(ctx, e, c, numeric.NullableFloat32)
	case numeric.Float64.Name:
		return execute(ctx, e, c, numeric.Float64)
	case numeric.NullableFloat64.Name:
		return execute(ctx, e, c, numeric.NullableFloat64)
	case numeric.Decimal.Name:
		return execute(ctx, e, c, numeric.Decimal)
	case numeric.NullableDecimal.Name:
		return execute(ctx, e, c, numeric.NullableDecimal)
	default:
		return qerrors.NewValidationError("kind", fmt.Sprintf("unknown element kind %q", c.Kind))
	}
}

// suite holds the seeded inputs of one case.
type suite[T any] struct {
	d        numeric.Descriptor[T]
	ref      Reference[T]
	first    *query.Queryable[T]
	second   *query.Queryable[T]
	behavior Behavior
}

func execute[T any](ctx context.Context, e env, c Case, d numeric.Descriptor[T]) error {
	ref := NewReference(d, e.seed, e.size)
	if c.Behavior == EmptySource {
		ref.First = nil
	}

	firstKey, secondKey := e.keyPrefix+"/first", e.keyPrefix+"/second"
	defer func() {
		cleanup := context.WithoutCancel(ctx)
		for _, key := range []string{firstKey, secondKey} {
			if err := e.adapter.Store().Delete(cleanup, key); err != nil {
				e.logger.Warn("failed to clean up sequence", zap.String("key", key), zap.Error(err))
			}
		}
	}()

	if err := adapter.Seed(ctx, e.adapter, firstKey, ref.First); err != nil {
		return err
	}
	if err := adapter.Seed(ctx, e.adapter, secondKey, ref.Second); err != nil {
		return err
	}

	first, err := adapter.Queryable[T](e.adapter, firstKey)
	if err != nil {
		return err
	}
	second, err := adapter.Queryable[T](e.adapter, secondKey)
	if err != nil {
		return err
	}

	s := suite[T]{d: d, ref: ref, first: first, second: second, behavior: c.Behavior}
	switch c.Operator {
	case OpCast:
		return s.cast(ctx)
	case OpExcept:
		return s.setOp(ctx, c.Overload, query.Except[T], query.ExceptWith[T], enumerable.Except[T])
	case OpIntersect:
		return s.setOp(ctx, c.Overload, query.Intersect[T], query.IntersectWith[T], enumerable.Intersect[T])
	case OpFirstOrDefault:
		return s.firstOrDefault(ctx, c.Overload)
	case OpZip:
		return s.zip(ctx, c.Overload)
	case OpCount:
		return s.count(ctx, c.Overload)
	default:
		return qerrors.NewValidationError("operator", fmt.Sprintf("unknown operator %q", c.Operator))
	}
}

func (s suite[T]) unsupported() error {
	return qerrors.NewValidationError("behavior", fmt.Sprintf("behavior %q not supported here", s.behavior))
}

func (s suite[T]) diff(want, got any) error {
	if d := cmp.Diff(want, got, cmp.Comparer(s.d.Equal), cmpopts.EquateEmpty()); d != "" {
		return fmt.Errorf("%w (-want +got):\n%s", ErrMismatch, d)
	}
	return nil
}

func (s suite[T]) pivot() T {
	if s.behavior == NoMatch {
		return s.d.FromInt(noMatchPivot)
	}
	return s.d.FromInt(matchPivot)
}

func canceled(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	cancel()
	return ctx
}

func expectArgumentNil(err error, param string) error {
	var ane *qerrors.ArgumentNilError
	if !errors.As(err, &ane) {
		return fmt.Errorf("%w: expected nil argument %q to be rejected, got %v", ErrMismatch, param, err)
	}
	if ane.Param != param {
		return fmt.Errorf("%w: expected nil argument %q, got %q", ErrMismatch, param, ane.Param)
	}
	return nil
}

func expectCanceled(err error, produced int) error {
	if !errors.Is(err, qerrors.ErrCanceled) {
		return fmt.Errorf("%w: expected cancellation, got %v", ErrMismatch, err)
	}
	if produced > 0 {
		return fmt.Errorf("%w: %d elements produced after cancellation", ErrMismatch, produced)
	}
	return nil
}

func box[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func (s suite[T]) cast(ctx context.Context) error {
	if s.behavior == NullSource {
		_, err := query.Cast[T, any](nil)
		return expectArgumentNil(err, "source")
	}

	boxed, err := query.Select(s.first, func(v T) any { return v })
	if err != nil {
		return err
	}

	switch s.behavior {
	case Equivalence:
		q, err := query.Cast[T](boxed)
		if err != nil {
			return err
		}
		got, err := query.ToSlice(ctx, q)
		if err != nil {
			return err
		}
		want, err := enumerable.Cast[T](box(s.ref.First))
		if err != nil {
			return err
		}
		return s.diff(want, got)

	case Cancellation:
		q, err := query.Cast[T](boxed)
		if err != nil {
			return err
		}
		got, err := query.ToSlice(canceled(ctx), q)
		return expectCanceled(err, len(got))

	case InvalidCast:
		if _, err := enumerable.Cast[string](box(s.ref.First)); !qerrors.IsInvalidCast(err) {
			return fmt.Errorf("reference cast of %d elements did not fail: %v", len(s.ref.First), err)
		}
		q, err := query.Cast[string](boxed)
		if err != nil {
			return err
		}
		_, err = query.ToSlice(ctx, q)
		if !qerrors.IsInvalidCast(err) {
			return fmt.Errorf("%w: expected invalid cast, got %v", ErrMismatch, err)
		}
		return nil
	}
	return s.unsupported()
}

type (
	setFunc[T any]     func(first, second *query.Queryable[T]) (*query.Queryable[T], error)
	setWithFunc[T any] func(first, second *query.Queryable[T], comparer query.Comparer[T]) (*query.Queryable[T], error)
	setOracle[T any]   func(first, second []T, eq enumerable.Equality[T]) []T
)

func (s suite[T]) setOp(ctx context.Context, overload Overload, plain setFunc[T], with setWithFunc[T], oracle setOracle[T]) error {
	build := plain
	eq := enumerable.Equality[T](s.d.Equal)
	if overload == Comparer {
		comparer := s.d.BucketComparer()
		build = func(first, second *query.Queryable[T]) (*query.Queryable[T], error) {
			return with(first, second, comparer)
		}
		eq = comparer.Equal
	}

	switch s.behavior {
	case NullFirst:
		_, err := build(nil, s.second)
		return expectArgumentNil(err, "first")

	case NullSecond:
		_, err := build(s.first, nil)
		return expectArgumentNil(err, "second")

	case Equivalence:
		q, err := build(s.first, s.second)
		if err != nil {
			return err
		}
		got, err := query.ToSlice(ctx, q)
		if err != nil {
			return err
		}
		return s.diff(oracle(s.ref.First, s.ref.Second, eq), got)

	case Cancellation:
		q, err := build(s.first, s.second)
		if err != nil {
			return err
		}
		got, err := query.ToSlice(canceled(ctx), q)
		return expectCanceled(err, len(got))
	}
	return s.unsupported()
}

// firstFunc calls the FirstOrDefault overload with pred adapted to its signature.
// A nil pred is passed on as a nil predicate.
func firstFunc[T any](overload Overload) func(ctx context.Context, source *query.Queryable[T], pred query.Predicate[T]) (T, error) {
	return func(ctx context.Context, source *query.Queryable[T], pred query.Predicate[T]) (T, error) {
		switch overload {
		case Predicate:
			return query.FirstOrDefaultWhere(ctx, source, pred)
		case AsyncPredicate:
			var async query.AsyncPredicate[T]
			if pred != nil {
				async = func(v T) (bool, error) { return pred(v), nil }
			}
			return query.FirstOrDefaultAwait(ctx, source, async)
		case CancellablePredicate:
			var cancellable query.CancellablePredicate[T]
			if pred != nil {
				cancellable = func(ctx context.Context, v T) (bool, error) {
					if err := ctx.Err(); err != nil {
						return false, err
					}
					return pred(v), nil
				}
			}
			return query.FirstOrDefaultAwaitWithCancellation(ctx, source, cancellable)
		default:
			return query.FirstOrDefault(ctx, source)
		}
	}
}

func (s suite[T]) firstOrDefault(ctx context.Context, overload Overload) error {
	run := firstFunc[T](overload)
	pivot := s.pivot()
	pred := query.Predicate[T](func(v T) bool { return s.d.Compare(v, pivot) > 0 })

	switch s.behavior {
	case NullSource:
		_, err := run(ctx, nil, pred)
		return expectArgumentNil(err, "source")

	case NullPredicate:
		_, err := run(ctx, s.first, nil)
		return expectArgumentNil(err, "predicate")

	case Equivalence, NoMatch, EmptySource:
		got, err := run(ctx, s.first, pred)
		if err != nil {
			return err
		}
		want := enumerable.FirstOrDefault(s.ref.First)
		if overload != Plain {
			want = enumerable.FirstOrDefaultWhere(s.ref.First, pred)
		}
		return s.diff(want, got)

	case Cancellation:
		_, err := run(canceled(ctx), s.first, pred)
		return expectCanceled(err, 0)
	}
	return s.unsupported()
}

func (s suite[T]) zip(ctx context.Context, overload Overload) error {
	if overload == Pair {
		return s.zipPairs(ctx)
	}

	switch s.behavior {
	case NullFirst:
		_, err := query.ZipWith[T, T, T](nil, s.second, s.d.Add)
		return expectArgumentNil(err, "first")

	case NullSecond:
		_, err := query.ZipWith[T, T, T](s.first, nil, s.d.Add)
		return expectArgumentNil(err, "second")

	case NullSelector:
		_, err := query.ZipWith[T, T, T](s.first, s.second, nil)
		return expectArgumentNil(err, "resultSelector")

	case Equivalence:
		q, err := query.ZipWith(s.first, s.second, s.d.Add)
		if err != nil {
			return err
		}
		got, err := query.ToSlice(ctx, q)
		if err != nil {
			return err
		}
		return s.diff(enumerable.ZipWith(s.ref.First, s.ref.Second, s.d.Add), got)

	case Cancellation:
		q, err := query.ZipWith(s.first, s.second, s.d.Add)
		if err != nil {
			return err
		}
		got, err := query.ToSlice(canceled(ctx), q)
		return expectCanceled(err, len(got))
	}
	return s.unsupported()
}

func (s suite[T]) zipPairs(ctx context.Context) error {
	switch s.behavior {
	case NullFirst:
		_, err := query.Zip[T, T](nil, s.second)
		return expectArgumentNil(err, "first")

	case NullSecond:
		_, err := query.Zip[T, T](s.first, nil)
		return expectArgumentNil(err, "second")

	case Equivalence:
		q, err := query.Zip(s.first, s.second)
		if err != nil {
			return err
		}
		got, err := query.ToSlice(ctx, q)
		if err != nil {
			return err
		}
		want := enumerable.ZipWith(s.ref.First, s.ref.Second, func(a, b T) query.Pair[T, T] {
			return query.Pair[T, T]{First: a, Second: b}
		})
		return s.diff(want, got)

	case Cancellation:
		q, err := query.Zip(s.first, s.second)
		if err != nil {
			return err
		}
		got, err := query.ToSlice(canceled(ctx), q)
		return expectCanceled(err, len(got))
	}
	return s.unsupported()
}

func (s suite[T]) count(ctx context.Context, overload Overload) error {
	pivot := s.pivot()
	pred := func(v T) bool { return s.d.Compare(v, pivot) > 0 }

	run := func(ctx context.Context) (int64, error) {
		if overload == Predicate {
			return query.CountWhere(ctx, s.first, pred)
		}
		return query.Count(ctx, s.first)
	}

	switch s.behavior {
	case Equivalence:
		got, err := run(ctx)
		if err != nil {
			return err
		}
		want := enumerable.Count(s.ref.First)
		if overload == Predicate {
			want = enumerable.CountWhere(s.ref.First, pred)
		}
		return s.diff(want, got)

	case Cancellation:
		_, err := run(canceled(ctx))
		return expectCanceled(err, 0)
	}
	return s.unsupported()
}
