/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qerrors "github.com/suparena/asyncquery/errors"
	"github.com/suparena/asyncquery/query"
)

func canceledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// endless yields 0, 1, 2, ... until its context is done.
func endless() *query.Queryable[int] {
	return query.New("Endless", func(ctx context.Context) <-chan query.Result[int] {
		out := make(chan query.Result[int])
		go func() {
			defer close(out)
			for i := 0; ; i++ {
				select {
				case <-ctx.Done():
					return
				case out <- query.Result[int]{Item: i}:
				}
			}
		}()
		return out
	})
}

// failing yields the given items then reports err.
func failing(err error, items ...int) *query.Queryable[int] {
	return query.New("Failing", func(ctx context.Context) <-chan query.Result[int] {
		out := make(chan query.Result[int])
		go func() {
			defer close(out)
			for _, i := range items {
				select {
				case <-ctx.Done():
					return
				case out <- query.Result[int]{Item: i}:
				}
			}
			select {
			case <-ctx.Done():
			case out <- query.Result[int]{Err: err}:
			}
		}()
		return out
	})
}

func TestToSlice(t *testing.T) {
	ctx := context.Background()

	t.Run("Items", func(t *testing.T) {
		got, err := query.ToSlice(ctx, query.FromSlice([]int{3, 1, 2}))
		require.NoError(t, err)
		assert.Equal(t, []int{3, 1, 2}, got)
	})

	t.Run("Empty", func(t *testing.T) {
		got, err := query.ToSlice(ctx, query.FromSlice[int](nil))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("NilSource", func(t *testing.T) {
		_, err := query.ToSlice[int](ctx, nil)
		assert.True(t, qerrors.IsArgumentNil(err))
	})

	t.Run("Canceled", func(t *testing.T) {
		_, err := query.ToSlice(canceledContext(), query.FromSlice([]int{1}))
		assert.True(t, qerrors.IsCanceled(err))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("SourceError", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := query.ToSlice(ctx, failing(boom, 1, 2))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("CanceledMidStream", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err := query.ToSlice(ctx, endless())
		assert.True(t, qerrors.IsCanceled(err))
	})
}

func TestCast(t *testing.T) {
	ctx := context.Background()

	t.Run("Boxed", func(t *testing.T) {
		boxed := query.FromSlice([]any{1.5, 2.5, -3.0})
		cast, err := query.Cast[float64](boxed)
		require.NoError(t, err)

		got, err := query.ToSlice(ctx, cast)
		require.NoError(t, err)
		assert.Equal(t, []float64{1.5, 2.5, -3.0}, got)
	})

	t.Run("InvalidCast", func(t *testing.T) {
		boxed := query.FromSlice([]any{1, "two"})
		cast, err := query.Cast[int](boxed)
		require.NoError(t, err)

		_, err = query.ToSlice(ctx, cast)
		assert.True(t, qerrors.IsInvalidCast(err))

		var ice *qerrors.InvalidCastError
		require.ErrorAs(t, err, &ice)
		assert.Equal(t, "string", ice.From)
		assert.Equal(t, "int", ice.To)
	})

	t.Run("NilSource", func(t *testing.T) {
		_, err := query.Cast[int, any](nil)
		var ane *qerrors.ArgumentNilError
		require.ErrorAs(t, err, &ane)
		assert.Equal(t, "source", ane.Param)
	})

	t.Run("Canceled", func(t *testing.T) {
		cast, err := query.Cast[int](query.FromSlice([]any{1}))
		require.NoError(t, err)
		_, err = query.ToSlice(canceledContext(), cast)
		assert.True(t, qerrors.IsCanceled(err))
	})
}

func TestSelectWhere(t *testing.T) {
	ctx := context.Background()

	doubled, err := query.Select(query.FromSlice([]int{1, 2, 3}), func(v int) int { return v * 2 })
	require.NoError(t, err)
	even, err := query.Where(doubled, func(v int) bool { return v > 2 })
	require.NoError(t, err)

	got, err := query.ToSlice(ctx, even)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 6}, got)
	assert.Equal(t, "Where(Select(Slice))", even.Name())

	_, err = query.Select[int, int](query.FromSlice([]int{1}), nil)
	assert.True(t, qerrors.IsArgumentNil(err))
	_, err = query.Where(query.FromSlice([]int{1}), nil)
	assert.True(t, qerrors.IsArgumentNil(err))
}

func TestExcept(t *testing.T) {
	ctx := context.Background()
	first := query.FromSlice([]int{5, 1, 2, 1, 3, 4, 5})
	second := query.FromSlice([]int{2, 4, 9})

	t.Run("Default", func(t *testing.T) {
		q, err := query.Except(first, second)
		require.NoError(t, err)
		got, err := query.ToSlice(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []int{5, 1, 3}, got)
	})

	t.Run("Comparer", func(t *testing.T) {
		mod3 := query.NewComparer(
			func(x, y int) bool { return x%3 == y%3 },
			func(v int) uint64 { return uint64(v % 3) },
		)
		q, err := query.ExceptWith(first, query.FromSlice([]int{3}), mod3)
		require.NoError(t, err)
		got, err := query.ToSlice(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []int{5, 1}, got)
	})

	t.Run("NilArguments", func(t *testing.T) {
		var ane *qerrors.ArgumentNilError

		_, err := query.Except(nil, second)
		require.ErrorAs(t, err, &ane)
		assert.Equal(t, "first", ane.Param)

		_, err = query.ExceptWith(first, nil, nil)
		require.ErrorAs(t, err, &ane)
		assert.Equal(t, "second", ane.Param)
	})

	t.Run("Canceled", func(t *testing.T) {
		q, err := query.Except(first, second)
		require.NoError(t, err)
		_, err = query.ToSlice(canceledContext(), q)
		assert.True(t, qerrors.IsCanceled(err))
	})

	t.Run("SecondFails", func(t *testing.T) {
		boom := errors.New("second failed")
		q, err := query.Except(first, failing(boom, 1))
		require.NoError(t, err)
		_, err = query.ToSlice(ctx, q)
		assert.ErrorIs(t, err, boom)
	})
}

func TestIntersect(t *testing.T) {
	ctx := context.Background()
	first := query.FromSlice([]int{5, 1, 2, 1, 3, 4, 5})
	second := query.FromSlice([]int{4, 1, 1, 7})

	t.Run("Default", func(t *testing.T) {
		q, err := query.Intersect(first, second)
		require.NoError(t, err)
		got, err := query.ToSlice(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 4}, got)
	})

	t.Run("Comparer", func(t *testing.T) {
		parity := query.NewComparer(
			func(x, y int) bool { return x%2 == y%2 },
			func(v int) uint64 { return uint64(v % 2) },
		)
		q, err := query.IntersectWith(first, query.FromSlice([]int{8}), parity)
		require.NoError(t, err)
		got, err := query.ToSlice(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []int{2}, got)
	})

	t.Run("NilArguments", func(t *testing.T) {
		_, err := query.Intersect(nil, second)
		assert.True(t, qerrors.IsArgumentNil(err))
		_, err = query.IntersectWith(first, nil, nil)
		assert.True(t, qerrors.IsArgumentNil(err))
	})

	t.Run("Canceled", func(t *testing.T) {
		q, err := query.Intersect(first, second)
		require.NoError(t, err)
		_, err = query.ToSlice(canceledContext(), q)
		assert.True(t, qerrors.IsCanceled(err))
	})
}

func TestFirstOrDefault(t *testing.T) {
	ctx := context.Background()
	source := query.FromSlice([]int{4, 8, 15, 16})

	t.Run("Plain", func(t *testing.T) {
		v, err := query.FirstOrDefault(ctx, source)
		require.NoError(t, err)
		assert.Equal(t, 4, v)

		v, err = query.FirstOrDefault(ctx, query.FromSlice[int](nil))
		require.NoError(t, err)
		assert.Zero(t, v)
	})

	t.Run("Predicate", func(t *testing.T) {
		v, err := query.FirstOrDefaultWhere(ctx, source, func(v int) bool { return v > 10 })
		require.NoError(t, err)
		assert.Equal(t, 15, v)

		v, err = query.FirstOrDefaultWhere(ctx, source, func(v int) bool { return v > 100 })
		require.NoError(t, err)
		assert.Zero(t, v)
	})

	t.Run("AsyncPredicate", func(t *testing.T) {
		v, err := query.FirstOrDefaultAwait(ctx, source, func(v int) (bool, error) { return v%2 == 1, nil })
		require.NoError(t, err)
		assert.Equal(t, 15, v)

		boom := errors.New("predicate failed")
		_, err = query.FirstOrDefaultAwait(ctx, source, func(int) (bool, error) { return false, boom })
		assert.ErrorIs(t, err, boom)
	})

	t.Run("CancellablePredicate", func(t *testing.T) {
		v, err := query.FirstOrDefaultAwaitWithCancellation(ctx, source, func(ctx context.Context, v int) (bool, error) {
			return v == 16, ctx.Err()
		})
		require.NoError(t, err)
		assert.Equal(t, 16, v)
	})

	t.Run("NilArguments", func(t *testing.T) {
		var ane *qerrors.ArgumentNilError

		_, err := query.FirstOrDefault[int](ctx, nil)
		require.ErrorAs(t, err, &ane)
		assert.Equal(t, "source", ane.Param)

		_, err = query.FirstOrDefaultWhere(ctx, source, nil)
		require.ErrorAs(t, err, &ane)
		assert.Equal(t, "predicate", ane.Param)

		_, err = query.FirstOrDefaultAwait(ctx, source, nil)
		assert.True(t, qerrors.IsArgumentNil(err))

		_, err = query.FirstOrDefaultAwaitWithCancellation(ctx, source, nil)
		assert.True(t, qerrors.IsArgumentNil(err))
	})

	t.Run("Canceled", func(t *testing.T) {
		_, err := query.FirstOrDefault(canceledContext(), source)
		assert.True(t, qerrors.IsCanceled(err))

		_, err = query.FirstOrDefaultWhere(canceledContext(), source, func(int) bool { return true })
		assert.True(t, qerrors.IsCanceled(err))
	})

	t.Run("StopsEndlessSource", func(t *testing.T) {
		v, err := query.FirstOrDefaultWhere(ctx, endless(), func(v int) bool { return v == 1000 })
		require.NoError(t, err)
		assert.Equal(t, 1000, v)
	})

	t.Run("UsesFirstHook", func(t *testing.T) {
		calls := 0
		q := query.New("Hooked", failing(errors.New("streamed")).Stream,
			query.WithFirst(func(context.Context) (int, bool, error) {
				calls++
				return 42, true, nil
			}))
		require.True(t, q.HasFirst())

		v, err := query.FirstOrDefault(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
		assert.Equal(t, 1, calls)
	})

	t.Run("FirstHookCanceled", func(t *testing.T) {
		q := query.New("Hooked", query.FromSlice([]int{1}).Stream,
			query.WithFirst(func(ctx context.Context) (int, bool, error) {
				return 0, false, context.Canceled
			}))
		_, err := query.FirstOrDefault(ctx, q)
		assert.True(t, qerrors.IsCanceled(err))
	})
}

func TestZip(t *testing.T) {
	ctx := context.Background()
	left := query.FromSlice([]int64{1, 2, 3, 4})
	right := query.FromSlice([]int64{10, 20, 30})

	t.Run("Pairs", func(t *testing.T) {
		q, err := query.Zip(left, right)
		require.NoError(t, err)
		got, err := query.ToSlice(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []query.Pair[int64, int64]{{1, 10}, {2, 20}, {3, 30}}, got)
	})

	t.Run("Selector", func(t *testing.T) {
		q, err := query.ZipWith(left, right, func(a, b int64) int64 { return a + b })
		require.NoError(t, err)
		got, err := query.ToSlice(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []int64{11, 22, 33}, got)
	})

	t.Run("EndlessSecond", func(t *testing.T) {
		q, err := query.ZipWith(query.FromSlice([]int{7, 8}), endless(), func(a, b int) int { return a * b })
		require.NoError(t, err)
		got, err := query.ToSlice(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 8}, got)
	})

	t.Run("NilArguments", func(t *testing.T) {
		var ane *qerrors.ArgumentNilError

		_, err := query.Zip[int64, int64](nil, right)
		require.ErrorAs(t, err, &ane)
		assert.Equal(t, "first", ane.Param)

		_, err = query.ZipWith[int64, int64, int64](left, nil, func(a, b int64) int64 { return a })
		require.ErrorAs(t, err, &ane)
		assert.Equal(t, "second", ane.Param)

		_, err = query.ZipWith[int64, int64, int64](left, right, nil)
		require.ErrorAs(t, err, &ane)
		assert.Equal(t, "resultSelector", ane.Param)
	})

	t.Run("Canceled", func(t *testing.T) {
		q, err := query.Zip(left, right)
		require.NoError(t, err)
		_, err = query.ToSlice(canceledContext(), q)
		assert.True(t, qerrors.IsCanceled(err))
	})
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	source := query.FromSlice([]int{1, 2, 3, 4, 5})

	n, err := query.Count(ctx, source)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	n, err = query.CountWhere(ctx, source, func(v int) bool { return v%2 == 0 })
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	hooked := query.New("Hooked", source.Stream, query.WithCount[int](func(context.Context) (int64, error) {
		return 99, nil
	}))
	n, err = query.Count(ctx, hooked)
	require.NoError(t, err)
	assert.EqualValues(t, 99, n)

	_, err = query.Count(canceledContext(), source)
	assert.True(t, qerrors.IsCanceled(err))

	_, err = query.CountWhere(ctx, source, nil)
	assert.True(t, qerrors.IsArgumentNil(err))
}

func TestDefaultComparerFallback(t *testing.T) {
	type point struct{ X, Y int }

	c := query.DefaultComparer[point]()
	assert.True(t, c.Equal(point{1, 2}, point{1, 2}))
	assert.False(t, c.Equal(point{1, 2}, point{2, 1}))
	assert.Equal(t, c.Hash(point{1, 2}), c.Hash(point{1, 2}))
}

func TestDefaultComparerHashAgreesWithEquality(t *testing.T) {
	type signed float64
	type sample struct {
		Name  string
		Value float64
		Tags  [2]any
	}

	negZero := signed(math.Copysign(0, -1))
	c := query.DefaultComparer[signed]()
	require.True(t, c.Equal(negZero, 0))
	assert.Equal(t, c.Hash(negZero), c.Hash(0))

	s := query.DefaultComparer[sample]()
	a := sample{Name: "a", Value: float64(negZero), Tags: [2]any{1, "x"}}
	b := sample{Name: "a", Value: 0, Tags: [2]any{1, "x"}}
	require.True(t, s.Equal(a, b))
	assert.Equal(t, s.Hash(a), s.Hash(b))
	assert.False(t, s.Equal(a, sample{Name: "a", Tags: [2]any{int64(1), "x"}}))

	q, err := query.Except(query.FromSlice([]signed{negZero, 1}), query.FromSlice([]signed{0}))
	require.NoError(t, err)
	got, err := query.ToSlice(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []signed{1}, got)

	q, err = query.Intersect(query.FromSlice([]signed{negZero}), query.FromSlice([]signed{0}))
	require.NoError(t, err)
	got, err = query.ToSlice(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
