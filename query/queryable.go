/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"context"
)

// Result is one element of a stream, or the error that ended it.
type Result[T any] struct {
	Item T
	Err  error
}

// StreamFunc starts producing the elements of a sequence on the returned channel.
// The producer must close the channel when the sequence ends and must stop
// sending once ctx is done.
type StreamFunc[T any] func(ctx context.Context) <-chan Result[T]

// FirstFunc returns the first element of a sequence without streaming it.
type FirstFunc[T any] func(ctx context.Context) (T, bool, error)

// CountFunc returns the number of elements of a sequence without streaming it.
type CountFunc func(ctx context.Context) (int64, error)

// Queryable is a lazily evaluated asynchronous sequence. Nothing runs until a
// terminal operator (ToSlice, FirstOrDefault, Count) drains it, and every
// drain starts the sequence from the beginning.
type Queryable[T any] struct {
	name   string
	stream StreamFunc[T]
	first  FirstFunc[T]
	count  CountFunc
}

// Option configures a Queryable built with New.
type Option[T any] func(*Queryable[T])

// WithFirst lets FirstOrDefault answer from the backing provider directly.
func WithFirst[T any](f FirstFunc[T]) Option[T] {
	return func(q *Queryable[T]) {
		q.first = f
	}
}

// WithCount lets Count answer from the backing provider directly.
func WithCount[T any](f CountFunc) Option[T] {
	return func(q *Queryable[T]) {
		q.count = f
	}
}

// New creates a Queryable over a stream function.
func New[T any](name string, stream StreamFunc[T], opts ...Option[T]) *Queryable[T] {
	q := &Queryable[T]{
		name:   name,
		stream: stream,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// FromSlice creates a Queryable yielding the given items in order.
func FromSlice[T any](items []T) *Queryable[T] {
	return New("Slice", func(ctx context.Context) <-chan Result[T] {
		return produce(ctx, func(ctx context.Context, emit func(T) bool) error {
			for _, item := range items {
				if !emit(item) {
					return nil
				}
			}
			return nil
		})
	})
}

// Name describes the operator chain that built q, e.g. "Except(Slice, Slice)".
func (q *Queryable[T]) Name() string {
	return q.name
}

// Stream starts the sequence. Callers that stop reading early must cancel ctx.
func (q *Queryable[T]) Stream(ctx context.Context) <-chan Result[T] {
	return q.stream(ctx)
}

// HasFirst reports whether FirstOrDefault can use a provider shortcut.
func (q *Queryable[T]) HasFirst() bool {
	return q.first != nil
}

// HasCount reports whether Count can use a provider shortcut.
func (q *Queryable[T]) HasCount() bool {
	return q.count != nil
}

// Pair is an element produced by Zip.
type Pair[A, B any] struct {
	First  A
	Second B
}
