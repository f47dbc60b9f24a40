/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package numeric

import (
	"database/sql"
	"math"

	"github.com/suparena/asyncquery/registry"
)

// Of returns a valid nullable value.
func Of[T any](v T) sql.Null[T] {
	return sql.Null[T]{V: v, Valid: true}
}

// Null returns the null value of T.
func Null[T any]() sql.Null[T] {
	return sql.Null[T]{}
}

type nullableCodec[T any] struct {
	inner registry.Codec[T]
}

func (c nullableCodec[T]) Encode(v sql.Null[T]) (string, bool) {
	if !v.Valid {
		return "", true
	}
	return c.inner.Encode(v.V)
}

func (c nullableCodec[T]) Decode(value string, null bool) (sql.Null[T], error) {
	if null {
		return sql.Null[T]{}, nil
	}
	v, err := c.inner.Decode(value, false)
	if err != nil {
		return sql.Null[T]{}, err
	}
	return Of(v), nil
}

// nullHash is the hash of the null value of every nullable kind.
const nullHash = 0x9e3779b97f4a7c15

// nullable lifts base to sql.Null[T]. FromInt yields null for multiples of nullEvery.
func nullable[T any](base Descriptor[T], nullEvery int64) Descriptor[sql.Null[T]] {
	return Descriptor[sql.Null[T]]{
		Name:  base.Name + "?",
		Codec: nullableCodec[T]{inner: base.Codec},
		FromInt: func(i int64) sql.Null[T] {
			if i%nullEvery == 0 {
				return sql.Null[T]{}
			}
			return Of(base.FromInt(i))
		},
		Add: func(a, b sql.Null[T]) sql.Null[T] {
			if !a.Valid || !b.Valid {
				return sql.Null[T]{}
			}
			return Of(base.Add(a.V, b.V))
		},
		Compare: func(a, b sql.Null[T]) int {
			switch {
			case !a.Valid && !b.Valid:
				return 0
			case !a.Valid:
				return -1
			case !b.Valid:
				return 1
			}
			return base.Compare(a.V, b.V)
		},
		Equal: func(a, b sql.Null[T]) bool {
			if a.Valid != b.Valid {
				return false
			}
			return !a.Valid || base.Equal(a.V, b.V)
		},
		Hash: func(v sql.Null[T]) uint64 {
			if !v.Valid {
				return nullHash
			}
			return base.Hash(v.V)
		},
		Bucket: func(v sql.Null[T]) int64 {
			if !v.Valid {
				return math.MinInt64
			}
			return base.Bucket(v.V)
		},
	}
}
