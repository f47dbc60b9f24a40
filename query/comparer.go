/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"math"
	"reflect"
	"sync"
)

// Comparer defines element equality for the set operators. Equal values must
// have equal hashes.
type Comparer[T any] interface {
	Equal(x, y T) bool
	Hash(v T) uint64
}

type funcComparer[T any] struct {
	equal func(x, y T) bool
	hash  func(v T) uint64
}

func (c funcComparer[T]) Equal(x, y T) bool { return c.equal(x, y) }
func (c funcComparer[T]) Hash(v T) uint64   { return c.hash(v) }

// NewComparer builds a Comparer from an equality and a hash function.
func NewComparer[T any](equal func(x, y T) bool, hash func(v T) uint64) Comparer[T] {
	return funcComparer[T]{equal: equal, hash: hash}
}

var (
	defaultComparers = make(map[reflect.Type]any)
	comparersMu      sync.RWMutex
)

// RegisterDefaultComparer sets the comparer used when an operator gets no comparer for T.
func RegisterDefaultComparer[T any](c Comparer[T]) {
	comparersMu.Lock()
	defer comparersMu.Unlock()
	defaultComparers[reflect.TypeFor[T]()] = c
}

// DefaultComparer returns the registered comparer for T. Without one it falls
// back to Go equality, which panics for non-comparable types, with a hash
// that agrees with it.
func DefaultComparer[T any]() Comparer[T] {
	comparersMu.RLock()
	c, ok := defaultComparers[reflect.TypeFor[T]()]
	comparersMu.RUnlock()
	if ok {
		return c.(Comparer[T])
	}

	return funcComparer[T]{
		equal: func(x, y T) bool { return any(x) == any(y) },
		hash: func(v T) uint64 {
			h := fnv.New64a()
			hashValue(h, reflect.ValueOf(&v).Elem())
			return h.Sum64()
		},
	}
}

// hashValue writes v so that values equal under == write the same bytes.
// Floats are normalised: +0 and -0 hash alike, and NaN never equals itself.
func hashValue(h hash.Hash64, v reflect.Value) {
	var buf [8]byte
	writeUint := func(u uint64) {
		binary.LittleEndian.PutUint64(buf[:], u)
		h.Write(buf[:])
	}
	writeFloat := func(f float64) {
		if f == 0 {
			f = 0
		}
		writeUint(math.Float64bits(f))
	}

	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			writeUint(1)
		} else {
			writeUint(0)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		writeUint(uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		writeUint(v.Uint())
	case reflect.Float32, reflect.Float64:
		writeFloat(v.Float())
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		writeFloat(real(c))
		writeFloat(imag(c))
	case reflect.String:
		h.Write([]byte(v.String()))
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		writeUint(uint64(v.Pointer()))
	case reflect.Array:
		for i := range v.Len() {
			hashValue(h, v.Index(i))
		}
	case reflect.Struct:
		for i := range v.NumField() {
			if v.Type().Field(i).Name == "_" {
				continue
			}
			hashValue(h, v.Field(i))
		}
	case reflect.Interface:
		if v.IsNil() {
			writeUint(0)
			return
		}
		e := v.Elem()
		h.Write([]byte(e.Type().String()))
		hashValue(h, e)
	default:
		fmt.Fprintf(h, "%v", v)
	}
}

// set is a hash set under a Comparer.
type set[T any] struct {
	cmp     Comparer[T]
	buckets map[uint64][]T
}

func newSet[T any](cmp Comparer[T]) *set[T] {
	if cmp == nil {
		cmp = DefaultComparer[T]()
	}
	return &set[T]{cmp: cmp, buckets: make(map[uint64][]T)}
}

// add inserts v and reports whether it was absent.
func (s *set[T]) add(v T) bool {
	h := s.cmp.Hash(v)
	for _, e := range s.buckets[h] {
		if s.cmp.Equal(e, v) {
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], v)
	return true
}

// remove deletes v and reports whether it was present.
func (s *set[T]) remove(v T) bool {
	h := s.cmp.Hash(v)
	bucket := s.buckets[h]
	for i, e := range bucket {
		if s.cmp.Equal(e, v) {
			s.buckets[h] = append(bucket[:i], bucket[i+1:]...)
			return true
		}
	}
	return false
}
