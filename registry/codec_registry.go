/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/suparena/asyncquery/errors"
)

// Codec converts between an element value and the string form providers store.
// A null element is stored with null set and an empty value.
type Codec[T any] interface {
	Encode(v T) (value string, null bool)
	Decode(value string, null bool) (T, error)
}

type entry struct {
	name  string
	codec any
}

var (
	codecsByType = make(map[reflect.Type]entry)
	typesByName  = make(map[string]reflect.Type)
	mu           sync.RWMutex
)

// RegisterCodec associates the Go type T with a codec under the given element type name.
// Registering the same name twice panics to prevent accidental overrides.
func RegisterCodec[T any](name string, codec Codec[T]) {
	t := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()
	if _, exists := typesByName[name]; exists {
		panic(fmt.Sprintf("codec registry: type with name %q already registered", name))
	}
	typesByName[name] = t
	codecsByType[t] = entry{name: name, codec: codec}
}

// CodecFor returns the codec registered for T.
func CodecFor[T any]() (Codec[T], error) {
	t := reflect.TypeFor[T]()

	mu.RLock()
	defer mu.RUnlock()
	e, ok := codecsByType[t]
	if !ok {
		return nil, fmt.Errorf("codec registry: %w %s", errors.ErrNoCodec, t)
	}
	return e.codec.(Codec[T]), nil
}

// NameOf returns the element type name registered for T, if any.
func NameOf[T any]() (string, bool) {
	t := reflect.TypeFor[T]()

	mu.RLock()
	defer mu.RUnlock()
	e, ok := codecsByType[t]
	return e.name, ok
}

// Lookup returns the Go type registered under name.
func Lookup(name string) (reflect.Type, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := typesByName[name]
	return t, ok
}

// Names returns all registered element type names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(typesByName))
	for n := range typesByName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
