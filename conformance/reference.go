/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package conformance

import (
	"math/rand/v2"

	"github.com/suparena/asyncquery/numeric"
)

// valueRange bounds the sample integers fed to numeric.Descriptor.FromInt.
// A narrow range guarantees duplicates inside a sequence.
const valueRange = 20

// Reference is the in-memory input of one case: the values seeded into the
// provider and handed to the synchronous oracle.
type Reference[T any] struct {
	First  []T
	Second []T
}

// NewReference draws size values in [-20, 20] for First and about half as many
// for Second, which reuses some of First so the set operators see overlap.
func NewReference[T any](d numeric.Descriptor[T], seed uint64, size int) Reference[T] {
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	draw := func() int64 {
		return rng.Int64N(2*valueRange+1) - valueRange
	}

	first := make([]int64, size)
	for i := range first {
		first[i] = draw()
	}

	second := make([]int64, size/2+1)
	for i := range second {
		if size > 0 && rng.IntN(2) == 0 {
			second[i] = first[rng.IntN(size)]
			continue
		}
		second[i] = draw()
	}

	return Reference[T]{
		First:  d.Values(first),
		Second: d.Values(second),
	}
}
