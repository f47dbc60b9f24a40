/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// Item is one stored element of a sequence. Providers keep values in their
// encoded string form; the registry codec for the element type decodes them.
type Item struct {
	// Index is the 0-based position of the element in its sequence.
	Index int64
	// Value is the encoded element. Empty when Null is set.
	Value string
	// Null marks an absent value of a nullable element type.
	Null bool
}
