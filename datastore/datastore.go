/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/asyncquery/storagemodels"
)

// DataStore is a backing provider holding named sequences of encoded items.
type DataStore interface {
	// Name identifies the provider, e.g. "memory" or "dynamodb".
	Name() string

	// Put replaces the sequence stored under key.
	Put(ctx context.Context, key string, items []storagemodels.Item) error

	// Stream yields the items of the sequence in ascending Index order and
	// closes the channel when done. A missing key is an empty sequence.
	Stream(ctx context.Context, key string, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult

	// Delete removes the sequence stored under key.
	Delete(ctx context.Context, key string) error
}

// FirstReader is implemented by providers that can fetch the first item of a
// sequence without streaming it.
type FirstReader interface {
	First(ctx context.Context, key string) (storagemodels.Item, bool, error)
}

// Counter is implemented by providers that can count a sequence without streaming it.
type Counter interface {
	Count(ctx context.Context, key string) (int64, error)
}
