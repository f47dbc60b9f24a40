/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package conformance

import (
	"context"

	"github.com/suparena/asyncquery/adapter"
	"github.com/suparena/asyncquery/datastore"
)

// Fixture supplies query adapters over one provider.
type Fixture interface {
	// Name identifies the provider in reports and metrics.
	Name() string
	// QueryAdapter returns an adapter configured with opts.
	QueryAdapter(ctx context.Context, opts ...adapter.Option) (*adapter.Adapter, error)
}

type storeFixture struct {
	store datastore.DataStore
}

// StoreFixture returns a Fixture handing out adapters over store.
func StoreFixture(store datastore.DataStore) Fixture {
	return storeFixture{store: store}
}

func (f storeFixture) Name() string {
	return f.store.Name()
}

func (f storeFixture) QueryAdapter(_ context.Context, opts ...adapter.Option) (*adapter.Adapter, error) {
	return adapter.New(f.store, opts...), nil
}
