/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package adapter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/suparena/asyncquery/datastore"
	"github.com/suparena/asyncquery/query"
	"github.com/suparena/asyncquery/registry"
	"github.com/suparena/asyncquery/storagemodels"
)

// Adapter exposes the sequences of a DataStore as typed queryables.
type Adapter struct {
	store      datastore.DataStore
	policy     Policy
	logger     *zap.Logger
	streamOpts []storagemodels.StreamOption
}

// New creates an Adapter over store.
func New(store datastore.DataStore, opts ...Option) *Adapter {
	a := &Adapter{
		store:  store,
		policy: AllowAll,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Store returns the backing provider.
func (a *Adapter) Store() datastore.DataStore {
	return a.store
}

// Policy returns the provider shortcut policy.
func (a *Adapter) Policy() Policy {
	return a.policy
}

// Seed encodes values with the registered codec of T and stores them under key,
// replacing any previous sequence.
func Seed[T any](ctx context.Context, a *Adapter, key string, values []T) error {
	codec, err := registry.CodecFor[T]()
	if err != nil {
		return err
	}

	items := make([]storagemodels.Item, len(values))
	for i, v := range values {
		value, null := codec.Encode(v)
		items[i] = storagemodels.Item{Index: int64(i), Value: value, Null: null}
	}

	if err := a.store.Put(ctx, key, items); err != nil {
		return fmt.Errorf("failed to seed %q: %w", key, err)
	}
	a.logger.Debug("seeded sequence",
		zap.String("provider", a.store.Name()),
		zap.String("key", key),
		zap.Int("items", len(items)))
	return nil
}

// Queryable returns the sequence stored under key as a query source. The
// provider's First and Count shortcuts are attached when the policy allows
// them and the store implements them.
func Queryable[T any](a *Adapter, key string) (*query.Queryable[T], error) {
	codec, err := registry.CodecFor[T]()
	if err != nil {
		return nil, err
	}

	var opts []query.Option[T]
	if fr, ok := a.store.(datastore.FirstReader); ok && a.policy.Allows(AllowFirst) {
		opts = append(opts, query.WithFirst(func(ctx context.Context) (T, bool, error) {
			var zero T
			item, found, err := fr.First(ctx, key)
			if err != nil || !found {
				return zero, false, err
			}
			v, err := codec.Decode(item.Value, item.Null)
			if err != nil {
				return zero, false, fmt.Errorf("item %d: %w", item.Index, err)
			}
			return v, true, nil
		}))
	}
	if c, ok := a.store.(datastore.Counter); ok && a.policy.Allows(AllowCount) {
		opts = append(opts, query.WithCount[T](func(ctx context.Context) (int64, error) {
			return c.Count(ctx, key)
		}))
	}

	name := fmt.Sprintf("%s(%s)", a.store.Name(), key)
	return query.New(name, func(ctx context.Context) <-chan query.Result[T] {
		return stream(ctx, a, key, codec)
	}, opts...), nil
}

// stream decodes the provider stream of key. The provider stream is
// canceled when stream returns, so no producer outlives the drain.
func stream[T any](ctx context.Context, a *Adapter, key string, codec registry.Codec[T]) <-chan query.Result[T] {
	out := make(chan query.Result[T])

	go func() {
		defer close(out)

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		send := func(r query.Result[T]) bool {
			select {
			case <-ctx.Done():
				return false
			case out <- r:
				return true
			}
		}

		start := time.Now()
		var n int
		logger := a.logger.With(
			zap.String("provider", a.store.Name()),
			zap.String("key", key))
		logger.Debug("stream started")

		for r := range a.store.Stream(ctx, key, a.streamOpts...) {
			if r.Error != nil {
				logger.Debug("stream failed", zap.Int("items", n), zap.Error(r.Error))
				send(query.Result[T]{Err: r.Error})
				return
			}
			v, err := codec.Decode(r.Item.Value, r.Item.Null)
			if err != nil {
				err = fmt.Errorf("item %d: %w", r.Item.Index, err)
				logger.Debug("stream failed", zap.Int("items", n), zap.Error(err))
				send(query.Result[T]{Err: err})
				return
			}
			if !send(query.Result[T]{Item: v}) {
				logger.Debug("stream stopped", zap.Int("items", n))
				return
			}
			n++
		}

		logger.Debug("stream finished",
			zap.Int("items", n),
			zap.Duration("elapsed", time.Since(start)))
	}()

	return out
}
