/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package asyncquery

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/suparena/asyncquery/config"
	"github.com/suparena/asyncquery/datastore"
	"github.com/suparena/asyncquery/datastore/ddb"
	"github.com/suparena/asyncquery/datastore/memory"
	"github.com/suparena/asyncquery/datastore/redisstore"
	"github.com/suparena/asyncquery/datastore/sqlstore"
	qerrors "github.com/suparena/asyncquery/errors"
)

// Factory opens a provider from configuration. The returned close function
// releases its connections.
type Factory func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (datastore.DataStore, func() error, error)

// Providers is a thread-safe registry of provider factories by name.
type Providers struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewProviders creates an empty registry.
func NewProviders() *Providers {
	return &Providers{
		factories: make(map[string]Factory),
	}
}

// DefaultProviders returns a registry with the built-in providers.
func DefaultProviders() *Providers {
	p := NewProviders()
	p.mustRegister(memory.Name, openMemory)
	p.mustRegister(sqlstore.Name, openSQLite)
	p.mustRegister(ddb.Name, openDynamoDB)
	p.mustRegister(redisstore.Name, openRedis)
	return p
}

func (p *Providers) mustRegister(name string, f Factory) {
	if err := p.Register(name, f); err != nil {
		panic(err)
	}
}

// Register adds a factory under name.
func (p *Providers) Register(name string, f Factory) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.factories[name]; exists {
		return fmt.Errorf("provider %q already registered", name)
	}
	p.factories[name] = f
	return nil
}

// Get retrieves the factory registered under name.
func (p *Providers) Get(name string) (Factory, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	f, exists := p.factories[name]
	if !exists {
		return nil, qerrors.NewNotFoundError("provider", name)
	}
	return f, nil
}

// Remove deletes the factory registered under name.
func (p *Providers) Remove(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.factories[name]; !exists {
		return qerrors.NewNotFoundError("provider", name)
	}
	delete(p.factories, name)
	return nil
}

// List returns the registered provider names in sorted order.
func (p *Providers) List() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.factories))
	for name := range p.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the provider selected by cfg.Provider.
func (p *Providers) Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (datastore.DataStore, func() error, error) {
	f, err := p.Get(cfg.Provider)
	if err != nil {
		return nil, nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	store, closeFn, err := f(ctx, cfg, logger.With(zap.String("provider", cfg.Provider)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open provider %q: %w", cfg.Provider, err)
	}
	if closeFn == nil {
		closeFn = func() error { return nil }
	}
	return store, closeFn, nil
}

func openMemory(context.Context, *config.Config, *zap.Logger) (datastore.DataStore, func() error, error) {
	return memory.New(), nil, nil
}

func openSQLite(ctx context.Context, cfg *config.Config, logger *zap.Logger) (datastore.DataStore, func() error, error) {
	store, err := sqlstore.Open(ctx, cfg.SQLite.DSN)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("SQLite store opened", zap.String("dsn", cfg.SQLite.DSN))
	return store, store.Close, nil
}

func openDynamoDB(ctx context.Context, cfg *config.Config, logger *zap.Logger) (datastore.DataStore, func() error, error) {
	opts := []ddb.Option{ddb.WithLogger(logger)}
	if d, err := time.ParseDuration(cfg.Stream.RetryBackoff); err == nil {
		opts = append(opts, ddb.WithRetryBackoff(d))
	}

	store, err := ddb.NewDynamodbDataStore(ctx,
		cfg.DynamoDB.AccessKey, cfg.DynamoDB.SecretKey,
		cfg.DynamoDB.Region, cfg.DynamoDB.Table, opts...)
	if err != nil {
		return nil, nil, err
	}
	return store, nil, nil
}

func openRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) (datastore.DataStore, func() error, error) {
	store, err := redisstore.Dial(ctx, cfg.Redis.Addr,
		redisstore.WithKeyPrefix(cfg.Redis.KeyPrefix),
		redisstore.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}
