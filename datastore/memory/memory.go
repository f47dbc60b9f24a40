/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memory provides an in-memory DataStore for tests and local runs
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/suparena/asyncquery/datastore"
	"github.com/suparena/asyncquery/storagemodels"
)

// Name is the provider name of the in-memory store.
const Name = "memory"

// DataStore is an in-memory implementation of datastore.DataStore
type DataStore struct {
	mu          sync.RWMutex
	data        map[string][]storagemodels.Item
	putError    error
	deleteError error
	streamError error
	failAfter   int
	latency     time.Duration
}

var (
	_ datastore.DataStore   = (*DataStore)(nil)
	_ datastore.FirstReader = (*DataStore)(nil)
	_ datastore.Counter     = (*DataStore)(nil)
)

// New creates a new in-memory DataStore
func New() *DataStore {
	return &DataStore{
		data: make(map[string][]storagemodels.Item),
	}
}

// WithPutError makes Put operations return an error
func (m *DataStore) WithPutError(err error) *DataStore {
	m.putError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *DataStore) WithDeleteError(err error) *DataStore {
	m.deleteError = err
	return m
}

// WithStreamError makes streams fail with err after yielding n items
func (m *DataStore) WithStreamError(err error, n int) *DataStore {
	m.streamError = err
	m.failAfter = n
	return m
}

// WithLatency delays every streamed item by d
func (m *DataStore) WithLatency(d time.Duration) *DataStore {
	m.latency = d
	return m
}

// Name returns the provider name
func (m *DataStore) Name() string {
	return Name
}

// Put stores a copy of items under key
func (m *DataStore) Put(ctx context.Context, key string, items []storagemodels.Item) error {
	if m.putError != nil {
		return m.putError
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]storagemodels.Item, len(items))
	copy(stored, items)
	m.data[key] = stored
	return nil
}

// Stream returns a channel of the items stored under key
func (m *DataStore) Stream(ctx context.Context, key string, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult {
	options := storagemodels.ApplyStreamOptions(opts...)
	items := m.snapshot(key)
	resultChan := make(chan storagemodels.StreamResult, options.BufferSize)

	go func() {
		defer close(resultChan)

		for i, item := range items {
			if m.streamError != nil && i == m.failAfter {
				select {
				case <-ctx.Done():
				case resultChan <- storagemodels.StreamResult{Error: m.streamError}:
				}
				return
			}
			if m.latency > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(m.latency):
				}
			}

			select {
			case <-ctx.Done():
				return
			case resultChan <- storagemodels.StreamResult{
				Item: item,
				Meta: storagemodels.StreamMeta{
					Index:      int64(i),
					PageNumber: 1,
					Timestamp:  time.Now(),
				},
			}:
			}
		}

		if m.streamError != nil && m.failAfter >= len(items) {
			select {
			case <-ctx.Done():
			case resultChan <- storagemodels.StreamResult{Error: m.streamError}:
			}
		}
	}()

	return resultChan
}

// First returns the first item stored under key
func (m *DataStore) First(ctx context.Context, key string) (storagemodels.Item, bool, error) {
	if err := ctx.Err(); err != nil {
		return storagemodels.Item{}, false, err
	}
	if m.streamError != nil && m.failAfter == 0 {
		return storagemodels.Item{}, false, m.streamError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	items := m.data[key]
	if len(items) == 0 {
		return storagemodels.Item{}, false, nil
	}
	return items[0], true, nil
}

// Count returns the number of items stored under key
func (m *DataStore) Count(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.data[key])), nil
}

// Delete removes the sequence stored under key
func (m *DataStore) Delete(ctx context.Context, key string) error {
	if m.deleteError != nil {
		return m.deleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys returns the keys of all stored sequences (for testing)
func (m *DataStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}

// Clear removes all data
func (m *DataStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]storagemodels.Item)
}

func (m *DataStore) snapshot(key string) []storagemodels.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key]
}
