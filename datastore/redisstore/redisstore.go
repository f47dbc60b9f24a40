/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redisstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/suparena/asyncquery/datastore"
	"github.com/suparena/asyncquery/storagemodels"
)

// Name is the provider name of the Redis store.
const Name = "redis"

// DefaultKeyPrefix namespaces sequence lists in a shared Redis database.
const DefaultKeyPrefix = "asyncquery:seq:"

const (
	valuePrefix = "v:"
	nullEntry   = "n"
)

// Client is the subset of the go-redis client used by the store.
type Client interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
	LIndex(ctx context.Context, key string, index int64) *redis.StringCmd
}

// DataStore keeps each sequence as one Redis list, one entry per element.
type DataStore struct {
	client    Client
	keyPrefix string
	logger    *zap.Logger
}

var (
	_ datastore.DataStore   = (*DataStore)(nil)
	_ datastore.FirstReader = (*DataStore)(nil)
	_ datastore.Counter     = (*DataStore)(nil)
)

// Option configures a DataStore.
type Option func(*DataStore)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return func(s *DataStore) {
		s.keyPrefix = prefix
	}
}

// WithLogger sets the store logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *DataStore) {
		s.logger = logger
	}
}

// Dial connects to the Redis server at addr and verifies it with PING.
func Dial(ctx context.Context, addr string, opts ...Option) (*DataStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	s := New(rdb, opts...)
	s.logger.Info("Redis store initialized", zap.String("address", addr))
	return s, nil
}

// New returns a store backed by client.
func New(client Client, opts ...Option) *DataStore {
	s := &DataStore{
		client:    client,
		keyPrefix: DefaultKeyPrefix,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close closes the client if it holds connections.
func (s *DataStore) Close() error {
	if c, ok := s.client.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Name returns the provider name
func (s *DataStore) Name() string {
	return Name
}

func (s *DataStore) listKey(key string) string {
	return s.keyPrefix + key
}

func encodeEntry(item storagemodels.Item) string {
	if item.Null {
		return nullEntry
	}
	return valuePrefix + item.Value
}

func decodeEntry(index int64, entry string) (storagemodels.Item, error) {
	if entry == nullEntry {
		return storagemodels.Item{Index: index, Null: true}, nil
	}
	value, ok := strings.CutPrefix(entry, valuePrefix)
	if !ok {
		return storagemodels.Item{}, fmt.Errorf("malformed list entry %q at %d", entry, index)
	}
	return storagemodels.Item{Index: index, Value: value}, nil
}

// Put replaces the list stored under key. Items are pushed in index order,
// so the list position of an element is its index.
func (s *DataStore) Put(ctx context.Context, key string, items []storagemodels.Item) error {
	if err := s.Delete(ctx, key); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	entries := make([]interface{}, len(items))
	for i, item := range items {
		entries[i] = encodeEntry(item)
	}
	if err := s.client.RPush(ctx, s.listKey(key), entries...).Err(); err != nil {
		return fmt.Errorf("failed to push items to Redis: %w", err)
	}
	return nil
}

// Stream reads the list in LRANGE windows of the configured page size.
func (s *DataStore) Stream(ctx context.Context, key string, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult {
	listKey := s.listKey(key)

	fetch := func(ctx context.Context, cursor any, limit int32) ([]storagemodels.Item, any, error) {
		var start int64
		if cursor != nil {
			start = cursor.(int64)
		}

		entries, err := s.client.LRange(ctx, listKey, start, start+int64(limit)-1).Result()
		if err != nil {
			return nil, nil, err
		}

		items := make([]storagemodels.Item, 0, len(entries))
		for i, entry := range entries {
			item, err := decodeEntry(start+int64(i), entry)
			if err != nil {
				return nil, nil, err
			}
			items = append(items, item)
		}

		if len(entries) == 0 || len(entries) < int(limit) {
			return items, nil, nil
		}
		return items, start + int64(len(entries)), nil
	}

	return datastore.StreamPages(ctx, fetch, isRetryableError, opts...)
}

// First reads the head of the list with LINDEX.
func (s *DataStore) First(ctx context.Context, key string) (storagemodels.Item, bool, error) {
	entry, err := s.client.LIndex(ctx, s.listKey(key), 0).Result()
	if errors.Is(err, redis.Nil) {
		return storagemodels.Item{}, false, nil
	}
	if err != nil {
		return storagemodels.Item{}, false, fmt.Errorf("first - LINDEX error: %w", err)
	}

	item, err := decodeEntry(0, entry)
	if err != nil {
		return storagemodels.Item{}, false, err
	}
	return item, true, nil
}

// Count returns the list length.
func (s *DataStore) Count(ctx context.Context, key string) (int64, error) {
	n, err := s.client.LLen(ctx, s.listKey(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("count - LLEN error: %w", err)
	}
	return n, nil
}

// Delete removes the list stored under key.
func (s *DataStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.listKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete list in Redis: %w", err)
	}
	return nil
}

// isRetryableError retries network timeouts and the transient server replies.
func isRetryableError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := err.Error()
	return strings.HasPrefix(msg, "LOADING") ||
		strings.HasPrefix(msg, "TRYAGAIN") ||
		strings.HasPrefix(msg, "BUSY")
}
