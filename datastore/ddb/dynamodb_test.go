/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/asyncquery/adapter"
	"github.com/suparena/asyncquery/conformance"
	"github.com/suparena/asyncquery/storagemodels"
)

func numbered(n int) []storagemodels.Item {
	items := make([]storagemodels.Item, n)
	for i := range items {
		items[i] = storagemodels.Item{Index: int64(i), Value: strconv.Itoa(i - 3)}
	}
	return items
}

func collect(t *testing.T, ch <-chan storagemodels.StreamResult) []storagemodels.Item {
	t.Helper()
	var got []storagemodels.Item
	for r := range ch {
		require.NoError(t, r.Error)
		got = append(got, r.Item)
	}
	return got
}

func TestExpandMacros(t *testing.T) {
	got, err := expandMacros(DefaultIndexMap, keyInput{Key: "run/a", Index: "000000000007"})
	require.NoError(t, err)
	assert.Equal(t, "SEQ#run/a", got["PK"])
	assert.Equal(t, "IDX#000000000007", got["SK"])
}

func TestKeysRejectsIncompleteIndexMap(t *testing.T) {
	store := New(newFakeClient(), "table", WithIndexMap(map[string]string{"PK": "SEQ#{Key}"}))
	_, _, err := store.keys("seq", 0)
	assert.Error(t, err)
}

func TestDynamodbDataStore(t *testing.T) {
	ctx := context.Background()

	t.Run("PutAndPagedStream", func(t *testing.T) {
		client := newFakeClient()
		store := New(client, "table")
		require.NoError(t, store.Put(ctx, "seq", numbered(60)))

		got := collect(t, store.Stream(ctx, "seq", storagemodels.WithPageSize(7)))
		assert.Equal(t, numbered(60), got)
	})

	t.Run("SortKeysKeepNumericOrder", func(t *testing.T) {
		store := New(newFakeClient(), "table")
		require.NoError(t, store.Put(ctx, "seq", numbered(12)))

		got := collect(t, store.Stream(ctx, "seq", storagemodels.WithPageSize(100)))
		require.Len(t, got, 12)
		for i, item := range got {
			assert.Equal(t, int64(i), item.Index)
		}
	})

	t.Run("Nulls", func(t *testing.T) {
		store := New(newFakeClient(), "table")
		require.NoError(t, store.Put(ctx, "seq", []storagemodels.Item{
			{Index: 0, Value: "1.5"},
			{Index: 1, Null: true},
		}))

		got := collect(t, store.Stream(ctx, "seq"))
		require.Len(t, got, 2)
		assert.Equal(t, "1.5", got[0].Value)
		assert.True(t, got[1].Null)
	})

	t.Run("PutReplaces", func(t *testing.T) {
		store := New(newFakeClient(), "table")
		require.NoError(t, store.Put(ctx, "seq", numbered(30)))
		require.NoError(t, store.Put(ctx, "seq", numbered(2)))

		assert.Equal(t, numbered(2), collect(t, store.Stream(ctx, "seq")))
	})

	t.Run("FirstAndCount", func(t *testing.T) {
		store := New(newFakeClient(), "table")
		require.NoError(t, store.Put(ctx, "seq", numbered(40)))

		item, ok, err := store.First(ctx, "seq")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, numbered(1)[0], item)

		n, err := store.Count(ctx, "seq")
		require.NoError(t, err)
		assert.Equal(t, int64(40), n)

		_, ok, err = store.First(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Delete", func(t *testing.T) {
		store := New(newFakeClient(), "table")
		require.NoError(t, store.Put(ctx, "seq", numbered(5)))
		require.NoError(t, store.Delete(ctx, "seq"))

		assert.Empty(t, collect(t, store.Stream(ctx, "seq")))
	})

	t.Run("UnprocessedItemsAreResubmitted", func(t *testing.T) {
		client := newFakeClient()
		client.unprocessOnce = true
		store := New(client, "table", WithRetryBackoff(time.Millisecond))
		require.NoError(t, store.Put(ctx, "seq", numbered(3)))

		n, err := store.Count(ctx, "seq")
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("ThrottledQueriesAreRetried", func(t *testing.T) {
		client := newFakeClient()
		store := New(client, "table")
		require.NoError(t, store.Put(ctx, "seq", numbered(4)))

		client.throttleQueries = 2
		got := collect(t, store.Stream(ctx, "seq", storagemodels.WithRetryBackoff(time.Millisecond)))
		assert.Len(t, got, 4)
	})

	t.Run("ThrottlingBeyondRetriesSurfaces", func(t *testing.T) {
		client := newFakeClient()
		store := New(client, "table")
		require.NoError(t, store.Put(ctx, "seq", numbered(4)))

		client.throttleQueries = 10
		var lastErr error
		for r := range store.Stream(ctx, "seq",
			storagemodels.WithRetryBackoff(time.Millisecond),
			storagemodels.WithMaxRetries(1)) {
			lastErr = r.Error
		}
		var throughput *types.ProvisionedThroughputExceededException
		assert.ErrorAs(t, lastErr, &throughput)
	})
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(&types.ProvisionedThroughputExceededException{}))
	assert.True(t, isRetryableError(&types.RequestLimitExceeded{}))
	assert.True(t, isRetryableError(&types.InternalServerError{}))
	assert.False(t, isRetryableError(&types.ResourceNotFoundException{}))
	assert.False(t, isRetryableError(context.Canceled))
}

func TestDynamodbConformance(t *testing.T) {
	store := New(newFakeClient(), "table")
	conformance.RunAllWith(t, conformance.StoreFixture(store), conformance.RunOptions{
		AdapterOptions: []adapter.Option{adapter.WithStreamOptions(storagemodels.WithPageSize(4))},
	})
}
