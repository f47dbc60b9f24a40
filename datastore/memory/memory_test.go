/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/suparena/asyncquery/datastore/memory"
	"github.com/suparena/asyncquery/storagemodels"
)

func items(values ...string) []storagemodels.Item {
	out := make([]storagemodels.Item, len(values))
	for i, v := range values {
		out[i] = storagemodels.Item{Index: int64(i), Value: v}
	}
	return out
}

func collect(t *testing.T, ch <-chan storagemodels.StreamResult) ([]string, error) {
	t.Helper()
	var values []string
	for r := range ch {
		if r.Error != nil {
			return values, r.Error
		}
		values = append(values, r.Item.Value)
	}
	return values, nil
}

func TestMemoryDataStore(t *testing.T) {
	ctx := context.Background()

	t.Run("PutAndStream", func(t *testing.T) {
		store := memory.New()

		if err := store.Put(ctx, "seq", items("1", "2", "3")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		values, err := collect(t, store.Stream(ctx, "seq"))
		if err != nil {
			t.Fatalf("Stream failed: %v", err)
		}
		if len(values) != 3 || values[0] != "1" || values[2] != "3" {
			t.Fatalf("Unexpected values: %v", values)
		}
	})

	t.Run("MissingKeyIsEmpty", func(t *testing.T) {
		store := memory.New()

		values, err := collect(t, store.Stream(ctx, "missing"))
		if err != nil || len(values) != 0 {
			t.Fatalf("Expected empty stream, got %v err=%v", values, err)
		}
	})

	t.Run("FirstAndCount", func(t *testing.T) {
		store := memory.New()
		store.Put(ctx, "seq", items("7", "8"))

		first, ok, err := store.First(ctx, "seq")
		if err != nil || !ok || first.Value != "7" {
			t.Fatalf("Unexpected first %+v ok=%v err=%v", first, ok, err)
		}

		_, ok, err = store.First(ctx, "missing")
		if err != nil || ok {
			t.Fatalf("Expected no first item, got ok=%v err=%v", ok, err)
		}

		n, err := store.Count(ctx, "seq")
		if err != nil || n != 2 {
			t.Fatalf("Expected count 2, got %d err=%v", n, err)
		}
	})

	t.Run("PutReplaces", func(t *testing.T) {
		store := memory.New()
		store.Put(ctx, "seq", items("1", "2", "3"))
		store.Put(ctx, "seq", items("9"))

		n, _ := store.Count(ctx, "seq")
		if n != 1 {
			t.Fatalf("Expected count 1 after replace, got %d", n)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		store := memory.New()
		store.Put(ctx, "seq", items("1"))

		if err := store.Delete(ctx, "seq"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if len(store.Keys()) != 0 {
			t.Fatalf("Expected no keys after delete, got %v", store.Keys())
		}
	})

	t.Run("ErrorSimulation", func(t *testing.T) {
		putErr := errors.New("put failed")
		store := memory.New().WithPutError(putErr)
		if err := store.Put(ctx, "seq", nil); err != putErr {
			t.Fatalf("Expected put error, got: %v", err)
		}

		streamErr := errors.New("stream failed")
		store = memory.New().WithStreamError(streamErr, 1)
		store.Put(ctx, "seq", items("1", "2"))

		values, err := collect(t, store.Stream(ctx, "seq"))
		if err != streamErr {
			t.Fatalf("Expected stream error, got: %v", err)
		}
		if len(values) != 1 {
			t.Fatalf("Expected 1 value before the error, got %v", values)
		}

		deleteErr := errors.New("delete failed")
		store.WithDeleteError(deleteErr)
		if err := store.Delete(ctx, "seq"); err != deleteErr {
			t.Fatalf("Expected delete error, got: %v", err)
		}
	})

	t.Run("CancelStopsStream", func(t *testing.T) {
		store := memory.New().WithLatency(10 * time.Millisecond)
		store.Put(ctx, "seq", items("1", "2", "3", "4", "5", "6"))

		streamCtx, cancel := context.WithTimeout(ctx, 15*time.Millisecond)
		defer cancel()

		values, _ := collect(t, store.Stream(streamCtx, "seq"))
		if len(values) >= 6 {
			t.Fatalf("Expected the stream to stop early, got %v", values)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		store := memory.New()
		store.Put(ctx, "a", items("1"))
		store.Put(ctx, "b", items("2"))
		store.Clear()
		if len(store.Keys()) != 0 {
			t.Fatalf("Expected no keys after clear, got %v", store.Keys())
		}
	})
}
