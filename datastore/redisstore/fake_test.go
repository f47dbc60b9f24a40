/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redisstore_test

import (
	"context"
	"sync"

	"github.com/go-redis/redis/v8"
)

// fakeClient keeps lists in memory and answers with real go-redis commands.
type fakeClient struct {
	mu        sync.Mutex
	lists     map[string][]string
	lrangeErr error
	lranges   int
}

func newFakeClient() *fakeClient {
	return &fakeClient{lists: make(map[string][]string)}
}

func (f *fakeClient) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.lists[k]; ok {
			delete(f.lists, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeClient) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range values {
		f.lists[key] = append(f.lists[key], v.(string))
	}
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeClient) LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lranges++
	if f.lrangeErr != nil {
		return redis.NewStringSliceResult(nil, f.lrangeErr)
	}
	list := f.lists[key]
	if start >= int64(len(list)) || stop < start {
		return redis.NewStringSliceResult([]string{}, nil)
	}
	if stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	return redis.NewStringSliceResult(append([]string(nil), list[start:stop+1]...), nil)
}

func (f *fakeClient) LLen(ctx context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeClient) LIndex(ctx context.Context, key string, index int64) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.lists[key]
	if index >= int64(len(list)) {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(list[index], nil)
}
