/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"sort"
	"sync"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeClient is an in-process table honouring the parts of Query and
// BatchWriteItem the store relies on.
type fakeClient struct {
	mu         sync.Mutex
	partitions map[string]map[string]map[string]types.AttributeValue
	queries    int

	// throttleQueries fails the next n queries with a throughput error.
	throttleQueries int
	// unprocessOnce returns the last request of the next batch as unprocessed.
	unprocessOnce bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{partitions: make(map[string]map[string]map[string]types.AttributeValue)}
}

func stringValue(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeClient) Query(ctx context.Context, in *sdk.QueryInput, _ ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.queries++
	if f.throttleQueries > 0 {
		f.throttleQueries--
		return nil, &types.ProvisionedThroughputExceededException{Message: stringPtr("slow down")}
	}

	partition := f.partitions[stringValue(in.ExpressionAttributeValues[":pk"])]
	sortKeys := make([]string, 0, len(partition))
	for sk := range partition {
		sortKeys = append(sortKeys, sk)
	}
	sort.Strings(sortKeys)

	start := ""
	if in.ExclusiveStartKey != nil {
		start = stringValue(in.ExclusiveStartKey["SK"])
	}

	out := &sdk.QueryOutput{}
	last := ""
	for _, sk := range sortKeys {
		if start != "" && sk <= start {
			continue
		}
		if in.Limit != nil && out.Count >= *in.Limit {
			item := partition[last]
			out.LastEvaluatedKey = map[string]types.AttributeValue{"PK": item["PK"], "SK": item["SK"]}
			break
		}
		out.Count++
		last = sk
		if in.Select != types.SelectCount {
			out.Items = append(out.Items, partition[sk])
		}
	}
	return out, nil
}

func (f *fakeClient) BatchWriteItem(ctx context.Context, in *sdk.BatchWriteItemInput, _ ...func(*sdk.Options)) (*sdk.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := &sdk.BatchWriteItemOutput{UnprocessedItems: map[string][]types.WriteRequest{}}
	for table, requests := range in.RequestItems {
		if f.unprocessOnce && len(requests) > 0 {
			f.unprocessOnce = false
			out.UnprocessedItems[table] = requests[len(requests)-1:]
			requests = requests[:len(requests)-1]
		}
		for _, r := range requests {
			switch {
			case r.PutRequest != nil:
				pk := stringValue(r.PutRequest.Item["PK"])
				if f.partitions[pk] == nil {
					f.partitions[pk] = make(map[string]map[string]types.AttributeValue)
				}
				f.partitions[pk][stringValue(r.PutRequest.Item["SK"])] = r.PutRequest.Item
			case r.DeleteRequest != nil:
				pk := stringValue(r.DeleteRequest.Key["PK"])
				delete(f.partitions[pk], stringValue(r.DeleteRequest.Key["SK"]))
			}
		}
	}
	return out, nil
}

func stringPtr(s string) *string { return &s }
