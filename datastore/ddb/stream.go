/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/asyncquery/datastore"
	"github.com/suparena/asyncquery/storagemodels"
)

// Stream pages through the partition of the sequence in sort key order,
// following LastEvaluatedKey and retrying throttled queries.
func (d *DynamodbDataStore) Stream(ctx context.Context, key string, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult {
	pk, err := d.partitionKey(key)
	if err != nil {
		ch := make(chan storagemodels.StreamResult, 1)
		ch <- storagemodels.StreamResult{Error: fmt.Errorf("failed to build key: %w", err)}
		close(ch)
		return ch
	}

	fetch := func(ctx context.Context, cursor any, limit int32) ([]storagemodels.Item, any, error) {
		input := &sdk.QueryInput{
			TableName:                 &d.tableName,
			KeyConditionExpression:    aws.String("PK = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{":pk": &types.AttributeValueMemberS{Value: pk}},
			Limit:                     aws.Int32(limit),
			ScanIndexForward:          aws.Bool(true),
		}
		if cursor != nil {
			input.ExclusiveStartKey = cursor.(map[string]types.AttributeValue)
		}

		out, err := d.client.Query(ctx, input)
		if err != nil {
			return nil, nil, err
		}

		items := make([]storagemodels.Item, 0, len(out.Items))
		for _, av := range out.Items {
			item, err := decodeItem(av)
			if err != nil {
				return nil, nil, err
			}
			items = append(items, item)
		}

		if len(out.LastEvaluatedKey) == 0 {
			return items, nil, nil
		}
		return items, out.LastEvaluatedKey, nil
	}

	return datastore.StreamPages(ctx, fetch, isRetryableError, opts...)
}

// isRetryableError determines if a DynamoDB error is retryable
func isRetryableError(err error) bool {
	var throughput *types.ProvisionedThroughputExceededException
	var limit *types.RequestLimitExceeded
	var internal *types.InternalServerError
	if errors.As(err, &throughput) || errors.As(err, &limit) || errors.As(err, &internal) {
		return true
	}

	var retryable interface{ IsRetryable() bool }
	if errors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}
