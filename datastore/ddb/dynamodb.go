/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/suparena/asyncquery/datastore"
	"github.com/suparena/asyncquery/storagemodels"
)

// Name is the provider name of the DynamoDB store.
const Name = "dynamodb"

// EntityType is written on every item so sequence items can share a table
// with other entities.
const EntityType = "SequenceItem"

// maxBatchSize is the DynamoDB limit of requests per BatchWriteItem call.
const maxBatchSize = 25

// API is the subset of the DynamoDB client used by the store.
type API interface {
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *sdk.BatchWriteItemInput, optFns ...func(*sdk.Options)) (*sdk.BatchWriteItemOutput, error)
}

// DefaultIndexMap lays sequences out as one partition per sequence with one
// sort key per element.
var DefaultIndexMap = map[string]string{
	"PK": "SEQ#{Key}",
	"SK": "IDX#{Index}",
}

// DynamodbDataStore implements datastore.DataStore on a single DynamoDB table.
type DynamodbDataStore struct {
	client    API
	tableName string
	indexMap  map[string]string
	logger    *zap.Logger
	retry     storagemodels.StreamOptions
}

var (
	_ datastore.DataStore   = (*DynamodbDataStore)(nil)
	_ datastore.FirstReader = (*DynamodbDataStore)(nil)
	_ datastore.Counter     = (*DynamodbDataStore)(nil)
)

// Option configures a DynamodbDataStore.
type Option func(*DynamodbDataStore)

// WithLogger sets the logger used for client setup and write retries.
func WithLogger(logger *zap.Logger) Option {
	return func(d *DynamodbDataStore) {
		d.logger = logger
	}
}

// WithIndexMap overrides the PK/SK templates. Templates may use the {Key}
// and {Index} macros.
func WithIndexMap(indexMap map[string]string) Option {
	return func(d *DynamodbDataStore) {
		d.indexMap = indexMap
	}
}

// WithRetryBackoff sets the backoff between write retries.
func WithRetryBackoff(backoff time.Duration) Option {
	return func(d *DynamodbDataStore) {
		d.retry.RetryBackoff = backoff
	}
}

// record is the stored form of one sequence element.
type record struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	Seq        string `dynamodbav:"Seq"`
	Idx        int64  `dynamodbav:"Idx"`
	Val        string `dynamodbav:"Val,omitempty"`
	IsNull     bool   `dynamodbav:"IsNull,omitempty"`
}

// keyInput feeds the index map macros.
type keyInput struct {
	Key   string
	Index string
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

func expandMacros(indexMap map[string]string, keysInput any) (map[string]string, error) {
	av, err := attributevalue.MarshalMap(keysInput)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keysInput: %w", err)
	}

	res := make(map[string]string, len(indexMap))
	for fieldName, template := range indexMap {
		res[fieldName] = macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			switch tv := av[strings.Trim(macro, "{}")].(type) {
			case *types.AttributeValueMemberS:
				return tv.Value
			case *types.AttributeValueMemberN:
				return tv.Value
			default:
				return ""
			}
		})
	}
	return res, nil
}

// NewDynamoDBClient initializes a DynamoDB client using static AWS credentials.
func NewDynamoDBClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg), nil
}

// NewDynamodbDataStore connects to DynamoDB and returns a store on awsDDBTableName.
func NewDynamodbDataStore(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion, awsDDBTableName string, opts ...Option) (*DynamodbDataStore, error) {
	client, err := NewDynamoDBClient(ctx, awsAccessKey, awsSecretKey, awsRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	d := New(client, awsDDBTableName, opts...)
	d.logger.Info("DynamoDB client initialized",
		zap.String("table", awsDDBTableName),
		zap.String("region", awsRegion))
	return d, nil
}

// New returns a store on tableName using an existing client.
func New(client API, tableName string, opts ...Option) *DynamodbDataStore {
	d := &DynamodbDataStore{
		client:    client,
		tableName: tableName,
		indexMap:  DefaultIndexMap,
		logger:    zap.NewNop(),
		retry:     storagemodels.DefaultStreamOptions(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the provider name
func (d *DynamodbDataStore) Name() string {
	return Name
}

func (d *DynamodbDataStore) keys(key string, index int64) (string, string, error) {
	expanded, err := expandMacros(d.indexMap, keyInput{Key: key, Index: fmt.Sprintf("%012d", index)})
	if err != nil {
		return "", "", err
	}
	pk, sk := expanded["PK"], expanded["SK"]
	if pk == "" || sk == "" {
		return "", "", errors.New("expanded index map missing valid PK or SK")
	}
	return pk, sk, nil
}

func (d *DynamodbDataStore) partitionKey(key string) (string, error) {
	pk, _, err := d.keys(key, 0)
	return pk, err
}

// Put replaces the sequence stored under key. Existing items are deleted
// first, then the new items are written in batches.
func (d *DynamodbDataStore) Put(ctx context.Context, key string, items []storagemodels.Item) error {
	if err := d.Delete(ctx, key); err != nil {
		return err
	}

	requests := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		pk, sk, err := d.keys(key, item.Index)
		if err != nil {
			return fmt.Errorf("failed to build key: %w", err)
		}
		av, err := attributevalue.MarshalMap(record{
			PK:         pk,
			SK:         sk,
			EntityType: EntityType,
			Seq:        key,
			Idx:        item.Index,
			Val:        item.Value,
			IsNull:     item.Null,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal item: %w", err)
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}

	if err := d.batchWrite(ctx, requests); err != nil {
		return fmt.Errorf("BatchWriteItem failed: %w", err)
	}
	return nil
}

// Delete removes every item of the sequence stored under key.
func (d *DynamodbDataStore) Delete(ctx context.Context, key string) error {
	pk, err := d.partitionKey(key)
	if err != nil {
		return fmt.Errorf("failed to build key for Delete: %w", err)
	}

	var requests []types.WriteRequest
	input := &sdk.QueryInput{
		TableName:                 &d.tableName,
		KeyConditionExpression:    aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":pk": &types.AttributeValueMemberS{Value: pk}},
		ProjectionExpression:      aws.String("PK, SK"),
	}
	for {
		out, err := d.client.Query(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to list items for delete: %w", err)
		}
		for _, item := range out.Items {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: map[string]types.AttributeValue{
					"PK": item["PK"],
					"SK": item["SK"],
				}},
			})
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	if err := d.batchWrite(ctx, requests); err != nil {
		return fmt.Errorf("failed to delete items in DynamoDB: %w", err)
	}
	return nil
}

// batchWrite sends requests in chunks and resubmits unprocessed items.
func (d *DynamodbDataStore) batchWrite(ctx context.Context, requests []types.WriteRequest) error {
	for start := 0; start < len(requests); start += maxBatchSize {
		end := min(start+maxBatchSize, len(requests))
		pending := requests[start:end]

		for attempt := 0; len(pending) > 0; attempt++ {
			if attempt > d.retry.MaxRetries {
				return fmt.Errorf("%d items still unprocessed after %d retries", len(pending), d.retry.MaxRetries)
			}
			if attempt > 0 {
				d.logger.Debug("retrying unprocessed items",
					zap.Int("count", len(pending)),
					zap.Int("attempt", attempt))
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Duration(attempt) * d.retry.RetryBackoff):
				}
			}

			out, err := datastore.Retry(ctx, d.retry, isRetryableError, func(ctx context.Context) (*sdk.BatchWriteItemOutput, error) {
				return d.client.BatchWriteItem(ctx, &sdk.BatchWriteItemInput{
					RequestItems: map[string][]types.WriteRequest{d.tableName: pending},
				})
			})
			if err != nil {
				return err
			}
			pending = out.UnprocessedItems[d.tableName]
		}
	}
	return nil
}

// First fetches the item with the lowest sort key.
func (d *DynamodbDataStore) First(ctx context.Context, key string) (storagemodels.Item, bool, error) {
	pk, err := d.partitionKey(key)
	if err != nil {
		return storagemodels.Item{}, false, err
	}

	out, err := d.client.Query(ctx, &sdk.QueryInput{
		TableName:                 &d.tableName,
		KeyConditionExpression:    aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":pk": &types.AttributeValueMemberS{Value: pk}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return storagemodels.Item{}, false, fmt.Errorf("first - Query error: %w", err)
	}
	if len(out.Items) == 0 {
		return storagemodels.Item{}, false, nil
	}

	item, err := decodeItem(out.Items[0])
	if err != nil {
		return storagemodels.Item{}, false, err
	}
	return item, true, nil
}

// Count counts the items of the sequence with Select=COUNT queries.
func (d *DynamodbDataStore) Count(ctx context.Context, key string) (int64, error) {
	pk, err := d.partitionKey(key)
	if err != nil {
		return 0, err
	}

	input := &sdk.QueryInput{
		TableName:                 &d.tableName,
		KeyConditionExpression:    aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":pk": &types.AttributeValueMemberS{Value: pk}},
		Select:                    types.SelectCount,
	}

	var total int64
	for {
		out, err := d.client.Query(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("count - Query error: %w", err)
		}
		total += int64(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			return total, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func decodeItem(av map[string]types.AttributeValue) (storagemodels.Item, error) {
	var r record
	if err := attributevalue.UnmarshalMap(av, &r); err != nil {
		return storagemodels.Item{}, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	if r.EntityType != EntityType {
		return storagemodels.Item{}, fmt.Errorf("unexpected EntityType %q", r.EntityType)
	}
	return storagemodels.Item{Index: r.Idx, Value: r.Val, Null: r.IsNull}, nil
}
