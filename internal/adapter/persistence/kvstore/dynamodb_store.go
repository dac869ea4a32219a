package kvstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

const (
	defaultDynamoTableName = "portal_kv"

	// DynamoDB caps an item at 400 KB including attribute names. Values above
	// dynamoChunkSize are split over several items.
	dynamoChunkSize = 350 * 1024
	dynamoMaxChunks = 64
)

// dynamoAPI is the subset of *dynamodb.Client the store uses.
type dynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// kvItem is a stored value. A chunked value keeps no bytes in its head item: the
// parts live under chunkKey(Key, ChunkSet, i) for i < Chunks.
type kvItem struct {
	Key       string `dynamodbav:"key"`
	Value     []byte `dynamodbav:"value"`
	Chunks    int    `dynamodbav:"chunks,omitempty"`
	ChunkSet  string `dynamodbav:"chunk_set,omitempty"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// DynamoStore persists values in a DynamoDB table.
//
// Table requirements:
//   - PK: key (string)
//
// Values larger than one item are written as a fresh set of chunk items before
// the head item is swapped, so a reader sees either the old or the new value.
type DynamoStore struct {
	ddb       dynamoAPI
	tableName string
	chunkSize int
	now       func() time.Time
}

var _ Store = (*DynamoStore)(nil)

func NewDynamoStore(ddb dynamoAPI, tableName string) *DynamoStore {
	if tableName == "" {
		tableName = defaultDynamoTableName
	}
	return &DynamoStore{
		ddb:       ddb,
		tableName: tableName,
		chunkSize: dynamoChunkSize,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *DynamoStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	head, ok, err := s.getItem(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	if head.Chunks == 0 {
		return head.Value, true, nil
	}

	value := make([]byte, 0, head.Chunks*s.chunkSize)
	for i := 0; i < head.Chunks; i++ {
		part, ok, err := s.getItem(ctx, chunkKey(key, head.ChunkSet, i))
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, fmt.Errorf("%s: chunk %d of %d missing", key, i, head.Chunks)
		}
		value = append(value, part.Value...)
	}
	return value, true, nil
}

func (s *DynamoStore) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if len(value) > s.chunkSize*dynamoMaxChunks {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrValueTooLarge, key, len(value), s.chunkSize*dynamoMaxChunks)
	}

	prev, _, err := s.getItem(ctx, key)
	if err != nil {
		return err
	}

	head := kvItem{Key: key, UpdatedAt: s.now().Format(time.RFC3339Nano)}
	if len(value) <= s.chunkSize {
		head.Value = value
	} else {
		head.ChunkSet = uuid.NewString()
		for off := 0; off < len(value); off += s.chunkSize {
			end := min(off+s.chunkSize, len(value))
			part := kvItem{Key: chunkKey(key, head.ChunkSet, head.Chunks), Value: value[off:end], UpdatedAt: head.UpdatedAt}
			if err := s.putItem(ctx, part); err != nil {
				return err
			}
			head.Chunks++
		}
	}
	if err := s.putItem(ctx, head); err != nil {
		return err
	}

	// Chunks of the replaced value are unreachable once the head moved on.
	_ = s.deleteChunks(ctx, prev)
	return nil
}

func (s *DynamoStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	prev, _, err := s.getItem(ctx, key)
	if err != nil {
		return err
	}
	if _, err := s.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       itemKey(key),
	}); err != nil {
		return err
	}
	return s.deleteChunks(ctx, prev)
}

func (s *DynamoStore) getItem(ctx context.Context, key string) (kvItem, bool, error) {
	out, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return kvItem{}, false, err
	}
	if len(out.Item) == 0 {
		return kvItem{}, false, nil
	}

	var it kvItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return kvItem{}, false, err
	}
	return it, true, nil
}

func (s *DynamoStore) putItem(ctx context.Context, it kvItem) error {
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return err
	}
	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	return err
}

func (s *DynamoStore) deleteChunks(ctx context.Context, head kvItem) error {
	for i := 0; i < head.Chunks; i++ {
		if _, err := s.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.tableName),
			Key:       itemKey(chunkKey(head.Key, head.ChunkSet, i)),
		}); err != nil {
			return err
		}
	}
	return nil
}

func chunkKey(key, set string, i int) string {
	return key + "#" + set + "#" + strconv.Itoa(i)
}

func itemKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"key": &types.AttributeValueMemberS{Value: key},
	}
}
