package session

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/aws"
)

// TableRecord is one row of the sessions table.
type TableRecord struct {
	SessionID   string    `dynamodbav:"session_id"` // PK
	TableNumber string    `dynamodbav:"table_number"`
	UpdatedAt   time.Time `dynamodbav:"updated_at"`
	ExpiresAt   int64     `dynamodbav:"expires_at"` // TTL epoch seconds
}

// TableStore keeps session table numbers in DynamoDB. Entries expire after
// the configured TTL, like browser session storage.
type TableStore struct {
	client    aws.DynamoDBAPI
	tableName string
	ttl       time.Duration
	nowFunc   func() time.Time
}

func NewTableStore(client aws.DynamoDBAPI, tableName string, ttl time.Duration) *TableStore {
	return &TableStore{client: client, tableName: tableName, ttl: ttl, nowFunc: time.Now}
}

// GetTable returns "" when nothing is stored or the entry has expired.
func (s *TableStore) GetTable(ctx context.Context, sessionID string) (string, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"session_id": &types.AttributeValueMemberS{Value: sessionID},
		},
	})
	if err != nil {
		return "", fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return "", nil
	}
	var rec TableRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return "", fmt.Errorf("unmarshal item: %w", err)
	}
	// DynamoDB deletes expired items lazily
	if rec.ExpiresAt > 0 && s.nowFunc().Unix() >= rec.ExpiresAt {
		return "", nil
	}
	return rec.TableNumber, nil
}

// PutTable stores table for sessionID and restarts its TTL.
func (s *TableStore) PutTable(ctx context.Context, sessionID, table string) error {
	now := s.nowFunc()
	item, err := attributevalue.MarshalMap(TableRecord{
		SessionID:   sessionID,
		TableNumber: table,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(s.ttl).Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dyn.PutItemInput{TableName: &s.tableName, Item: item}); err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}
