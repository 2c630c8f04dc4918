package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"vibecheck_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MessageRepository persists messages keyed by conversationId with a numeric
// createdAt sort key (unix μs), so DynamoDB returns them in time order.
type MessageRepository struct {
	Dynamo *DynamoService
}

// messageCursor is the serialized form of the pagination continuation key.
type messageCursor struct {
	ConversationID string `json:"conversationId"`
	CreatedAt      int64  `json:"createdAt"`
}

func encodeCursor(key map[string]types.AttributeValue) (string, error) {
	if key == nil {
		return "", nil
	}
	var c messageCursor
	if err := attributevalue.UnmarshalMap(key, &c); err != nil {
		return "", fmt.Errorf("failed to decode continuation key: %w", err)
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeCursor(cursor string) (map[string]types.AttributeValue, error) {
	if cursor == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	var c messageCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	return map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: c.ConversationID},
		"createdAt":      &types.AttributeValueMemberN{Value: strconv.FormatInt(c.CreatedAt, 10)},
	}, nil
}

// Append stores a message with a server-assigned creation time. Two writes
// landing on the same microsecond are resolved by bumping the timestamp, so
// creation times stay unique per conversation.
func (r *MessageRepository) Append(ctx context.Context, message models.Message) (models.Message, error) {
	message.CreatedAt = time.Now().UnixMicro()

	for attempt := 0; attempt < 5; attempt++ {
		err := r.Dynamo.PutItemConditional(ctx, models.MessagesTable, message, "attribute_not_exists(createdAt)")
		if err == nil {
			return message, nil
		}
		if !errors.Is(err, ErrConditionFailed) {
			return models.Message{}, err
		}
		message.CreatedAt++
	}
	return models.Message{}, fmt.Errorf("failed to append message after repeated timestamp collisions")
}

// GetByID looks a message up by its id via the messageId GSI, or nil.
func (r *MessageRepository) GetByID(ctx context.Context, messageID string) (*models.Message, error) {
	keyCondition := "messageId = :messageId"
	expressionValues := map[string]types.AttributeValue{
		":messageId": &types.AttributeValueMemberS{Value: messageID},
	}

	items, err := r.Dynamo.QueryItemsWithIndex(ctx, models.MessagesTable, models.MessageIDIndex, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message %s: %w", messageID, err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var message models.Message
	if err := attributevalue.UnmarshalMap(items[0], &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return &message, nil
}

// ListPage fetches one newest-first page, resuming from cursor. The returned
// cursor is empty when the conversation's history is exhausted.
func (r *MessageRepository) ListPage(ctx context.Context, conversationID, cursor string, limit int) ([]models.Message, string, bool, error) {
	startKey, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", false, err
	}

	keyCondition := "conversationId = :conversationId"
	expressionValues := map[string]types.AttributeValue{
		":conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}

	items, lastKey, err := r.Dynamo.QueryPage(ctx, models.MessagesTable, keyCondition, expressionValues, nil, int32(limit), true, startKey)
	if err != nil {
		return nil, "", false, err
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, "", false, fmt.Errorf("failed to unmarshal messages: %w", err)
	}

	nextCursor, err := encodeCursor(lastKey)
	if err != nil {
		return nil, "", false, err
	}
	return messages, nextCursor, lastKey == nil, nil
}

// Latest returns the newest message of a conversation, or nil when empty.
func (r *MessageRepository) Latest(ctx context.Context, conversationID string) (*models.Message, error) {
	messages, _, _, err := r.ListPage(ctx, conversationID, "", 1)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}
	return &messages[0], nil
}
