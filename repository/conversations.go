package repository

import (
	"context"
	"fmt"

	"vibecheck_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ConversationRepository persists conversations keyed by conversationId.
// Mutable state (typing, lastSeen, lastMessageAt) is written back whole under
// an optimistic version guard.
type ConversationRepository struct {
	Dynamo *DynamoService
}

func conversationKey(conversationID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}
}

// Get retrieves a conversation, or nil when it does not exist.
func (r *ConversationRepository) Get(ctx context.Context, conversationID string) (*models.Conversation, error) {
	item, err := r.Dynamo.GetItem(ctx, models.ConversationsTable, conversationKey(conversationID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var conv models.Conversation
	if err := attributevalue.UnmarshalMap(item, &conv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &conv, nil
}

// ApplyUpdate writes the provided fields back, guarded on the version the
// caller read. Returns ErrConditionFailed when another writer committed
// first; the caller re-reads and recomputes.
func (r *ConversationRepository) ApplyUpdate(ctx context.Context, conversationID string, expectedVersion int64, update models.ConversationUpdate) error {
	updateExpression := "SET #version = :newVersion"
	expressionValues := map[string]types.AttributeValue{
		":expectedVersion": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedVersion)},
		":newVersion":      &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedVersion+1)},
	}
	expressionNames := map[string]string{"#version": "version"}

	if update.LastMessageAt != nil {
		updateExpression += ", lastMessageAt = :lastMessageAt"
		expressionValues[":lastMessageAt"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", *update.LastMessageAt)}
	}
	if update.Typing != nil {
		typingAttr, err := attributevalue.Marshal(update.Typing)
		if err != nil {
			return fmt.Errorf("failed to marshal typing map: %w", err)
		}
		updateExpression += ", typing = :typing"
		expressionValues[":typing"] = typingAttr
	}
	if update.LastSeen != nil {
		lastSeenAttr, err := attributevalue.Marshal(update.LastSeen)
		if err != nil {
			return fmt.Errorf("failed to marshal lastSeen map: %w", err)
		}
		updateExpression += ", lastSeen = :lastSeen"
		expressionValues[":lastSeen"] = lastSeenAttr
	}

	_, err := r.Dynamo.UpdateItem(
		ctx,
		models.ConversationsTable,
		updateExpression,
		conversationKey(conversationID),
		expressionValues,
		expressionNames,
		"#version = :expectedVersion",
	)
	return err
}
