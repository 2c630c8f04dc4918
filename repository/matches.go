package repository

import (
	"context"
	"fmt"

	"vibecheck_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MatchRepository persists matches keyed by the canonical pair
// (userLow, userHigh), so a conditional put is the per-pair uniqueness
// constraint.
type MatchRepository struct {
	Dynamo *DynamoService
}

func matchKey(userLow, userHigh string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userLow":  &types.AttributeValueMemberS{Value: userLow},
		"userHigh": &types.AttributeValueMemberS{Value: userHigh},
	}
}

// GetByPair retrieves the match for a canonical pair, or nil.
func (r *MatchRepository) GetByPair(ctx context.Context, userLow, userHigh string) (*models.Match, error) {
	item, err := r.Dynamo.GetItem(ctx, models.MatchesTable, matchKey(userLow, userHigh))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

// CreateWithConversation atomically creates a match and its conversation.
// Returns ErrConditionFailed when a match for the pair already exists; in
// that case nothing is written, including the conversation.
func (r *MatchRepository) CreateWithConversation(ctx context.Context, match models.Match, conv models.Conversation) error {
	matchItem, err := attributevalue.MarshalMap(match)
	if err != nil {
		return fmt.Errorf("failed to marshal match: %w", err)
	}
	convItem, err := attributevalue.MarshalMap(conv)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	return r.Dynamo.TransactWrite(ctx, []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(models.MatchesTable),
				Item:                matchItem,
				ConditionExpression: aws.String("attribute_not_exists(userLow)"),
			},
		},
		{
			Put: &types.Put{
				TableName:           aws.String(models.ConversationsTable),
				Item:                convItem,
				ConditionExpression: aws.String("attribute_not_exists(conversationId)"),
			},
		},
	})
}

// LinkConversation atomically creates a conversation and links it to an
// existing unlinked match. Returns ErrConditionFailed when another writer
// linked the match first; nothing is written in that case.
func (r *MatchRepository) LinkConversation(ctx context.Context, userLow, userHigh string, conv models.Conversation) error {
	convItem, err := attributevalue.MarshalMap(conv)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	return r.Dynamo.TransactWrite(ctx, []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName:           aws.String(models.MatchesTable),
				Key:                 matchKey(userLow, userHigh),
				UpdateExpression:    aws.String("SET conversationId = :conversationId"),
				ConditionExpression: aws.String("attribute_exists(userLow) AND attribute_not_exists(conversationId)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":conversationId": &types.AttributeValueMemberS{Value: conv.ConversationID},
				},
			},
		},
		{
			Put: &types.Put{
				TableName:           aws.String(models.ConversationsTable),
				Item:                convItem,
				ConditionExpression: aws.String("attribute_not_exists(conversationId)"),
			},
		},
	})
}

// ListByUser fetches all matches where userID sits on either side of the
// canonical pair.
func (r *MatchRepository) ListByUser(ctx context.Context, userID string) ([]models.Match, error) {
	var matches []models.Match

	queries := []struct {
		index string
		attr  string
	}{
		{models.MatchUserLowIndex, "userLow"},
		{models.MatchUserHighIndex, "userHigh"},
	}

	for _, q := range queries {
		keyCondition := fmt.Sprintf("%s = :userId", q.attr)
		expressionValues := map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		}

		items, err := r.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, q.index, keyCondition, expressionValues, nil, 100)
		if err != nil {
			return nil, fmt.Errorf("failed to query matches via %s: %w", q.index, err)
		}

		var page []models.Match
		if err := attributevalue.UnmarshalListOfMaps(items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal matches: %w", err)
		}
		matches = append(matches, page...)
	}

	return matches, nil
}
