package repository

import (
	"context"
	"fmt"

	"vibecheck_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// InteractionRepository persists like/pass events keyed by
// PK "USER#<acting>" / SK "TARGET#<target>#<kind>".
type InteractionRepository struct {
	Dynamo *DynamoService
}

// Get retrieves the event for an exact (acting, target, kind) triple, or nil.
func (r *InteractionRepository) Get(ctx context.Context, actingUserID, targetUserID, kind string) (*models.Interaction, error) {
	key := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: models.InteractionPK(actingUserID)},
		"SK": &types.AttributeValueMemberS{Value: models.InteractionSK(targetUserID, kind)},
	}

	item, err := r.Dynamo.GetItem(ctx, models.InteractionsTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var interaction models.Interaction
	if err := attributevalue.UnmarshalMap(item, &interaction); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interaction: %w", err)
	}
	return &interaction, nil
}

// ListForPair fetches every event from actingUserID against targetUserID,
// regardless of kind.
func (r *InteractionRepository) ListForPair(ctx context.Context, actingUserID, targetUserID string) ([]models.Interaction, error) {
	keyCondition := "PK = :pk AND begins_with(SK, :prefix)"
	expressionValues := map[string]types.AttributeValue{
		":pk":     &types.AttributeValueMemberS{Value: models.InteractionPK(actingUserID)},
		":prefix": &types.AttributeValueMemberS{Value: models.InteractionPairPrefix(targetUserID)},
	}

	items, err := r.Dynamo.QueryItems(ctx, models.InteractionsTable, keyCondition, expressionValues, nil, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pair interactions: %w", err)
	}

	var interactions []models.Interaction
	if err := attributevalue.UnmarshalListOfMaps(items, &interactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interactions: %w", err)
	}
	return interactions, nil
}

// ListByActor fetches all events recorded by actingUserID.
func (r *InteractionRepository) ListByActor(ctx context.Context, actingUserID string) ([]models.Interaction, error) {
	keyCondition := "PK = :pk"
	expressionValues := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: models.InteractionPK(actingUserID)},
	}

	items, err := r.Dynamo.QueryItems(ctx, models.InteractionsTable, keyCondition, expressionValues, nil, 1000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions: %w", err)
	}

	var interactions []models.Interaction
	if err := attributevalue.UnmarshalListOfMaps(items, &interactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interactions: %w", err)
	}
	return interactions, nil
}

// Put appends an event. Writing the same (acting, target, kind) triple twice
// overwrites in place, which is indistinguishable from a single append.
func (r *InteractionRepository) Put(ctx context.Context, interaction models.Interaction) error {
	interaction.PK = models.InteractionPK(interaction.ActingUserID)
	interaction.SK = models.InteractionSK(interaction.TargetUserID, interaction.Kind)
	return r.Dynamo.PutItem(ctx, models.InteractionsTable, interaction)
}
