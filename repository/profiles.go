package repository

import (
	"context"
	"fmt"

	"vibecheck_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ProfileRepository persists user profiles keyed by userId.
type ProfileRepository struct {
	Dynamo *DynamoService
}

func profileKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

// Get retrieves a profile by user id, or nil when none exists.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	item, err := r.Dynamo.GetItem(ctx, models.UserProfilesTable, profileKey(userID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// Put inserts or replaces a profile.
func (r *ProfileRepository) Put(ctx context.Context, profile models.UserProfile) error {
	return r.Dynamo.PutItem(ctx, models.UserProfilesTable, profile)
}

// Patch applies the provided string fields and returns the updated profile.
func (r *ProfileRepository) Patch(ctx context.Context, userID string, updates map[string]string) (*models.UserProfile, error) {
	if len(updates) == 0 {
		return r.Get(ctx, userID)
	}

	updateExpression := "SET"
	expressionValues := make(map[string]types.AttributeValue)
	expressionNames := make(map[string]string)
	first := true

	for field, value := range updates {
		sep := ","
		if first {
			sep = ""
			first = false
		}
		updateExpression += fmt.Sprintf("%s #%s = :%s", sep, field, field)
		expressionNames["#"+field] = field
		expressionValues[":"+field] = &types.AttributeValueMemberS{Value: value}
	}

	item, err := r.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, profileKey(userID), expressionValues, expressionNames, "")
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}
	return &profile, nil
}

// ListCandidates scans for discovery candidates: everyone but excludeUserID
// who has both a mood and a name set.
func (r *ProfileRepository) ListCandidates(ctx context.Context, excludeUserID string) ([]models.UserProfile, error) {
	hasMoodAndName := func(item map[string]types.AttributeValue) bool {
		mood, ok := item["currentMood"].(*types.AttributeValueMemberS)
		if !ok || mood.Value == "" {
			return false
		}
		name, ok := item["name"].(*types.AttributeValueMemberS)
		return ok && name.Value != ""
	}

	var profiles []models.UserProfile
	err := r.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, hasMoodAndName, map[string]string{"userId": excludeUserID}, &profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to scan candidate profiles: %w", err)
	}
	return profiles, nil
}
