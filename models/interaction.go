package models

// Interaction is an immutable like/pass event between an ordered user pair.
type Interaction struct {
	PK           string `dynamodbav:"PK" json:"-"` // ✅ Partition Key: "USER#<actingUserId>"
	SK           string `dynamodbav:"SK" json:"-"` // ✅ Sort Key: "TARGET#<targetUserId>#<kind>"
	ActingUserID string `dynamodbav:"actingUserId" json:"actingUserId"`
	TargetUserID string `dynamodbav:"targetUserId" json:"targetUserId"`
	Kind         string `dynamodbav:"kind" json:"kind"` // like, pass
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
}

// InteractionPK builds the partition key for all interactions by actingUserID.
func InteractionPK(actingUserID string) string {
	return "USER#" + actingUserID
}

// InteractionSK builds the sort key for a specific (target, kind) event.
func InteractionSK(targetUserID, kind string) string {
	return InteractionPairPrefix(targetUserID) + kind
}

// InteractionPairPrefix is the SK prefix shared by every event against the
// same target, regardless of kind.
func InteractionPairPrefix(targetUserID string) string {
	return "TARGET#" + targetUserID + "#"
}

// InteractionsTable is the DynamoDB table name for interaction events
const InteractionsTable = "Interactions"
