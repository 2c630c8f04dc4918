package models

// Match records a mutual like between an unordered user pair. The pair is
// stored in canonical order so the table key (userLow, userHigh) enforces
// at most one Match per pair.
type Match struct {
	UserLow        string `dynamodbav:"userLow" json:"userLow"`   // ✅ Partition Key
	UserHigh       string `dynamodbav:"userHigh" json:"userHigh"` // ✅ Sort Key
	MatchID        string `dynamodbav:"matchId" json:"matchId"`
	ConversationID string `dynamodbav:"conversationId,omitempty" json:"conversationId,omitempty"` // linked lazily
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
}

// CanonicalPair returns the two user ids in canonical (lexicographic) order.
func CanonicalPair(a, b string) (low, high string) {
	if a < b {
		return a, b
	}
	return b, a
}

// OtherUser returns the counterpart of userID in the match.
func (m Match) OtherUser(userID string) string {
	if m.UserLow == userID {
		return m.UserHigh
	}
	return m.UserLow
}

// MatchSummary is the per-match view returned by "get my matches".
type MatchSummary struct {
	MatchID            string      `json:"matchId"`
	ConversationID     string      `json:"conversationId,omitempty"`
	OtherUser          UserProfile `json:"otherUser"`
	LastMessagePreview string      `json:"lastMessagePreview,omitempty"`
	LastMessageAt      int64       `json:"lastMessageAt,omitempty"`
	IsUnread           bool        `json:"isUnread"`
	MatchedAt          string      `json:"matchedAt"`
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"

// GSIs for querying matches from either side of the canonical pair
const (
	MatchUserLowIndex  = "userLow-index"
	MatchUserHighIndex = "userHigh-index"
)
