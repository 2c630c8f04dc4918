package models

import "sort"

// TypingEntry marks a participant as typing as of LastTyped (unix ms).
type TypingEntry struct {
	UserID    string `dynamodbav:"userId" json:"userId"`
	LastTyped int64  `dynamodbav:"lastTyped" json:"lastTyped"`
}

// LastSeenEntry is a participant's last-read marker.
type LastSeenEntry struct {
	UserID    string `dynamodbav:"userId" json:"userId"`
	MessageID string `dynamodbav:"messageId" json:"messageId"`
	Timestamp int64  `dynamodbav:"timestamp" json:"timestamp"` // unix ms
}

// Conversation owns the participant pair plus its typing and last-seen state.
// Typing and LastSeen are keyed by user id, which enforces one entry per
// participant structurally; they are exposed as ordered slices only at the
// API boundary (see ConversationView).
type Conversation struct {
	ConversationID string                   `dynamodbav:"conversationId" json:"conversationId"` // ✅ Partition Key
	ParticipantIDs []string                 `dynamodbav:"participantIds" json:"participantIds"` // fixed at creation
	LastMessageAt  int64                    `dynamodbav:"lastMessageAt,omitempty" json:"lastMessageAt,omitempty"`
	Typing         map[string]TypingEntry   `dynamodbav:"typing,omitempty" json:"-"`
	LastSeen       map[string]LastSeenEntry `dynamodbav:"lastSeen,omitempty" json:"-"`
	Version        int64                    `dynamodbav:"version" json:"-"` // optimistic-lock counter
	CreatedAt      string                   `dynamodbav:"createdAt" json:"createdAt"`
}

// HasParticipant reports whether userID is in the participant list.
func (c Conversation) HasParticipant(userID string) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// TypingList returns the typing entries ordered by user id.
func (c Conversation) TypingList() []TypingEntry {
	entries := make([]TypingEntry, 0, len(c.Typing))
	for _, e := range c.Typing {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UserID < entries[j].UserID })
	return entries
}

// LastSeenList returns the last-seen entries ordered by user id.
func (c Conversation) LastSeenList() []LastSeenEntry {
	entries := make([]LastSeenEntry, 0, len(c.LastSeen))
	for _, e := range c.LastSeen {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UserID < entries[j].UserID })
	return entries
}

// ConversationUpdate is a partial update of a conversation's mutable state.
// Nil fields are left unchanged; non-nil maps replace the stored maps whole.
type ConversationUpdate struct {
	LastMessageAt *int64
	Typing        map[string]TypingEntry
	LastSeen      map[string]LastSeenEntry
}

// ConversationView is the participant-facing shape of a conversation.
type ConversationView struct {
	ConversationID string          `json:"conversationId"`
	ParticipantIDs []string        `json:"participantIds"`
	LastMessageAt  int64           `json:"lastMessageAt,omitempty"`
	Typing         []TypingEntry   `json:"typing,omitempty"`
	LastSeen       []LastSeenEntry `json:"lastSeen,omitempty"`
	ActiveTyperIDs []string        `json:"activeTyperIds,omitempty"` // fresh within 5s, caller excluded
}

// ConversationsTable is the DynamoDB table name for conversations
const ConversationsTable = "Conversations"
