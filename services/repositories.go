package services

import (
	"context"

	"vibecheck_server/models"
)

// Storage interfaces consumed by the services. The repository package holds
// the DynamoDB implementations; tests substitute in-memory fakes.
//
// Conditional methods (CreateWithConversation, LinkConversation, ApplyUpdate)
// return repository.ErrConditionFailed when a concurrent writer wins; the
// services re-read and retry.

type InteractionRepository interface {
	// Get returns the event for an exact (acting, target, kind) triple, or nil.
	Get(ctx context.Context, actingUserID, targetUserID, kind string) (*models.Interaction, error)
	// ListForPair returns every event from acting against target, any kind.
	ListForPair(ctx context.Context, actingUserID, targetUserID string) ([]models.Interaction, error)
	// ListByActor returns all events recorded by actingUserID.
	ListByActor(ctx context.Context, actingUserID string) ([]models.Interaction, error)
	Put(ctx context.Context, interaction models.Interaction) error
}

type MatchRepository interface {
	// GetByPair returns the match for a canonical pair, or nil.
	GetByPair(ctx context.Context, userLow, userHigh string) (*models.Match, error)
	// CreateWithConversation atomically creates both records, failing the
	// whole write if a match for the pair already exists.
	CreateWithConversation(ctx context.Context, match models.Match, conv models.Conversation) error
	// LinkConversation atomically creates the conversation and links it to an
	// existing unlinked match.
	LinkConversation(ctx context.Context, userLow, userHigh string, conv models.Conversation) error
	ListByUser(ctx context.Context, userID string) ([]models.Match, error)
}

type ConversationRepository interface {
	// Get returns a conversation, or nil when it does not exist.
	Get(ctx context.Context, conversationID string) (*models.Conversation, error)
	// ApplyUpdate writes the provided fields back, guarded on the version the
	// caller read.
	ApplyUpdate(ctx context.Context, conversationID string, expectedVersion int64, update models.ConversationUpdate) error
}

type MessageRepository interface {
	// Append stores a message with a server-assigned, per-conversation-unique
	// creation time and returns the stored record.
	Append(ctx context.Context, message models.Message) (models.Message, error)
	// GetByID returns a message by id, or nil.
	GetByID(ctx context.Context, messageID string) (*models.Message, error)
	// ListPage returns one newest-first page plus a continuation cursor;
	// done is true when history is exhausted.
	ListPage(ctx context.Context, conversationID, cursor string, limit int) ([]models.Message, string, bool, error)
	// Latest returns the newest message, or nil for an empty conversation.
	Latest(ctx context.Context, conversationID string) (*models.Message, error)
}

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	Put(ctx context.Context, profile models.UserProfile) error
	Patch(ctx context.Context, userID string, updates map[string]string) (*models.UserProfile, error)
	// ListCandidates returns discovery candidates: all profiles except
	// excludeUserID that have both a mood and a name.
	ListCandidates(ctx context.Context, excludeUserID string) ([]models.UserProfile, error)
}
