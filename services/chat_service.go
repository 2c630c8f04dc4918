package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"vibecheck_server/models"
	"vibecheck_server/repository"

	"github.com/google/uuid"
)

// DefaultPageSize is used when a caller asks for a non-positive page size.
// MaxPageSize caps client-supplied page sizes before they reach the store.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// ChatService appends and lists messages.
type ChatService struct {
	ConversationRepo ConversationRepository
	MessageRepo      MessageRepository
	Now              func() time.Time
}

func (s *ChatService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// SendResult reports the outcome of sending a message.
type SendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SendMessage validates and appends a message, then updates the conversation
// in one pass: bump lastMessageAt, clear the sender's typing entry (sending
// implies no longer typing), and point the sender's last-seen marker at the
// new message (a sender has read their own message).
//
// Unauthenticated and invalid-text calls fail with an error; a missing
// conversation or non-participant caller yields a structured failure result.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, callerID, text string) (*SendResult, error) {
	if callerID == "" {
		return nil, Unauthenticated("user not authenticated")
	}

	conv, err := s.ConversationRepo.Get(ctx, conversationID)
	if err != nil {
		return nil, Internal("failed to fetch conversation", err)
	}
	if conv == nil {
		return &SendResult{Success: false, Error: "conversation not found"}, nil
	}
	if !conv.HasParticipant(callerID) {
		return &SendResult{Success: false, Error: "user not part of this conversation"}, nil
	}

	if strings.TrimSpace(text) == "" {
		return nil, Validation("message cannot be empty")
	}
	// The bound is in characters, not bytes.
	if utf8.RuneCountInString(text) > models.MaxMessageLength {
		return nil, Validation("message is too long")
	}

	message, err := s.MessageRepo.Append(ctx, models.Message{
		ConversationID: conversationID,
		MessageID:      uuid.New().String(),
		AuthorID:       callerID,
		Text:           text,
	})
	if err != nil {
		return nil, Internal("failed to store message", err)
	}

	updated := false
	for attempt := 0; attempt < retryAttempts; attempt++ {
		nowMs := s.now().UnixMilli()

		typing := make(map[string]models.TypingEntry, len(conv.Typing))
		for userID, entry := range conv.Typing {
			if userID != callerID {
				typing[userID] = entry
			}
		}

		lastSeen := make(map[string]models.LastSeenEntry, len(conv.LastSeen)+1)
		for userID, entry := range conv.LastSeen {
			lastSeen[userID] = entry
		}
		lastSeen[callerID] = models.LastSeenEntry{
			UserID:    callerID,
			MessageID: message.MessageID,
			Timestamp: nowMs,
		}

		err = s.ConversationRepo.ApplyUpdate(ctx, conversationID, conv.Version, models.ConversationUpdate{
			LastMessageAt: &nowMs,
			Typing:        typing,
			LastSeen:      lastSeen,
		})
		if errors.Is(err, repository.ErrConditionFailed) {
			conv, err = s.ConversationRepo.Get(ctx, conversationID)
			if err != nil {
				return nil, Internal("failed to re-read conversation", err)
			}
			if conv == nil {
				// Conversation vanished after the message landed; the message
				// itself is committed, report success.
				updated = true
				break
			}
			continue
		}
		if err != nil {
			return nil, Internal("failed to update conversation", err)
		}
		updated = true
		break
	}
	if !updated {
		return nil, Conflict("conversation update contended, retry")
	}

	log.Printf("📩 %s sent message %s in conversation %s", callerID, message.MessageID, conversationID)
	return &SendResult{Success: true, MessageID: message.MessageID}, nil
}

// ListMessages returns one page ordered oldest to newest for display,
// paginated newest-first from storage and reversed. Unauthenticated callers,
// missing conversations and non-participants all receive the same empty
// complete page, never an error.
func (s *ChatService) ListMessages(ctx context.Context, conversationID, callerID, cursor string, limit int) (*models.MessagePage, error) {
	emptyPage := &models.MessagePage{Messages: []models.Message{}, Done: true}

	if callerID == "" {
		return emptyPage, nil
	}

	conv, err := s.ConversationRepo.Get(ctx, conversationID)
	if err != nil {
		return nil, Internal("failed to fetch conversation", err)
	}
	if conv == nil || !conv.HasParticipant(callerID) {
		return emptyPage, nil
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	messages, nextCursor, done, err := s.MessageRepo.ListPage(ctx, conversationID, cursor, limit)
	if err != nil {
		return nil, Internal("failed to fetch messages", err)
	}

	// Reverse so the newest message appears at the bottom in the UI.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	if messages == nil {
		messages = []models.Message{}
	}
	if done {
		nextCursor = ""
	}
	return &models.MessagePage{Messages: messages, NextCursor: nextCursor, Done: done}, nil
}
