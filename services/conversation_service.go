package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"vibecheck_server/models"
	"vibecheck_server/repository"
)

// ConversationService serves conversation state and owns the typing-presence
// and read-receipt mutations.
type ConversationService struct {
	ConversationRepo ConversationRepository
	MessageRepo      MessageRepository
	Now              func() time.Time
}

func (s *ConversationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// MutationResult is the structured outcome of a conversation mutation that
// can fail for expected runtime reasons (conversation gone, caller no longer
// a participant) rather than programmer error.
type MutationResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// retryAttempts bounds the optimistic-concurrency loops. Contention on a
// two-participant conversation is short-lived.
const retryAttempts = 5

// Get returns the conversation view for a participant. A missing
// conversation, a non-participant caller, and an unauthenticated caller all
// yield the same nil "not visible" result.
func (s *ConversationService) Get(ctx context.Context, conversationID, callerID string) (*models.ConversationView, error) {
	if callerID == "" {
		return nil, nil
	}

	conv, err := s.ConversationRepo.Get(ctx, conversationID)
	if err != nil {
		return nil, Internal("failed to fetch conversation", err)
	}
	if conv == nil || !conv.HasParticipant(callerID) {
		return nil, nil
	}

	nowMs := s.now().UnixMilli()
	var activeTypers []string
	for userID, entry := range conv.Typing {
		if userID == callerID {
			continue
		}
		if nowMs-entry.LastTyped < models.TypingFreshWithin.Milliseconds() {
			activeTypers = append(activeTypers, userID)
		}
	}
	sort.Strings(activeTypers)

	return &models.ConversationView{
		ConversationID: conv.ConversationID,
		ParticipantIDs: conv.ParticipantIDs,
		LastMessageAt:  conv.LastMessageAt,
		Typing:         conv.TypingList(),
		LastSeen:       conv.LastSeenList(),
		ActiveTyperIDs: activeTypers,
	}, nil
}

// UpdateTyping prunes stale typing entries, then upserts or removes the
// caller's entry. The filter+upsert is recomputed from freshly read state on
// every attempt, so concurrent updates from both participants lose neither.
func (s *ConversationService) UpdateTyping(ctx context.Context, conversationID, callerID string, isTyping bool) (*MutationResult, error) {
	if callerID == "" {
		return nil, Unauthenticated("user not authenticated")
	}

	for attempt := 0; attempt < retryAttempts; attempt++ {
		conv, err := s.ConversationRepo.Get(ctx, conversationID)
		if err != nil {
			return nil, Internal("failed to fetch conversation", err)
		}
		if conv == nil {
			return &MutationResult{Success: false, Error: "conversation not found"}, nil
		}
		if !conv.HasParticipant(callerID) {
			return &MutationResult{Success: false, Error: "user not part of this conversation"}, nil
		}

		nowMs := s.now().UnixMilli()
		typing := make(map[string]models.TypingEntry, len(conv.Typing))
		for userID, entry := range conv.Typing {
			if nowMs-entry.LastTyped < models.TypingStaleAfter.Milliseconds() {
				typing[userID] = entry
			}
		}

		if isTyping {
			typing[callerID] = models.TypingEntry{UserID: callerID, LastTyped: nowMs}
		} else {
			delete(typing, callerID)
		}

		err = s.ConversationRepo.ApplyUpdate(ctx, conversationID, conv.Version, models.ConversationUpdate{Typing: typing})
		if errors.Is(err, repository.ErrConditionFailed) {
			continue
		}
		if err != nil {
			return nil, Internal("failed to update typing state", err)
		}
		return &MutationResult{Success: true}, nil
	}

	return nil, Conflict("typing update contended, retry")
}

// MarkAsRead upserts the caller's last-seen marker. The marker is monotonic:
// it moves only to a strictly newer message (by creation time), or forward in
// timestamp on the same message; out-of-order confirmations are ignored.
func (s *ConversationService) MarkAsRead(ctx context.Context, conversationID, callerID, messageID string) (*MutationResult, error) {
	if callerID == "" {
		return nil, Unauthenticated("user not authenticated")
	}

	for attempt := 0; attempt < retryAttempts; attempt++ {
		conv, err := s.ConversationRepo.Get(ctx, conversationID)
		if err != nil {
			return nil, Internal("failed to fetch conversation", err)
		}
		if conv == nil {
			return &MutationResult{Success: false, Error: "conversation not found"}, nil
		}
		if !conv.HasParticipant(callerID) {
			return &MutationResult{Success: false, Error: "user not part of this conversation"}, nil
		}

		message, err := s.MessageRepo.GetByID(ctx, messageID)
		if err != nil {
			return nil, Internal("failed to fetch message", err)
		}
		if message == nil {
			return &MutationResult{Success: false, Error: "message not found"}, nil
		}
		if message.ConversationID != conversationID {
			return &MutationResult{Success: false, Error: "message does not belong to this conversation"}, nil
		}

		lastSeen := make(map[string]models.LastSeenEntry, len(conv.LastSeen)+1)
		for userID, entry := range conv.LastSeen {
			lastSeen[userID] = entry
		}

		newEntry := models.LastSeenEntry{
			UserID:    callerID,
			MessageID: messageID,
			Timestamp: s.now().UnixMilli(),
		}

		if existing, ok := lastSeen[callerID]; ok {
			if existing.MessageID == messageID {
				// Same message: only advance the timestamp, never regress.
				if existing.Timestamp > newEntry.Timestamp {
					newEntry.Timestamp = existing.Timestamp
				}
				lastSeen[callerID] = newEntry
			} else {
				previous, err := s.MessageRepo.GetByID(ctx, existing.MessageID)
				if err != nil {
					return nil, Internal("failed to fetch prior read marker message", err)
				}
				if previous == nil || message.CreatedAt > previous.CreatedAt {
					lastSeen[callerID] = newEntry
				} else {
					// Out-of-order confirmation for an older message.
					return &MutationResult{Success: true}, nil
				}
			}
		} else {
			lastSeen[callerID] = newEntry
		}

		err = s.ConversationRepo.ApplyUpdate(ctx, conversationID, conv.Version, models.ConversationUpdate{LastSeen: lastSeen})
		if errors.Is(err, repository.ErrConditionFailed) {
			continue
		}
		if err != nil {
			return nil, Internal("failed to update read marker", err)
		}

		log.Printf("👁️ %s read up to message %s in conversation %s", callerID, messageID, conversationID)
		return &MutationResult{Success: true}, nil
	}

	return nil, Conflict("read-marker update contended, retry")
}
