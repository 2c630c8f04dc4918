package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"vibecheck_server/models"
	"vibecheck_server/repository"

	"github.com/google/uuid"
)

// MatchService resolves mutual likes into matches and serves match summaries.
type MatchService struct {
	MatchRepo        MatchRepository
	ConversationRepo ConversationRepository
	MessageRepo      MessageRepository
	ProfileRepo      ProfileRepository
	Now              func() time.Time
}

func (s *MatchService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *MatchService) newConversation(userLow, userHigh string) models.Conversation {
	now := s.now()
	return models.Conversation{
		ConversationID: uuid.New().String(),
		ParticipantIDs: []string{userLow, userHigh},
		LastMessageAt:  now.UnixMilli(),
		Version:        1,
		CreatedAt:      now.Format(time.RFC3339),
	}
}

// ResolveMutualLike creates (or completes) the canonical match record for a
// pair with a detected mutual like. At most one Match and one Conversation
// exist per pair: both creation paths are transactional conditional writes
// keyed on the canonical pair, and a writer that loses the race re-reads and
// returns the winner's record.
func (s *MatchService) ResolveMutualLike(ctx context.Context, userA, userB string) (*models.Match, error) {
	userLow, userHigh := models.CanonicalPair(userA, userB)

	for attempt := 0; attempt < 3; attempt++ {
		match, err := s.MatchRepo.GetByPair(ctx, userLow, userHigh)
		if err != nil {
			return nil, Internal("failed to look up match", err)
		}

		if match == nil {
			conv := s.newConversation(userLow, userHigh)
			candidate := models.Match{
				UserLow:        userLow,
				UserHigh:       userHigh,
				MatchID:        uuid.New().String(),
				ConversationID: conv.ConversationID,
				CreatedAt:      s.now().Format(time.RFC3339),
			}
			err = s.MatchRepo.CreateWithConversation(ctx, candidate, conv)
			if errors.Is(err, repository.ErrConditionFailed) {
				log.Printf("🔁 Lost match-creation race for pair (%s, %s), re-reading", userLow, userHigh)
				continue
			}
			if err != nil {
				return nil, Internal("failed to create match", err)
			}
			return &candidate, nil
		}

		if match.ConversationID == "" {
			conv := s.newConversation(userLow, userHigh)
			err = s.MatchRepo.LinkConversation(ctx, userLow, userHigh, conv)
			if errors.Is(err, repository.ErrConditionFailed) {
				log.Printf("🔁 Lost conversation-link race for pair (%s, %s), re-reading", userLow, userHigh)
				continue
			}
			if err != nil {
				return nil, Internal("failed to link conversation", err)
			}
			match.ConversationID = conv.ConversationID
		}

		return match, nil
	}

	return nil, Conflict("could not resolve match for pair under contention")
}

// GetMyMatches returns the caller's matches newest first, each enriched with
// the other user's profile and the conversation's last message preview and
// unread flag. An unauthenticated caller gets an empty list, not an error.
func (s *MatchService) GetMyMatches(ctx context.Context, callerID string) ([]models.MatchSummary, error) {
	if callerID == "" {
		return []models.MatchSummary{}, nil
	}

	matches, err := s.MatchRepo.ListByUser(ctx, callerID)
	if err != nil {
		return nil, Internal("failed to fetch matches", err)
	}

	seen := make(map[string]bool, len(matches))
	summaries := make([]models.MatchSummary, 0, len(matches))

	for _, match := range matches {
		if seen[match.MatchID] {
			continue
		}
		seen[match.MatchID] = true

		otherID := match.OtherUser(callerID)
		profile, err := s.ProfileRepo.Get(ctx, otherID)
		if err != nil {
			log.Printf("⚠️ Failed to fetch profile for %s: %v", otherID, err)
			continue
		}
		if profile == nil {
			// Matches without a counterpart profile are not shown.
			continue
		}

		summary := models.MatchSummary{
			MatchID:        match.MatchID,
			ConversationID: match.ConversationID,
			OtherUser:      *profile,
			MatchedAt:      match.CreatedAt,
		}

		if match.ConversationID != "" {
			s.attachLastMessage(ctx, callerID, &summary)
		}

		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].MatchedAt > summaries[j].MatchedAt
	})

	log.Printf("✅ Found %d matches for %s", len(summaries), callerID)
	return summaries, nil
}

// attachLastMessage fills the preview and unread fields in place. Failures
// degrade to an empty preview rather than failing the whole listing.
func (s *MatchService) attachLastMessage(ctx context.Context, callerID string, summary *models.MatchSummary) {
	latest, err := s.MessageRepo.Latest(ctx, summary.ConversationID)
	if err != nil {
		log.Printf("⚠️ Failed to fetch last message for conversation %s: %v", summary.ConversationID, err)
		return
	}
	if latest == nil {
		return
	}

	summary.LastMessagePreview = latest.Text
	summary.LastMessageAt = latest.CreatedAt

	if latest.AuthorID == callerID {
		return // own messages are never unread
	}

	conv, err := s.ConversationRepo.Get(ctx, summary.ConversationID)
	if err != nil || conv == nil {
		return
	}
	marker, ok := conv.LastSeen[callerID]
	summary.IsUnread = !ok || marker.MessageID != latest.MessageID
}
