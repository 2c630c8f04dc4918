package services

import (
	"context"
	"log"
	"time"

	"vibecheck_server/models"
)

// InteractionService records like/pass events and hands mutual likes off to
// the match resolver.
type InteractionService struct {
	Interactions InteractionRepository
	Matches      *MatchService
	Now          func() time.Time
}

func (s *InteractionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// PassResult reports the outcome of recording a pass.
type PassResult struct {
	Status string `json:"status"` // passed, already_passed
}

// LikeResult reports the outcome of recording a like. MatchID and
// ConversationID are set only when Status is "matched".
type LikeResult struct {
	Status         string `json:"status"` // liked, matched
	MatchID        string `json:"matchId,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
}

func (s *InteractionService) validatePair(actingUserID, targetUserID string) error {
	if actingUserID == "" {
		return Unauthenticated("user not authenticated")
	}
	if actingUserID == targetUserID {
		return InvalidOperation("cannot interact with yourself")
	}
	return nil
}

// RecordPass appends a pass event unless the acting user already passed on
// the target, in which case nothing is written.
func (s *InteractionService) RecordPass(ctx context.Context, actingUserID, targetUserID string) (*PassResult, error) {
	if err := s.validatePair(actingUserID, targetUserID); err != nil {
		return nil, err
	}

	existing, err := s.Interactions.ListForPair(ctx, actingUserID, targetUserID)
	if err != nil {
		return nil, Internal("failed to check prior interactions", err)
	}
	for _, interaction := range existing {
		if interaction.Kind == models.InteractionKindPass {
			return &PassResult{Status: models.StatusAlreadyPassed}, nil
		}
	}
	// A prior like does not block a pass; both events coexist in the ledger.

	err = s.Interactions.Put(ctx, models.Interaction{
		ActingUserID: actingUserID,
		TargetUserID: targetUserID,
		Kind:         models.InteractionKindPass,
		CreatedAt:    s.now().Format(time.RFC3339),
	})
	if err != nil {
		return nil, Internal("failed to record pass", err)
	}

	log.Printf("👋 %s passed on %s", actingUserID, targetUserID)
	return &PassResult{Status: models.StatusPassed}, nil
}

// RecordLike appends a like event (suppressing exact duplicates), then checks
// for a reciprocal like and resolves the mutual match if one exists. A prior
// pass does not block a like.
func (s *InteractionService) RecordLike(ctx context.Context, actingUserID, targetUserID string) (*LikeResult, error) {
	if err := s.validatePair(actingUserID, targetUserID); err != nil {
		return nil, err
	}

	existingLike, err := s.Interactions.Get(ctx, actingUserID, targetUserID, models.InteractionKindLike)
	if err != nil {
		return nil, Internal("failed to check prior like", err)
	}
	if existingLike == nil {
		err = s.Interactions.Put(ctx, models.Interaction{
			ActingUserID: actingUserID,
			TargetUserID: targetUserID,
			Kind:         models.InteractionKindLike,
			CreatedAt:    s.now().Format(time.RFC3339),
		})
		if err != nil {
			return nil, Internal("failed to record like", err)
		}
	}

	reciprocal, err := s.Interactions.Get(ctx, targetUserID, actingUserID, models.InteractionKindLike)
	if err != nil {
		return nil, Internal("failed to check reciprocal like", err)
	}
	if reciprocal == nil {
		log.Printf("💖 %s liked %s", actingUserID, targetUserID)
		return &LikeResult{Status: models.StatusLiked}, nil
	}

	match, err := s.Matches.ResolveMutualLike(ctx, actingUserID, targetUserID)
	if err != nil {
		return nil, err
	}

	log.Printf("✨ Mutual like: %s and %s matched (matchId=%s)", actingUserID, targetUserID, match.MatchID)
	return &LikeResult{
		Status:         models.StatusMatched,
		MatchID:        match.MatchID,
		ConversationID: match.ConversationID,
	}, nil
}
