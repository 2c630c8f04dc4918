package services

import (
	"context"
	"log"
	"time"

	"vibecheck_server/models"
)

// DiscoveryLimit caps the candidate list returned by GetPotentialMatches.
const DiscoveryLimit = 10

// UserProfileService owns profile CRUD and mood-based discovery.
type UserProfileService struct {
	ProfileRepo     ProfileRepository
	InteractionRepo InteractionRepository
	Now             func() time.Time
}

func (s *UserProfileService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// EnsureProfile lazily creates the caller's profile with the default mood,
// and backfills the mood on existing profiles that lack one.
func (s *UserProfileService) EnsureProfile(ctx context.Context, callerID string) (*models.UserProfile, error) {
	if callerID == "" {
		return nil, Unauthenticated("user not authenticated")
	}

	existing, err := s.ProfileRepo.Get(ctx, callerID)
	if err != nil {
		return nil, Internal("failed to fetch profile", err)
	}
	if existing != nil {
		if existing.CurrentMood == "" {
			return s.ProfileRepo.Patch(ctx, callerID, map[string]string{"currentMood": models.DefaultMood})
		}
		return existing, nil
	}

	profile := models.UserProfile{
		UserID:      callerID,
		CurrentMood: models.DefaultMood,
		CreatedAt:   s.now().Format(time.RFC3339),
	}
	if err := s.ProfileRepo.Put(ctx, profile); err != nil {
		return nil, Internal("failed to create profile", err)
	}

	log.Printf("🆕 Created profile for %s", callerID)
	return &profile, nil
}

// GetProfile returns the caller's profile, or nil when none exists yet.
func (s *UserProfileService) GetProfile(ctx context.Context, callerID string) (*models.UserProfile, error) {
	if callerID == "" {
		return nil, nil
	}
	profile, err := s.ProfileRepo.Get(ctx, callerID)
	if err != nil {
		return nil, Internal("failed to fetch profile", err)
	}
	return profile, nil
}

// UpdateMood sets the caller's mood, validated against the closed set.
func (s *UserProfileService) UpdateMood(ctx context.Context, callerID, mood string) (*models.UserProfile, error) {
	if callerID == "" {
		return nil, Unauthenticated("user not authenticated")
	}
	if !models.IsValidMood(mood) {
		return nil, Validation("unknown mood: " + mood)
	}

	existing, err := s.ProfileRepo.Get(ctx, callerID)
	if err != nil {
		return nil, Internal("failed to fetch profile", err)
	}
	if existing == nil {
		return nil, NotFound("profile not found")
	}

	return s.ProfileRepo.Patch(ctx, callerID, map[string]string{
		"currentMood": mood,
		"updatedAt":   s.now().Format(time.RFC3339),
	})
}

// UpdateProfileDetails applies only the fields present in the update.
func (s *UserProfileService) UpdateProfileDetails(ctx context.Context, callerID string, update models.ProfileUpdate) (*models.UserProfile, error) {
	if callerID == "" {
		return nil, Unauthenticated("user not authenticated")
	}

	existing, err := s.ProfileRepo.Get(ctx, callerID)
	if err != nil {
		return nil, Internal("failed to fetch profile", err)
	}
	if existing == nil {
		return nil, NotFound("profile not found")
	}
	if update.IsEmpty() {
		return existing, nil
	}

	updates := map[string]string{"updatedAt": s.now().Format(time.RFC3339)}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Bio != nil {
		updates["bio"] = *update.Bio
	}
	if update.PictureKey != nil {
		updates["pictureKey"] = *update.PictureKey
	}

	return s.ProfileRepo.Patch(ctx, callerID, updates)
}

// GetPotentialMatches returns discovery candidates for the caller: profiles
// with a mood and name that the caller has not interacted with, same-mood
// first, backfilled with other moods up to the limit. Callers without a
// profile or mood get an empty list.
func (s *UserProfileService) GetPotentialMatches(ctx context.Context, callerID string) ([]models.UserProfile, error) {
	if callerID == "" {
		return []models.UserProfile{}, nil
	}

	me, err := s.ProfileRepo.Get(ctx, callerID)
	if err != nil {
		return nil, Internal("failed to fetch profile", err)
	}
	if me == nil || me.CurrentMood == "" {
		return []models.UserProfile{}, nil
	}

	interactions, err := s.InteractionRepo.ListByActor(ctx, callerID)
	if err != nil {
		return nil, Internal("failed to fetch interactions", err)
	}
	interacted := make(map[string]bool, len(interactions))
	for _, interaction := range interactions {
		interacted[interaction.TargetUserID] = true
	}

	candidates, err := s.ProfileRepo.ListCandidates(ctx, callerID)
	if err != nil {
		return nil, Internal("failed to fetch candidates", err)
	}

	var sameMood, otherMood []models.UserProfile
	for _, candidate := range candidates {
		if interacted[candidate.UserID] {
			continue
		}
		if candidate.CurrentMood == me.CurrentMood {
			sameMood = append(sameMood, candidate)
		} else {
			otherMood = append(otherMood, candidate)
		}
	}

	results := sameMood
	if len(results) < DiscoveryLimit {
		need := DiscoveryLimit - len(results)
		if need > len(otherMood) {
			need = len(otherMood)
		}
		results = append(results, otherMood[:need]...)
	}
	if len(results) > DiscoveryLimit {
		results = results[:DiscoveryLimit]
	}
	if results == nil {
		results = []models.UserProfile{}
	}

	log.Printf("🔍 Discovery for %s (%s): %d candidates", callerID, me.CurrentMood, len(results))
	return results, nil
}
