package services

import (
	"context"
	"sync"
	"testing"

	"vibecheck_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInteractionHarness() (*InteractionService, *fakeStore) {
	store := newFakeStore()
	matches := &MatchService{
		MatchRepo:        store,
		ConversationRepo: conversationRepo{store},
		MessageRepo:      store,
		ProfileRepo:      profileRepo{store},
	}
	return &InteractionService{Interactions: store, Matches: matches}, store
}

func TestRecordLikeOneWay(t *testing.T) {
	svc, store := newInteractionHarness()
	ctx := context.Background()

	result, err := svc.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.StatusLiked, result.Status)
	assert.Empty(t, result.MatchID)

	// Exact duplicates are suppressed: still one like event in the ledger.
	result, err = svc.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.StatusLiked, result.Status)

	events, err := store.ListForPair(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestRecordLikeMutualCreatesMatch(t *testing.T) {
	svc, store := newInteractionHarness()
	ctx := context.Background()

	first, err := svc.RecordLike(ctx, "bob", "alice")
	require.NoError(t, err)
	require.Equal(t, models.StatusLiked, first.Status)

	second, err := svc.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.StatusMatched, second.Status)
	require.NotEmpty(t, second.MatchID)
	require.NotEmpty(t, second.ConversationID)

	match, err := store.GetByPair(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, second.MatchID, match.MatchID)
	assert.Equal(t, second.ConversationID, match.ConversationID)

	conv, err := store.GetConversation(ctx, second.ConversationID)
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.Equal(t, []string{"alice", "bob"}, conv.ParticipantIDs)

	// Liking again after the match resolves to the same records.
	again, err := svc.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.StatusMatched, again.Status)
	assert.Equal(t, second.MatchID, again.MatchID)
	assert.Equal(t, second.ConversationID, again.ConversationID)
}

func TestRecordLikeRejectsSelfAndAnonymous(t *testing.T) {
	svc, _ := newInteractionHarness()
	ctx := context.Background()

	_, err := svc.RecordLike(ctx, "alice", "alice")
	assert.Equal(t, CodeInvalidOperation, CodeOf(err))

	_, err = svc.RecordLike(ctx, "", "bob")
	assert.Equal(t, CodeUnauthenticated, CodeOf(err))

	_, err = svc.RecordPass(ctx, "alice", "alice")
	assert.Equal(t, CodeInvalidOperation, CodeOf(err))

	_, err = svc.RecordPass(ctx, "", "bob")
	assert.Equal(t, CodeUnauthenticated, CodeOf(err))
}

func TestRecordPass(t *testing.T) {
	svc, store := newInteractionHarness()
	ctx := context.Background()

	result, err := svc.RecordPass(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPassed, result.Status)

	result, err = svc.RecordPass(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAlreadyPassed, result.Status)

	events, err := store.ListForPair(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestLikeAfterPassCoexist(t *testing.T) {
	svc, store := newInteractionHarness()
	ctx := context.Background()

	_, err := svc.RecordPass(ctx, "alice", "bob")
	require.NoError(t, err)

	result, err := svc.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.StatusLiked, result.Status)

	events, err := store.ListForPair(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestPassAfterLikeCoexist(t *testing.T) {
	svc, store := newInteractionHarness()
	ctx := context.Background()

	_, err := svc.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)

	result, err := svc.RecordPass(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPassed, result.Status)

	// Both events stay in the ledger, distinguishable by kind.
	events, err := store.ListForPair(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Len(t, events, 2)
	kinds := map[string]bool{}
	for _, e := range events {
		kinds[e.Kind] = true
	}
	assert.True(t, kinds[models.InteractionKindLike])
	assert.True(t, kinds[models.InteractionKindPass])
}

// Two reciprocal likes landing at the same time must never produce more than
// one match record for the pair.
func TestConcurrentReciprocalLikes(t *testing.T) {
	for i := 0; i < 25; i++ {
		svc, store := newInteractionHarness()
		ctx := context.Background()

		var wg sync.WaitGroup
		results := make([]*LikeResult, 2)
		errs := make([]error, 2)

		wg.Add(2)
		go func() {
			defer wg.Done()
			results[0], errs[0] = svc.RecordLike(ctx, "alice", "bob")
		}()
		go func() {
			defer wg.Done()
			results[1], errs[1] = svc.RecordLike(ctx, "bob", "alice")
		}()
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])

		matched := 0
		for _, r := range results {
			if r.Status == models.StatusMatched {
				matched++
			}
		}
		require.GreaterOrEqual(t, matched, 1, "at least one side must observe the mutual like")

		matches, err := store.ListByUser(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, matches, 1)

		// Every side that reported a match reported the same one.
		for _, r := range results {
			if r.Status == models.StatusMatched {
				assert.Equal(t, matches[0].MatchID, r.MatchID)
				assert.Equal(t, matches[0].ConversationID, r.ConversationID)
			}
		}
	}
}
