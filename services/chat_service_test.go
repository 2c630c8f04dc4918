package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"vibecheck_server/models"
	"vibecheck_server/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatHarness() (*ChatService, *ConversationService, *fakeStore, *fakeClock) {
	store := newFakeStore()
	clock := newFakeClock()
	chat := &ChatService{
		ConversationRepo: conversationRepo{store},
		MessageRepo:      store,
		Now:              clock.Now,
	}
	convs := &ConversationService{
		ConversationRepo: conversationRepo{store},
		MessageRepo:      store,
		Now:              clock.Now,
	}
	return chat, convs, store, clock
}

func TestSendMessageValidation(t *testing.T) {
	chat, _, store, _ := newChatHarness()
	ctx := context.Background()
	store.seedConversation("c1", "alice", "bob")

	_, err := chat.SendMessage(ctx, "c1", "", "hello")
	assert.Equal(t, CodeUnauthenticated, CodeOf(err))

	_, err = chat.SendMessage(ctx, "c1", "alice", "   \n\t ")
	assert.Equal(t, CodeValidation, CodeOf(err))

	_, err = chat.SendMessage(ctx, "c1", "alice", strings.Repeat("a", models.MaxMessageLength+1))
	assert.Equal(t, CodeValidation, CodeOf(err))

	// Exactly at the bound is fine.
	result, err := chat.SendMessage(ctx, "c1", "alice", strings.Repeat("a", models.MaxMessageLength))
	require.NoError(t, err)
	assert.True(t, result.Success)

	// The bound counts characters, not bytes: a full-length message of
	// two-byte runes is accepted, one rune more is not.
	result, err = chat.SendMessage(ctx, "c1", "alice", strings.Repeat("é", models.MaxMessageLength))
	require.NoError(t, err)
	assert.True(t, result.Success)

	_, err = chat.SendMessage(ctx, "c1", "alice", strings.Repeat("é", models.MaxMessageLength+1))
	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestSendMessageNotVisibleResults(t *testing.T) {
	chat, _, store, _ := newChatHarness()
	ctx := context.Background()
	store.seedConversation("c1", "alice", "bob")

	result, err := chat.SendMessage(ctx, "missing", "alice", "hello")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "conversation not found", result.Error)

	result, err = chat.SendMessage(ctx, "c1", "mallory", "hello")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "user not part of this conversation", result.Error)
}

func TestSendMessageSideEffects(t *testing.T) {
	chat, convs, store, clock := newChatHarness()
	ctx := context.Background()
	store.seedConversation("c1", "alice", "bob")

	// Alice is typing, then sends.
	_, err := convs.UpdateTyping(ctx, "c1", "alice", true)
	require.NoError(t, err)
	_, err = convs.UpdateTyping(ctx, "c1", "bob", true)
	require.NoError(t, err)

	clock.Advance(time.Second)
	result, err := chat.SendMessage(ctx, "c1", "alice", "hello")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.NotEmpty(t, result.MessageID)

	conv, err := store.GetConversation(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, clock.Now().UnixMilli(), conv.LastMessageAt)

	// Sending clears the sender's typing entry but leaves bob's.
	assert.NotContains(t, conv.Typing, "alice")
	assert.Contains(t, conv.Typing, "bob")

	// The sender has read their own message.
	assert.Equal(t, result.MessageID, conv.LastSeen["alice"].MessageID)

	stored, err := store.GetByID(ctx, result.MessageID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "alice", stored.AuthorID)
	assert.Equal(t, "hello", stored.Text)
}

func TestListMessagesOrderAndPagination(t *testing.T) {
	chat, _, store, _ := newChatHarness()
	ctx := context.Background()
	store.seedConversation("c1", "alice", "bob")

	for _, text := range []string{"one", "two", "three"} {
		_, err := chat.SendMessage(ctx, "c1", "alice", text)
		require.NoError(t, err)
	}

	page, err := chat.ListMessages(ctx, "c1", "bob", "", 50)
	require.NoError(t, err)
	require.Len(t, page.Messages, 3)
	assert.True(t, page.Done)
	assert.Empty(t, page.NextCursor)

	// Oldest first for display.
	assert.Equal(t, "one", page.Messages[0].Text)
	assert.Equal(t, "two", page.Messages[1].Text)
	assert.Equal(t, "three", page.Messages[2].Text)

	// Small pages walk backward through history.
	page, err = chat.ListMessages(ctx, "c1", "bob", "", 2)
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "two", page.Messages[0].Text)
	assert.Equal(t, "three", page.Messages[1].Text)
	require.False(t, page.Done)
	require.NotEmpty(t, page.NextCursor)

	page, err = chat.ListMessages(ctx, "c1", "bob", page.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "one", page.Messages[0].Text)
	assert.True(t, page.Done)
	assert.Empty(t, page.NextCursor)

	// A full page that exactly drains history still hands out a cursor; the
	// follow-up request comes back empty and exhausted.
	page, err = chat.ListMessages(ctx, "c1", "bob", "", 3)
	require.NoError(t, err)
	require.Len(t, page.Messages, 3)
	require.False(t, page.Done)

	page, err = chat.ListMessages(ctx, "c1", "bob", page.NextCursor, 3)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)
	assert.True(t, page.Done)
}

func TestListMessagesNotVisible(t *testing.T) {
	chat, _, store, _ := newChatHarness()
	ctx := context.Background()
	store.seedConversation("c1", "alice", "bob")

	_, err := chat.SendMessage(ctx, "c1", "alice", "hello")
	require.NoError(t, err)

	for _, tc := range []struct {
		name           string
		conversationID string
		callerID       string
	}{
		{"unauthenticated", "c1", ""},
		{"missing conversation", "missing", "alice"},
		{"non-participant", "c1", "mallory"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			page, err := chat.ListMessages(ctx, tc.conversationID, tc.callerID, "", 50)
			require.NoError(t, err)
			assert.Empty(t, page.Messages)
			assert.True(t, page.Done)
		})
	}
}

// contendedConversationRepo never lets a conversation update through.
type contendedConversationRepo struct {
	ConversationRepository
}

func (r contendedConversationRepo) ApplyUpdate(ctx context.Context, conversationID string, expectedVersion int64, update models.ConversationUpdate) error {
	return repository.ErrConditionFailed
}

func TestSendMessageContendedUpdateFails(t *testing.T) {
	chat, _, store, _ := newChatHarness()
	ctx := context.Background()
	store.seedConversation("c1", "alice", "bob")

	chat.ConversationRepo = contendedConversationRepo{conversationRepo{store}}

	_, err := chat.SendMessage(ctx, "c1", "alice", "hello")
	assert.Equal(t, CodeConflict, CodeOf(err))

	// The conversation keeps its pre-send state; nothing was half-applied.
	conv, err := store.GetConversation(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, conv.LastMessageAt)
	assert.Empty(t, conv.LastSeen)
}

// limitRecordingMessageRepo records the page size handed to the store.
type limitRecordingMessageRepo struct {
	MessageRepository
	lastLimit int
}

func (r *limitRecordingMessageRepo) ListPage(ctx context.Context, conversationID, cursor string, limit int) ([]models.Message, string, bool, error) {
	r.lastLimit = limit
	return r.MessageRepository.ListPage(ctx, conversationID, cursor, limit)
}

func TestListMessagesClampsPageSize(t *testing.T) {
	chat, _, store, _ := newChatHarness()
	ctx := context.Background()
	store.seedConversation("c1", "alice", "bob")

	recorder := &limitRecordingMessageRepo{MessageRepository: store}
	chat.MessageRepo = recorder

	_, err := chat.ListMessages(ctx, "c1", "alice", "", 1<<40)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, recorder.lastLimit)

	_, err = chat.ListMessages(ctx, "c1", "alice", "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, recorder.lastLimit)

	_, err = chat.ListMessages(ctx, "c1", "alice", "", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, recorder.lastLimit)
}

func TestListMessagesDefaultsPageSize(t *testing.T) {
	chat, _, store, _ := newChatHarness()
	ctx := context.Background()
	store.seedConversation("c1", "alice", "bob")

	_, err := chat.SendMessage(ctx, "c1", "alice", "hello")
	require.NoError(t, err)

	page, err := chat.ListMessages(ctx, "c1", "alice", "", 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.True(t, page.Done)
}
