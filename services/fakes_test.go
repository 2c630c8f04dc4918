package services

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"vibecheck_server/models"
	"vibecheck_server/repository"
)

// fakeStore is an in-memory implementation of all repository interfaces. Its
// conditional operations (CreateWithConversation, LinkConversation,
// ApplyUpdate) run under one mutex, mirroring the atomicity the DynamoDB
// layer gets from conditional and transactional writes.
type fakeStore struct {
	mu            sync.Mutex
	interactions  map[string]models.Interaction
	matches       map[string]models.Match
	conversations map[string]models.Conversation
	messages      []models.Message
	profiles      map[string]models.UserProfile
	nextCreatedAt int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		interactions:  make(map[string]models.Interaction),
		matches:       make(map[string]models.Match),
		conversations: make(map[string]models.Conversation),
		profiles:      make(map[string]models.UserProfile),
		nextCreatedAt: 1000,
	}
}

func interactionKey(acting, target, kind string) string {
	return acting + "|" + target + "|" + kind
}

func pairKey(low, high string) string {
	return low + "|" + high
}

// ---- InteractionRepository ----

func (f *fakeStore) Get(ctx context.Context, acting, target, kind string) (*models.Interaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i, ok := f.interactions[interactionKey(acting, target, kind)]; ok {
		out := i
		return &out, nil
	}
	return nil, nil
}

func (f *fakeStore) ListForPair(ctx context.Context, acting, target string) ([]models.Interaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Interaction
	for _, i := range f.interactions {
		if i.ActingUserID == acting && i.TargetUserID == target {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByActor(ctx context.Context, acting string) ([]models.Interaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Interaction
	for _, i := range f.interactions {
		if i.ActingUserID == acting {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeStore) Put(ctx context.Context, interaction models.Interaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interactions[interactionKey(interaction.ActingUserID, interaction.TargetUserID, interaction.Kind)] = interaction
	return nil
}

// ---- MatchRepository ----

func (f *fakeStore) GetByPair(ctx context.Context, low, high string) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.matches[pairKey(low, high)]; ok {
		out := m
		return &out, nil
	}
	return nil, nil
}

func (f *fakeStore) CreateWithConversation(ctx context.Context, match models.Match, conv models.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey(match.UserLow, match.UserHigh)
	if _, exists := f.matches[key]; exists {
		return repository.ErrConditionFailed
	}
	f.matches[key] = match
	f.conversations[conv.ConversationID] = conv
	return nil
}

func (f *fakeStore) LinkConversation(ctx context.Context, low, high string, conv models.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey(low, high)
	m, exists := f.matches[key]
	if !exists || m.ConversationID != "" {
		return repository.ErrConditionFailed
	}
	m.ConversationID = conv.ConversationID
	f.matches[key] = m
	f.conversations[conv.ConversationID] = conv
	return nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID string) ([]models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Match
	for _, m := range f.matches {
		if m.UserLow == userID || m.UserHigh == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ---- ConversationRepository ----

func copyConversation(c models.Conversation) models.Conversation {
	out := c
	out.ParticipantIDs = append([]string(nil), c.ParticipantIDs...)
	out.Typing = make(map[string]models.TypingEntry, len(c.Typing))
	for k, v := range c.Typing {
		out.Typing[k] = v
	}
	out.LastSeen = make(map[string]models.LastSeenEntry, len(c.LastSeen))
	for k, v := range c.LastSeen {
		out.LastSeen[k] = v
	}
	return out
}

func (f *fakeStore) GetConversation(ctx context.Context, conversationID string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.conversations[conversationID]; ok {
		out := copyConversation(c)
		return &out, nil
	}
	return nil, nil
}

func (f *fakeStore) ApplyUpdate(ctx context.Context, conversationID string, expectedVersion int64, update models.ConversationUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.conversations[conversationID]
	if !ok || c.Version != expectedVersion {
		return repository.ErrConditionFailed
	}
	if update.LastMessageAt != nil {
		c.LastMessageAt = *update.LastMessageAt
	}
	if update.Typing != nil {
		c.Typing = update.Typing
	}
	if update.LastSeen != nil {
		c.LastSeen = update.LastSeen
	}
	c.Version++
	f.conversations[conversationID] = c
	return nil
}

// ---- MessageRepository ----

func (f *fakeStore) Append(ctx context.Context, message models.Message) (models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextCreatedAt++
	message.CreatedAt = f.nextCreatedAt
	f.messages = append(f.messages, message)
	return message, nil
}

func (f *fakeStore) GetByID(ctx context.Context, messageID string) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.MessageID == messageID {
			out := m
			return &out, nil
		}
	}
	return nil, nil
}

// ListPage mirrors the DynamoDB behavior: a continuation key is returned
// whenever the page is full, even if nothing happens to remain after it.
func (f *fakeStore) ListPage(ctx context.Context, conversationID, cursor string, limit int) ([]models.Message, string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var before int64 = 1<<62 - 1
	if cursor != "" {
		v, err := strconv.ParseInt(cursor, 10, 64)
		if err != nil {
			return nil, "", false, err
		}
		before = v
	}

	var all []models.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID && m.CreatedAt < before {
			all = append(all, m)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt > all[j].CreatedAt })

	page := all
	if len(page) > limit {
		page = page[:limit]
	}
	if len(page) == limit && limit > 0 {
		last := page[len(page)-1]
		return page, strconv.FormatInt(last.CreatedAt, 10), false, nil
	}
	return page, "", true, nil
}

func (f *fakeStore) Latest(ctx context.Context, conversationID string) (*models.Message, error) {
	page, _, _, err := f.ListPage(ctx, conversationID, "", 1)
	if err != nil || len(page) == 0 {
		return nil, err
	}
	return &page[0], nil
}

// deleteMessage drops a message, simulating out-of-band deletion.
func (f *fakeStore) deleteMessage(messageID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.messages[:0]
	for _, m := range f.messages {
		if m.MessageID != messageID {
			kept = append(kept, m)
		}
	}
	f.messages = kept
}

// ---- ProfileRepository ----

func (f *fakeStore) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[userID]; ok {
		out := p
		return &out, nil
	}
	return nil, nil
}

func (f *fakeStore) PutProfile(ctx context.Context, profile models.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeStore) Patch(ctx context.Context, userID string, updates map[string]string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.profiles[userID]
	p.UserID = userID
	for field, value := range updates {
		switch field {
		case "name":
			p.Name = value
		case "bio":
			p.Bio = value
		case "pictureKey":
			p.PictureKey = value
		case "currentMood":
			p.CurrentMood = value
		case "updatedAt":
			p.UpdatedAt = value
		}
	}
	f.profiles[userID] = p
	out := p
	return &out, nil
}

func (f *fakeStore) ListCandidates(ctx context.Context, excludeUserID string) ([]models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.UserProfile
	for _, p := range f.profiles {
		if p.UserID == excludeUserID || p.CurrentMood == "" || p.Name == "" {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// profileRepo / conversationRepo adapt fakeStore's explicitly named methods
// to the interface method sets that collide across interfaces.
type profileRepo struct{ *fakeStore }

func (r profileRepo) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	return r.GetProfile(ctx, userID)
}

func (r profileRepo) Put(ctx context.Context, profile models.UserProfile) error {
	return r.PutProfile(ctx, profile)
}

type conversationRepo struct{ *fakeStore }

func (r conversationRepo) Get(ctx context.Context, conversationID string) (*models.Conversation, error) {
	return r.GetConversation(ctx, conversationID)
}

// ---- helpers ----

func (f *fakeStore) seedConversation(conversationID string, participants ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conversations[conversationID] = models.Conversation{
		ConversationID: conversationID,
		ParticipantIDs: participants,
		Typing:         map[string]models.TypingEntry{},
		LastSeen:       map[string]models.LastSeenEntry{},
		Version:        1,
		CreatedAt:      time.Now().Format(time.RFC3339),
	}
}
