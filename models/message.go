package models

// Message is an immutable chat message. CreatedAt is assigned by the store at
// insert time (unix μs) and is strictly increasing within a conversation, so
// it doubles as the sort key.
type Message struct {
	ConversationID string `dynamodbav:"conversationId" json:"conversationId"` // ✅ Partition Key
	CreatedAt      int64  `dynamodbav:"createdAt" json:"createdAt"`           // ✅ Sort Key
	MessageID      string `dynamodbav:"messageId" json:"messageId"`
	AuthorID       string `dynamodbav:"authorId" json:"authorId"`
	Text           string `dynamodbav:"text" json:"text"`
}

// MessagePage is one page of messages, ordered oldest to newest for display.
type MessagePage struct {
	Messages   []Message `json:"messages"`
	NextCursor string    `json:"nextCursor,omitempty"` // opaque; empty when Done
	Done       bool      `json:"done"`
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"

// MessageIDIndex is the GSI for looking a message up by its id
const MessageIDIndex = "messageId-index"
