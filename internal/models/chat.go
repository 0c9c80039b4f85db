package models

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleFunction  Role = "function"
)

// MessageStatus tracks an optimistic message until the backend settles it.
// It never leaves the client.
type MessageStatus string

const (
	StatusConfirmed MessageStatus = ""
	StatusPending   MessageStatus = "pending"
	StatusFailed    MessageStatus = "failed"
)

// Message represents a single message in a persisted chat. LocalID is set
// only on messages the client sent and is never serialized.
type Message struct {
	Role    Role          `json:"role"`
	Content string        `json:"content"`
	Status  MessageStatus `json:"-"`
	LocalID string        `json:"-"`
}

// Chat is one of the user's backend-persisted conversations.
type Chat struct {
	ChatID   int64     `json:"chatId"`
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// LocalMessage is a message of the stateless assistant. ID is derived from
// its position in the conversation.
type LocalMessage struct {
	ID     int    `json:"id"`
	Text   string `json:"text"`
	IsUser bool   `json:"isUser"`
}

type CompletionMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the payload of the stateless completion endpoint.
type CompletionRequest struct {
	Model    string              `json:"model"`
	Messages []CompletionMessage `json:"messages"`
}

type CompletionChoice struct {
	Message *CompletionMessage `json:"message,omitempty"`
}

type CompletionResponse struct {
	Choices []CompletionChoice `json:"choices"`
}
