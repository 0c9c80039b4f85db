package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"fittrack-client/internal/models"
)

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrSendInFlight   = errors.New("a message is already being sent")
	ErrNoChatSelected = errors.New("no chat selected")
	ErrChatNotFound   = errors.New("chat not found")
	ErrNothingToRetry = errors.New("no failed message to retry")
)

type ChatBackend interface {
	ListChats(ctx context.Context) ([]models.Chat, error)
	CreateChat(ctx context.Context) (*models.Chat, error)
	SendChatMessage(ctx context.Context, chatID int64, msg models.Message) (*models.Message, error)
	DeleteChat(ctx context.Context, chatID int64) error
}

// ChatService holds the user's backend-persisted chats and the current
// selection. At most one send per chat is in flight at a time.
type ChatService struct {
	backend ChatBackend

	mu       sync.Mutex
	chats    []models.Chat
	selected int64
	hasSel   bool
	sending  map[int64]bool
}

func NewChatService(backend ChatBackend) *ChatService {
	return &ChatService{
		backend: backend,
		sending: make(map[int64]bool),
	}
}

// Refresh replaces the local list with the backend's. Pending and failed
// messages are kept on their chats. The first chat is selected when nothing
// was selected before.
func (s *ChatService) Refresh(ctx context.Context) error {
	chats, err := s.backend.ListChats(ctx)
	if err != nil {
		log.Printf("Error fetching chats: %v", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range chats {
		if j := s.indexOf(chats[i].ChatID); j >= 0 {
			chats[i].Messages = append(chats[i].Messages, unsettled(s.chats[j].Messages)...)
		}
	}
	s.chats = chats
	if s.hasSel && s.indexOf(s.selected) < 0 {
		s.hasSel = false
	}
	if !s.hasSel && len(s.chats) > 0 {
		s.selected = s.chats[0].ChatID
		s.hasSel = true
	}
	return nil
}

// NewChat creates a chat, appends it and selects it.
func (s *ChatService) NewChat(ctx context.Context) (models.Chat, error) {
	chat, err := s.backend.CreateChat(ctx)
	if err != nil {
		log.Printf("Error starting new chat: %v", err)
		return models.Chat{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.chats = append(s.chats, *chat)
	s.selected = chat.ChatID
	s.hasSel = true
	return copyChat(*chat), nil
}

// DeleteChat removes the chat on the backend and then locally. Deleting the
// selected chat leaves nothing selected.
func (s *ChatService) DeleteChat(ctx context.Context, chatID int64) error {
	if err := s.backend.DeleteChat(ctx, chatID); err != nil {
		log.Printf("Error deleting chat: %v", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.chats[:0]
	for _, c := range s.chats {
		if c.ChatID != chatID {
			kept = append(kept, c)
		}
	}
	s.chats = kept
	if s.hasSel && s.selected == chatID {
		s.hasSel = false
	}
	return nil
}

func (s *ChatService) Select(chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(chatID) < 0 {
		return ErrChatNotFound
	}
	s.selected = chatID
	s.hasSel = true
	return nil
}

// Selected returns a copy of the selected chat.
func (s *ChatService) Selected() (models.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasSel {
		return models.Chat{}, false
	}
	i := s.indexOf(s.selected)
	if i < 0 {
		return models.Chat{}, false
	}
	return copyChat(s.chats[i]), true
}

func (s *ChatService) Chats() []models.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Chat, len(s.chats))
	for i, c := range s.chats {
		out[i] = copyChat(c)
	}
	return out
}

// Sending reports whether a send is in flight for chatID.
func (s *ChatService) Sending(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending[chatID]
}

// Send appends text to the selected chat as a pending user message and
// posts it. On success the message is confirmed and the reply appended; on
// failure it stays in the chat marked failed.
func (s *ChatService) Send(ctx context.Context, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	if !s.hasSel || s.indexOf(s.selected) < 0 {
		s.mu.Unlock()
		return nil, ErrNoChatSelected
	}
	chatID := s.selected
	if s.sending[chatID] {
		s.mu.Unlock()
		return nil, ErrSendInFlight
	}
	s.sending[chatID] = true

	msg := models.Message{Role: models.RoleUser, Content: text, Status: models.StatusPending, LocalID: uuid.NewString()}
	i := s.indexOf(chatID)
	s.chats[i].Messages = append(s.chats[i].Messages, msg)
	s.mu.Unlock()

	return s.deliver(ctx, chatID, msg)
}

// Retry resends the most recent failed message of the selected chat.
func (s *ChatService) Retry(ctx context.Context) (*models.Message, error) {
	s.mu.Lock()
	if !s.hasSel || s.indexOf(s.selected) < 0 {
		s.mu.Unlock()
		return nil, ErrNoChatSelected
	}
	chatID := s.selected
	if s.sending[chatID] {
		s.mu.Unlock()
		return nil, ErrSendInFlight
	}

	i := s.indexOf(chatID)
	pos := -1
	for j := len(s.chats[i].Messages) - 1; j >= 0; j-- {
		if s.chats[i].Messages[j].Status == models.StatusFailed {
			pos = j
			break
		}
	}
	if pos < 0 {
		s.mu.Unlock()
		return nil, ErrNothingToRetry
	}
	s.sending[chatID] = true
	s.chats[i].Messages[pos].Status = models.StatusPending
	msg := s.chats[i].Messages[pos]
	s.mu.Unlock()

	return s.deliver(ctx, chatID, msg)
}

// deliver posts msg and settles it, found by LocalID since a Refresh may
// have rebuilt the chat meanwhile. The in-flight flag for chatID is cleared
// whatever the outcome.
func (s *ChatService) deliver(ctx context.Context, chatID int64, msg models.Message) (*models.Message, error) {
	reply, err := s.backend.SendChatMessage(ctx, chatID, models.Message{Role: msg.Role, Content: msg.Content})

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sending, chatID)

	i := s.indexOf(chatID)
	if i < 0 {
		// Deleted while the request was pending.
		if err != nil {
			log.Printf("Error sending message: %v", err)
		}
		return reply, err
	}

	status := models.StatusConfirmed
	if err != nil {
		log.Printf("Error sending message: %v", err)
		status = models.StatusFailed
	}
	s.settle(i, msg, status)
	if err != nil {
		return nil, err
	}

	s.chats[i].Messages = append(s.chats[i].Messages, *reply)
	return reply, nil
}

// settle sets the status of msg in chat i, re-adding it if it is missing.
// Must be called with mu held.
func (s *ChatService) settle(i int, msg models.Message, status models.MessageStatus) {
	for j := range s.chats[i].Messages {
		if s.chats[i].Messages[j].LocalID == msg.LocalID {
			s.chats[i].Messages[j].Status = status
			return
		}
	}
	msg.Status = status
	s.chats[i].Messages = append(s.chats[i].Messages, msg)
}

func unsettled(msgs []models.Message) []models.Message {
	var out []models.Message
	for _, m := range msgs {
		if m.Status == models.StatusPending || m.Status == models.StatusFailed {
			out = append(out, m)
		}
	}
	return out
}

// indexOf must be called with mu held.
func (s *ChatService) indexOf(chatID int64) int {
	for i, c := range s.chats {
		if c.ChatID == chatID {
			return i
		}
	}
	return -1
}

func copyChat(c models.Chat) models.Chat {
	c.Messages = append([]models.Message(nil), c.Messages...)
	return c
}
