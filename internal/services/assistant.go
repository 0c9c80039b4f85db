package services

import (
	"context"
	"log"
	"strings"
	"sync"

	"fittrack-client/internal/models"
)

const (
	Greeting           = "Hello!"
	NoReplyPlaceholder = "No response from the bot"
)

// Completer answers a whole conversation in one stateless call.
type Completer interface {
	Complete(ctx context.Context, req models.CompletionRequest) (*models.CompletionResponse, error)
}

// AssistantService is the single-conversation chat that keeps its history
// on the client and resends all of it on every turn.
type AssistantService struct {
	completer Completer
	model     string

	mu       sync.Mutex
	messages []models.LocalMessage
	sending  bool
}

func NewAssistantService(completer Completer, model string) *AssistantService {
	return &AssistantService{
		completer: completer,
		model:     model,
		messages:  []models.LocalMessage{{ID: 0, Text: Greeting, IsUser: false}},
	}
}

func (s *AssistantService) Messages() []models.LocalMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.LocalMessage(nil), s.messages...)
}

func (s *AssistantService) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// Send appends the question, submits the prior history plus the question and
// appends exactly one reply. A failed call leaves the question in place.
func (s *AssistantService) Send(ctx context.Context, question string) (*models.LocalMessage, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return nil, ErrSendInFlight
	}
	s.sending = true
	history := append([]models.LocalMessage(nil), s.messages...)
	s.messages = append(s.messages, models.LocalMessage{ID: len(s.messages), Text: question, IsUser: true})
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sending = false
		s.mu.Unlock()
	}()

	resp, err := s.completer.Complete(ctx, BuildCompletionRequest(s.model, history, question))
	if err != nil {
		log.Printf("Error sending message: %v", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	reply := models.LocalMessage{ID: len(s.messages), Text: replyText(resp), IsUser: false}
	s.messages = append(s.messages, reply)
	return &reply, nil
}

// BuildCompletionRequest formats history for the completion endpoint and
// appends question as the final user message.
func BuildCompletionRequest(model string, history []models.LocalMessage, question string) models.CompletionRequest {
	msgs := make([]models.CompletionMessage, 0, len(history)+1)
	for _, m := range history {
		role := models.RoleAssistant
		if m.IsUser {
			role = models.RoleUser
		}
		msgs = append(msgs, models.CompletionMessage{Role: role, Content: m.Text})
	}
	msgs = append(msgs, models.CompletionMessage{Role: models.RoleUser, Content: question})

	return models.CompletionRequest{Model: model, Messages: msgs}
}

func replyText(resp *models.CompletionResponse) string {
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == "" {
		return NoReplyPlaceholder
	}
	return resp.Choices[0].Message.Content
}
