package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fittrack-client/internal/models"
)

type stubChatBackend struct {
	mu       sync.Mutex
	chats    []models.Chat
	listErr  error
	sendErr  error
	nextID   int64
	sent     []models.Message
	sendCall int32

	// When set, SendChatMessage waits for a value before answering.
	release chan struct{}
	entered chan struct{}
}

func (s *stubChatBackend) ListChats(ctx context.Context) ([]models.Chat, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]models.Chat(nil), s.chats...), nil
}

func (s *stubChatBackend) CreateChat(ctx context.Context) (*models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return &models.Chat{ChatID: 100 + s.nextID, Model: "gpt-3.5-turbo"}, nil
}

func (s *stubChatBackend) SendChatMessage(ctx context.Context, chatID int64, msg models.Message) (*models.Message, error) {
	atomic.AddInt32(&s.sendCall, 1)
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return &models.Message{Role: models.RoleAssistant, Content: "reply to " + msg.Content}, nil
}

func (s *stubChatBackend) DeleteChat(ctx context.Context, chatID int64) error {
	return nil
}

func threeChats() []models.Chat {
	return []models.Chat{{ChatID: 1}, {ChatID: 2}, {ChatID: 3}}
}

func TestChatService_RefreshSelectsFirst(t *testing.T) {
	backend := &stubChatBackend{chats: threeChats()}
	svc := NewChatService(backend)

	if _, ok := svc.Selected(); ok {
		t.Fatal("expected no selection before refresh")
	}
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	sel, ok := svc.Selected()
	if !ok || sel.ChatID != 1 {
		t.Fatalf("expected chat 1 selected, got %+v (ok=%v)", sel, ok)
	}

	if err := svc.Select(3); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	svc.Refresh(context.Background())
	if sel, _ := svc.Selected(); sel.ChatID != 3 {
		t.Errorf("expected refresh to keep selection 3, got %d", sel.ChatID)
	}
}

func TestChatService_RefreshEmptyListSelectsNothing(t *testing.T) {
	svc := NewChatService(&stubChatBackend{})
	svc.Refresh(context.Background())
	if _, ok := svc.Selected(); ok {
		t.Error("expected no selection for an empty list")
	}
}

func TestChatService_RefreshFailureKeepsState(t *testing.T) {
	backend := &stubChatBackend{chats: threeChats()}
	svc := NewChatService(backend)
	svc.Refresh(context.Background())

	backend.listErr = errors.New("boom")
	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if n := len(svc.Chats()); n != 3 {
		t.Errorf("expected 3 chats kept, got %d", n)
	}
}

func TestChatService_NewChatIsAppendedAndSelected(t *testing.T) {
	svc := NewChatService(&stubChatBackend{chats: threeChats()})
	svc.Refresh(context.Background())

	chat, err := svc.NewChat(context.Background())
	if err != nil {
		t.Fatalf("NewChat failed: %v", err)
	}

	chats := svc.Chats()
	if chats[len(chats)-1].ChatID != chat.ChatID {
		t.Errorf("expected new chat last, got %+v", chats)
	}
	if sel, _ := svc.Selected(); sel.ChatID != chat.ChatID {
		t.Errorf("expected new chat selected, got %d", sel.ChatID)
	}
}

func TestChatService_DeleteChat(t *testing.T) {
	tests := []struct {
		name        string
		selected    int64
		deleted     int64
		wantSel     bool
		wantSelID   int64
		wantIDsLeft []int64
	}{
		{"deleting selected clears selection", 2, 2, false, 0, []int64{1, 3}},
		{"deleting other keeps selection", 1, 3, true, 1, []int64{1, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewChatService(&stubChatBackend{chats: threeChats()})
			svc.Refresh(context.Background())
			svc.Select(tc.selected)

			if err := svc.DeleteChat(context.Background(), tc.deleted); err != nil {
				t.Fatalf("DeleteChat failed: %v", err)
			}

			sel, ok := svc.Selected()
			if ok != tc.wantSel || (ok && sel.ChatID != tc.wantSelID) {
				t.Errorf("expected selection %v/%d, got %v/%d", tc.wantSel, tc.wantSelID, ok, sel.ChatID)
			}

			chats := svc.Chats()
			if len(chats) != len(tc.wantIDsLeft) {
				t.Fatalf("expected %d chats, got %d", len(tc.wantIDsLeft), len(chats))
			}
			for i, id := range tc.wantIDsLeft {
				if chats[i].ChatID != id {
					t.Errorf("position %d: expected chat %d, got %d", i, id, chats[i].ChatID)
				}
			}
		})
	}
}

func TestChatService_SendGuards(t *testing.T) {
	backend := &stubChatBackend{chats: threeChats()}
	svc := NewChatService(backend)

	if _, err := svc.Send(context.Background(), "hello"); !errors.Is(err, ErrNoChatSelected) {
		t.Errorf("expected ErrNoChatSelected, got %v", err)
	}

	svc.Refresh(context.Background())
	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Send(context.Background(), text); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("expected ErrEmptyMessage for %q, got %v", text, err)
		}
	}

	if n := atomic.LoadInt32(&backend.sendCall); n != 0 {
		t.Errorf("expected no backend calls, got %d", n)
	}
	if sel, _ := svc.Selected(); len(sel.Messages) != 0 {
		t.Errorf("expected unchanged conversation, got %+v", sel.Messages)
	}
}

func TestChatService_SendAppendsUserThenReply(t *testing.T) {
	svc := NewChatService(&stubChatBackend{chats: threeChats()})
	svc.Refresh(context.Background())

	reply, err := svc.Send(context.Background(), "Leg day?")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if reply.Content != "reply to Leg day?" {
		t.Errorf("unexpected reply %q", reply.Content)
	}

	sel, _ := svc.Selected()
	if len(sel.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(sel.Messages))
	}
	if sel.Messages[0].Role != models.RoleUser || sel.Messages[0].Status != models.StatusConfirmed {
		t.Errorf("expected confirmed user message first, got %+v", sel.Messages[0])
	}
	if sel.Messages[1].Role != models.RoleAssistant {
		t.Errorf("expected assistant reply second, got %+v", sel.Messages[1])
	}
}

func TestChatService_SendWhileInFlightIsRejected(t *testing.T) {
	backend := &stubChatBackend{
		chats:   threeChats(),
		release: make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	svc := NewChatService(backend)
	svc.Refresh(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Send(context.Background(), "first")
		done <- err
	}()

	select {
	case <-backend.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first send never reached the backend")
	}

	if !svc.Sending(1) {
		t.Error("expected chat 1 to be sending")
	}
	if _, err := svc.Send(context.Background(), "second"); !errors.Is(err, ErrSendInFlight) {
		t.Errorf("expected ErrSendInFlight, got %v", err)
	}

	// The optimistic message is visible while pending.
	sel, _ := svc.Selected()
	if len(sel.Messages) != 1 || sel.Messages[0].Status != models.StatusPending {
		t.Errorf("expected one pending message, got %+v", sel.Messages)
	}

	backend.release <- struct{}{}
	if err := <-done; err != nil {
		t.Fatalf("first send failed: %v", err)
	}

	backend.entered = nil
	backend.release = nil
	if _, err := svc.Send(context.Background(), "third"); err != nil {
		t.Errorf("expected send after settle to succeed, got %v", err)
	}
}

func TestChatService_ConcurrentSendsOnlyOneGoesThrough(t *testing.T) {
	backend := &stubChatBackend{chats: threeChats(), release: make(chan struct{})}
	svc := NewChatService(backend)
	svc.Refresh(context.Background())

	const senders = 20
	var wg sync.WaitGroup
	var inFlight int32
	start := make(chan struct{})
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := svc.Send(context.Background(), "go"); errors.Is(err, ErrSendInFlight) {
				atomic.AddInt32(&inFlight, 1)
			}
		}()
	}
	close(start)

	// Wait until every loser has returned, then release the winner.
	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&inFlight) < senders-1 {
		select {
		case <-deadline:
			t.Fatalf("expected %d rejected sends, got %d", senders-1, atomic.LoadInt32(&inFlight))
		case <-time.After(5 * time.Millisecond):
		}
	}
	close(backend.release)
	wg.Wait()

	if n := atomic.LoadInt32(&backend.sendCall); n != 1 {
		t.Errorf("expected exactly one backend call, got %d", n)
	}
}

func TestChatService_FailedSendKeepsMessageAndRetries(t *testing.T) {
	backend := &stubChatBackend{chats: threeChats(), sendErr: errors.New("503")}
	svc := NewChatService(backend)
	svc.Refresh(context.Background())

	if _, err := svc.Send(context.Background(), "still there?"); err == nil {
		t.Fatal("expected send error")
	}

	sel, _ := svc.Selected()
	if len(sel.Messages) != 1 || sel.Messages[0].Status != models.StatusFailed {
		t.Fatalf("expected one failed message, got %+v", sel.Messages)
	}
	if svc.Sending(1) {
		t.Error("expected in-flight flag to be cleared after failure")
	}

	backend.sendErr = nil
	if _, err := svc.Retry(context.Background()); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}

	sel, _ = svc.Selected()
	if len(sel.Messages) != 2 {
		t.Fatalf("expected retried message plus reply, got %+v", sel.Messages)
	}
	if sel.Messages[0].Status != models.StatusConfirmed || sel.Messages[0].Content != "still there?" {
		t.Errorf("expected retried message confirmed, got %+v", sel.Messages[0])
	}

	if _, err := svc.Retry(context.Background()); !errors.Is(err, ErrNothingToRetry) {
		t.Errorf("expected ErrNothingToRetry, got %v", err)
	}
}

func TestChatService_SelectUnknown(t *testing.T) {
	svc := NewChatService(&stubChatBackend{chats: threeChats()})
	svc.Refresh(context.Background())
	if err := svc.Select(99); !errors.Is(err, ErrChatNotFound) {
		t.Errorf("expected ErrChatNotFound, got %v", err)
	}
}

func TestChatService_RefreshDuringSendKeepsUserMessage(t *testing.T) {
	backend := &stubChatBackend{
		chats:   []models.Chat{{ChatID: 1, Messages: []models.Message{{Role: models.RoleSystem, Content: "sys"}}}},
		release: make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	svc := NewChatService(backend)
	svc.Refresh(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Send(context.Background(), "hello")
		done <- err
	}()

	select {
	case <-backend.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("send never reached the backend")
	}

	// The backend has not stored the message yet.
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	sel, _ := svc.Selected()
	if len(sel.Messages) != 2 || sel.Messages[1].Status != models.StatusPending {
		t.Fatalf("expected pending message kept across refresh, got %+v", sel.Messages)
	}

	backend.release <- struct{}{}
	if err := <-done; err != nil {
		t.Fatalf("send failed: %v", err)
	}

	sel, _ = svc.Selected()
	want := []struct {
		role    models.Role
		content string
	}{
		{models.RoleSystem, "sys"},
		{models.RoleUser, "hello"},
		{models.RoleAssistant, "reply to hello"},
	}
	if len(sel.Messages) != len(want) {
		t.Fatalf("expected %d messages, got %+v", len(want), sel.Messages)
	}
	for i, w := range want {
		m := sel.Messages[i]
		if m.Role != w.role || m.Content != w.content || m.Status != models.StatusConfirmed {
			t.Errorf("message %d: expected confirmed %s %q, got %+v", i, w.role, w.content, m)
		}
	}
}

func TestChatService_RefreshKeepsFailedMessages(t *testing.T) {
	backend := &stubChatBackend{chats: threeChats(), sendErr: errors.New("503")}
	svc := NewChatService(backend)
	svc.Refresh(context.Background())
	svc.Send(context.Background(), "lost?")

	svc.Refresh(context.Background())

	sel, _ := svc.Selected()
	if len(sel.Messages) != 1 || sel.Messages[0].Status != models.StatusFailed {
		t.Fatalf("expected failed message kept, got %+v", sel.Messages)
	}
	backend.sendErr = nil
	if _, err := svc.Retry(context.Background()); err != nil {
		t.Errorf("expected retry after refresh to succeed, got %v", err)
	}
}
