package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"fittrack-client/internal/models"
)

func (c *Client) ListChats(ctx context.Context) ([]models.Chat, error) {
	token, username, err := c.subject(ctx)
	if err != nil {
		return nil, err
	}

	var chats []models.Chat
	err = c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/v1/chats/" + url.PathEscape(username),
		token:  token,
	}, &chats)
	if err != nil {
		return nil, err
	}
	return chats, nil
}

func (c *Client) CreateChat(ctx context.Context) (*models.Chat, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var chat models.Chat
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/v1/chats", token: token}, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// SendChatMessage posts a user message and returns the assistant's reply.
func (c *Client) SendChatMessage(ctx context.Context, chatID int64, msg models.Message) (*models.Message, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var reply models.Message
	err = c.do(ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/v1/chats/%d", chatID),
		token:  token,
		body:   msg,
	}, &reply)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *Client) DeleteChat(ctx context.Context, chatID int64) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/api/v1/chats/%d", chatID),
		token:  token,
	}, nil)
}

// Complete submits a whole conversation to the stateless completion
// endpoint. The endpoint takes no credentials.
func (c *Client) Complete(ctx context.Context, req models.CompletionRequest) (*models.CompletionResponse, error) {
	var resp models.CompletionResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/chat-gpt", body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
